package output

import (
	"cmp"
	"fmt"
	"sort"
	"strings"

	"github.com/phyten/jcomment/internal/engine"
	"github.com/phyten/jcomment/internal/rules"
)

type SortKey struct {
	Name string
	Desc bool
}

type SortSpec struct {
	Keys []SortKey
}

type compareFunc func(a, b *engine.Diagnostic) int

var sortComparators = map[string]compareFunc{
	"file":     func(a, b *engine.Diagnostic) int { return strings.Compare(a.File, b.File) },
	"line":     func(a, b *engine.Diagnostic) int { return cmp.Compare(a.Line, b.Line) },
	"col":      func(a, b *engine.Diagnostic) int { return cmp.Compare(a.Col, b.Col) },
	"rule":     func(a, b *engine.Diagnostic) int { return cmp.Compare(rules.Position(a.RuleID), rules.Position(b.RuleID)) },
	"severity": func(a, b *engine.Diagnostic) int { return cmp.Compare(b.Severity.Rank(), a.Severity.Rank()) },
	"lang":     func(a, b *engine.Diagnostic) int { return strings.Compare(a.Lang, b.Lang) },
}

// ParseSortSpec は "-severity,file" のような指定を解釈します。先頭の "-" で降順です。
// severity の昇順は重いものが先です。
func ParseSortSpec(raw string) (SortSpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SortSpec{}, nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]SortKey, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			return SortSpec{}, fmt.Errorf("invalid sort key: empty segment")
		}
		desc := false
		switch token[0] {
		case '+':
			token = token[1:]
		case '-':
			desc = true
			token = token[1:]
		}
		name := strings.ToLower(strings.TrimSpace(token))
		switch name {
		case "":
			return SortSpec{}, fmt.Errorf("invalid sort key: sign without name")
		case "location":
			keys = append(keys, SortKey{Name: "file", Desc: desc}, SortKey{Name: "line", Desc: desc}, SortKey{Name: "col", Desc: desc})
			continue
		case "rule_id", "id":
			name = "rule"
		case "column":
			name = "col"
		}
		if _, ok := sortComparators[name]; !ok {
			return SortSpec{}, fmt.Errorf("invalid sort key: %s", token)
		}
		keys = append(keys, SortKey{Name: name, Desc: desc})
	}
	return SortSpec{Keys: keys}, nil
}

// ApplySort は spec のキーで安定ソートし、同順位は位置とルール順で決めます。
func ApplySort(diags []engine.Diagnostic, spec SortSpec) {
	if len(spec.Keys) == 0 {
		return
	}
	keys := append(append([]SortKey{}, spec.Keys...),
		SortKey{Name: "file"}, SortKey{Name: "line"}, SortKey{Name: "col"}, SortKey{Name: "rule"})
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := &diags[i], &diags[j]
		for _, key := range keys {
			c := sortComparators[key.Name](a, b)
			if c == 0 {
				continue
			}
			if key.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}
