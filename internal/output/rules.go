package output

import (
	"encoding/json"
	"io"

	"github.com/phyten/jcomment/internal/rules"
	"github.com/phyten/jcomment/internal/termcolor"
	"github.com/phyten/jcomment/internal/textutil"
)

var ruleHeaders = []string{"ID", "NAME", "DEFAULT", "DEPRECATED", "TITLE"}

// RuleInfo はルール一覧の 1 行です。
type RuleInfo struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Default    bool     `json:"default"`
	Deprecated bool     `json:"deprecated"`
	ReplacedBy []string `json:"replaced_by,omitempty"`
}

func ruleInfos(rs []rules.Rule) []RuleInfo {
	out := make([]RuleInfo, len(rs))
	for i, r := range rs {
		out[i] = RuleInfo{
			ID:         r.ID,
			Name:       r.Name,
			Title:      r.Title,
			Default:    r.EnabledByDefault,
			Deprecated: r.Deprecated,
			ReplacedBy: r.ReplacedBy,
		}
	}
	return out
}

// WriteRuleTable はルール一覧を表で書き出します。
func WriteRuleTable(w io.Writer, rs []rules.Rule, opts TableOptions) error {
	rows := make([][]string, len(rs))
	widths := make([]int, len(ruleHeaders))
	for i, h := range ruleHeaders {
		widths[i] = textutil.VisibleWidth(h)
	}
	for i, info := range ruleInfos(rs) {
		def := "off"
		if info.Default {
			def = "on"
		}
		// 置き換え先の一覧は長いので JSON にだけ載せる
		dep := ""
		if info.Deprecated {
			dep = "yes"
		}
		row := []string{info.ID, info.Name, def, dep, info.Title}
		for j, cell := range row {
			if vw := textutil.VisibleWidth(cell); vw > widths[j] {
				widths[j] = vw
			}
		}
		rows[i] = row
	}

	header := termcolor.HeaderStyle()
	if err := writeRow(w, ruleHeaders, columns{widths: widths}, func(int, string) termcolor.Style { return header }, opts.Color); err != nil {
		return err
	}
	for _, row := range rows {
		styleOf := func(col int, cell string) termcolor.Style {
			switch {
			case col == 0:
				return termcolor.RuleStyle()
			case col == 3 && cell != "":
				return termcolor.SeverityStyle(string(rules.SeverityWarning), opts.Scheme, opts.Profile)
			}
			return termcolor.Style{}
		}
		if err := writeRow(w, row, columns{widths: widths}, styleOf, opts.Color); err != nil {
			return err
		}
	}
	return nil
}

// WriteRuleJSON はルール一覧を JSON 配列で書き出します。
func WriteRuleJSON(w io.Writer, rs []rules.Rule) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(ruleInfos(rs))
}
