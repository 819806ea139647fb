package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phyten/jcomment/internal/engine"
)

type Field struct {
	Key    string
	Header string
}

// FieldSelection は表形式（table/tsv/csv/markdown）で出す列です。
type FieldSelection struct {
	Fields      []Field
	ShowExcerpt bool
}

var fieldRegistry = map[string]string{
	"location": "LOCATION",
	"file":     "FILE",
	"line":     "LINE",
	"col":      "COL",
	"severity": "SEVERITY",
	"rule_id":  "RULE",
	"rule":     "NAME",
	"message":  "MESSAGE",
	"lang":     "LANG",
	"kind":     "KIND",
	"excerpt":  "EXCERPT",
	"url":      "URL",
}

var fieldAliases = map[string]string{
	"id":     "rule_id",
	"name":   "rule",
	"column": "col",
	"text":   "excerpt",
	"loc":    "location",
	"link":   "url",
}

// ResolveFields は --fields の値を解決します。空なら既定の列に withExcerpt で抜粋列を加えます。
func ResolveFields(raw string, withExcerpt bool) (FieldSelection, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		keys := []string{"location", "severity", "rule_id", "rule", "message"}
		if withExcerpt {
			keys = append(keys, "excerpt")
		}
		sel := FieldSelection{ShowExcerpt: withExcerpt}
		for _, key := range keys {
			sel.Fields = append(sel.Fields, Field{Key: key, Header: fieldRegistry[key]})
		}
		return sel, nil
	}

	parts := strings.Split(raw, ",")
	sel := FieldSelection{Fields: make([]Field, 0, len(parts))}
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return FieldSelection{}, fmt.Errorf("invalid fields: empty entry")
		}
		key := strings.ReplaceAll(strings.ToLower(name), "-", "_")
		if alias, ok := fieldAliases[key]; ok {
			key = alias
		}
		header, ok := fieldRegistry[key]
		if !ok {
			return FieldSelection{}, fmt.Errorf("unknown field: %s", name)
		}
		sel.Fields = append(sel.Fields, Field{Key: key, Header: header})
		if key == "excerpt" {
			sel.ShowExcerpt = true
		}
	}
	return sel, nil
}

// Has は key の列が選ばれているかを返します。
func (s FieldSelection) Has(key string) bool {
	for _, f := range s.Fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

// Append は key の列を末尾に加えます。既にある列や未知の key では何もしません。
func (s FieldSelection) Append(key string) FieldSelection {
	header, ok := fieldRegistry[key]
	if !ok || s.Has(key) {
		return s
	}
	s.Fields = append(append([]Field{}, s.Fields...), Field{Key: key, Header: header})
	if key == "excerpt" {
		s.ShowExcerpt = true
	}
	return s
}

// Headers はヘッダ行を返します。
func Headers(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Header
	}
	return out
}

// RowValues は d を fields の順に文字列化します。
func RowValues(d engine.Diagnostic, fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = formatFieldValue(d, f.Key)
	}
	return out
}

func formatFieldValue(d engine.Diagnostic, key string) string {
	switch key {
	case "location":
		return fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Col)
	case "file":
		return d.File
	case "line":
		return strconv.Itoa(d.Line)
	case "col":
		return strconv.Itoa(d.Col)
	case "severity":
		return string(d.Severity)
	case "rule_id":
		return d.RuleID
	case "rule":
		return d.Rule
	case "message":
		return d.Message
	case "lang":
		return d.Lang
	case "kind":
		return string(d.CommentKind)
	case "excerpt":
		return d.Excerpt
	case "url":
		return d.URL
	default:
		return ""
	}
}
