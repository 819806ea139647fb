package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/phyten/jcomment/internal/engine"
	"github.com/phyten/jcomment/internal/termcolor"
	"github.com/phyten/jcomment/internal/textutil"
)

const columnGap = "  "

// TableOptions は端末向けの表の装飾です。
type TableOptions struct {
	Color   bool
	Scheme  termcolor.Scheme
	Profile termcolor.Profile
}

// WriteTable は表示幅で桁をそろえた表を書き出します。全角文字を含んでも列がずれません。
// 最後の列は埋めず、行末に空白を残しません。
func WriteTable(w io.Writer, diags []engine.Diagnostic, sel FieldSelection, opts TableOptions) error {
	headers := Headers(sel.Fields)
	rows := make([][]string, len(diags))
	widths := make([]int, len(headers))
	cols := columns{widths: widths, right: make([]bool, len(headers))}
	for i, h := range headers {
		widths[i] = textutil.VisibleWidth(h)
		cols.right[i] = numericField(sel.Fields[i].Key)
	}
	for i, d := range diags {
		row := RowValues(d, sel.Fields)
		for j := range row {
			row[j] = flattenCell(row[j])
			if vw := textutil.VisibleWidth(row[j]); vw > widths[j] {
				widths[j] = vw
			}
		}
		rows[i] = row
	}

	header := termcolor.HeaderStyle()
	if err := writeRow(w, headers, cols, func(int, string) termcolor.Style { return header }, opts.Color); err != nil {
		return err
	}
	for i, row := range rows {
		d := diags[i]
		styleOf := func(col int, _ string) termcolor.Style {
			switch sel.Fields[col].Key {
			case "severity":
				return termcolor.SeverityStyle(string(d.Severity), opts.Scheme, opts.Profile)
			case "location", "file":
				return termcolor.PathStyle(opts.Scheme, opts.Profile)
			case "rule_id":
				return termcolor.RuleStyle()
			}
			return termcolor.Style{}
		}
		if err := writeRow(w, row, cols, styleOf, opts.Color); err != nil {
			return err
		}
	}
	return nil
}

// columns は列ごとの表示幅と寄せ方です。right が nil なら全列左寄せです。
type columns struct {
	widths []int
	right  []bool
}

func (c columns) alignRight(i int) bool { return i < len(c.right) && c.right[i] }

func writeRow(w io.Writer, cells []string, cols columns, styleOf func(int, string) termcolor.Style, color bool) error {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(columnGap)
		}
		// 色は値の部分だけに付け、埋め草の空白には付けない
		styled := termcolor.Apply(styleOf(i, cell), cell, color)
		switch {
		case cols.alignRight(i):
			padded := textutil.PadLeft(cell, cols.widths[i])
			b.WriteString(padded[:len(padded)-len(cell)])
			b.WriteString(styled)
		case i < len(cells)-1:
			b.WriteString(styled)
			b.WriteString(textutil.PadRight(cell, cols.widths[i])[len(cell):])
		default:
			b.WriteString(styled)
		}
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	return err
}

// WriteSummary は表の後ろに付ける集計行です。
func WriteSummary(w io.Writer, res *engine.Result) error {
	if res == nil {
		return nil
	}
	_, err := fmt.Fprintf(w, "\n%d diagnostics in %d files (%d comments scanned, %d suppressed, %d errors)\n",
		res.Total, res.Files, res.Comments, res.Suppressed, res.ErrorCount)
	return err
}

func flattenCell(s string) string {
	if !strings.ContainsAny(s, "\t\r\n") {
		return s
	}
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", "\t", " ").Replace(s)
}
