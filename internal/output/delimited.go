package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/phyten/jcomment/internal/engine"
)

// rowSink は区切り形式ごとの差分です。header は先頭で 1 度だけ呼ばれます。
type rowSink interface {
	header(fields []Field) error
	row(cells []string) error
	close() error
}

func writeRows(sink rowSink, diags []engine.Diagnostic, sel FieldSelection) error {
	if err := sink.header(sel.Fields); err != nil {
		return err
	}
	for _, d := range diags {
		if err := sink.row(RowValues(d, sel.Fields)); err != nil {
			return err
		}
	}
	return sink.close()
}

// WriteTSV はヘッダ付きのタブ区切りで書き出します。値の中のタブ・改行は空白にします。
func WriteTSV(w io.Writer, diags []engine.Diagnostic, sel FieldSelection) error {
	return writeRows(tsvSink{w}, diags, sel)
}

// WriteCSV は RFC 4180 の CSV（改行は CRLF）で書き出します。
func WriteCSV(w io.Writer, diags []engine.Diagnostic, sel FieldSelection) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return writeRows(csvSink{cw}, diags, sel)
}

// WriteMarkdownTable は GFM の表で書き出します。行・桁の列は右寄せです。
func WriteMarkdownTable(w io.Writer, diags []engine.Diagnostic, sel FieldSelection) error {
	return writeRows(markdownSink{w}, diags, sel)
}

type tsvSink struct{ w io.Writer }

func (s tsvSink) header(fields []Field) error { return s.line(Headers(fields)) }

func (s tsvSink) row(cells []string) error {
	for i := range cells {
		cells[i] = flattenCell(cells[i])
	}
	return s.line(cells)
}

func (s tsvSink) line(cells []string) error {
	_, err := io.WriteString(s.w, strings.Join(cells, "\t")+"\n")
	return err
}

func (tsvSink) close() error { return nil }

type csvSink struct{ w *csv.Writer }

func (s csvSink) header(fields []Field) error { return s.w.Write(Headers(fields)) }
func (s csvSink) row(cells []string) error    { return s.w.Write(cells) }

func (s csvSink) close() error {
	s.w.Flush()
	return s.w.Error()
}

type markdownSink struct{ w io.Writer }

func (s markdownSink) header(fields []Field) error {
	if err := s.line(Headers(fields)); err != nil {
		return err
	}
	align := make([]string, len(fields))
	for i, f := range fields {
		align[i] = "---"
		if numericField(f.Key) {
			align[i] = "--:"
		}
	}
	return s.line(align)
}

func (s markdownSink) row(cells []string) error {
	for i := range cells {
		cells[i] = escapeMarkdownCell(cells[i])
	}
	return s.line(cells)
}

func (s markdownSink) line(cells []string) error {
	_, err := fmt.Fprintf(s.w, "| %s |\n", strings.Join(cells, " | "))
	return err
}

func (markdownSink) close() error { return nil }

func numericField(key string) bool { return key == "line" || key == "col" }

var markdownEscaper = strings.NewReplacer(
	"\r\n", "<br>",
	"\r", "",
	"\n", "<br>",
	"|", `\|`,
	"`", "\\`",
)

func escapeMarkdownCell(s string) string {
	return markdownEscaper.Replace(s)
}
