// Package output は engine.Result を各出力形式で書き出します。
package output

import (
	"fmt"
	"io"

	"github.com/phyten/jcomment/internal/engine"
)

// Options は Write に渡す出力設定です。Format は opts.NormalizeOutput 済みの値を想定しています。
type Options struct {
	Format      string
	Fields      FieldSelection
	Table       TableOptions
	Summary     bool
	ToolVersion string
	Provenance  *Provenance
}

// Write は Format に応じた writer に振り分けます。
func Write(w io.Writer, res *engine.Result, opts Options) error {
	if res == nil {
		res = &engine.Result{}
	}
	fields := opts.Fields
	if len(fields.Fields) == 0 {
		fields, _ = ResolveFields("", false)
	}
	switch opts.Format {
	case "", "table":
		if err := WriteTable(w, res.Diagnostics, fields, opts.Table); err != nil {
			return err
		}
		if opts.Summary {
			return WriteSummary(w, res)
		}
		return nil
	case "tsv":
		return WriteTSV(w, res.Diagnostics, fields)
	case "csv":
		return WriteCSV(w, res.Diagnostics, fields)
	case "markdown":
		return WriteMarkdownTable(w, res.Diagnostics, fields)
	case "json":
		return WriteJSON(w, res)
	case "ndjson":
		return WriteNDJSON(w, res)
	case "sarif":
		return WriteSARIF(w, res, opts.ToolVersion, opts.Provenance)
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}
