package output

import (
	"encoding/json"
	"io"

	"github.com/phyten/jcomment/internal/engine"
)

// WriteJSON は Result 全体を 1 つの JSON オブジェクトとして書き出します。
func WriteJSON(w io.Writer, res *engine.Result) error {
	if res == nil {
		res = &engine.Result{}
	}
	out := *res
	if out.Diagnostics == nil {
		out.Diagnostics = []engine.Diagnostic{}
	}
	if out.Counts == nil {
		out.Counts = map[string]int{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
