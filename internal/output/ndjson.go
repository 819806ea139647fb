package output

import (
	"encoding/json"
	"io"

	"github.com/phyten/jcomment/internal/engine"
)

// WriteNDJSON streams diagnostics as newline-delimited JSON objects.
// ファイル単位のエラーは "error" キーを持つ行として診断の後ろに続きます。
func WriteNDJSON(w io.Writer, res *engine.Result) error {
	if res == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, d := range res.Diagnostics {
		if err := enc.Encode(d); err != nil {
			return err
		}
	}
	for _, e := range res.Errors {
		if err := enc.Encode(struct {
			Error engine.ItemError `json:"error"`
		}{e}); err != nil {
			return err
		}
	}
	return nil
}
