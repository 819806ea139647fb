package engine

import (
	"strings"
	"unicode"

	"github.com/phyten/jcomment/internal/rules"
)

const suppressDirective = "jcomment:ignore"

// suppression はコメント内の "jcomment:ignore [id...]" 指示です。
// ルールを列挙しなければ、そのコメントのすべての診断を抑止します。
type suppression struct {
	all bool
	ids map[string]struct{}
}

// parseSuppression は指示の後ろにあるルール id／名前を、ルールとして解決できない語が現れるまで読み取ります。
// 例: "jcomment:ignore SAJ0002, wide-space 全角で書く必要がある"
func parseSuppression(text string) (suppression, bool) {
	idx := strings.Index(text, suppressDirective)
	if idx < 0 {
		return suppression{}, false
	}
	rest := text[idx+len(suppressDirective):]
	if rest != "" && !startsWithSeparator(rest) {
		// jcomment:ignored など別の語
		return suppression{}, false
	}
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	s := suppression{}
	for _, f := range fields {
		r, ok := rules.Lookup(f)
		if !ok {
			break
		}
		if s.ids == nil {
			s.ids = make(map[string]struct{})
		}
		s.ids[r.ID] = struct{}{}
	}
	s.all = len(s.ids) == 0
	return s, true
}

func startsWithSeparator(s string) bool {
	for _, r := range s {
		return r == ',' || r == ':' || unicode.IsSpace(r) || r == '*' || r == '-'
	}
	return true
}

func (s suppression) covers(id string) bool {
	if s.all {
		return true
	}
	_, ok := s.ids[id]
	return ok
}
