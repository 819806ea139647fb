package termcolor

import (
	"strconv"
	"strings"
)

type colorKind uint8

const (
	colorNone colorKind = iota
	colorBasic
	colorIndexed
	colorRGB
)

// Color は前景色です。ゼロ値は「指定なし」です。
type Color struct {
	kind  colorKind
	index int
	rgb   rgb
}

// Basic は 8 色パレットの番号（0〜7）です。
func Basic(n int) Color { return Color{kind: colorBasic, index: n} }

// Indexed は 256 色パレットの番号です。
func Indexed(n int) Color { return Color{kind: colorIndexed, index: n} }

// RGB は 24bit 色です。
func RGB(r, g, b uint8) Color { return Color{kind: colorRGB, rgb: rgb{r, g, b}} }

// IsZero は色が指定されていないかを返します。
func (c Color) IsZero() bool { return c.kind == colorNone }

func (c Color) sgr() string {
	switch c.kind {
	case colorBasic:
		return "3" + strconv.Itoa(c.index)
	case colorIndexed:
		return "38;5;" + strconv.Itoa(c.index)
	case colorRGB:
		return "38;2;" + strconv.Itoa(int(c.rgb[0])) + ";" + strconv.Itoa(int(c.rgb[1])) + ";" + strconv.Itoa(int(c.rgb[2]))
	}
	return ""
}

type Style struct {
	Bold      bool
	Dim       bool
	Underline bool
	FG        Color
}

// IsPlain は装飾がひとつもないかを返します。
func (s Style) IsPlain() bool {
	return !s.Bold && !s.Dim && !s.Underline && s.FG.IsZero()
}

func (s Style) sgr() string {
	var parts []string
	for _, on := range []struct {
		set  bool
		code string
	}{{s.Bold, "1"}, {s.Dim, "2"}, {s.Underline, "4"}} {
		if on.set {
			parts = append(parts, on.code)
		}
	}
	if code := s.FG.sgr(); code != "" {
		parts = append(parts, code)
	}
	return strings.Join(parts, ";")
}

// Apply は enabled のときだけ text を SGR で囲みます。空文字と装飾なしはそのまま返します。
func Apply(s Style, text string, enabled bool) string {
	if !enabled || text == "" || s.IsPlain() {
		return text
	}
	return "\x1b[" + s.sgr() + "m" + text + "\x1b[0m"
}
