// Package textutil は端末表示幅を意識した文字列操作を提供します。
// 全角文字や結合文字を含むコメント本文を表形式で揃えるために使います。
package textutil

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// CSI と OSC のエスケープシーケンス
var ansiRe = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// StripANSI removes terminal escape sequences.
func StripANSI(s string) string {
	if s == "" || !strings.ContainsRune(s, 0x1b) {
		return s
	}
	return ansiRe.ReplaceAllString(s, "")
}

// VisibleWidth returns the terminal display width of s, ignoring escapes.
func VisibleWidth(s string) int {
	if s == "" {
		return 0
	}
	g := uniseg.NewGraphemes(StripANSI(s))
	width := 0
	for g.Next() {
		width += runewidth.StringWidth(g.Str())
	}
	return width
}

// TruncateByWidth は書記素クラスタを壊さずに s を幅 w に収めます。
// 切り詰めが起きた場合、ellipsis が収まるなら末尾に付けます。
func TruncateByWidth(s string, w int, ellipsis string) string {
	if s == "" || w <= 0 {
		return ""
	}
	if VisibleWidth(s) <= w {
		return s
	}
	var (
		b      strings.Builder
		widths []int
		segs   []string
		used   int
	)
	ellW := runewidth.StringWidth(ellipsis)
	g := uniseg.NewGraphemes(StripANSI(s))
	for g.Next() {
		seg := g.Str()
		segW := runewidth.StringWidth(seg)
		if used+segW > w {
			break
		}
		segs = append(segs, seg)
		widths = append(widths, segW)
		used += segW
	}
	if ellipsis != "" && ellW <= w {
		for len(segs) > 0 && used+ellW > w {
			used -= widths[len(widths)-1]
			segs = segs[:len(segs)-1]
			widths = widths[:len(widths)-1]
		}
	}
	for _, seg := range segs {
		b.WriteString(seg)
	}
	if ellipsis != "" && used+ellW <= w {
		b.WriteString(ellipsis)
	}
	return b.String()
}

// Excerpt はコメント本文を1行にまとめ、幅 w に切り詰めます。
// 連続する空白（改行を含む）は半角スペース1つになりますが、全角スペースはそのまま残します。
func Excerpt(s string, w int) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return TruncateByWidth(b.String(), w, "…")
}

// PadRight pads s on the right with spaces so that the visible width equals w.
func PadRight(s string, w int) string {
	pad := w - VisibleWidth(s)
	if pad <= 0 {
		return s
	}
	return s + strings.Repeat(" ", pad)
}

// PadLeft pads s on the left with spaces so that the visible width equals w.
func PadLeft(s string, w int) string {
	pad := w - VisibleWidth(s)
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
