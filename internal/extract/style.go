package extract

import (
	"bytes"
	"sort"
	"strings"

	"github.com/phyten/jcomment/internal/model"
)

// rawComment はコメント記号を含む元のバイト範囲 [start, end) です。
type rawComment struct {
	start int
	end   int
}

// scanWithStyle は文字列リテラルを読み飛ばしながらコメントの範囲を先頭から順に集めます。
// 閉じられていないブロックコメントはファイル末尾までをコメントとみなします。
func scanWithStyle(data []byte, style commentStyle) []rawComment {
	var out []rawComment
	n := len(data)
	lineStart := true
	prevSpace := true
	i := 0
	for i < n {
		c := data[i]
		if c == '\n' {
			lineStart = true
			prevSpace = true
			i++
			continue
		}

		if block, ok := matchBlock(data[i:], style, lineStart); ok {
			bodyStart := i + len(block.start)
			stop := n
			if idx := bytes.Index(data[bodyStart:], []byte(block.end)); idx >= 0 {
				stop = bodyStart + idx + len(block.end)
			}
			if block.comment {
				out = append(out, rawComment{start: i, end: stop})
			}
			i = stop
			lineStart = false
			prevSpace = false
			continue
		}

		if prefix := matchLinePrefix(data[i:], style, lineStart, prevSpace); prefix != "" {
			eol := bytes.IndexByte(data[i:], '\n')
			stop := n
			if eol >= 0 {
				stop = i + eol
			}
			end := stop
			if end > i && data[end-1] == '\r' {
				end--
			}
			out = append(out, rawComment{start: i, end: end})
			i = stop
			continue
		}

		if delim := matchDelim(data[i:], style); delim != "" {
			i = skipString(data, i+len(delim), delim)
			lineStart = false
			prevSpace = false
			continue
		}

		space := c == ' ' || c == '\t' || c == '\r'
		if !space {
			lineStart = false
		}
		prevSpace = space
		i++
	}
	return out
}

func matchBlock(rest []byte, style commentStyle, lineStart bool) (blockPattern, bool) {
	for _, block := range style.block {
		if block.lineStartOnly && !lineStart {
			continue
		}
		if bytes.HasPrefix(rest, []byte(block.start)) {
			return block, true
		}
	}
	return blockPattern{}, false
}

func matchLinePrefix(rest []byte, style commentStyle, lineStart, prevSpace bool) string {
	if style.lineStartOnly && !lineStart {
		return ""
	}
	if style.wordStart && !prevSpace {
		return ""
	}
	for _, prefix := range style.linePrefixes {
		if bytes.HasPrefix(rest, []byte(prefix)) {
			return prefix
		}
	}
	return ""
}

func matchDelim(rest []byte, style commentStyle) string {
	for _, delim := range style.stringDelims {
		if bytes.HasPrefix(rest, []byte(delim)) {
			return delim
		}
	}
	return ""
}

// skipString は閉じ引用符の直後の位置を返します。単一行の文字列は改行で打ち切ります。
func skipString(data []byte, from int, delim string) int {
	n := len(data)
	j := from
	for j < n {
		switch {
		case data[j] == '\\':
			j += 2
			continue
		case data[j] == '\n':
			return j
		case bytes.HasPrefix(data[j:], []byte(delim)):
			return j + len(delim)
		}
		j++
	}
	return n
}

// stripDelimiters はコメント記号を取り除いた本文と種別を返します。
// 行コメントは記号の連続（//, ///, ##, -- など）をまとめて取り除きます。
func stripDelimiters(raw string, style commentStyle) (string, model.CommentKind) {
	for _, block := range style.block {
		if !block.comment || !strings.HasPrefix(raw, block.start) {
			continue
		}
		inner := strings.TrimSuffix(raw[len(block.start):], block.end)
		kind := model.CommentKindBlock
		if block.start == "/*" && strings.HasPrefix(inner, "*") && len(inner) > 1 {
			kind = model.CommentKindDoc
		}
		return inner, kind
	}
	for _, prefix := range style.linePrefixes {
		if !strings.HasPrefix(raw, prefix) {
			continue
		}
		rest := raw[len(prefix):]
		kind := model.CommentKindLine
		if prefix == "//" && (strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, "!")) {
			kind = model.CommentKindDoc
		}
		if repeated(prefix) {
			rest = strings.TrimLeft(rest, prefix[:1])
		}
		return strings.TrimRight(rest, "\r\n"), kind
	}
	return raw, model.CommentKindUnknown
}

func repeated(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return s != ""
}

// computeLineOffsets は各行の先頭バイト位置を返します。
func computeLineOffsets(data []byte) []int {
	offsets := make([]int, 0, bytes.Count(data, []byte{'\n'})+1)
	offsets = append(offsets, 0)
	for i, b := range data {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

func lineColFromOffset(offset int, lineOffsets []int) (line, col int) {
	idx := sort.Search(len(lineOffsets), func(i int) bool { return lineOffsets[i] > offset })
	if idx == 0 {
		return 1, offset + 1
	}
	return idx, offset - lineOffsets[idx-1] + 1
}

func spanFromRange(start, end int, lineOffsets []int) model.Span {
	line, col := lineColFromOffset(start, lineOffsets)
	endLine, endCol := lineColFromOffset(end, lineOffsets)
	return model.Span{
		StartLine: line,
		StartCol:  col,
		EndLine:   endLine,
		EndCol:    endCol,
		ByteStart: start,
		ByteEnd:   end,
	}
}
