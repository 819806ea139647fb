// Package extract はソースファイルからコメントを取り出し、コメント記号を除いた本文と位置を返します。
//
// 抽出方法は 2 種類あります。
//   - style: 言語ごとの行／ブロックコメント記法に従う字句スキャナ。文字列リテラルは読み飛ばします。
//   - parse: tree-sitter による構文解析。文法が組み込まれている言語のみ対応します。
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/phyten/jcomment/internal/model"
)

// Mode はコメントの抽出方法です。
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeParse Mode = "parse"
	ModeStyle Mode = "style"
)

// ErrUnsupported は言語にコメント記法も文法も登録されていない場合に返ります。
var ErrUnsupported = errors.New("unsupported language")

// ParseMode は --detect の値を解釈します。"regex" は style の別名です。
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeParse:
		return ModeParse, nil
	case ModeStyle, "regex":
		return ModeStyle, nil
	default:
		return "", fmt.Errorf("invalid detect mode: %s", raw)
	}
}

// Source は抽出対象の 1 ファイルです。Lang は detect.NormalizeLangName 済みの名前を想定します。
type Source struct {
	Path string
	Lang string
	Data []byte
}

// Supported reports whether Comments can handle lang under mode.
func Supported(lang string, mode Mode) bool {
	_, hasStyle := styleForLanguage(lang)
	switch mode {
	case ModeParse:
		return hasGrammar(lang)
	case ModeStyle:
		return hasStyle
	default:
		return hasStyle || hasGrammar(lang)
	}
}

// Comments はファイル内のコメントを出現順に返します。
//
// auto では文法があれば tree-sitter を使い、解析に失敗したか構文エラーを含む場合は
// style スキャナに切り替えます。
func Comments(ctx context.Context, src Source, mode Mode) ([]model.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !Supported(src.Lang, mode) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, src.Lang)
	}
	switch mode {
	case ModeParse:
		comments, _, err := parseComments(ctx, src)
		return comments, err
	case ModeStyle:
		return styleComments(src), nil
	}
	if hasGrammar(src.Lang) {
		comments, partial, err := parseComments(ctx, src)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
		} else if !partial {
			return comments, nil
		}
		if _, ok := styleForLanguage(src.Lang); !ok {
			return comments, err
		}
	}
	return styleComments(src), nil
}

func styleComments(src Source) []model.Comment {
	style, ok := styleForLanguage(src.Lang)
	if !ok || len(src.Data) == 0 {
		return nil
	}
	raws := scanWithStyle(src.Data, style)
	if len(raws) == 0 {
		return nil
	}
	offsets := computeLineOffsets(src.Data)
	out := make([]model.Comment, 0, len(raws))
	for _, rc := range raws {
		text, kind := stripDelimiters(string(src.Data[rc.start:rc.end]), style)
		out = append(out, model.Comment{
			Text: text,
			Kind: kind,
			Lang: src.Lang,
			Location: model.Location{
				File: src.Path,
				Span: spanFromRange(rc.start, rc.end, offsets),
			},
		})
	}
	return out
}
