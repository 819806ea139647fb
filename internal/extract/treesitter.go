package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/phyten/jcomment/internal/model"
)

var grammars = map[string]func() *sitter.Language{
	"go":         golang.GetLanguage,
	"csharp":     csharp.GetLanguage,
	"java":       java.GetLanguage,
	"javascript": javascript.GetLanguage,
	"typescript": typescript.GetLanguage,
	"python":     python.GetLanguage,
	"rust":       rust.GetLanguage,
}

// 各文法でコメントを表すノード種別
var commentNodeTypes = map[string]struct{}{
	"comment":       {},
	"line_comment":  {},
	"block_comment": {},
}

func hasGrammar(lang string) bool {
	_, ok := grammars[lang]
	return ok
}

func grammarFor(path, lang string) *sitter.Language {
	if lang == "typescript" && strings.EqualFold(filepath.Ext(path), ".tsx") {
		return tsx.GetLanguage()
	}
	if get, ok := grammars[lang]; ok {
		return get()
	}
	return nil
}

// parseComments は tree-sitter で構文木を作り、コメントノードを文書順に集めます。
// 構文エラーを含む木の場合 partial が true になります。
// sitter.Parser はゴルーチン安全ではないため、呼び出しごとに作り直します。
func parseComments(ctx context.Context, src Source) (comments []model.Comment, partial bool, err error) {
	language := grammarFor(src.Path, src.Lang)
	if language == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrUnsupported, src.Lang)
	}
	style, _ := styleForLanguage(src.Lang)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(language)
	tree, err := parser.ParseCtx(ctx, nil, src.Data)
	if err != nil {
		return nil, false, fmt.Errorf("tree-sitter parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if _, ok := commentNodeTypes[n.Type()]; ok {
			raw := n.Content(src.Data)
			text, kind := stripDelimiters(raw, style)
			start, end := n.StartPoint(), n.EndPoint()
			comments = append(comments, model.Comment{
				Text: text,
				Kind: kind,
				Lang: src.Lang,
				Location: model.Location{
					File: src.Path,
					Span: model.Span{
						StartLine: int(start.Row) + 1,
						StartCol:  int(start.Column) + 1,
						EndLine:   int(end.Row) + 1,
						EndCol:    int(end.Column) + 1,
						ByteStart: int(n.StartByte()),
						ByteEnd:   int(n.EndByte()),
					},
				},
			})
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return comments, root.HasError(), nil
}
