package extract

// commentStyle は言語ごとのコメント記法です。
// lineStartOnly は行コメントを行頭（空白を除く）に限定し、wordStart は記号の直前が空白か行頭であることを求めます（$# などを除外）。
type commentStyle struct {
	linePrefixes  []string
	block         []blockPattern
	stringDelims  []string
	lineStartOnly bool
	wordStart     bool
}

// blockPattern の lineStartOnly は開始記号が行頭（空白を除く）にある場合だけ認識します。
// comment が false のものは文字列として読み飛ばすだけです。
type blockPattern struct {
	start         string
	end           string
	comment       bool
	lineStartOnly bool
}

var (
	styleC = commentStyle{
		linePrefixes: []string{"//"},
		block:        []blockPattern{{start: "/*", end: "*/", comment: true}},
		stringDelims: []string{"\"", "'"},
	}
	styleCSharp = commentStyle{
		linePrefixes: []string{"//"},
		block:        []blockPattern{{start: "/*", end: "*/", comment: true}, {start: "@\"", end: "\""}, {start: "\"\"\"", end: "\"\"\""}},
		stringDelims: []string{"\"", "'"},
	}
	styleGo = commentStyle{
		linePrefixes: []string{"//"},
		block:        []blockPattern{{start: "/*", end: "*/", comment: true}, {start: "`", end: "`"}},
		stringDelims: []string{"\"", "'"},
	}
	// 正規表現リテラルは解釈しないため、/'/ のように引用符を含むと行末までを文字列とみなし、
	// 同じ行の後続コメントを見落とします。auto では tree-sitter が使われるので起きません。
	styleJS = commentStyle{
		linePrefixes: []string{"//"},
		block:        []blockPattern{{start: "/*", end: "*/", comment: true}, {start: "`", end: "`"}},
		stringDelims: []string{"\"", "'"},
	}
	styleSwift = commentStyle{
		linePrefixes: []string{"//"},
		block:        []blockPattern{{start: "/*", end: "*/", comment: true}, {start: "\"\"\"", end: "\"\"\""}},
		stringDelims: []string{"\""},
	}
	// Kotlin と Scala は '"' のような文字リテラルがあるので ' も文字列として読み飛ばす
	styleKotlin = commentStyle{
		linePrefixes: []string{"//"},
		block:        []blockPattern{{start: "/*", end: "*/", comment: true}, {start: "\"\"\"", end: "\"\"\""}},
		stringDelims: []string{"\"", "'"},
	}
	styleRust = commentStyle{
		linePrefixes: []string{"//"},
		block:        []blockPattern{{start: "/*", end: "*/", comment: true}},
		stringDelims: []string{"\""},
	}
	styleHash = commentStyle{
		linePrefixes: []string{"#"},
		stringDelims: []string{"\"", "'"},
	}
	styleRuby = commentStyle{
		linePrefixes: []string{"#"},
		block:        []blockPattern{{start: "=begin", end: "=end", comment: true, lineStartOnly: true}},
		stringDelims: []string{"\"", "'"},
	}
	stylePython = commentStyle{
		linePrefixes: []string{"#"},
		block:        []blockPattern{{start: "\"\"\"", end: "\"\"\""}, {start: "'''", end: "'''"}},
		stringDelims: []string{"\"", "'"},
	}
	styleBash = commentStyle{
		linePrefixes: []string{"#"},
		stringDelims: []string{"\"", "'", "`"},
		wordStart:    true,
	}
	styleConfig = commentStyle{
		linePrefixes: []string{"#"},
		wordStart:    true,
	}
	styleHTML = commentStyle{
		block: []blockPattern{{start: "<!--", end: "-->", comment: true}},
	}
	styleSQL = commentStyle{
		linePrefixes: []string{"--"},
		block:        []blockPattern{{start: "/*", end: "*/", comment: true}},
		stringDelims: []string{"'"},
	}
	styleCSS = commentStyle{
		block:        []blockPattern{{start: "/*", end: "*/", comment: true}},
		stringDelims: []string{"\"", "'"},
	}
	styleIni = commentStyle{
		linePrefixes:  []string{";", "#"},
		lineStartOnly: true,
	}
	styleHCL = commentStyle{
		linePrefixes: []string{"//", "#"},
		block:        []blockPattern{{start: "/*", end: "*/", comment: true}},
		stringDelims: []string{"\""},
	}
	styleHaskell = commentStyle{
		linePrefixes: []string{"--"},
		block:        []blockPattern{{start: "{-", end: "-}", comment: true}},
		stringDelims: []string{"\""},
	}
	styleLua = commentStyle{
		linePrefixes: []string{"--"},
		block:        []blockPattern{{start: "--[[", end: "]]", comment: true}},
		stringDelims: []string{"\"", "'"},
	}
	stylePowershell = commentStyle{
		linePrefixes: []string{"#"},
		block:        []blockPattern{{start: "<#", end: "#>", comment: true}},
		stringDelims: []string{"\"", "'"},
	}
	styleBatch = commentStyle{
		linePrefixes:  []string{"REM ", "rem ", "::"},
		lineStartOnly: true,
	}
	styleVB = commentStyle{
		linePrefixes: []string{"'"},
		stringDelims: []string{"\""},
	}
	styleFSharp = commentStyle{
		linePrefixes: []string{"//"},
		block:        []blockPattern{{start: "(*", end: "*)", comment: true}},
		stringDelims: []string{"\""},
	}
)

var languageStyleMap = map[string]commentStyle{
	"c":           styleC,
	"cpp":         styleC,
	"objective-c": styleC,
	"csharp":      styleCSharp,
	"go":          styleGo,
	"java":        styleC,
	"kotlin":      styleKotlin,
	"scala":       styleKotlin,
	"groovy":      styleC,
	"swift":       styleSwift,
	"rust":        styleRust,
	"dart":        styleC,
	"zig":         styleRust,
	"proto":       styleC,
	"javascript":  styleJS,
	"typescript":  styleJS,
	"php":         styleJS,
	"python":      stylePython,
	"ruby":        styleRuby,
	"perl":        styleHash,
	"shell":       styleBash,
	"powershell":  stylePowershell,
	"yaml":        styleConfig,
	"toml":        styleConfig,
	"make":        styleConfig,
	"dockerfile":  styleConfig,
	"ini":         styleIni,
	"terraform":   styleHCL,
	"sql":         styleSQL,
	"lua":         styleLua,
	"haskell":     styleHaskell,
	"html":        styleHTML,
	"xml":         styleHTML,
	"css":         styleCSS,
	"vb":          styleVB,
	"fsharp":      styleFSharp,
	"batch":       styleBatch,
}

func styleForLanguage(lang string) (commentStyle, bool) {
	cs, ok := languageStyleMap[lang]
	return cs, ok
}
