package rules

import (
	"strings"

	"github.com/phyten/jcomment/internal/charclass"
)

// Rule is one independently toggleable character-class check.
// Rules are created once at package init and never mutated.
type Rule struct {
	ID               string
	Name             string
	Title            string
	Match            func(rune) bool
	EnabledByDefault bool
	Deprecated       bool
	ReplacedBy       []string
}

// Message returns the diagnostic text reported for the rule.
func (r Rule) Message() string {
	return r.Title
}

// Rule ids are a public compatibility surface: append only, never reuse an id
// for a different predicate, keep deprecated ids registered.
const (
	IDNarrowKana          = "SAJ0001"
	IDWideAlphabet        = "SAJ0002"
	IDWideNumeric         = "SAJ0003"
	IDWideSpace           = "SAJ0004"
	IDWideASCII           = "SAJ0005"
	IDWideSingleQuotation = "SAJ0006"
	IDWideDoubleQuotation = "SAJ0007"
	IDWideExclamation     = "SAJ0008"
	IDWideSharp           = "SAJ0009"
	IDWideDollar          = "SAJ0010"
	IDWidePercent         = "SAJ0011"
	IDWideAmpersand       = "SAJ0012"
	IDWideParenthesis     = "SAJ0013"
	IDWideAsterisk        = "SAJ0014"
	IDWidePlus            = "SAJ0015"
	IDWideComma           = "SAJ0016"
	IDWideHyphen          = "SAJ0017"
	IDWideDot             = "SAJ0018"
	IDWideSlash           = "SAJ0019"
	IDWideColon           = "SAJ0020"
	IDWideSemicolon       = "SAJ0021"
	IDWideLessThan        = "SAJ0022"
	IDWideEquals          = "SAJ0023"
	IDWideGreaterThan     = "SAJ0024"
	IDWideQuestion        = "SAJ0025"
	IDWideAtMark          = "SAJ0026"
	IDWideSquareBracket   = "SAJ0027"
	IDWideCurlyBracket    = "SAJ0028"
	IDWideYen             = "SAJ0029"
)

var registry = []Rule{
	{ID: IDNarrowKana, Name: "narrow-kana", Title: "Kana character in comment should be wide", Match: charclass.IsNarrowKana, EnabledByDefault: true},
	{ID: IDWideAlphabet, Name: "wide-alphabet", Title: "Alphabet character in comment should be narrow", Match: charclass.IsWideAlphabet, EnabledByDefault: true},
	{ID: IDWideNumeric, Name: "wide-numeric", Title: "Numeric character in comment should be narrow", Match: charclass.IsWideNumeric, EnabledByDefault: true},
	{ID: IDWideSpace, Name: "wide-space", Title: "Space character in comment should be narrow", Match: charclass.IsWideSpace, EnabledByDefault: true},
	{
		ID:         IDWideASCII,
		Name:       "wide-ascii",
		Title:      "ASCII character in comment should be narrow",
		Match:      charclass.IsWideASCII,
		Deprecated: true,
		ReplacedBy: []string{
			IDWideSingleQuotation, IDWideDoubleQuotation, IDWideExclamation, IDWideSharp,
			IDWideDollar, IDWidePercent, IDWideAmpersand, IDWideParenthesis, IDWideAsterisk,
			IDWidePlus, IDWideComma, IDWideHyphen, IDWideDot, IDWideSlash, IDWideColon,
			IDWideSemicolon, IDWideLessThan, IDWideEquals, IDWideGreaterThan, IDWideQuestion,
			IDWideAtMark, IDWideSquareBracket, IDWideCurlyBracket, IDWideYen,
		},
	},
	{ID: IDWideSingleQuotation, Name: "wide-single-quotation", Title: "Single quotation in comment should be narrow", Match: charclass.IsWideSingleQuotation, EnabledByDefault: true},
	{ID: IDWideDoubleQuotation, Name: "wide-double-quotation", Title: "Double quotation in comment should be narrow", Match: charclass.IsWideDoubleQuotation, EnabledByDefault: true},
	{ID: IDWideExclamation, Name: "wide-exclamation", Title: "Exclamation mark in comment should be narrow", Match: charclass.IsWideExclamation},
	{ID: IDWideSharp, Name: "wide-sharp", Title: "Sharp sign in comment should be narrow", Match: charclass.IsWideSharp, EnabledByDefault: true},
	{ID: IDWideDollar, Name: "wide-dollar", Title: "Dollar sign in comment should be narrow", Match: charclass.IsWideDollar, EnabledByDefault: true},
	{ID: IDWidePercent, Name: "wide-percent", Title: "Percent sign in comment should be narrow", Match: charclass.IsWidePercent, EnabledByDefault: true},
	{ID: IDWideAmpersand, Name: "wide-ampersand", Title: "Ampersand in comment should be narrow", Match: charclass.IsWideAmpersand},
	{ID: IDWideParenthesis, Name: "wide-parenthesis", Title: "Parenthesis in comment should be narrow", Match: charclass.IsWideParenthesis, EnabledByDefault: true},
	{ID: IDWideAsterisk, Name: "wide-asterisk", Title: "Asterisk in comment should be narrow", Match: charclass.IsWideAsterisk, EnabledByDefault: true},
	{ID: IDWidePlus, Name: "wide-plus", Title: "Plus sign in comment should be narrow", Match: charclass.IsWidePlus, EnabledByDefault: true},
	{ID: IDWideComma, Name: "wide-comma", Title: "Comma in comment should be narrow", Match: charclass.IsWideComma, EnabledByDefault: true},
	{ID: IDWideHyphen, Name: "wide-hyphen", Title: "Hyphen in comment should be narrow", Match: charclass.IsWideHyphen, EnabledByDefault: true},
	{ID: IDWideDot, Name: "wide-dot", Title: "Dot in comment should be narrow", Match: charclass.IsWideDot, EnabledByDefault: true},
	{ID: IDWideSlash, Name: "wide-slash", Title: "Slash in comment should be narrow", Match: charclass.IsWideSlash, EnabledByDefault: true},
	{ID: IDWideColon, Name: "wide-colon", Title: "Colon in comment should be narrow", Match: charclass.IsWideColon, EnabledByDefault: true},
	{ID: IDWideSemicolon, Name: "wide-semicolon", Title: "Semicolon in comment should be narrow", Match: charclass.IsWideSemicolon, EnabledByDefault: true},
	{ID: IDWideLessThan, Name: "wide-less-than", Title: "Less-than sign in comment should be narrow", Match: charclass.IsWideLessThan, EnabledByDefault: true},
	{ID: IDWideEquals, Name: "wide-equals", Title: "Equals sign in comment should be narrow", Match: charclass.IsWideEquals, EnabledByDefault: true},
	{ID: IDWideGreaterThan, Name: "wide-greater-than", Title: "Greater-than sign in comment should be narrow", Match: charclass.IsWideGreaterThan, EnabledByDefault: true},
	{ID: IDWideQuestion, Name: "wide-question", Title: "Question mark in comment should be narrow", Match: charclass.IsWideQuestion},
	{ID: IDWideAtMark, Name: "wide-at-mark", Title: "At mark in comment should be narrow", Match: charclass.IsWideAtMark, EnabledByDefault: true},
	{ID: IDWideSquareBracket, Name: "wide-square-bracket", Title: "Square bracket in comment should be narrow", Match: charclass.IsWideSquareBracket, EnabledByDefault: true},
	{ID: IDWideCurlyBracket, Name: "wide-curly-bracket", Title: "Curly bracket in comment should be narrow", Match: charclass.IsWideCurlyBracket, EnabledByDefault: true},
	{ID: IDWideYen, Name: "wide-yen", Title: "Yen sign in comment should be narrow", Match: charclass.IsWideYen, EnabledByDefault: true},
}

// ruleIndex maps UPPER(id) and UPPER(name) to the registry position.
var ruleIndex = buildIndex()

func buildIndex() map[string]int {
	idx := make(map[string]int, len(registry)*2)
	for i, r := range registry {
		idx[strings.ToUpper(r.ID)] = i
		idx[strings.ToUpper(r.Name)] = i
	}
	return idx
}

// All returns every registered rule in registration order, deprecated ones included.
func All() []Rule {
	out := make([]Rule, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a rule by id or name, case-insensitively.
func Lookup(key string) (Rule, bool) {
	i, ok := ruleIndex[strings.ToUpper(strings.TrimSpace(key))]
	if !ok {
		return Rule{}, false
	}
	return registry[i], true
}

// Position returns the registration index of id, or -1.
func Position(id string) int {
	i, ok := ruleIndex[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return -1
	}
	return i
}

// Defaults returns the rules that are enabled when no settings are given.
func Defaults() []Rule {
	out := make([]Rule, 0, len(registry))
	for _, r := range registry {
		if r.EnabledByDefault {
			out = append(out, r)
		}
	}
	return out
}
