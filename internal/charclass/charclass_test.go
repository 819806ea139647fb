package charclass

import "testing"

type predicateRange struct {
	name   string
	fn     func(rune) bool
	ranges [][2]rune
}

var predicates = []predicateRange{
	{"narrow kana", IsNarrowKana, [][2]rune{{0xFF61, 0xFF9F}}},
	{"wide alphabet", IsWideAlphabet, [][2]rune{{0xFF21, 0xFF3A}, {0xFF41, 0xFF5A}}},
	{"wide numeric", IsWideNumeric, [][2]rune{{0xFF10, 0xFF19}}},
	{"wide space", IsWideSpace, [][2]rune{{0x3000, 0x3000}}},
	{"wide single quotation", IsWideSingleQuotation, [][2]rune{{0x2019, 0x2019}}},
	{"wide double quotation", IsWideDoubleQuotation, [][2]rune{{0x201D, 0x201D}}},
	{"wide exclamation", IsWideExclamation, [][2]rune{{0xFF01, 0xFF01}}},
	{"wide sharp", IsWideSharp, [][2]rune{{0xFF03, 0xFF03}}},
	{"wide dollar", IsWideDollar, [][2]rune{{0xFF04, 0xFF04}}},
	{"wide percent", IsWidePercent, [][2]rune{{0xFF05, 0xFF05}}},
	{"wide ampersand", IsWideAmpersand, [][2]rune{{0xFF06, 0xFF06}}},
	{"wide parenthesis", IsWideParenthesis, [][2]rune{{0xFF08, 0xFF09}}},
	{"wide asterisk", IsWideAsterisk, [][2]rune{{0xFF0A, 0xFF0A}}},
	{"wide plus", IsWidePlus, [][2]rune{{0xFF0B, 0xFF0B}}},
	{"wide comma", IsWideComma, [][2]rune{{0xFF0C, 0xFF0C}}},
	{"wide hyphen", IsWideHyphen, [][2]rune{{0xFF0D, 0xFF0D}}},
	{"wide dot", IsWideDot, [][2]rune{{0xFF0E, 0xFF0E}}},
	{"wide slash", IsWideSlash, [][2]rune{{0xFF0F, 0xFF0F}}},
	{"wide colon", IsWideColon, [][2]rune{{0xFF1A, 0xFF1A}}},
	{"wide semicolon", IsWideSemicolon, [][2]rune{{0xFF1B, 0xFF1B}}},
	{"wide less-than", IsWideLessThan, [][2]rune{{0xFF1C, 0xFF1C}}},
	{"wide equals", IsWideEquals, [][2]rune{{0xFF1D, 0xFF1D}}},
	{"wide greater-than", IsWideGreaterThan, [][2]rune{{0xFF1E, 0xFF1E}}},
	{"wide question", IsWideQuestion, [][2]rune{{0xFF1F, 0xFF1F}}},
	{"wide at-mark", IsWideAtMark, [][2]rune{{0xFF20, 0xFF20}}},
	{"wide square bracket", IsWideSquareBracket, [][2]rune{{0xFF3B, 0xFF3B}, {0xFF3D, 0xFF3D}}},
	{"wide curly bracket", IsWideCurlyBracket, [][2]rune{{0xFF5B, 0xFF5B}, {0xFF5D, 0xFF5D}}},
	{"wide yen", IsWideYen, [][2]rune{{0xFFE5, 0xFFE5}}},
}

func inRanges(r rune, ranges [][2]rune) bool {
	for _, rg := range ranges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

func TestPredicateBoundaries(t *testing.T) {
	for _, p := range predicates {
		t.Run(p.name, func(t *testing.T) {
			for _, rg := range p.ranges {
				if !p.fn(rg[0]) {
					t.Fatalf("first code point U+%04X should match", rg[0])
				}
				if !p.fn(rg[1]) {
					t.Fatalf("last code point U+%04X should match", rg[1])
				}
				if below := rg[0] - 1; !inRanges(below, p.ranges) && p.fn(below) {
					t.Fatalf("U+%04X below the range should not match", below)
				}
				if above := rg[1] + 1; !inRanges(above, p.ranges) && p.fn(above) {
					t.Fatalf("U+%04X above the range should not match", above)
				}
			}
		})
	}
}

func TestPredicatesMatchOnlyTheirRanges(t *testing.T) {
	// 全角・半角ブロック周辺を総当たりで確認する
	for r := rune(0x2000); r <= 0x3100; r++ {
		checkAll(t, r)
	}
	for r := rune(0xFF00); r <= 0xFFEF; r++ {
		checkAll(t, r)
	}
}

func checkAll(t *testing.T, r rune) {
	t.Helper()
	for _, p := range predicates {
		if got, want := p.fn(r), inRanges(r, p.ranges); got != want {
			t.Fatalf("%s(U+%04X) = %v, want %v", p.name, r, got, want)
		}
	}
}

func TestNarrowCharactersNeverMatch(t *testing.T) {
	for r := rune(0); r < 0x80; r++ {
		for _, p := range predicates {
			if p.fn(r) {
				t.Fatalf("%s matched ASCII %q", p.name, r)
			}
		}
		if IsWideASCII(r) {
			t.Fatalf("IsWideASCII matched ASCII %q", r)
		}
	}
}

func TestReplacementCharacterFailsEveryPredicate(t *testing.T) {
	const bad = '�'
	for _, p := range predicates {
		if p.fn(bad) {
			t.Fatalf("%s matched U+FFFD", p.name)
		}
	}
	if IsWideASCII(bad) {
		t.Fatal("IsWideASCII matched U+FFFD")
	}
}

func TestIsWideASCII(t *testing.T) {
	cases := []struct {
		r    rune
		want bool
	}{
		{'’', true},
		{'”', true},
		{'！', true},
		{'＂', false},
		{'＃', true},
		{'＆', true},
		{'＇', false},
		{'（', true},
		{'／', true},
		{'０', false},
		{'：', true},
		{'＠', true},
		{'Ａ', false},
		{'［', true},
		{'＼', false},
		{'］', true},
		{'｀', true},
		{'ａ', false},
		{'｛', true},
		{'｜', true},
		{'｝', true},
		{'～', false},
		{'￣', true},
		{'￥', true},
		{'￦', false},
	}
	for _, tc := range cases {
		if got := IsWideASCII(tc.r); got != tc.want {
			t.Errorf("IsWideASCII(%q) = %v, want %v", tc.r, got, tc.want)
		}
	}
}
