// Package charclass は全角・半角の誤用を判定する文字クラス述語を提供します。
//
// すべての述語は rune を 1 つ受け取り、副作用なしで bool を返します。
// コメント中の全文字に対して呼ばれるため、マップではなく範囲比較で判定します。
package charclass

// IsNarrowKana は半角カタカナ (U+FF61–U+FF9F) を判定します。
func IsNarrowKana(r rune) bool {
	return r >= 0xFF61 && r <= 0xFF9F
}

// IsWideAlphabet は全角英字 (Ａ-Ｚ, ａ-ｚ) を判定します。
func IsWideAlphabet(r rune) bool {
	// Ａ-Ｚ
	if r < 0xFF21 {
		return false
	}
	if r <= 0xFF3A {
		return true
	}
	// ａ-ｚ
	if r < 0xFF41 {
		return false
	}
	return r <= 0xFF5A
}

// IsWideNumeric は全角数字 (０-９) を判定します。
func IsWideNumeric(r rune) bool {
	return r >= 0xFF10 && r <= 0xFF19
}

// IsWideSpace は全角スペース (U+3000) を判定します。
func IsWideSpace(r rune) bool {
	return r == 0x3000
}

// IsWideSingleQuotation は ’ (U+2019) を判定します。
func IsWideSingleQuotation(r rune) bool {
	return r == 0x2019
}

// IsWideDoubleQuotation は ” (U+201D) を判定します。
func IsWideDoubleQuotation(r rune) bool {
	return r == 0x201D
}

// IsWideExclamation は ！ を判定します。
func IsWideExclamation(r rune) bool {
	return r == 0xFF01
}

// IsWideSharp は ＃ を判定します。
func IsWideSharp(r rune) bool {
	return r == 0xFF03
}

// IsWideDollar は ＄ を判定します。
func IsWideDollar(r rune) bool {
	return r == 0xFF04
}

// IsWidePercent は ％ を判定します。
func IsWidePercent(r rune) bool {
	return r == 0xFF05
}

// IsWideAmpersand は ＆ を判定します。
func IsWideAmpersand(r rune) bool {
	return r == 0xFF06
}

// IsWideParenthesis は （ と ） の両方を判定します。
func IsWideParenthesis(r rune) bool { return r == 0xFF08 || r == 0xFF09 }

// IsWideAsterisk は ＊ を判定します。
func IsWideAsterisk(r rune) bool {
	return r == 0xFF0A
}

// IsWidePlus は ＋ を判定します。
func IsWidePlus(r rune) bool {
	return r == 0xFF0B
}

// IsWideComma は ， を判定します。
func IsWideComma(r rune) bool {
	return r == 0xFF0C
}

// IsWideHyphen は － (U+FF0D) を判定します。
func IsWideHyphen(r rune) bool {
	return r == 0xFF0D
}

// IsWideDot は ． を判定します。
func IsWideDot(r rune) bool {
	return r == 0xFF0E
}

// IsWideSlash は ／ を判定します。
func IsWideSlash(r rune) bool {
	return r == 0xFF0F
}

// IsWideColon は ： を判定します。
func IsWideColon(r rune) bool {
	return r == 0xFF1A
}

// IsWideSemicolon は ； を判定します。
func IsWideSemicolon(r rune) bool {
	return r == 0xFF1B
}

// IsWideLessThan は ＜ を判定します。
func IsWideLessThan(r rune) bool {
	return r == 0xFF1C
}

// IsWideEquals は ＝ を判定します。
func IsWideEquals(r rune) bool {
	return r == 0xFF1D
}

// IsWideGreaterThan は ＞ を判定します。
func IsWideGreaterThan(r rune) bool {
	return r == 0xFF1E
}

// IsWideQuestion は ？ を判定します。
func IsWideQuestion(r rune) bool {
	return r == 0xFF1F
}

// IsWideAtMark は ＠ を判定します。
func IsWideAtMark(r rune) bool {
	return r == 0xFF20
}

// IsWideSquareBracket は ［ と ］ を判定します。＼ (U+FF3C) は含みません。
func IsWideSquareBracket(r rune) bool { return r == 0xFF3B || r == 0xFF3D }

// IsWideCurlyBracket は ｛ と ｝ を判定します。｜ (U+FF5C) は含みません。
func IsWideCurlyBracket(r rune) bool { return r == 0xFF5B || r == 0xFF5D }

// IsWideYen は ￥ (U+FFE5) を判定します。
func IsWideYen(r rune) bool {
	return r == 0xFFE5
}

// IsWideASCII は旧来の包括ルールが対象としていた全角記号をまとめて判定します。
// 個別の記号ルールに分割される前の判定範囲をそのまま保持しています。
func IsWideASCII(r rune) bool {
	// ’
	if r == 0x2019 {
		return true
	}
	// ”
	if r == 0x201D {
		return true
	}
	// ！
	if r == 0xFF01 {
		return true
	}
	// ＃＄％＆
	if r < 0xFF03 {
		return false
	}
	if r <= 0xFF06 {
		return true
	}
	// （）＊＋，－．／
	if r < 0xFF08 {
		return false
	}
	if r <= 0xFF0F {
		return true
	}
	// ：；＜＝＞？＠
	if r < 0xFF1A {
		return false
	}
	if r <= 0xFF20 {
		return true
	}
	// ［
	if r == 0xFF3B {
		return true
	}
	// ］＾＿｀
	if r < 0xFF3D {
		return false
	}
	if r <= 0xFF40 {
		return true
	}
	// ｛｜｝
	if r < 0xFF5B {
		return false
	}
	if r <= 0xFF5D {
		return true
	}
	// ￣
	if r == 0xFFE3 {
		return true
	}
	// ￥
	return r == 0xFFE5
}
