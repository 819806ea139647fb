package termcolor

import (
	"strconv"
	"strings"
)

type Scheme int

const (
	SchemeUnknown Scheme = iota
	SchemeDark
	SchemeLight
)

// DetectScheme は背景が明るいかを推定します。分からなければ暗い背景とみなします。
//
// COLORFGBG は "fg;bg" または "fg;default;bg" の形式で、bg が 7 以上なら明るい背景です。
func DetectScheme(env Env) Scheme {
	if bg, ok := colorfgbgBackground(env.get("COLORFGBG")); ok {
		if bg >= 7 {
			return SchemeLight
		}
		return SchemeDark
	}
	if strings.Contains(strings.ToLower(env.get("TERM")), "light") {
		return SchemeLight
	}
	return SchemeDark
}

func colorfgbgBackground(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	fields := strings.Split(raw, ";")
	for i := len(fields) - 1; i >= 0 && i >= len(fields)-2; i-- {
		f := strings.TrimSpace(fields[i])
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
