// Package termcolor は端末の色付けの可否・配色・色数を判定し、表の装飾を作ります。
package termcolor

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

type ColorMode int

const (
	ModeAuto ColorMode = iota
	ModeAlways
	ModeNever
)

func (m ColorMode) String() string {
	switch m {
	case ModeAlways:
		return "always"
	case ModeNever:
		return "never"
	}
	return "auto"
}

// ParseMode は --color の値を解釈します。on/off などの真偽値の別名も受け付けます。
func ParseMode(v string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "auto":
		return ModeAuto, nil
	case "always", "on", "yes", "true", "force":
		return ModeAlways, nil
	case "never", "off", "no", "false", "none":
		return ModeNever, nil
	}
	return ModeAuto, fmt.Errorf("unknown color mode: %s", v)
}

// Env は環境変数の参照です。os.Getenv をそのまま渡せます。
type Env func(key string) string

func (e Env) get(key string) string {
	if e == nil {
		return ""
	}
	return strings.TrimSpace(e(key))
}

type Profile int

const (
	ProfileBasic8 Profile = iota
	ProfileANSI256
	ProfileTrueColor
)

// DetectMode は auto のときの実際の挙動を決めます。先に当てはまったものが優先です。
//
//  1. TERM=dumb または NO_COLOR（値は問わない）または CLICOLOR=0 なら never
//  2. CLICOLOR_FORCE か FORCE_COLOR が 0 以外なら always
//  3. stdout が端末なら always、そうでなければ never
func DetectMode(stdout *os.File, env Env) ColorMode {
	if stdout == nil {
		return ModeNever
	}
	switch {
	case strings.EqualFold(env.get("TERM"), "dumb"), env.get("NO_COLOR") != "", env.get("CLICOLOR") == "0":
		return ModeNever
	case forced(env.get("CLICOLOR_FORCE")), forced(env.get("FORCE_COLOR")):
		return ModeAlways
	}
	if isTerminal(stdout) {
		return ModeAlways
	}
	return ModeNever
}

// Resolve は mode を解決し、色を出すかどうかを返します。
func Resolve(mode ColorMode, stdout *os.File, env Env) bool {
	if mode == ModeAuto {
		mode = DetectMode(stdout, env)
	}
	return mode == ModeAlways
}

// DetectProfile は COLORTERM と TERM から使える色数を推定します。
func DetectProfile(env Env) Profile {
	ct := strings.ToLower(env.get("COLORTERM"))
	for _, marker := range []string{"truecolor", "24bit", "24-bit"} {
		if strings.Contains(ct, marker) {
			return ProfileTrueColor
		}
	}
	if strings.Contains(strings.ToLower(env.get("TERM")), "256color") {
		return ProfileANSI256
	}
	return ProfileBasic8
}

func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

func forced(v string) bool {
	return v != "" && v != "0"
}
