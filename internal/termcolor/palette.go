package termcolor

import "strings"

// tone は 1 つの意味色をプロファイル・配色ごとに持ちます。
type tone struct {
	basic             int
	dark256, light256 int
	darkRGB, lightRGB rgb
	bold              bool
}

var severityTones = map[string]tone{
	"error": {
		basic: 1, dark256: 203, light256: 160,
		darkRGB: rgb{248, 113, 113}, lightRGB: rgb{185, 28, 28},
		bold: true,
	},
	"warning": {
		basic: 3, dark256: 214, light256: 130,
		darkRGB: rgb{245, 158, 11}, lightRGB: rgb{180, 83, 9},
	},
	"info": {
		basic: 6, dark256: 81, light256: 31,
		darkRGB: rgb{56, 189, 248}, lightRGB: rgb{3, 105, 161},
	},
}

var pathTone = tone{
	basic: 5, dark256: 177, light256: 90,
	darkRGB: rgb{192, 132, 252}, lightRGB: rgb{126, 34, 206},
}

func HeaderStyle() Style {
	return Style{Bold: true, Underline: true}
}

// SeverityStyle は重大度（error|warning|info）の色を返します。それ以外は淡色表示です。
func SeverityStyle(severity string, scheme Scheme, profile Profile) Style {
	t, ok := severityTones[strings.ToLower(strings.TrimSpace(severity))]
	if !ok {
		return Style{Dim: true}
	}
	return t.style(scheme, profile)
}

// PathStyle はファイル位置の列に使います。
func PathStyle(scheme Scheme, profile Profile) Style {
	return pathTone.style(scheme, profile)
}

// RuleStyle はルール id の列に使います。
func RuleStyle() Style {
	return Style{Dim: true}
}

func (t tone) style(scheme Scheme, profile Profile) Style {
	s := Style{Bold: t.bold}
	switch profile {
	case ProfileTrueColor:
		c := t.darkRGB
		if scheme == SchemeLight {
			c = t.lightRGB
		}
		c = ensureContrast(c, backgroundFor(scheme), minContrast)
		s.FG = Color{kind: colorRGB, rgb: c}
	case ProfileANSI256:
		idx := t.dark256
		if scheme == SchemeLight {
			idx = t.light256
		}
		s.FG = Indexed(idx)
	default:
		s.FG = Basic(t.basic)
	}
	return s
}
