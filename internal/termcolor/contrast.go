package termcolor

import "math"

// rgb は R, G, B の順の 24bit 色です。
type rgb = [3]uint8

var (
	black = rgb{0, 0, 0}
	white = rgb{255, 255, 255}

	// 背景色の仮定値。COLORFGBG では正確な RGB が分からないため代表値を使う
	darkBackground  = rgb{17, 24, 39}
	lightBackground = rgb{249, 250, 251}
)

const minContrast = 4.5

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func luminance(c rgb) float64 {
	return 0.2126*srgbToLinear(float64(c[0])/255) +
		0.7152*srgbToLinear(float64(c[1])/255) +
		0.0722*srgbToLinear(float64(c[2])/255)
}

// contrastRatio は WCAG 2.x のコントラスト比（1〜21）を返します。
func contrastRatio(fg, bg rgb) float64 {
	l1, l2 := luminance(fg), luminance(bg)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// ensureContrast は fg が bg に対して min 未満なら黒か白のうち読みやすい方に置き換えます。
func ensureContrast(fg, bg rgb, min float64) rgb {
	if contrastRatio(fg, bg) >= min {
		return fg
	}
	if contrastRatio(black, bg) >= contrastRatio(white, bg) {
		return black
	}
	return white
}

func backgroundFor(scheme Scheme) rgb {
	if scheme == SchemeLight {
		return lightBackground
	}
	return darkBackground
}
