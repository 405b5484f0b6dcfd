package assets

import (
	"math"

	"orrery/quarkgl"
)

// ToneMap converts a linear HDR image to an 8-bit sRGB texture using the
// ACES filmic curve (Narkowicz fit). exposure multiplies the linear input.
func ToneMap(img *HDRImage, exposure float64) *quarkgl.Texture {
	if img == nil || img.W <= 0 || img.H <= 0 {
		return nil
	}
	if exposure <= 0 {
		exposure = 1
	}
	k := float32(exposure * img.Exposure)
	t := &quarkgl.Texture{W: img.W, H: img.H, Pix: make([]quarkgl.Color, img.W*img.H)}
	for i := range t.Pix {
		r, g, b := img.Pix[i*3]*k, img.Pix[i*3+1]*k, img.Pix[i*3+2]*k
		t.Pix[i] = quarkgl.RGB(encodeSRGB(aces(r)), encodeSRGB(aces(g)), encodeSRGB(aces(b)))
	}
	return t
}

// EnvMapFromHDR tone maps img and wraps it as an equirectangular environment.
func EnvMapFromHDR(img *HDRImage, exposure float64) *quarkgl.EnvMap {
	return quarkgl.NewEnvMap(ToneMap(img, exposure))
}

func aces(x float32) float32 {
	const (
		a = 2.51
		b = 0.03
		c = 2.43
		d = 0.59
		e = 0.14
	)
	if x <= 0 {
		return 0
	}
	v := (x * (a*x + b)) / (x*(c*x+d) + e)
	if v > 1 {
		return 1
	}
	return v
}

func encodeSRGB(v float32) uint8 {
	var s float64
	if v <= 0.0031308 {
		s = float64(v) * 12.92
	} else {
		s = 1.055*math.Pow(float64(v), 1/2.4) - 0.055
	}
	if s <= 0 {
		return 0
	}
	if s >= 1 {
		return 0xFF
	}
	return uint8(s*255 + 0.5)
}
