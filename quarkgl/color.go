package quarkgl

// Color is an RGBA color in 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color     { return Color{R: r, G: g, B: b, A: 0xFF} }
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

func (c Color) MulScalar(s Scalar) Color {
	s = Clamp01(s)
	t := uint32(s * 255)
	mul := func(ch uint8) uint8 {
		return uint8((uint32(ch) * t) / 255)
	}
	return Color{R: mul(c.R), G: mul(c.G), B: mul(c.B), A: c.A}
}

// Modulate multiplies two colors channel-wise.
func (c Color) Modulate(o Color) Color {
	mul := func(a, b uint8) uint8 {
		return uint8((uint32(a) * uint32(b)) / 255)
	}
	return Color{R: mul(c.R, o.R), G: mul(c.G, o.G), B: mul(c.B, o.B), A: c.A}
}

// AddSat adds the RGB channels of o, saturating at 255.
func (c Color) AddSat(o Color) Color {
	add := func(a, b uint8) uint8 {
		v := uint32(a) + uint32(b)
		if v > 255 {
			v = 255
		}
		return uint8(v)
	}
	return Color{R: add(c.R, o.R), G: add(c.G, o.G), B: add(c.B, o.B), A: c.A}
}

// Over blends c over dst with coverage alpha in 0..1.
func (c Color) Over(dst Color, alpha Scalar) Color {
	a := Clamp01(alpha)
	if a >= 1 {
		return c.WithAlpha(0xFF)
	}
	mix := func(s, d uint8) uint8 {
		return uint8(float32(s)*a + float32(d)*(1-a) + 0.5)
	}
	return Color{R: mix(c.R, dst.R), G: mix(c.G, dst.G), B: mix(c.B, dst.B), A: 0xFF}
}

func (c Color) WithAlpha(a uint8) Color { c.A = a; return c }
