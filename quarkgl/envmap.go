package quarkgl

import "math"

// EnvMap is an equirectangular environment used for ambient light and reflections.
type EnvMap struct {
	tex     *Texture
	ambient Color

	// Intensity scales the ambient term contributed by the environment.
	Intensity Scalar
}

// NewEnvMap wraps an equirectangular texture (2:1 panorama, +Y up).
func NewEnvMap(t *Texture) *EnvMap {
	if t == nil || len(t.Pix) == 0 {
		return nil
	}
	var r, g, b uint64
	for _, c := range t.Pix {
		r += uint64(c.R)
		g += uint64(c.G)
		b += uint64(c.B)
	}
	n := uint64(len(t.Pix))
	return &EnvMap{
		tex:       t,
		ambient:   RGB(uint8(r/n), uint8(g/n), uint8(b/n)),
		Intensity: 1,
	}
}

// Ambient returns the mean environment color.
func (e *EnvMap) Ambient() Color {
	if e == nil {
		return Color{}
	}
	return e.ambient
}

// Lookup samples the panorama in world direction dir.
func (e *EnvMap) Lookup(dir Vec3) Color {
	if e == nil || e.tex == nil {
		return Color{}
	}
	d := Normalize(dir)
	if d == (Vec3{}) {
		return e.ambient
	}
	u := Scalar(math.Atan2(float64(d.Z), float64(d.X))/(2*math.Pi)) + 0.5
	v := 0.5 - Scalar(math.Asin(float64(Clamp(d.Y, -1, 1)))/math.Pi)
	return e.tex.Sample(u, v)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi Scalar) Scalar {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
