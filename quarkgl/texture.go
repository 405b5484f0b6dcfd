package quarkgl

import (
	"image"
	"math"
)

// Texture is an immutable RGBA image sampled with normalized coordinates.
//
// (0,0) is the top-left texel. U wraps, V clamps.
type Texture struct {
	W, H int
	Pix  []Color
}

// NewTexture copies img into a texture. It returns nil for empty images.
func NewTexture(img image.Image) *Texture {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	t := &Texture{W: w, H: h, Pix: make([]Color, w*h)}

	switch src := img.(type) {
	case *image.RGBA:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := src.PixOffset(b.Min.X+x, b.Min.Y+y)
				t.Pix[y*w+x] = Color{R: src.Pix[i], G: src.Pix[i+1], B: src.Pix[i+2], A: src.Pix[i+3]}
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bb, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				t.Pix[y*w+x] = Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bb >> 8), A: uint8(a >> 8)}
			}
		}
	}
	return t
}

// NewSolidTexture returns a 1x1 texture.
func NewSolidTexture(c Color) *Texture {
	return &Texture{W: 1, H: 1, Pix: []Color{c}}
}

// At returns the texel at integer coordinates, clamped to the edges.
func (t *Texture) At(x, y int) Color {
	if t == nil || len(t.Pix) == 0 {
		return Color{}
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x >= t.W {
		x = t.W - 1
	}
	if y >= t.H {
		y = t.H - 1
	}
	return t.Pix[y*t.W+x]
}

// Sample returns the nearest texel for (u, v).
func (t *Texture) Sample(u, v Scalar) Color {
	if t == nil || len(t.Pix) == 0 {
		return Color{}
	}
	u = u - Scalar(math.Floor(float64(u)))
	v = Clamp01(v)
	x := int(u * Scalar(t.W))
	y := int(v * Scalar(t.H))
	if x >= t.W {
		x = 0
	}
	return t.At(x, y)
}
