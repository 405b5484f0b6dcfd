package page

import (
	"image/color"
	"math"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"orrery/quarkgl"
)

// overlay adapts a quarkgl.Target to the tinyfont display interface. Pixels
// are blended with alpha, scaled about a pivot and clipped to a rectangle.
type overlay struct {
	t     quarkgl.Target
	dy    int
	alpha float64

	scale  float64
	px, py float64

	clip   bool
	cx0    int
	cy0    int
	cx1    int
	cy1    int
	tw, th int
}

var _ drivers.Displayer = (*overlay)(nil)

func (o *overlay) Size() (x, y int16) { return int16(o.tw), int16(o.th) }

func (o *overlay) Display() error { return nil }

func (o *overlay) SetPixel(x, y int16, c color.RGBA) {
	fx := float64(x)
	fy := float64(y) + float64(o.dy)
	if o.scale == 1 {
		o.put(int(fx), int(fy), c)
		return
	}
	x0 := o.px + (fx-o.px)*o.scale
	y0 := o.py + (fy-o.py)*o.scale
	x1 := x0 + o.scale
	y1 := y0 + o.scale
	for yy := int(math.Floor(y0)); yy < int(math.Ceil(y1)); yy++ {
		for xx := int(math.Floor(x0)); xx < int(math.Ceil(x1)); xx++ {
			o.put(xx, yy, c)
		}
	}
}

func (o *overlay) put(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= o.tw || y >= o.th {
		return
	}
	if o.clip && (x < o.cx0 || y < o.cy0 || x >= o.cx1 || y >= o.cy1) {
		return
	}
	src := quarkgl.RGB(c.R, c.G, c.B)
	if o.alpha >= 1 {
		o.t.SetPixel(x, y, src)
		return
	}
	o.t.SetPixel(x, y, src.Over(o.t.Pixel(x, y), quarkgl.Scalar(o.alpha)))
}

func (o *overlay) fillRect(x, y, w, h int, c color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			o.SetPixel(int16(xx), int16(yy), c)
		}
	}
}

// Draw renders every visible element onto t, in document order.
func (p *Page) Draw(t quarkgl.Target) {
	if t == nil {
		return
	}
	tw, th := t.Size()
	for _, e := range p.Elements {
		a := e.alpha()
		if a <= 0 || e.Kind == KindBox {
			continue
		}
		scale, pivX, pivY := e.transform()
		if scale <= 0 {
			continue
		}
		o := &overlay{
			t:     t,
			dy:    int(math.Round(e.offsetY())),
			alpha: a,
			scale: scale,
			px:    pivX,
			py:    pivY,
			tw:    tw,
			th:    th,
		}
		if box := e.Parent; box != nil && box.Kind == KindBox {
			by := box.Y0 + int(math.Round(box.offsetY()))
			o.clip = true
			o.cx0, o.cy0 = box.X, by
			o.cx1, o.cy1 = box.X+box.W, by+box.H
		}

		switch e.Kind {
		case KindRect:
			o.fillRect(e.X, e.Y0, e.W, e.H, e.Color)
		case KindText:
			if e.Font == nil || e.Text == "" {
				continue
			}
			baseline := e.Y0 + e.H*3/4
			tinyfont.WriteLine(o, e.Font, int16(e.X), int16(baseline), e.Text, e.Color)
		}
	}
}

// transform returns the combined scale of e and its parent, and the pivot in
// unscaled target coordinates (the center of the outermost scaled box).
func (e *Element) transform() (s, px, py float64) {
	s = e.Scale
	owner := e
	if e.Parent != nil {
		s *= e.Parent.Scale
		if e.Parent.Scale != 1 {
			owner = e.Parent
		}
	}
	px = float64(owner.X) + float64(owner.W)/2
	py = float64(owner.Y0) + float64(owner.H)/2 + owner.offsetY()
	return s, px, py
}
