package page

import (
	"testing"

	"orrery/quarkgl"
)

func newTarget(w, h int) *quarkgl.RGB565Target {
	return &quarkgl.RGB565Target{Buf: make([]byte, w*h*2), Stride: w * 2, W: w, H: h}
}

func TestQuerySelectors(t *testing.T) {
	p := New(DefaultContent())
	cases := []struct {
		sel  string
		want int
	}{
		{".headings", 4},
		{".headings-container", 1},
		{".para p", 1},
		{".line", 1},
		{"nav h1", 1},
		{"nav a", 3},
		{"nav h1 , nav a", 4},
		{".loader", 1},
		{".missing", 0},
		{"h2 a", 0},
	}
	for _, c := range cases {
		if got := len(p.Query(c.sel)); got != c.want {
			t.Errorf("Query(%q) = %d elements, want %d", c.sel, got, c.want)
		}
	}

	nav := p.Query("nav h1, nav a")
	if nav[0].Tag != "h1" || nav[1].Text != "Home" {
		t.Fatalf("Query order = %q, %q; want document order", nav[0].Text, nav[1].Text)
	}
}

func TestLayoutStacksHeadings(t *testing.T) {
	p := New(DefaultContent())
	p.Layout(640, 360)

	hs := p.Query(".headings")
	box := p.Query(".headings-container")[0]
	if box.H <= 0 {
		t.Fatalf("container height = %d", box.H)
	}
	for i, h := range hs {
		if h.Y0 != box.Y0+i*box.H {
			t.Fatalf("heading %d Y0 = %d, want %d", i, h.Y0, box.Y0+i*box.H)
		}
	}

	// Layout keeps animated state.
	hs[0].YPercent = -100
	p.Layout(800, 600)
	if hs[0].YPercent != -100 {
		t.Fatalf("Layout reset YPercent to %v", hs[0].YPercent)
	}
	if w, h := p.Size(); w != 800 || h != 600 {
		t.Fatalf("Size() = %dx%d", w, h)
	}
}

func TestYPercentMovesByOwnHeight(t *testing.T) {
	p := New(DefaultContent())
	p.Layout(640, 360)
	h := p.Query(".headings")[1]
	h.YPercent = -100
	if got := h.offsetY(); got != -float64(h.H) {
		t.Fatalf("offsetY() = %v, want %v", got, -float64(h.H))
	}
	p.Query(".headings-container")[0].Y = 100
	if got := h.offsetY(); got != 100-float64(h.H) {
		t.Fatalf("offsetY() with container = %v, want %v", got, 100-float64(h.H))
	}
}

func countLit(tg *quarkgl.RGB565Target) int {
	n := 0
	for y := 0; y < tg.H; y++ {
		for x := 0; x < tg.W; x++ {
			if c := tg.Pixel(x, y); c.R|c.G|c.B != 0 {
				n++
			}
		}
	}
	return n
}

func TestDrawLoaderCoversAndScalesAway(t *testing.T) {
	p := New(Content{Loading: ""})
	p.Query(".line")[0].Opacity = 0
	p.Layout(64, 32)
	tg := newTarget(64, 32)

	p.Draw(tg)
	c := tg.Pixel(0, 0)
	if c.B == 0 {
		t.Fatalf("loader did not cover the target: %+v", c)
	}

	tg.Clear(quarkgl.RGB(0, 0, 0))
	p.Query(".loader")[0].Scale = 0.5
	p.Draw(tg)
	if got := tg.Pixel(0, 0); got.B != 0 {
		t.Fatalf("corner still covered at scale 0.5: %+v", got)
	}
	if got := tg.Pixel(32, 16); got.B == 0 {
		t.Fatalf("center not covered at scale 0.5")
	}

	tg.Clear(quarkgl.RGB(0, 0, 0))
	p.Query(".loader")[0].Scale = 0
	p.Draw(tg)
	if n := countLit(tg); n != 0 {
		t.Fatalf("scale 0 loader drew %d pixels", n)
	}
}

func TestDrawTextAndOpacity(t *testing.T) {
	p := New(DefaultContent())
	p.Query(".loader")[0].Opacity = 0
	p.Layout(320, 180)

	tg := newTarget(320, 180)
	p.Draw(tg)
	lit := countLit(tg)
	if lit == 0 {
		t.Fatalf("no text drawn")
	}

	for _, e := range p.Elements {
		e.Opacity = 0
	}
	tg.Clear(quarkgl.RGB(0, 0, 0))
	p.Draw(tg)
	if n := countLit(tg); n != 0 {
		t.Fatalf("invisible page drew %d pixels", n)
	}
}

func TestHeadingsClipToContainer(t *testing.T) {
	p := New(DefaultContent())
	p.Query(".loader")[0].Opacity = 0
	for _, sel := range []string{"nav h1", "nav a", ".line", ".para p"} {
		for _, e := range p.Query(sel) {
			e.Opacity = 0
		}
	}
	p.Layout(320, 180)
	box := p.Query(".headings-container")[0]

	tg := newTarget(320, 180)
	p.Draw(tg)
	for y := 0; y < tg.H; y++ {
		if y >= box.Y0 && y < box.Y0+box.H {
			continue
		}
		for x := 0; x < tg.W; x++ {
			if c := tg.Pixel(x, y); c.R|c.G|c.B != 0 {
				t.Fatalf("heading pixel outside container at (%d,%d)", x, y)
			}
		}
	}
}
