// Package page is the text overlay drawn on top of the scene: navigation,
// the heading carousel, a paragraph, a divider line and the loading screen.
//
// Elements are addressed with the small selector language the animations use
// (".headings", "nav a", ".para p"). Animatable fields are plain float64s so
// tweens can drive them directly.
package page

import (
	"image/color"
	"strings"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"
	"tinygo.org/x/tinyfont/proggy"
)

// Kind selects how an element is drawn.
type Kind uint8

const (
	KindText Kind = iota
	KindRect
	KindBox // invisible container, clips its children
)

// Element is one overlay item.
type Element struct {
	Tag     string
	Classes []string
	// Ancestor tags and classes, outermost first (e.g. "nav").
	Path []string

	Kind  Kind
	Text  string
	Font  tinyfont.Fonter
	Color color.RGBA

	Parent *Element

	// Layout box in pixels, set by Page.Layout.
	X, Y0, W, H int

	// Animated state. Y is a pixel offset, YPercent a percentage of H.
	Y        float64
	YPercent float64
	Opacity  float64
	Scale    float64
}

func (e *Element) hasClass(c string) bool {
	for _, have := range e.Classes {
		if have == c {
			return true
		}
	}
	return false
}

func (e *Element) matchesSimple(s string) bool {
	if strings.HasPrefix(s, ".") {
		return e.hasClass(s[1:])
	}
	return e.Tag == s
}

func (e *Element) inPath(s string) bool {
	for _, p := range e.Path {
		if p == s {
			return true
		}
	}
	return false
}

// Matches reports whether e matches a compound selector such as "nav a" or
// ".para p". The last part must match e; earlier parts must match ancestors.
func (e *Element) Matches(sel string) bool {
	parts := strings.Fields(sel)
	if len(parts) == 0 || !e.matchesSimple(parts[len(parts)-1]) {
		return false
	}
	for _, p := range parts[:len(parts)-1] {
		if !e.inPath(p) {
			return false
		}
	}
	return true
}

// offsetY is the element's total vertical displacement, including parents.
func (e *Element) offsetY() float64 {
	y := e.Y + e.YPercent/100*float64(e.H)
	if e.Parent != nil {
		y += e.Parent.offsetY()
	}
	return y
}

func (e *Element) alpha() float64 {
	a := clamp01(e.Opacity)
	if e.Parent != nil {
		a *= e.Parent.alpha()
	}
	return a
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Content is the text shown by the overlay.
type Content struct {
	Title     string   `json:"title"`
	Links     []string `json:"links"`
	Headings  []string `json:"headings"`
	Paragraph string   `json:"paragraph"`
	Loading   string   `json:"loading"`
}

// DefaultContent returns the stock landing page text.
func DefaultContent() Content {
	return Content{
		Title:     "PLANETS",
		Links:     []string{"Home", "Explore", "About"},
		Headings:  []string{"CSILLA", "VOLCANIC", "VENUS", "EARTH"},
		Paragraph: "Scroll to travel between worlds.",
		Loading:   "Loading",
	}
}

var (
	colorText   = color.RGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff}
	colorDim    = color.RGBA{R: 0xb0, G: 0xb0, B: 0xb8, A: 0xff}
	colorLoader = color.RGBA{R: 0x05, G: 0x05, B: 0x08, A: 0xff}
)

// Page holds every element in draw order.
type Page struct {
	Elements []*Element

	w, h int
}

// New builds the element tree for c. Call Layout before drawing.
func New(c Content) *Page {
	p := &Page{}
	add := func(e *Element) *Element {
		if e.Opacity == 0 {
			e.Opacity = 1
		}
		if e.Scale == 0 {
			e.Scale = 1
		}
		p.Elements = append(p.Elements, e)
		return e
	}

	add(&Element{Tag: "h1", Path: []string{"nav"}, Kind: KindText, Text: c.Title, Font: &freesans.Bold12pt7b, Color: colorText})
	for _, l := range c.Links {
		add(&Element{Tag: "a", Path: []string{"nav"}, Kind: KindText, Text: l, Font: &proggy.TinySZ8pt7b, Color: colorDim})
	}

	box := add(&Element{Tag: "div", Classes: []string{"headings-container"}, Kind: KindBox})
	for _, h := range c.Headings {
		add(&Element{Tag: "h2", Classes: []string{"headings"}, Path: []string{".headings-container"}, Kind: KindText, Text: h, Font: &freesans.Bold24pt7b, Color: colorText, Parent: box})
	}

	add(&Element{Tag: "div", Classes: []string{"line"}, Kind: KindRect, Color: colorDim})
	add(&Element{Tag: "p", Path: []string{".para"}, Kind: KindText, Text: c.Paragraph, Font: &freesans.Regular9pt7b, Color: colorDim})

	loader := add(&Element{Tag: "div", Classes: []string{"loader"}, Kind: KindRect, Color: colorLoader})
	if c.Loading != "" {
		add(&Element{Tag: "span", Path: []string{".loader"}, Kind: KindText, Text: c.Loading, Font: &proggy.TinySZ8pt7b, Color: colorDim, Parent: loader})
	}
	return p
}

// Query returns the elements matching a comma-separated selector list, in
// document order. Unknown selectors match nothing.
func (p *Page) Query(sel string) []*Element {
	var out []*Element
	parts := strings.Split(sel, ",")
	for _, e := range p.Elements {
		for _, s := range parts {
			if e.Matches(strings.TrimSpace(s)) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Size returns the viewport passed to the last Layout.
func (p *Page) Size() (w, h int) { return p.w, p.h }

func textBox(f tinyfont.Fonter, s string) (w, h int) {
	if f == nil || s == "" {
		return 0, 0
	}
	_, ow := tinyfont.LineWidth(f, s)
	return int(ow), int(f.GetYAdvance())
}

// Layout positions every element for a w x h viewport. It only touches layout
// boxes; animated fields keep their values.
func (p *Page) Layout(w, h int) {
	if w == p.w && h == p.h {
		return
	}
	p.w, p.h = w, h

	margin := w / 24
	if margin < 4 {
		margin = 4
	}
	navY := margin

	var headingH int
	for _, e := range p.Elements {
		switch {
		case e.Matches("nav h1"):
			e.W, e.H = textBox(e.Font, e.Text)
			e.X, e.Y0 = margin, navY
		case e.Matches("nav a"):
			e.W, e.H = textBox(e.Font, e.Text)
		case e.Matches(".headings"):
			if _, th := textBox(e.Font, e.Text); th > headingH {
				headingH = th
			}
		}
	}

	// Links are right aligned in reading order.
	links := p.Query("nav a")
	x := w - margin
	for i := len(links) - 1; i >= 0; i-- {
		e := links[i]
		x -= e.W
		e.X, e.Y0 = x, navY
		x -= margin / 2
	}

	box := p.first(".headings-container")
	if box != nil {
		box.W, box.H = w, headingH
		box.X, box.Y0 = 0, h/2-headingH/2
		for i, e := range p.Query(".headings") {
			e.W, _ = textBox(e.Font, e.Text)
			e.H = headingH
			e.X = (w - e.W) / 2
			e.Y0 = box.Y0 + i*headingH
		}
	}

	if line := p.first(".line"); line != nil {
		line.W, line.H = w/3, 1
		line.X = (w - line.W) / 2
		line.Y0 = h/2 + headingH/2 + margin/2
	}
	if para := p.first(".para p"); para != nil {
		para.W, para.H = textBox(para.Font, para.Text)
		para.X = (w - para.W) / 2
		para.Y0 = h/2 + headingH/2 + margin
	}

	if loader := p.first(".loader"); loader != nil {
		loader.X, loader.Y0, loader.W, loader.H = 0, 0, w, h
		for _, e := range p.Query(".loader span") {
			e.W, e.H = textBox(e.Font, e.Text)
			e.X = (w - e.W) / 2
			e.Y0 = (h - e.H) / 2
		}
	}
}

func (p *Page) first(sel string) *Element {
	for _, e := range p.Elements {
		if e.Matches(sel) {
			return e
		}
	}
	return nil
}
