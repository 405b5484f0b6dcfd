package app

import (
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"orrery/hal"
)

// guard runs fn and turns a panic into an error. The panic and its stack are
// logged and painted onto the framebuffer so a windowed run shows them.
func guard(h hal.HAL, fn func()) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		stack := string(debug.Stack())
		if l := h.Logger(); l != nil {
			l.WriteLineString(fmt.Sprintf("orrery panic: %v", v))
			for _, line := range strings.Split(stack, "\n") {
				if line != "" {
					l.WriteLineString(line)
				}
			}
		}
		if disp := h.Display(); disp != nil {
			if fb := disp.Framebuffer(); fb != nil {
				paintPanic(fb, v, stack)
			}
		}
		err = fmt.Errorf("app: panic: %v", v)
	}()
	fn()
	return nil
}

func paintPanic(fb hal.Framebuffer, v any, stack string) {
	fb.ClearRGB(255, 255, 255)

	font := &proggy.TinySZ8pt7b
	fontHeight := int16(font.GetYAdvance())
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 || fontHeight <= 0 {
		_ = fb.Present()
		return
	}

	lines := []string{"orrery panic:", fmt.Sprintf("%v", v), "stack:"}
	for _, line := range strings.Split(stack, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}

	d := panicDisplay{fb: fb}
	fg := color.RGBA{A: 255}
	cols := int16(fb.Width()) / fontWidth
	if cols <= 0 {
		cols = 1
	}
	y := fontHeight
	maxH := int16(fb.Height())
	for _, line := range lines {
		for len(line) > 0 {
			if y > maxH {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, font, 0, y, chunk, fg)
			y += fontHeight
			line = strings.TrimLeft(rest, " \t")
		}
	}
	_ = fb.Present()
}

type panicDisplay struct {
	fb hal.Framebuffer
}

func (d panicDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d panicDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	pixel := uint16((uint16(c.R>>3)&0x1F)<<11 | (uint16(c.G>>2)&0x3F)<<5 | (uint16(c.B>>3) & 0x1F))
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d panicDisplay) Display() error { return nil }

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
