package hal

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
	"time"
)

// gifCapture collects framebuffer snapshots into an animated GIF.
type gifCapture struct {
	every   int
	n       int
	delay   int // 100ths of a second
	out     gif.GIF
	scratch []byte
}

func newGIFCapture(every int, frame time.Duration) *gifCapture {
	if every <= 0 {
		every = 1
	}
	delay := int(frame * time.Duration(every) / (10 * time.Millisecond))
	if delay < 2 {
		delay = 2
	}
	return &gifCapture{every: every, delay: delay}
}

func (c *gifCapture) frame(fb *hostFramebuffer) {
	c.n++
	if (c.n-1)%c.every != 0 {
		return
	}
	pix, w, h := fb.snapshotRGBA(c.scratch)
	c.scratch = pix

	rgba := &image.RGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	pal := image.NewPaletted(rgba.Rect, palette.Plan9)
	draw.FloydSteinberg.Draw(pal, rgba.Rect, rgba, image.Point{})

	c.out.Image = append(c.out.Image, pal)
	c.out.Delay = append(c.out.Delay, c.delay)
}

// Frames returns the number of captured frames.
func (c *gifCapture) Frames() int { return len(c.out.Image) }

func (c *gifCapture) save(path string) error {
	if len(c.out.Image) == 0 {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	if err := gif.EncodeAll(f, &c.out); err != nil {
		f.Close()
		return fmt.Errorf("capture: encode %s: %w", path, err)
	}
	return f.Close()
}
