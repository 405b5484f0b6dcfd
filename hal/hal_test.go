package hal

import (
	"bytes"
	"context"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFramebufferResizeKeepsContentsForEqualSize(t *testing.T) {
	fb := newHostFramebuffer(4, 2)
	fb.ClearRGB(0xFF, 0, 0)
	before := fb.Buffer()

	fb.Resize(4, 2)
	if &fb.Buffer()[0] != &before[0] {
		t.Fatalf("Resize() with equal size reallocated the buffer")
	}

	fb.Resize(8, 3)
	if fb.Width() != 8 || fb.Height() != 3 || fb.StrideBytes() != 16 || len(fb.Buffer()) != 48 {
		t.Fatalf("Resize(8,3) = %dx%d stride=%d len=%d", fb.Width(), fb.Height(), fb.StrideBytes(), len(fb.Buffer()))
	}
}

func TestSnapshotRGBA(t *testing.T) {
	fb := newHostFramebuffer(2, 1)
	fb.ClearRGB(0xFF, 0xFF, 0xFF)
	pix, w, h := fb.snapshotRGBA(nil)
	if w != 2 || h != 1 || len(pix) != 8 {
		t.Fatalf("snapshotRGBA() = len %d %dx%d, want 8 2x1", len(pix), w, h)
	}
	for i, b := range pix {
		if b != 0xFF {
			t.Fatalf("pix[%d] = %#x, want 0xff", i, b)
		}
	}
}

func TestInputResizeDedup(t *testing.T) {
	in := newHostInput()
	in.resize(800, 600, 2)
	in.resize(800, 600, 2)
	in.resize(1024, 600, 2)

	if got := len(in.ch); got != 2 {
		t.Fatalf("queued events = %d, want 2", got)
	}
	ev := <-in.Events()
	if ev.Kind != EventResize || ev.Width != 800 || ev.PixelRatio != 2 {
		t.Fatalf("first event = %+v", ev)
	}
}

func TestInputWheelIgnoresZero(t *testing.T) {
	in := newHostInput()
	in.wheel(0, 0)
	in.wheel(0, -1)
	if got := len(in.ch); got != 1 {
		t.Fatalf("queued events = %d, want 1", got)
	}
}

func TestTimeAdvance(t *testing.T) {
	tm := newHostTime()
	tm.advance(16 * time.Millisecond)
	tm.advance(16 * time.Millisecond)
	if got := tm.now(); got != 32*time.Millisecond {
		t.Fatalf("now() = %v, want 32ms", got)
	}
	if got := <-tm.Ticks(); got != 16 {
		t.Fatalf("first tick = %d, want 16", got)
	}
}

func TestLoggerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	h := newHost(1, 1, &buf)
	h.Logger().WriteLineString("a")
	h.Logger().WriteLineBytes([]byte("b"))
	if got := buf.String(); got != "a\nb\n" {
		t.Fatalf("log = %q, want %q", got, "a\nb\n")
	}
}

func TestRunHeadlessScriptedWheelAndCapture(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frames.gif")
	var wheels, resizes, steps int

	err := RunHeadless(context.Background(), func(h HAL) func() error {
		return func() error {
			steps++
			drainEvents(h.Input(), func(ev Event) {
				switch ev.Kind {
				case EventWheel:
					wheels++
				case EventResize:
					resizes++
				}
			})
			h.Display().Framebuffer().ClearRGB(0, 0, 0xFF)
			return nil
		}
	}, HeadlessConfig{
		Hz:           1000,
		Ticks:        20,
		Width:        8,
		Height:       4,
		Simulated:    true,
		Wheel:        []time.Duration{5 * time.Millisecond, 2 * time.Millisecond},
		Capture:      out,
		CaptureEvery: 5,
	})
	if err != nil {
		t.Fatalf("RunHeadless() err = %v", err)
	}
	if steps != 20 || wheels != 2 || resizes != 1 {
		t.Fatalf("steps=%d wheels=%d resizes=%d, want 20 2 1", steps, wheels, resizes)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open capture: %v", err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode capture: %v", err)
	}
	if len(g.Image) != 4 {
		t.Fatalf("captured frames = %d, want 4", len(g.Image))
	}
}

func TestRunHeadlessInvalidHz(t *testing.T) {
	err := RunHeadless(context.Background(), nil, HeadlessConfig{Hz: 2_000_000_000})
	if err == nil || !strings.Contains(err.Error(), "invalid headless hz") {
		t.Fatalf("RunHeadless() err = %v, want invalid hz", err)
	}
}

func drainEvents(in Input, fn func(Event)) {
	for {
		select {
		case ev := <-in.Events():
			fn(ev)
		default:
			return
		}
	}
}
