package hal

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled    bool
	Hz         int
	Ticks      uint64
	StepBudget int

	Width      int
	Height     int
	PixelRatio float64

	// Simulated advances time by exactly 1/Hz per tick instead of following
	// the wall clock, so runs are reproducible.
	Simulated bool

	// Wheel schedules synthetic wheel events at the given offsets from start.
	Wheel []time.Duration

	// Capture writes every CaptureEvery-th frame to an animated GIF at this path.
	Capture      string
	CaptureEvery int
}

// RunHeadless runs the application without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = 1
	}
	if cfg.Width <= 0 {
		cfg.Width = 320
	}
	if cfg.Height <= 0 {
		cfg.Height = 180
	}
	if cfg.PixelRatio <= 0 {
		cfg.PixelRatio = 1
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := newHost(cfg.Width, cfg.Height, os.Stdout)
	step := newApp(h)
	h.in.resize(cfg.Width, cfg.Height, cfg.PixelRatio)

	wheel := append([]time.Duration(nil), cfg.Wheel...)
	sort.Slice(wheel, func(i, j int) bool { return wheel[i] < wheel[j] })

	var capture *gifCapture
	if cfg.Capture != "" {
		capture = newGIFCapture(cfg.CaptureEvery, d)
	}

	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return finishCapture(capture, cfg.Capture, ctx.Err())
		case <-t.C:
			if cfg.Simulated {
				h.t.advance(d)
			} else {
				h.t.step(1)
			}
			for len(wheel) > 0 && wheel[0] <= h.t.now() {
				h.in.wheel(0, -1)
				wheel = wheel[1:]
			}
			for i := 0; i < cfg.StepBudget && step != nil; i++ {
				if err := step(); err != nil {
					return finishCapture(capture, cfg.Capture, err)
				}
			}
			if capture != nil {
				capture.frame(h.fb)
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return finishCapture(capture, cfg.Capture, nil)
			}
		}
	}
}

func finishCapture(c *gifCapture, path string, err error) error {
	if c == nil {
		return err
	}
	if werr := c.save(path); werr != nil && err == nil {
		return werr
	}
	return err
}
