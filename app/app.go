// Package app is the landing scene: four textured planets on a ring behind a
// scroll-driven heading carousel.
//
// New wires a State to a HAL and returns the per-frame step function the
// window and headless runners call. All scene, overlay and animation state
// is owned by that step function's goroutine; asset loading and file
// watching run in the background and hand results over through an inbox.
package app

import (
	"context"
	"fmt"

	"orrery/assets"
	"orrery/hal"
	"orrery/internal/buildinfo"
	"orrery/kernel"
	"orrery/quarkgl"
)

// Start requests the startup textures and the HDR environment from l. It
// returns at once; results arrive through the inbox and are applied by
// Frame.
func (s *State) Start(ctx context.Context, l *assets.Loader) <-chan struct{} {
	reqs := []assets.Request{{Kind: assets.KindTexture, Name: s.cfg.Background}}
	for _, p := range s.cfg.Planets {
		reqs = append(reqs, assets.Request{Kind: assets.KindTexture, Name: p})
	}
	reqs = append(reqs, assets.Request{Kind: assets.KindEnvironment, Name: s.cfg.HDR})
	return l.Start(ctx, s.inbox, reqs...)
}

// watch reloads textures from the asset directory when they change on disk.
func (s *State) watch(ctx context.Context, l *assets.Loader) error {
	w, err := assets.NewWatcher(s.cfg.Assets)
	if err != nil {
		return fmt.Errorf("app: watch %s: %w", s.cfg.Assets, err)
	}
	names := map[string]bool{s.cfg.Background: true}
	for _, p := range s.cfg.Planets {
		names[p] = true
	}
	go func() {
		<-ctx.Done()
		w.Close()
	}()
	go func() {
		for err := range w.Errors() {
			s.logf("watch: %v", err)
		}
	}()
	go w.Reload(ctx, l, s.inbox, names)
	return nil
}

// New builds the application on h and returns its frame step. Background
// work stops when ctx is done.
func New(ctx context.Context, h hal.HAL, cfg Config) (func() error, error) {
	fb := h.Display().Framebuffer()
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return nil, fmt.Errorf("app: %w: framebuffer", hal.ErrNotImplemented)
	}

	clock := &kernel.Clock{}
	clock.Poll(h.Time().Ticks())

	s, err := Build(cfg, h.Logger(), clock.Now())
	if err != nil {
		return nil, err
	}
	s.logf("orrery %s (built %s)", buildinfo.Short(), buildinfo.Date)

	loader := assets.NewLoader(s.cfg.Assets)
	loader.Exposure = s.cfg.Exposure
	s.Start(ctx, loader)
	if s.cfg.Watch {
		if err := s.watch(ctx, loader); err != nil {
			s.logf("%v", err)
		}
	}

	events := h.Input().Events()
	ticks := h.Time().Ticks()
	return func() error {
		clock.Poll(ticks)
		now := clock.Now()

	drain:
		for {
			select {
			case ev := <-events:
				switch ev.Kind {
				case hal.EventResize:
					w, hh := s.HandleResize(ev.Width, ev.Height, ev.PixelRatio)
					fb.Resize(w, hh)
				case hal.EventWheel:
					s.HandleWheel(now)
				}
			default:
				break drain
			}
		}

		t := &quarkgl.RGB565Target{Buf: fb.Buffer(), Stride: fb.StrideBytes(), W: fb.Width(), H: fb.Height()}
		if err := guard(h, func() { s.Frame(now, t) }); err != nil {
			return err
		}
		return fb.Present()
	}, nil
}
