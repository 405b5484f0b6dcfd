package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"orrery/app"
	"orrery/hal"
)

func parseWheel(s string) ([]time.Duration, error) {
	var out []time.Duration
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		d, err := time.ParseDuration(f)
		if err != nil {
			return nil, fmt.Errorf("-wheel: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

func main() {
	var (
		hcfg      hal.HeadlessConfig
		wcfg      hal.WindowConfig
		cfgPath   string
		wheel     string
		assetsDir string
		hdr       string
		scale     float64
		workers   int
		mode      string
		seed      int64
		watch     bool
	)
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.BoolVar(&hcfg.Simulated, "simulated", false, "Headless: advance time by exactly 1/hz per tick.")
	flag.StringVar(&hcfg.Capture, "capture", "", "Headless: write frames to this animated GIF.")
	flag.IntVar(&hcfg.CaptureEvery, "capture-every", 4, "Headless: capture every Nth frame.")
	flag.StringVar(&wheel, "wheel", "", "Headless: comma-separated wheel event times, e.g. 3s,3.5s,6s.")
	flag.IntVar(&wcfg.Width, "width", 960, "Window (or headless viewport) width.")
	flag.IntVar(&wcfg.Height, "height", 540, "Window (or headless viewport) height.")
	flag.StringVar(&cfgPath, "config", "", "JSON config file.")
	flag.StringVar(&assetsDir, "assets", "", "Asset directory or base URL (overrides config).")
	flag.StringVar(&hdr, "hdr", "", "HDR environment URL or path (overrides config).")
	flag.Float64Var(&scale, "scale", 0, "Render scale relative to device pixels, (0,1].")
	flag.IntVar(&workers, "workers", 0, "Rasterizer goroutines.")
	flag.StringVar(&mode, "mode", "", "Render mode: textured, wireframe, flat or vertex.")
	flag.Int64Var(&seed, "seed", 0, "Seed for the fade-in delays (0 = random).")
	flag.BoolVar(&watch, "watch", false, "Reload textures when files in the asset directory change.")
	flag.Parse()

	cfg := app.DefaultConfig()
	if cfgPath != "" {
		c, err := app.LoadConfig(cfgPath)
		if err != nil {
			fatal(err)
		}
		cfg = c
	}
	if assetsDir != "" {
		cfg.Assets = assetsDir
	}
	if hdr != "" {
		cfg.HDR = hdr
	}
	if scale > 0 {
		cfg.RenderScale = scale
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if mode != "" {
		cfg.RenderMode = mode
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	cfg.Watch = cfg.Watch || watch

	ws, err := parseWheel(wheel)
	if err != nil {
		fatal(err)
	}
	hcfg.Wheel = ws
	hcfg.Width, hcfg.Height = wcfg.Width, wcfg.Height

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	newApp := func(h hal.HAL) func() error {
		step, err := app.New(ctx, h, cfg)
		if err != nil {
			return func() error { return err }
		}
		return step
	}

	if hcfg.Enabled {
		if err := hal.RunHeadless(ctx, newApp, hcfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fatal(err)
		}
		return
	}

	if err := hal.RunWindow(wcfg, newApp); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
