package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"orrery/page"
	"orrery/quarkgl"
)

// Defaults for Config fields left empty.
const (
	DefaultHDR         = "https://dl.polyhaven.org/file/ph-assets/HDRIs/hdr/1k/qwantani_sunset_1k.hdr"
	DefaultBackground  = "/stars.jpg"
	DefaultRenderScale = 0.5
	MaxPixelRatio      = 2

	ScrollCooldown = 2000 * time.Millisecond
	LoaderDelay    = 18 * time.Second
	SpinPerFrame   = 0.0004
)

// DefaultPlanets are the sphere textures, in ring order.
var DefaultPlanets = []string{
	"/csilla/color.webp",
	"/volcanic/color.webp",
	"/venus/map.webp",
	"/earth/map.webp",
}

// Config is the application configuration. It can be read from JSON; empty
// fields fall back to defaults.
type Config struct {
	Assets     string   `json:"assets"`
	HDR        string   `json:"hdr"`
	Background string   `json:"background"`
	Planets    []string `json:"planets"`
	Exposure   float64  `json:"exposure"`

	// RenderScale scales the drawing surface relative to the window's
	// device pixels. The software renderer cannot keep up at full size.
	RenderScale float64 `json:"render_scale"`
	Workers     int     `json:"workers"`

	// RenderMode is "textured" (default), "wireframe", "flat" or "vertex".
	RenderMode string `json:"render_mode"`

	// Seed drives the sphere fade-in delays. Zero picks a time-based seed.
	Seed  int64 `json:"seed"`
	Watch bool  `json:"watch"`

	Content page.Content `json:"content"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Assets:      "public",
		HDR:         DefaultHDR,
		Background:  DefaultBackground,
		Planets:     append([]string(nil), DefaultPlanets...),
		Exposure:    1,
		RenderScale: DefaultRenderScale,
		Workers:     4,
		Content:     page.DefaultContent(),
	}
}

func (c *Config) fill() error {
	d := DefaultConfig()
	if c.Assets == "" {
		c.Assets = d.Assets
	}
	if c.HDR == "" {
		c.HDR = d.HDR
	}
	if c.Background == "" {
		c.Background = d.Background
	}
	if len(c.Planets) == 0 {
		c.Planets = d.Planets
	}
	if len(c.Planets) != SphereCount {
		return fmt.Errorf("app: config: need %d planet textures, got %d", SphereCount, len(c.Planets))
	}
	if c.Exposure <= 0 {
		c.Exposure = d.Exposure
	}
	if c.RenderScale <= 0 || c.RenderScale > 1 {
		c.RenderScale = d.RenderScale
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if _, err := quarkgl.ParseRenderMode(c.RenderMode); err != nil {
		return fmt.Errorf("app: config: %w", err)
	}
	dc := d.Content
	if c.Content.Title == "" {
		c.Content.Title = dc.Title
	}
	if len(c.Content.Links) == 0 {
		c.Content.Links = dc.Links
	}
	if len(c.Content.Headings) == 0 {
		c.Content.Headings = dc.Headings
	}
	if c.Content.Paragraph == "" {
		c.Content.Paragraph = dc.Paragraph
	}
	if c.Content.Loading == "" {
		c.Content.Loading = dc.Loading
	}
	return nil
}

// LoadConfig reads a JSON config file and fills in defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("app: config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("app: config %s: %w", path, err)
	}
	if err := cfg.fill(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
