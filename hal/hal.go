package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a resizable pixel buffer plus a "present" hook.
//
// Buffer is only valid until the next Resize.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Resize(w, h int)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// EventKind identifies an input event.
type EventKind uint8

const (
	EventUnknown EventKind = iota
	// EventResize carries the new viewport size in logical pixels plus the device pixel ratio.
	EventResize
	// EventWheel carries a mouse-wheel delta.
	EventWheel
)

// Event is a platform input event.
type Event struct {
	Kind EventKind

	Width      int
	Height     int
	PixelRatio float64

	DeltaX float64
	DeltaY float64
}

// Input provides platform input events (best-effort on each platform).
type Input interface {
	Events() <-chan Event
}

// Time provides a base tick stream.
//
// One tick is one millisecond; higher-level timers live in the application.
type Time interface {
	Ticks() <-chan uint64
}

// HAL provides the only contact point between the application and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
}
