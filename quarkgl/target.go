package quarkgl

import "fmt"

// Target is a minimal pixel target for software rendering.
//
// Implementations should clip out-of-bounds coordinates. When the renderer
// runs with more than one worker, SetPixel and Pixel are called concurrently
// for disjoint rows.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c Color)
	Pixel(x, y int) Color
	Clear(c Color)
}

// RenderMode selects the rasterization mode.
type RenderMode uint8

const (
	RenderTextured RenderMode = iota
	RenderWireframe
	RenderSolidFlat
	RenderSolidVertexColor
)

var renderModeNames = [...]string{
	RenderTextured:         "textured",
	RenderWireframe:        "wireframe",
	RenderSolidFlat:        "flat",
	RenderSolidVertexColor: "vertex",
}

func (m RenderMode) String() string {
	if int(m) < len(renderModeNames) {
		return renderModeNames[m]
	}
	return fmt.Sprintf("RenderMode(%d)", uint8(m))
}

// ParseRenderMode maps "textured", "wireframe", "flat" or "vertex" to a mode.
// The empty string means textured.
func ParseRenderMode(s string) (RenderMode, error) {
	if s == "" {
		return RenderTextured, nil
	}
	for i, name := range renderModeNames {
		if name == s {
			return RenderMode(i), nil
		}
	}
	return 0, fmt.Errorf("quarkgl: unknown render mode %q", s)
}
