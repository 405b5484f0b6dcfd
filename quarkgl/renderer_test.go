package quarkgl

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func newTestTarget(w, h int) *RGB565Target {
	return &RGB565Target{Buf: make([]byte, w*h*2), Stride: w * 2, W: w, H: h}
}

func newTestScene(opacity Scalar, transparent bool) *Scene {
	s := CreateScene(1)
	s.Light.Mode = LightOff
	s.Camera.Position = V3(0, 0, 10)
	s.Camera.FOVYRad = Deg(45)
	s.Camera.Near = 0.1
	s.Camera.Far = 100

	m := NewSphereMesh(2, 16, 12)
	m.Material.BaseColor = RGB(0xFF, 0xFF, 0xFF)
	m.Material.Opacity = opacity
	m.Material.Transparent = transparent
	s.AddMesh(m)
	return s
}

func TestRenderDrawsOpaqueSphereOverBackground(t *testing.T) {
	tgt := newTestTarget(64, 64)
	s := newTestScene(1, false)
	s.Background = NewSolidTexture(RGB(0, 0, 0xFF))

	r := NewRenderer(64, 64, true)
	r.Render(tgt, s)

	if got := tgt.Pixel(32, 32); got.R < 0xF0 || got.G < 0xF0 {
		t.Fatalf("center pixel = %+v, want white", got)
	}
	if got := tgt.Pixel(0, 0); got.B < 0xF0 || got.R != 0 {
		t.Fatalf("corner pixel = %+v, want background blue", got)
	}
}

func TestRenderSkipsZeroOpacity(t *testing.T) {
	tgt := newTestTarget(32, 32)
	s := newTestScene(0, true)

	r := NewRenderer(32, 32, true)
	r.ClearColor = RGB(0x10, 0x20, 0x30)
	r.Render(tgt, s)

	want := tgt.Pixel(0, 0)
	if got := tgt.Pixel(16, 16); got != want {
		t.Fatalf("center pixel = %+v, want clear color %+v", got, want)
	}
}

func TestRenderBlendsHalfOpacity(t *testing.T) {
	tgt := newTestTarget(32, 32)
	s := newTestScene(0.5, true)

	r := NewRenderer(32, 32, true)
	r.Render(tgt, s)

	got := tgt.Pixel(16, 16)
	if got.R < 0x70 || got.R > 0x90 {
		t.Fatalf("center pixel = %+v, want ~50%% grey", got)
	}
}

func TestRenderWorkersMatchSingleThread(t *testing.T) {
	s := newTestScene(1, false)
	s.Light.Mode = LightAmbientDirectional

	a := newTestTarget(48, 40)
	b := newTestTarget(48, 40)

	r1 := NewRenderer(48, 40, true)
	r1.Render(a, s)

	r4 := NewRenderer(48, 40, true)
	r4.SetWorkers(4)
	r4.Render(b, s)

	for i := range a.Buf {
		if a.Buf[i] != b.Buf[i] {
			t.Fatalf("byte %d differs: single=%d workers=%d", i, a.Buf[i], b.Buf[i])
		}
	}
}

func TestRenderSamplesTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 0xFF, A: 0xFF})
		}
	}
	s := newTestScene(1, false)
	s.Mesh(0).Material.Texture = NewTexture(img)

	tgt := newTestTarget(32, 32)
	NewRenderer(32, 32, true).Render(tgt, s)

	if got := tgt.Pixel(16, 16); got.R < 0xF0 || got.G != 0 || got.B != 0 {
		t.Fatalf("center pixel = %+v, want red texel", got)
	}
}

func litPixels(t *RGB565Target) int {
	n := 0
	for y := 0; y < t.H; y++ {
		for x := 0; x < t.W; x++ {
			if c := t.Pixel(x, y); c.R > 0x40 {
				n++
			}
		}
	}
	return n
}

func TestRenderModes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		img.Set(i%2, i/2, color.RGBA{G: 0xFF, A: 0xFF})
	}
	s := newTestScene(1, false)
	s.Mesh(0).Material.Texture = NewTexture(img)

	filled := newTestTarget(32, 32)
	NewRenderer(32, 32, true).Render(filled, s)

	flat := newTestTarget(32, 32)
	r := NewRenderer(32, 32, true)
	r.SetRenderMode(RenderSolidFlat)
	r.Render(flat, s)

	if got := filled.Pixel(16, 16); got.R != 0 || got.G < 0xF0 {
		t.Fatalf("textured center = %+v, want green texel", got)
	}
	if got := flat.Pixel(16, 16); got.R < 0xF0 || got.G < 0xF0 {
		t.Fatalf("flat center = %+v, want white base color", got)
	}

	// An octahedron: 12 edges against a solid diamond.
	oct := newTestScene(1, false)
	*oct.Mesh(0) = NewSphereMesh(2, 4, 2)
	oct.Mesh(0).Material = Material{BaseColor: RGB(0xFF, 0xFF, 0xFF), Opacity: 1}

	solid := newTestTarget(128, 128)
	r = NewRenderer(128, 128, true)
	r.SetRenderMode(RenderSolidFlat)
	r.Render(solid, oct)

	wire := newTestTarget(128, 128)
	r = NewRenderer(128, 128, true)
	r.SetRenderMode(RenderWireframe)
	r.Render(wire, oct)

	nw, ns := litPixels(wire), litPixels(solid)
	if nw == 0 || nw >= ns {
		t.Fatalf("wireframe lit %d pixels, solid %d; want 0 < wireframe < solid", nw, ns)
	}
}

func TestParseRenderMode(t *testing.T) {
	for _, m := range []RenderMode{RenderTextured, RenderWireframe, RenderSolidFlat, RenderSolidVertexColor} {
		got, err := ParseRenderMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseRenderMode(%q) = %v, %v, want %v", m.String(), got, err, m)
		}
	}
	if got, err := ParseRenderMode(""); err != nil || got != RenderTextured {
		t.Fatalf("ParseRenderMode(\"\") = %v, %v, want textured", got, err)
	}
	if _, err := ParseRenderMode("phong"); err == nil {
		t.Fatalf("ParseRenderMode(phong) err = nil")
	}
}

func TestSphereMeshLayout(t *testing.T) {
	m := NewSphereMesh(6, 82, 56)
	if got, want := len(m.Vertices), 83*57; got != want {
		t.Fatalf("len(Vertices) = %d, want %d", got, want)
	}
	if got, want := len(m.Indices), (82*56*2-82*2)*3; got != want {
		t.Fatalf("len(Indices) = %d, want %d", got, want)
	}
	for i, v := range m.Vertices {
		if d := Len(v.Pos); math.Abs(float64(d-6)) > 1e-4 {
			t.Fatalf("vertex %d radius = %v, want 6", i, d)
		}
	}
}

func TestOrbitFromReproducesPosition(t *testing.T) {
	pos := V3(-0.01, -26, 16)
	oc := OrbitFrom(Vec3{}, pos)

	var cam Camera
	oc.Apply(&cam)
	if !near(cam.Position.X, pos.X, 1e-3) || !near(cam.Position.Y, pos.Y, 1e-3) || !near(cam.Position.Z, pos.Z, 1e-3) {
		t.Fatalf("Apply() position = %+v, want %+v", cam.Position, pos)
	}
	if cam.Target != (Vec3{}) {
		t.Fatalf("Apply() target = %+v, want origin", cam.Target)
	}
}

func TestCameraProjectionCache(t *testing.T) {
	cam := Camera{FOVYRad: Deg(45), Near: 0.1, Far: 1000}
	if got, want := cam.ProjectionMatrix(2), cam.Projection(2); got != want {
		t.Fatalf("ProjectionMatrix() before update should use fallback aspect")
	}
	cam.Aspect = 1.5
	cam.UpdateProjection()
	if got, want := cam.ProjectionMatrix(2), cam.Projection(1.5); got != want {
		t.Fatalf("ProjectionMatrix() ignores cached aspect")
	}
}

func TestEnvMapLookup(t *testing.T) {
	tex := &Texture{W: 2, H: 2, Pix: []Color{
		RGB(0xFF, 0, 0), RGB(0xFF, 0, 0),
		RGB(0, 0, 0xFF), RGB(0, 0, 0xFF),
	}}
	env := NewEnvMap(tex)
	if got := env.Lookup(V3(0, 1, 0)); got.R != 0xFF {
		t.Fatalf("Lookup(up) = %+v, want top row red", got)
	}
	if got := env.Lookup(V3(0, -1, 0)); got.B != 0xFF {
		t.Fatalf("Lookup(down) = %+v, want bottom row blue", got)
	}
	if got := env.Ambient(); got.R != 0x7F || got.B != 0x7F {
		t.Fatalf("Ambient() = %+v, want mean color", got)
	}
}
