package quarkgl

import (
	"sort"

	"golang.org/x/sync/errgroup"
)

// Renderer is a fixed-pipeline software renderer.
//
// Create it once and reuse it to avoid allocations.
type Renderer struct {
	Mode       RenderMode
	Depth      bool
	ClearColor Color

	depthBuf []float32
	workers  int

	bg    *Texture
	tris  []rasterTri
	order []drawItem
}

// NewRenderer creates a renderer for a given maximum target size.
//
// If enableDepth is true, a depth buffer of size w*h is allocated.
func NewRenderer(w, h int, enableDepth bool) *Renderer {
	r := &Renderer{
		Mode:       RenderTextured,
		Depth:      enableDepth,
		ClearColor: RGB(0, 0, 0),
		workers:    1,
	}
	if enableDepth && w > 0 && h > 0 {
		r.depthBuf = make([]float32, w*h)
	}
	return r
}

// SetRenderMode selects how triangles are filled.
func (r *Renderer) SetRenderMode(m RenderMode) { r.Mode = m }

// SetWorkers sets how many goroutines rasterize row bands in parallel.
func (r *Renderer) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	r.workers = n
}

// Workers returns the configured worker count.
func (r *Renderer) Workers() int { return r.workers }

func (r *Renderer) EnableDepth(on bool, w, h int) {
	r.Depth = on
	if !on {
		r.depthBuf = nil
		return
	}
	if w <= 0 || h <= 0 {
		r.depthBuf = nil
		return
	}
	if cap(r.depthBuf) < w*h {
		r.depthBuf = make([]float32, w*h)
	} else {
		r.depthBuf = r.depthBuf[:w*h]
	}
}

type rasterTri struct {
	x, y [3]int
	z    [3]float32
	uv   [3][2]Scalar
	vc   [3]Color

	tex   *Texture
	base  Color
	shade Scalar
	amb   Color
	refl  Color
	alpha Scalar
}

type drawItem struct {
	m       *Mesh
	world   Mat4
	depth   Scalar
	blended bool
}

// Render renders a scene into the target.
func (r *Renderer) Render(t Target, s *Scene) {
	if r == nil || t == nil || s == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}

	if r.Depth {
		r.EnableDepth(true, w, h)
	}
	r.bg = s.Background

	aspect := Scalar(float32(w) / float32(h))
	view := s.Camera.View()
	proj := s.Camera.ProjectionMatrix(aspect)
	vp := Mat4Mul(proj, view)

	r.tris = r.tris[:0]
	r.order = r.order[:0]
	s.eachMesh(func(m *Mesh) {
		blended := m.Material.Transparent && m.Material.Opacity < 1
		if m.Material.Transparent && m.Material.Opacity <= 0 {
			return
		}
		world := s.World(m)
		center := Mat4MulPoint(Mat4Mul(view, world), Vec3{})
		r.order = append(r.order, drawItem{m: m, world: world, depth: -center.Z, blended: blended})
	})

	// Opaque first, then blended meshes back to front.
	sort.SliceStable(r.order, func(i, j int) bool {
		a, b := r.order[i], r.order[j]
		if a.blended != b.blended {
			return !a.blended
		}
		if a.blended {
			return a.depth > b.depth
		}
		return false
	})

	for _, it := range r.order {
		r.collectMesh(w, h, vp, s, it)
	}
	r.rasterize(t, w, h)
}

func (r *Renderer) collectMesh(w, h int, vp Mat4, s *Scene, it drawItem) {
	m := it.m
	if len(m.Vertices) == 0 || len(m.Indices) < 3 {
		return
	}
	mvp := Mat4Mul(vp, it.world)

	alpha := Scalar(1)
	if m.Material.Transparent {
		alpha = Clamp01(m.Material.Opacity)
	}

	var amb Color
	if env := s.Environment; env != nil {
		amb = env.Ambient().MulScalar(env.Intensity)
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0 := int(m.Indices[i+0])
		i1 := int(m.Indices[i+1])
		i2 := int(m.Indices[i+2])
		if i0 >= len(m.Vertices) || i1 >= len(m.Vertices) || i2 >= len(m.Vertices) {
			continue
		}
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]

		p0 := Mat4MulPoint(it.world, v0.Pos)
		p1 := Mat4MulPoint(it.world, v1.Pos)
		p2 := Mat4MulPoint(it.world, v2.Pos)
		centroid := p0.Add(p1).Add(p2).Mul(1.0 / 3)
		viewDir := Normalize(centroid.Sub(s.Camera.Position))

		var n Vec3
		hasNormals := v0.Normal != (Vec3{}) || v1.Normal != (Vec3{}) || v2.Normal != (Vec3{})
		if hasNormals {
			n = Normalize(Mat4MulDir(it.world, v0.Normal.Add(v1.Normal).Add(v2.Normal)))
			if Dot(n, viewDir) >= 0 {
				continue
			}
		} else {
			n = triangleNormal(p0, p1, p2)
		}

		c0 := Mat4MulV4(mvp, Vec4{X: v0.Pos.X, Y: v0.Pos.Y, Z: v0.Pos.Z, W: 1})
		c1 := Mat4MulV4(mvp, Vec4{X: v1.Pos.X, Y: v1.Pos.Y, Z: v1.Pos.Z, W: 1})
		c2 := Mat4MulV4(mvp, Vec4{X: v2.Pos.X, Y: v2.Pos.Y, Z: v2.Pos.Z, W: 1})

		// Trivial clip: drop triangles touching the camera plane.
		if c0.W <= 0 || c1.W <= 0 || c2.W <= 0 {
			continue
		}
		ndc0, ndc1, ndc2 := clipToNDC(c0), clipToNDC(c1), clipToNDC(c2)

		tri := rasterTri{
			z:     [3]float32{ndc0.Z, ndc1.Z, ndc2.Z},
			uv:    [3][2]Scalar{v0.UV, v1.UV, v2.UV},
			vc:    [3]Color{v0.Color, v1.Color, v2.Color},
			base:  m.Material.BaseColor,
			shade: 1,
			amb:   amb,
			alpha: alpha,
		}
		tri.x[0], tri.y[0] = ndcToScreen(ndc0, w, h)
		tri.x[1], tri.y[1] = ndcToScreen(ndc1, w, h)
		tri.x[2], tri.y[2] = ndcToScreen(ndc2, w, h)

		if r.Mode == RenderTextured {
			tri.tex = m.Material.Texture
		}
		if s.Light.Mode == LightAmbientDirectional {
			tri.shade = lightIntensity(s.Light, n)
		}
		if env := s.Environment; env != nil && m.Material.Reflectivity > 0 {
			tri.refl = env.Lookup(Reflect(viewDir, n)).MulScalar(m.Material.Reflectivity)
		}
		r.tris = append(r.tris, tri)
	}
}

func (r *Renderer) rasterize(t Target, w, h int) {
	n := r.workers
	if r.Mode == RenderWireframe || n <= 1 || h < n {
		r.rasterBand(t, w, h, 0, h)
		return
	}

	band := (h + n - 1) / n
	var g errgroup.Group
	for y0 := 0; y0 < h; y0 += band {
		y0 := y0
		y1 := min(y0+band, h)
		g.Go(func() error {
			r.rasterBand(t, w, h, y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}

func (r *Renderer) rasterBand(t Target, w, h, y0, y1 int) {
	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			if r.bg != nil {
				t.SetPixel(x, y, r.bg.At(x*r.bg.W/w, y*r.bg.H/h))
			} else {
				t.SetPixel(x, y, r.ClearColor)
			}
		}
		if r.Depth && r.depthBuf != nil {
			row := r.depthBuf[y*w : (y+1)*w]
			for i := range row {
				row[i] = 1e9
			}
		}
	}

	for i := range r.tris {
		tri := &r.tris[i]
		if r.Mode == RenderWireframe {
			c := tri.base.MulScalar(tri.shade)
			r.drawLine(t, tri.x[0], tri.y[0], tri.x[1], tri.y[1], c)
			r.drawLine(t, tri.x[1], tri.y[1], tri.x[2], tri.y[2], c)
			r.drawLine(t, tri.x[2], tri.y[2], tri.x[0], tri.y[0], c)
			continue
		}
		r.fillTriangle(t, w, y0, y1, tri)
	}
}

type ndcPoint struct {
	X, Y, Z float32
}

func clipToNDC(p Vec4) ndcPoint {
	invW := 1.0 / p.W
	return ndcPoint{X: p.X * invW, Y: p.Y * invW, Z: p.Z * invW}
}

func ndcToScreen(p ndcPoint, w, h int) (x, y int) {
	sx := (p.X*0.5 + 0.5) * float32(w-1)
	sy := (1 - (p.Y*0.5 + 0.5)) * float32(h-1)
	return int(sx + 0.5), int(sy + 0.5)
}

func triangleNormal(a, b, c Vec3) Vec3 {
	return Normalize(Cross(b.Sub(a), c.Sub(a)))
}

func lightIntensity(l Light, n Vec3) Scalar {
	amb := Clamp01(l.Ambient)
	dir := Clamp01(l.DirAmount)
	ld := Normalize(l.Dir)
	if ld == (Vec3{}) {
		return amb
	}
	d := Dot(n, ld.Mul(-1))
	if d < 0 {
		d = 0
	}
	return Clamp01(amb + d*dir)
}

func (r *Renderer) depthTest(w int, x, y int, z float32) bool {
	if !r.Depth || r.depthBuf == nil {
		return true
	}
	if x < 0 || y < 0 || x >= w {
		return false
	}
	idx := y*w + x
	if idx < 0 || idx >= len(r.depthBuf) {
		return false
	}
	// NDC z is typically in [-1,1]. Map to [0,1].
	d := (z*0.5 + 0.5)
	if d < 0 {
		d = 0
	}
	if d > 1 {
		d = 1
	}
	if d >= r.depthBuf[idx] {
		return false
	}
	r.depthBuf[idx] = d
	return true
}

func (r *Renderer) drawLine(t Target, x0, y0, x1, y1 int, c Color) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		t.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (r *Renderer) fillTriangle(t Target, w, bandY0, bandY1 int, tri *rasterTri) {
	// Orient counter-clockwise in screen space so inside weights are positive.
	a, b, c := 0, 1, 2
	area := edgeFn(tri.x[a], tri.y[a], tri.x[b], tri.y[b], tri.x[c], tri.y[c])
	if area == 0 {
		return
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}
	x0, y0 := tri.x[a], tri.y[a]
	x1, y1 := tri.x[b], tri.y[b]
	x2, y2 := tri.x[c], tri.y[c]

	minX, maxX := min3(x0, x1, x2), max3(x0, x1, x2)
	minY, maxY := min3(y0, y1, y2), max3(y0, y1, y2)
	if minX < 0 {
		minX = 0
	}
	if minY < bandY0 {
		minY = bandY0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if maxY >= bandY1 {
		maxY = bandY1 - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	invArea := 1.0 / float32(area)
	lit := tri.base.MulScalar(tri.shade)

	// Shared edges belong to exactly one of the two triangles.
	b0 := edgeBias(x1, y1, x2, y2)
	b1 := edgeBias(x2, y2, x0, y0)
	b2 := edgeBias(x0, y0, x1, y1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(x1, y1, x2, y2, x, y)
			w1 := edgeFn(x2, y2, x0, y0, x, y)
			w2 := edgeFn(x0, y0, x1, y1, x, y)
			if ((w0 + b0) | (w1 + b1) | (w2 + b2)) < 0 {
				continue
			}
			a0 := float32(w0) * invArea
			a1 := float32(w1) * invArea
			a2 := float32(w2) * invArea
			z := a0*tri.z[a] + a1*tri.z[b] + a2*tri.z[c]
			if !r.depthTest(w, x, y, z) {
				continue
			}

			var px Color
			switch {
			case r.Mode == RenderSolidVertexColor:
				px = lerpColor(tri.vc[a], tri.vc[b], tri.vc[c], a0, a1, a2)
			case tri.tex != nil:
				u := a0*tri.uv[a][0] + a1*tri.uv[b][0] + a2*tri.uv[c][0]
				v := a0*tri.uv[a][1] + a1*tri.uv[b][1] + a2*tri.uv[c][1]
				texel := tri.tex.Sample(u, v)
				px = texel.MulScalar(tri.shade).AddSat(texel.Modulate(tri.amb))
			default:
				px = lit.AddSat(tri.base.Modulate(tri.amb))
			}
			px = px.AddSat(tri.refl)

			if tri.alpha < 1 {
				px = px.Over(t.Pixel(x, y), tri.alpha)
			}
			t.SetPixel(x, y, px.WithAlpha(0xFF))
		}
	}
}

func lerpColor(c0, c1, c2 Color, a0, a1, a2 float32) Color {
	ch := func(v0, v1, v2 uint8) uint8 {
		return uint8(clampF32(a0*float32(v0)+a1*float32(v1)+a2*float32(v2), 0, 255))
	}
	return Color{R: ch(c0.R, c1.R, c2.R), G: ch(c0.G, c1.G, c2.G), B: ch(c0.B, c1.B, c2.B), A: 0xFF}
}

func edgeBias(x0, y0, x1, y1 int) int {
	dy := y1 - y0
	if dy > 0 || (dy == 0 && x1 < x0) {
		return 0
	}
	return -1
}

func edgeFn(x0, y0, x1, y1, x, y int) int {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min3(a, b, c int) int {
	if a > b {
		a = b
	}
	if a > c {
		a = c
	}
	return a
}

func max3(a, b, c int) int {
	if a < b {
		a = b
	}
	if a < c {
		a = c
	}
	return a
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
