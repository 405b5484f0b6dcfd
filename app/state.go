package app

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"orrery/assets"
	"orrery/hal"
	"orrery/kernel"
	"orrery/page"
	"orrery/quarkgl"
	"orrery/tween"
)

// Scene layout.
const (
	SphereCount    = 4
	SphereRadius   = 6
	RingRadius     = 20
	sphereWSegs    = 82
	sphereHSegs    = 56
	cameraFOVDeg   = 45
	cameraNear     = 0.1
	cameraFar      = 1000
	inboxSlots     = 16
	groupY         = -0.5
	groupTiltX     = -0.3
	sphereShine    = 0.15
	defaultAspect  = 16.0 / 9.0
	maxSceneMeshes = SphereCount
)

// CameraPosition is where the camera sits; it looks at the origin.
var CameraPosition = quarkgl.V3(-0.01, -26, 16)

// State is the whole application: scene graph, overlay, animations and
// input bookkeeping. Every method must be called from the frame loop.
type State struct {
	cfg Config
	log hal.Logger

	Scene    *quarkgl.Scene
	Renderer *quarkgl.Renderer
	Orbit    quarkgl.OrbitController
	Group    *quarkgl.Group
	Spheres  []*quarkgl.Mesh
	Page     *page.Page
	Timeline *tween.Timeline

	inbox *kernel.Inbox[assets.Result]
	rng   *rand.Rand

	// Scroll state.
	counter   int
	lastWheel time.Duration
	accepted  bool

	// Viewport in logical pixels and the derived drawing surface.
	width, height int
	dpr           float64
	surfW, surfH  int

	// Startup textures that have not succeeded or failed yet.
	pending map[string]bool
	loaded  bool

	now time.Duration
}

// Build creates the scene graph, the overlay and the startup animations at
// time now. Textures are not loaded here; see Start.
func Build(cfg Config, log hal.Logger, now time.Duration) (*State, error) {
	if err := cfg.fill(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &State{
		cfg:      cfg,
		log:      log,
		Timeline: tween.NewTimeline(now),
		inbox:    kernel.NewInbox[assets.Result](inboxSlots),
		rng:      rand.New(rand.NewSource(seed)),
		pending:  make(map[string]bool),
		dpr:      1,
	}

	mode, err := quarkgl.ParseRenderMode(cfg.RenderMode)
	if err != nil {
		return nil, err
	}
	s.Renderer = quarkgl.NewRenderer(0, 0, true)
	s.Renderer.SetRenderMode(mode)
	s.Renderer.SetWorkers(cfg.Workers)

	s.Scene = quarkgl.CreateScene(maxSceneMeshes)
	cam := &s.Scene.Camera
	cam.FOVYRad = quarkgl.Deg(cameraFOVDeg)
	cam.Near = cameraNear
	cam.Far = cameraFar
	cam.Aspect = defaultAspect
	cam.UpdateProjection()
	s.Orbit = quarkgl.OrbitFrom(quarkgl.V3(0, 0, 0), CameraPosition)
	s.Orbit.Apply(cam)

	gid := s.Scene.AddGroup(quarkgl.Group{
		Position: quarkgl.V3(0, groupY, 0),
		Rotation: quarkgl.V3(groupTiltX, 0, 0),
	})
	s.Group = s.Scene.Group(gid)

	geo := quarkgl.NewSphereMesh(SphereRadius, sphereWSegs, sphereHSegs)
	for i := 0; i < SphereCount; i++ {
		a := float64(i) / SphereCount * 2 * math.Pi
		m := geo
		m.Parent = gid
		m.Position = quarkgl.V3(quarkgl.Scalar(math.Cos(a)*RingRadius), quarkgl.Scalar(math.Sin(a)*RingRadius), 0)
		m.Material = quarkgl.Material{
			BaseColor:    quarkgl.RGB(0xCC, 0xCC, 0xCC),
			Opacity:      1,
			Reflectivity: sphereShine,
		}
		id := s.Scene.AddMesh(m)
		s.Spheres = append(s.Spheres, s.Scene.Mesh(id))
	}

	s.Page = page.New(cfg.Content)

	s.pending[cfg.Background] = true
	for _, p := range cfg.Planets {
		s.pending[p] = true
	}

	s.startup()
	return s, nil
}

func (s *State) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString(fmt.Sprintf("app: "+format, args...))
}

// Inbox receives asynchronous load results; Frame applies them.
func (s *State) Inbox() *kernel.Inbox[assets.Result] { return s.inbox }

// Counter returns the scroll counter, always in [0, SphereCount).
func (s *State) Counter() int { return s.counter }

// Loaded reports whether every startup texture has settled.
func (s *State) Loaded() bool { return s.loaded }

// Surface returns the drawing surface size computed by the last resize.
func (s *State) Surface() (w, h int) { return s.surfW, s.surfH }

// HandleResize applies a new viewport: camera aspect, projection, overlay
// layout and drawing surface size (device pixels, ratio capped at 2, times
// the render scale). It returns the surface size. Repeated calls with the
// same input change nothing.
func (s *State) HandleResize(w, h int, dpr float64) (surfW, surfH int) {
	if w <= 0 || h <= 0 {
		return s.surfW, s.surfH
	}
	if dpr <= 0 {
		dpr = 1
	}
	if dpr > MaxPixelRatio {
		dpr = MaxPixelRatio
	}
	if w == s.width && h == s.height && dpr == s.dpr && s.surfW > 0 {
		return s.surfW, s.surfH
	}
	s.width, s.height, s.dpr = w, h, dpr

	cam := &s.Scene.Camera
	cam.Aspect = quarkgl.Scalar(float64(w) / float64(h))
	cam.UpdateProjection()

	k := dpr * s.cfg.RenderScale
	s.surfW = max(1, int(math.Round(float64(w)*k)))
	s.surfH = max(1, int(math.Round(float64(h)*k)))
	s.Page.Layout(s.surfW, s.surfH)
	return s.surfW, s.surfH
}

// HandleWheel applies the scroll throttle at time now. The first event is
// always accepted; later ones only once ScrollCooldown has elapsed since the
// last accepted event. It reports whether the event was accepted.
func (s *State) HandleWheel(now time.Duration) bool {
	if s.accepted && now-s.lastWheel < ScrollCooldown {
		return false
	}
	s.accepted = true
	s.lastWheel = now
	s.counter = (s.counter + 1) % SphereCount
	s.Timeline.Advance(now)
	s.scroll()
	return true
}

// apply installs one load result. Failures are logged and otherwise ignored.
func (s *State) apply(r assets.Result) {
	defer s.settle(r.Name)
	if r.Err != nil {
		s.logf("load %s: %v", r.Name, r.Err)
		return
	}
	switch r.Kind {
	case assets.KindEnvironment:
		s.Scene.Environment = r.Env
		s.logf("environment ready")
	case assets.KindTexture:
		if r.Name == s.cfg.Background {
			s.Scene.Background = r.Texture
		}
		for i, p := range s.cfg.Planets {
			if p == r.Name {
				s.Spheres[i].Material.Texture = r.Texture
			}
		}
	}
}

func (s *State) settle(name string) {
	if !s.pending[name] {
		return
	}
	delete(s.pending, name)
	if len(s.pending) == 0 && !s.loaded {
		s.loaded = true
		s.onLoad()
	}
}

// Frame runs one iteration of the render loop at time now: apply finished
// loads, advance animations, draw the scene and the overlay into t, then
// spin each sphere.
func (s *State) Frame(now time.Duration, t quarkgl.Target) {
	s.now = now
	s.inbox.Drain(s.apply)
	s.Timeline.Advance(now)
	if t != nil {
		s.Renderer.Render(t, s.Scene)
		s.Page.Draw(t)
	}
	for _, m := range s.Spheres {
		m.Rotation.Z += SpinPerFrame
	}
}
