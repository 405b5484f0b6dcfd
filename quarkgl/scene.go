package quarkgl

// Material is a minimal surface description.
type Material struct {
	// BaseColor is used when Texture is nil (or not loaded yet).
	BaseColor Color
	Texture   *Texture

	// Opacity is only honored when Transparent is set. 0 is invisible.
	Opacity     Scalar
	Transparent bool

	// Reflectivity scales the environment reflection, 0..1.
	Reflectivity Scalar
}

// LightMode defines minimal lighting options.
type LightMode uint8

const (
	LightOff LightMode = iota
	LightAmbientDirectional
)

// Light is a minimal light setup.
type Light struct {
	Mode      LightMode
	Ambient   Scalar // 0..1
	Dir       Vec3   // direction *towards* the scene
	DirAmount Scalar // 0..1
}

// Camera is a perspective camera.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3

	FOVYRad Scalar

	Near Scalar
	Far  Scalar

	// Aspect is width/height. Zero means "use the target size".
	Aspect Scalar

	proj      Mat4
	projValid bool
}

// View returns the camera view matrix.
func (c *Camera) View() Mat4 {
	up := c.Up
	if up == (Vec3{}) {
		up = V3(0, 1, 0)
	}
	return Mat4LookAt(c.Position, c.Target, up)
}

// Projection returns the projection matrix for a target aspect.
func (c *Camera) Projection(aspect Scalar) Mat4 {
	fov := c.FOVYRad
	if fov == 0 {
		fov = Scalar(1.0)
	}
	return Mat4Perspective(fov, aspect, c.Near, c.Far)
}

// UpdateProjection recomputes the cached projection from Aspect.
// Call it after changing Aspect, FOVYRad, Near or Far.
func (c *Camera) UpdateProjection() {
	c.proj = c.Projection(c.Aspect)
	c.projValid = c.Aspect != 0
}

// ProjectionMatrix returns the cached projection, or one computed for the
// fallback aspect if UpdateProjection has not run.
func (c *Camera) ProjectionMatrix(fallbackAspect Scalar) Mat4 {
	if c.projValid {
		return c.proj
	}
	return c.Projection(fallbackAspect)
}

// Vertex is a mesh vertex.
type Vertex struct {
	Pos    Vec3
	Normal Vec3
	UV     [2]Scalar
	Color  Color
}

// Group is a transform node that meshes can be parented to.
type Group struct {
	Position Vec3
	Rotation Vec3 // Euler XYZ, radians
}

// Matrix returns the group's world transform.
func (g *Group) Matrix() Mat4 {
	return Mat4Compose(g.Position, g.Rotation)
}

// Mesh is a triangle mesh with a local transform.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint16 // triangle list

	Position Vec3
	Rotation Vec3 // Euler XYZ, radians

	// Parent is a group id, or -1 for the scene root.
	Parent int

	Material Material
}

// Local returns the mesh transform relative to its parent.
func (m *Mesh) Local() Mat4 {
	return Mat4Compose(m.Position, m.Rotation)
}

// Scene is a collection of objects to render.
type Scene struct {
	Camera Camera
	Light  Light

	// Background is stretched over the whole target before meshes are drawn.
	Background *Texture
	// Environment adds ambient light and reflections when set.
	Environment *EnvMap

	meshes []Mesh
	alive  []bool
	groups []*Group
}

// CreateScene allocates a scene with a fixed mesh capacity.
//
// Mesh storage never grows, so pointers returned by Mesh stay valid.
func CreateScene(maxMeshes int) *Scene {
	if maxMeshes < 0 {
		maxMeshes = 0
	}
	return &Scene{
		Camera: Camera{
			Position:  V3(0, 0, 3),
			Target:    V3(0, 0, 0),
			Up:        V3(0, 1, 0),
			FOVYRad:   Scalar(1.0),
			Near:      Scalar(0.05),
			Far:       Scalar(100),
		},
		Light: Light{
			Mode:      LightAmbientDirectional,
			Ambient:   Scalar(0.25),
			Dir:       Normalize(V3(1, 1, 1)),
			DirAmount: Scalar(0.75),
		},
		meshes: make([]Mesh, maxMeshes),
		alive:  make([]bool, maxMeshes),
	}
}

// AddGroup adds a transform node and returns its id.
func (s *Scene) AddGroup(g Group) int {
	if s == nil {
		return -1
	}
	s.groups = append(s.groups, &g)
	return len(s.groups) - 1
}

// Group returns the group for id, or nil.
func (s *Scene) Group(id int) *Group {
	if s == nil || id < 0 || id >= len(s.groups) {
		return nil
	}
	return s.groups[id]
}

// AddMesh adds a mesh to the scene and returns its id or -1 if full.
func (s *Scene) AddMesh(m Mesh) int {
	if s == nil {
		return -1
	}
	for i := range s.meshes {
		if s.alive[i] {
			continue
		}
		if !m.Material.Transparent && m.Material.Opacity == 0 {
			m.Material.Opacity = 1
		}
		if m.Material.BaseColor == (Color{}) {
			m.Material.BaseColor = RGB(0xCC, 0xCC, 0xCC)
		}
		if m.Parent < 0 || m.Parent >= len(s.groups) {
			m.Parent = -1
		}
		s.meshes[i] = m
		s.alive[i] = true
		return i
	}
	return -1
}

// Mesh returns the live mesh for id, or nil.
func (s *Scene) Mesh(id int) *Mesh {
	if s == nil || id < 0 || id >= len(s.meshes) || !s.alive[id] {
		return nil
	}
	return &s.meshes[id]
}

// World returns the world transform of a mesh.
func (s *Scene) World(m *Mesh) Mat4 {
	local := m.Local()
	if g := s.Group(m.Parent); g != nil {
		return Mat4Mul(g.Matrix(), local)
	}
	return local
}

func (s *Scene) eachMesh(fn func(m *Mesh)) {
	for i := range s.meshes {
		if !s.alive[i] {
			continue
		}
		fn(&s.meshes[i])
	}
}
