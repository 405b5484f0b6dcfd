package quarkgl

import "math"

// OrbitController places a camera on a sphere around a target and aims it there.
//
// It does not depend on any input system.
type OrbitController struct {
	Target Vec3
	Yaw    Scalar
	Pitch  Scalar
	Radius Scalar
}

// OrbitFrom returns a controller whose Apply reproduces position pos while
// looking at target.
func OrbitFrom(target, pos Vec3) OrbitController {
	d := pos.Sub(target)
	r := Len(d)
	if r == 0 {
		return OrbitController{Target: target}
	}
	return OrbitController{
		Target: target,
		Yaw:    Scalar(math.Atan2(float64(d.X), float64(d.Z))),
		Pitch:  Scalar(math.Asin(float64(Clamp(-d.Y/r, -1, 1)))),
		Radius: r,
	}
}

// Apply moves cam onto the orbit and points it at Target.
func (c *OrbitController) Apply(cam *Camera) {
	if cam == nil {
		return
	}
	r := c.Radius
	if r == 0 {
		r = Scalar(3)
	}

	m := Mat4Mul(Mat4RotateY(c.Yaw), Mat4RotateX(c.Pitch))
	p := Mat4MulV4(m, Vec4{X: 0, Y: 0, Z: r, W: 1})

	cam.Position = c.Target.Add(V3(p.X, p.Y, p.Z))
	cam.Target = c.Target
	if cam.Up == (Vec3{}) {
		cam.Up = V3(0, 1, 0)
	}
}
