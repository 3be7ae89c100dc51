package device

import "github.com/go-gl/mathgl/mgl64"

// Ray is a half-line in world space.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay returns a ray with a normalized direction.
// A zero direction is kept as-is.
func NewRay(origin, direction mgl64.Vec3) Ray {
	if direction.Len() > 0 {
		direction = direction.Normalize()
	}
	return Ray{Origin: origin, Direction: direction}
}

// PointAt returns the point at distance t along the ray.
func (r Ray) PointAt(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// DistanceTo returns the parameter of the point on the ray closest to p.
// Points behind the origin clamp to 0.
func (r Ray) DistanceTo(p mgl64.Vec3) float64 {
	t := p.Sub(r.Origin).Dot(r.Direction)
	if t < 0 {
		return 0
	}
	return t
}

// DeviceRay pairs a world ray with the optional 2D screen position that
// produced it.
type DeviceRay struct {
	WorldRay       Ray
	Has2D          bool
	ScreenPosition mgl64.Vec2
}

// ScreenRay returns the ray cast straight into the screen plane from a 2D
// position. Hosts without a 3D camera use it to give every sample a ray.
func ScreenRay(pos mgl64.Vec2) Ray {
	return Ray{
		Origin:    mgl64.Vec3{pos.X(), pos.Y(), 0},
		Direction: mgl64.Vec3{0, 0, 1},
	}
}
