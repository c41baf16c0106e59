package scene

import (
	"math"

	"github.com/echoflaresat/spheretrace/vectors"
)

// Light is a point light.
type Light struct {
	Position  vectors.Vec3
	Intensity float64
}

// Object is anything a ray can hit.
//
// The scene derives surface normals as normalize(hit - Position()), which is
// only correct for shapes centered on their position.
type Object interface {
	// RayIntersect reports whether the ray origin + t*dir (dir unit length)
	// hits the object at some t >= 0, and the nearest such t.
	RayIntersect(origin, dir vectors.Vec3) (bool, float64)
	Position() vectors.Vec3
	Material() Material
}

type Sphere struct {
	Center   vectors.Vec3
	Radius   float64
	material Material
}

func NewSphere(center vectors.Vec3, radius float64, material Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		material: material,
	}
}

// RayIntersect solves the ray/sphere intersection geometrically: project the
// center onto the ray, then step back by the half chord. A ray starting
// inside the sphere reports the far root. A tangent ray is a hit.
func (s *Sphere) RayIntersect(origin, dir vectors.Vec3) (bool, float64) {
	L := s.Center.Sub(origin)
	tca := L.Dot(dir)
	d2 := L.Dot(L) - tca*tca
	r2 := s.Radius * s.Radius
	if d2 > r2 {
		return false, 0
	}

	thc := math.Sqrt(r2 - d2)
	t0 := tca - thc
	t1 := tca + thc
	if t0 < 0 {
		t0 = t1
	}
	return t0 >= 0, t0
}

func (s *Sphere) Position() vectors.Vec3 {
	return s.Center
}

func (s *Sphere) Material() Material {
	return s.material
}
