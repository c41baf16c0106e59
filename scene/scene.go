package scene

import (
	"math"

	"github.com/echoflaresat/spheretrace/colors"
	"github.com/echoflaresat/spheretrace/vectors"
)

// Environment supplies the color seen along a direction that leaves the
// scene. Texture-backed environment maps implement it.
type Environment interface {
	Sample(dir vectors.Vec3) colors.RGB
}

// Scene is the read-only world a render traces against. It is built once
// and may be shared by any number of goroutines.
type Scene struct {
	Objects    []Object
	Lights     []Light
	Background colors.RGB
	// Environment, when set, replaces Background for escaping rays.
	Environment Environment
}

// HitInfo describes the nearest surface along a ray. Only Hit is meaningful
// when nothing was hit.
type HitInfo struct {
	Hit      bool
	Material Material
	Point    vectors.Vec3
	Normal   vectors.Vec3
	Distance float64
}

// Intersect scans every object and returns the closest hit. Objects earlier
// in the list win exact ties.
func (s *Scene) Intersect(origin, dir vectors.Vec3) HitInfo {
	info := HitInfo{Distance: math.Inf(1)}
	for _, obj := range s.Objects {
		hit, dist := obj.RayIntersect(origin, dir)
		if !hit || dist >= info.Distance {
			continue
		}
		info.Hit = true
		info.Distance = dist
		info.Material = obj.Material()
		info.Point = origin.Add(dir.Scale(dist))
		info.Normal = info.Point.Sub(obj.Position()).Normalize()
	}
	return info
}

// BackgroundAt returns the color seen along dir when a ray escapes.
func (s *Scene) BackgroundAt(dir vectors.Vec3) colors.RGB {
	if s.Environment != nil {
		return s.Environment.Sample(dir)
	}
	return s.Background
}

// Default returns the reference scene: four spheres of different materials
// lit by three point lights.
func Default() *Scene {
	return &Scene{
		Objects: []Object{
			NewSphere(vectors.New(-3, 0, -16), 2, Ivory),
			NewSphere(vectors.New(-1.0, -1.5, -12), 2, Glass),
			NewSphere(vectors.New(1.5, -0.5, -18), 3, RedRubber),
			NewSphere(vectors.New(7, 5, -18), 4, Mirror),
		},
		Lights: []Light{
			{Position: vectors.New(-20, 20, 20), Intensity: 1.5},
			{Position: vectors.New(30, 50, -25), Intensity: 1.8},
			{Position: vectors.New(30, 20, 30), Intensity: 1.7},
		},
		Background: DefaultBackground,
	}
}

var DefaultBackground = colors.New(0.2, 0.7, 0.8)
