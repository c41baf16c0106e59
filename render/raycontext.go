package render

import (
	"github.com/echoflaresat/spheretrace/scene"
	"github.com/echoflaresat/spheretrace/vectors"
)

// Bias is how far secondary ray origins are pushed off the surface so they
// do not immediately re-hit it.
const Bias = 1e-3

// RayContext carries the per-ray state the shading branches share.
type RayContext struct {
	Origin    vectors.Vec3
	Direction vectors.Vec3
	Depth     int
	Hit       scene.HitInfo
}

// offsetOrigin returns the hit point nudged along the normal toward the
// side that dir points into.
func (c RayContext) offsetOrigin(dir vectors.Vec3) vectors.Vec3 {
	n := c.Hit.Normal.Scale(Bias)
	if dir.Dot(c.Hit.Normal) < 0 {
		return c.Hit.Point.Sub(n)
	}
	return c.Hit.Point.Add(n)
}
