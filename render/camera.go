package render

import (
	"math"

	"github.com/echoflaresat/spheretrace/vectors"
)

// Camera is a pinhole camera at the origin looking down -Z with +Y up.
type Camera struct {
	// FOV is the horizontal half-angle in radians.
	FOV    float64
	TanFOV float64
}

func NewCamera(fov float64) Camera {
	return Camera{
		FOV:    fov,
		TanFOV: math.Tan(fov),
	}
}

// ComputeRay returns the normalized viewing direction through the image
// point (i,j) of a width x height image. i and j are continuous pixel
// coordinates: pixel (x,y) spans [x,x+1) x [y,y+1), so its center is at
// (x+0.5, y+0.5).
func (c Camera) ComputeRay(i, j float64, width, height int) vectors.Vec3 {
	w := float64(width)
	h := float64(height)

	// NDC in [-1, +1], flip Y to make +up in screen space.
	screen := vectors.Vec2{
		X: 2*i/w - 1,
		Y: -(2*j/h - 1),
	}

	// The horizontal half-angle spans the width; height keeps square pixels.
	xPlane := screen.X * c.TanFOV
	yPlane := screen.Y * c.TanFOV * h / w

	return vectors.New(xPlane, yPlane, -1).Normalize()
}
