package render

import (
	"math"
	"testing"

	"github.com/echoflaresat/spheretrace/vectors"
)

func TestComputeRay(t *testing.T) {
	cam := NewCamera(math.Pi / 4)

	tests := []struct {
		name string
		i, j float64
		w, h int
		want vectors.Vec3
	}{
		{"image center", 320, 240, 640, 480, vectors.New(0, 0, -1)},
		{"top left corner", 0, 0, 640, 480, vectors.New(-1, 0.75, -1).Normalize()},
		{"bottom right corner", 640, 480, 640, 480, vectors.New(1, -0.75, -1).Normalize()},
		{"single pixel center", 0.5, 0.5, 1, 1, vectors.New(0, 0, -1)},
		{"right edge middle", 100, 50, 100, 100, vectors.New(1, 0, -1).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cam.ComputeRay(tt.i, tt.j, tt.w, tt.h)
			if !almostEqual(got.X, tt.want.X) || !almostEqual(got.Y, tt.want.Y) || !almostEqual(got.Z, tt.want.Z) {
				t.Errorf("ComputeRay(%v, %v) = %v, want %v", tt.i, tt.j, got, tt.want)
			}
			if !almostEqual(got.Norm(), 1) {
				t.Errorf("ray length = %v, want 1", got.Norm())
			}
		})
	}
}

func TestComputeRayWidensWithFOV(t *testing.T) {
	narrow := NewCamera(math.Pi / 8).ComputeRay(0, 50, 100, 100)
	wide := NewCamera(math.Pi / 3).ComputeRay(0, 50, 100, 100)
	if !(math.Abs(wide.X) > math.Abs(narrow.X)) {
		t.Errorf("wide FOV edge ray %v should lean further out than narrow %v", wide, narrow)
	}
}
