package vectors

import (
	"math"
	"testing"
)

func TestReflectFlipsNormalComponent(t *testing.T) {
	normals := []Vec3{
		New(0, 1, 0),
		New(1, 1, 0).Normalize(),
		New(-0.3, 0.2, 0.9).Normalize(),
	}
	incidents := []Vec3{
		New(1, -1, 0).Normalize(),
		New(0, 0, -1),
		New(0.5, 0.5, 0.5).Normalize(),
		New(-2, 1, 7).Normalize(),
	}

	for _, n := range normals {
		for _, i := range incidents {
			r := Reflect(i, n)
			if !almostEqual(r.Dot(n), -i.Dot(n)) {
				t.Errorf("Reflect(%v, %v)·n = %v, want %v", i, n, r.Dot(n), -i.Dot(n))
			}
			if !almostEqual(r.Norm(), 1) {
				t.Errorf("|Reflect(%v, %v)| = %v, want 1", i, n, r.Norm())
			}
		}
	}
}

func TestReflectHeadOn(t *testing.T) {
	got := Reflect(New(0, 0, -1), New(0, 0, 1))
	if !vec3Equal(got, New(0, 0, 1)) {
		t.Errorf("Reflect head-on = %v, want (0,0,1)", got)
	}
}

func TestRefract(t *testing.T) {
	up := New(0, 1, 0)
	at45 := New(1, -1, 0).Normalize()

	tests := []struct {
		name     string
		incident Vec3
		normal   Vec3
		eta      float64
		check    func(t *testing.T, r Vec3)
	}{
		{
			name:     "index 1 does not bend",
			incident: at45,
			normal:   up,
			eta:      1.0,
			check: func(t *testing.T, r Vec3) {
				if !vec3Equal(r, at45) {
					t.Errorf("got %v, want %v", r, at45)
				}
			},
		},
		{
			name:     "normal incidence passes straight through",
			incident: New(0, -1, 0),
			normal:   up,
			eta:      1.5,
			check: func(t *testing.T, r Vec3) {
				if !vec3Equal(r, New(0, -1, 0)) {
					t.Errorf("got %v, want (0,-1,0)", r)
				}
			},
		},
		{
			name:     "entering glass bends toward the normal",
			incident: at45,
			normal:   up,
			eta:      1.5,
			check: func(t *testing.T, r Vec3) {
				// sin(out) = sin(45°) / 1.5
				wantSin := math.Sin(math.Pi/4) / 1.5
				if !almostEqual(r.X, wantSin) {
					t.Errorf("sin(out) = %v, want %v", r.X, wantSin)
				}
				if r.Y >= 0 {
					t.Errorf("refracted ray %v does not continue downward", r)
				}
				if !almostEqual(r.Norm(), 1) {
					t.Errorf("|r| = %v, want 1", r.Norm())
				}
			},
		},
		{
			name:     "leaving glass bends away from the normal",
			incident: New(0.3, 1, 0).Normalize(),
			normal:   up,
			eta:      1.5,
			check: func(t *testing.T, r Vec3) {
				sinIn := New(0.3, 1, 0).Normalize().X
				if !almostEqual(r.X, sinIn*1.5) {
					t.Errorf("sin(out) = %v, want %v", r.X, sinIn*1.5)
				}
				if r.Y <= 0 {
					t.Errorf("refracted ray %v does not continue upward", r)
				}
			},
		},
		{
			name:     "total internal reflection returns zero",
			incident: New(1, 0.2, 0).Normalize(),
			normal:   up,
			eta:      1.5,
			check: func(t *testing.T, r Vec3) {
				if !r.IsZero() {
					t.Errorf("got %v, want zero vector", r)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Refract(tt.incident, tt.normal, tt.eta))
		})
	}
}

func TestRefractZeroIffNegativeK(t *testing.T) {
	n := New(0, 1, 0)
	const eta = 1.5
	for deg := 1.0; deg < 90; deg += 1 {
		rad := deg * math.Pi / 180
		// ray leaving the medium at angle deg from the normal
		i := New(math.Sin(rad), math.Cos(rad), 0)
		cosI := i.Y
		k := 1 - eta*eta*(1-cosI*cosI)

		r := Refract(i, n, eta)
		if (k < 0) != r.IsZero() {
			t.Errorf("angle %v°: k=%v but Refract returned %v", deg, k, r)
		}
	}
}
