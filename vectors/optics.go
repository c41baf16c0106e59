package vectors

import "math"

// Reflect mirrors the incident direction i about the surface normal n:
// i - n*2*(i·n). Both inputs are expected to be unit length; the result is
// not renormalized.
func Reflect(i, n Vec3) Vec3 {
	return i.Sub(n.Scale(2.0 * i.Dot(n)))
}

// Refract bends the unit incident direction i through a surface with unit
// normal n using the vector form of Snell's law. eta is the refractive index
// of the medium on the far side of n; the other side is taken as 1.0.
//
// When the ray starts inside the medium (i·n > 0) the indices are swapped and
// the normal flipped. On total internal reflection the zero vector is
// returned, and callers must check for it with IsZero.
func Refract(i, n Vec3, eta float64) Vec3 {
	cosI := -n.Dot(i)

	n1, n2 := eta, 1.0
	if cosI < 0 {
		// leaving the medium
		n1, n2 = 1.0, eta
		n = n.Neg()
		cosI = -cosI
	}

	ratio := n2 / n1
	k := 1.0 - ratio*ratio*(1.0-cosI*cosI)
	if k < 0 {
		return Zero()
	}
	return i.Scale(ratio).Add(n.Scale(ratio*cosI - math.Sqrt(k))).Normalize()
}
