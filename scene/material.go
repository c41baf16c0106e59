package scene

import (
	"github.com/echoflaresat/spheretrace/colors"
	"github.com/echoflaresat/spheretrace/vectors"
)

// Material describes how a surface responds to light.
//
// Albedo weights the four shading terms: X diffuse, Y specular, Z mirror
// reflection, W refraction. They need not sum to one.
type Material struct {
	Color            colors.RGB
	Albedo           vectors.Vec4
	SpecularExponent float64
	// RefractiveIndex of 1.0 means the surface does not refract.
	RefractiveIndex float64
}

// Refracts reports whether rays pass into the material at all.
func (m Material) Refracts() bool {
	return m.RefractiveIndex != 1.0
}

func (m Material) Diffuse() float64    { return m.Albedo.X }
func (m Material) Specular() float64   { return m.Albedo.Y }
func (m Material) Reflection() float64 { return m.Albedo.Z }
func (m Material) Refraction() float64 { return m.Albedo.W }

// Presets used by the default scene and addressable by name in scene files.
var (
	Ivory = Material{
		Color:            colors.New(0.4, 0.4, 0.3),
		Albedo:           vectors.New4(0.6, 0.3, 0.1, 0.0),
		SpecularExponent: 50,
		RefractiveIndex:  1.0,
	}
	Glass = Material{
		Color:            colors.New(0.6, 0.7, 0.8),
		Albedo:           vectors.New4(0.0, 0.5, 0.1, 0.8),
		SpecularExponent: 125,
		RefractiveIndex:  1.5,
	}
	RedRubber = Material{
		Color:            colors.New(0.3, 0.1, 0.1),
		Albedo:           vectors.New4(0.9, 0.1, 0.0, 0.0),
		SpecularExponent: 10,
		RefractiveIndex:  1.0,
	}
	Mirror = Material{
		Color:            colors.New(1.0, 1.0, 1.0),
		Albedo:           vectors.New4(0.0, 10.0, 0.8, 0.0),
		SpecularExponent: 1425,
		RefractiveIndex:  1.0,
	}
)

// Presets maps preset names to materials.
func Presets() map[string]Material {
	return map[string]Material{
		"ivory":      Ivory,
		"glass":      Glass,
		"red_rubber": RedRubber,
		"mirror":     Mirror,
	}
}
