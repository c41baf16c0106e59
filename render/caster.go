package render

import (
	"math"

	"github.com/echoflaresat/spheretrace/colors"
	"github.com/echoflaresat/spheretrace/scene"
	"github.com/echoflaresat/spheretrace/vectors"
)

const DefaultMaxBounces = 4

// Caster shades rays against a scene. It holds no mutable state, so one
// Caster may serve many goroutines.
type Caster struct {
	Scene      *scene.Scene
	MaxBounces int
}

func NewCaster(sc *scene.Scene, maxBounces int) *Caster {
	return &Caster{Scene: sc, MaxBounces: maxBounces}
}

// CastRay returns the color seen along origin + t*dir. dir must be unit
// length. depth counts the reflective or refractive bounces taken so far;
// once it exceeds MaxBounces the ray sees the background.
//
// The result is not clamped.
func (c *Caster) CastRay(origin, dir vectors.Vec3, depth int) colors.RGB {
	hit := c.Scene.Intersect(origin, dir)
	if !hit.Hit || depth > c.MaxBounces {
		return c.Scene.BackgroundAt(dir)
	}

	ctx := RayContext{Origin: origin, Direction: dir, Depth: depth, Hit: hit}

	reflectColor := c.reflection(ctx)
	refractColor := c.refraction(ctx)
	diffuse, specular := c.illuminate(ctx)

	m := hit.Material
	return m.Color.Scale(diffuse).Scale(m.Diffuse()).
		Add(colors.White().Scale(specular).Scale(m.Specular())).
		Add(reflectColor.Scale(m.Reflection())).
		Add(refractColor.Scale(m.Refraction()))
}

func (c *Caster) reflection(ctx RayContext) colors.RGB {
	dir := vectors.Reflect(ctx.Direction, ctx.Hit.Normal)
	return c.CastRay(ctx.offsetOrigin(dir), dir, ctx.Depth+1)
}

// refraction is black for materials that do not refract and on total
// internal reflection.
func (c *Caster) refraction(ctx RayContext) colors.RGB {
	m := ctx.Hit.Material
	if !m.Refracts() {
		return colors.Black()
	}
	dir := vectors.Refract(ctx.Direction, ctx.Hit.Normal, m.RefractiveIndex)
	if dir.IsZero() {
		return colors.Black()
	}
	return c.CastRay(ctx.offsetOrigin(dir), dir, ctx.Depth+1)
}

// illuminate sums the Phong diffuse and specular intensities of every light
// that has a clear line of sight to the hit point.
func (c *Caster) illuminate(ctx RayContext) (diffuse, specular float64) {
	point, normal := ctx.Hit.Point, ctx.Hit.Normal
	exponent := ctx.Hit.Material.SpecularExponent

	for _, light := range c.Scene.Lights {
		toLight := light.Position.Sub(point)
		lightDir := toLight.Normalize()
		lightDistance := toLight.Norm()

		shadowOrigin := ctx.offsetOrigin(lightDir)
		if shadow := c.Scene.Intersect(shadowOrigin, lightDir); shadow.Hit &&
			shadow.Point.Sub(shadowOrigin).Norm() < lightDistance {
			continue
		}

		diffuse += light.Intensity * math.Max(0, lightDir.Dot(normal))
		specular += light.Intensity * math.Pow(math.Max(0, vectors.Reflect(lightDir, normal).Dot(ctx.Direction)), exponent)
	}
	return diffuse, specular
}
