package integrator

import (
	"math"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/geometry"
	"github.com/df07/go-stream-raytracer/pkg/material"
)

// Offsets applied to secondary ray origins so they do not re-hit the surface they leave
const (
	ShadowEpsilon  = 1e-4
	SurfaceEpsilon = 1e-3
)

// traceFunc continues a path along a secondary ray at the given depth
type traceFunc func(ray core.Ray, depth int) core.Vec3

// offsetRay starts a ray at point, nudged along normal to the side direction leaves through
func offsetRay(point, normal, direction core.Vec3, epsilon float64) core.Ray {
	if direction.Dot(normal) < 0 {
		normal = normal.Negate()
	}
	return core.NewRay(point.Add(normal.Multiply(epsilon)), direction)
}

// specularColor returns the mirror or dielectric contribution at a hit.
// Dielectrics weigh reflection against refraction with the Schlick term and
// scale the blend by kt, except under total internal reflection. Opaque
// surfaces add kr times the mirrored radiance.
func specularColor(ray core.Ray, hit geometry.HitRecord, surface material.Surface, depth int, trace traceFunc) core.Vec3 {
	if surface.IsDielectric() {
		return dielectricColor(ray, hit, surface, depth, trace)
	}
	if surface.Kr <= 0 {
		return core.Vec3{}
	}

	normal := hit.FacingNormal(ray)
	reflected := core.Reflect(ray.Direction, normal).Normalize()
	return trace(offsetRay(hit.Point, normal, reflected, SurfaceEpsilon), depth+1).Multiply(surface.Kr)
}

// dielectricColor handles transmission through a surface with kt > 0.
// The side of the surface is decided by the sign of N·D.
func dielectricColor(ray core.Ray, hit geometry.HitRecord, surface material.Surface, depth int, trace traceFunc) core.Vec3 {
	normal := hit.Normal
	n1, n2 := material.AirIndex, material.DielectricIndex
	if ray.Direction.Dot(normal) > 0 {
		// Leaving the object
		normal = normal.Negate()
		n1, n2 = n2, n1
	}

	direction := ray.Direction.Normalize()
	reflected := core.Reflect(direction, normal).Normalize()
	reflectedColor := trace(offsetRay(hit.Point, normal, reflected, SurfaceEpsilon), depth+1)

	refracted, cosTransmitted, ok := core.Refract(direction, normal, n1/n2)
	if !ok {
		// Total internal reflection: all the energy is reflected
		return reflectedColor
	}

	cosine := math.Min(-direction.Dot(normal), 1.0)
	if n1 > n2 {
		cosine = cosTransmitted
	}
	fresnel := core.Schlick(cosine, n1, n2)

	refractedColor := trace(offsetRay(hit.Point, normal, refracted, SurfaceEpsilon), depth+1)

	return reflectedColor.Multiply(fresnel).
		Add(refractedColor.Multiply(1 - fresnel)).
		Multiply(surface.Kt)
}
