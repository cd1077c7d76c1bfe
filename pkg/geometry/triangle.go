package geometry

import (
	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/material"
)

// triangleEpsilon is the determinant threshold below which a ray counts as parallel
const triangleEpsilon = 1e-8

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3 // The three vertices
	Surface    material.Surface
	normal     core.Vec3 // Cached normal vector
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, surface material.Surface) *Triangle {
	t := &Triangle{
		V0:      v0,
		V1:      v1,
		V2:      v2,
		Surface: surface,
	}
	t.normal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	return t
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)

	// Ray lies in (or parallel to) the plane of the triangle
	if det > -triangleEpsilon && det < triangleEpsilon {
		return HitRecord{}, false
	}

	f := 1.0 / det
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return HitRecord{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return HitRecord{}, false
	}

	tParam := f * edge2.Dot(q)
	if tParam < tMin || tParam > tMax {
		return HitRecord{}, false
	}

	return HitRecord{
		T:      tParam,
		Point:  ray.At(tParam),
		Normal: t.normal,
	}, true
}

// Barycentric returns the (u, v) coordinates of point p with respect to V1 and V2.
// p is assumed to lie in the triangle's plane.
func (t *Triangle) Barycentric(p core.Vec3) (u, v float64) {
	e1 := t.V1.Subtract(t.V0)
	e2 := t.V2.Subtract(t.V0)
	ep := p.Subtract(t.V0)

	d11 := e1.Dot(e1)
	d12 := e1.Dot(e2)
	d22 := e2.Dot(e2)
	dp1 := ep.Dot(e1)
	dp2 := ep.Dot(e2)

	denom := d11*d22 - d12*d12
	if denom == 0 {
		return 0, 0
	}
	u = (d22*dp1 - d12*dp2) / denom
	v = (d11*dp2 - d12*dp1) / denom
	return u, v
}

// GetNormal returns the triangle's normal vector
func (t *Triangle) GetNormal() core.Vec3 {
	return t.normal
}
