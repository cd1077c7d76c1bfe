package geometry

import (
	"fmt"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/material"
)

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	T      float64   // Parameter t along the ray
	Point  core.Vec3 // Point of intersection
	Normal core.Vec3 // Unit geometric normal, pointing out of the object
}

// FrontFace reports whether the ray arrived from the side the normal points to
func (h HitRecord) FrontFace(ray core.Ray) bool {
	return ray.Direction.Dot(h.Normal) < 0
}

// FacingNormal returns the normal flipped to face against the ray
func (h HitRecord) FacingNormal(ray core.Ray) core.Vec3 {
	if h.FrontFace(ray) {
		return h.Normal
	}
	return h.Normal.Negate()
}

// Kind identifies the concrete shape held by a Primitive
type Kind int

const (
	KindSphere Kind = iota
	KindPlane
	KindTriangle
	KindMesh
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindPlane:
		return "plane"
	case KindTriangle:
		return "triangle"
	case KindMesh:
		return "mesh"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Primitive is a closed union over the supported shapes. Exactly one of the
// shape pointers is set, selected by Kind. Dispatch is a switch rather than an
// interface call because Hit sits in the innermost rendering loop.
type Primitive struct {
	Kind     Kind
	Sphere   *Sphere
	Plane    *Plane
	Triangle *Triangle
	Mesh     *Mesh
}

// SpherePrimitive wraps a sphere
func SpherePrimitive(s *Sphere) Primitive { return Primitive{Kind: KindSphere, Sphere: s} }

// PlanePrimitive wraps a plane
func PlanePrimitive(p *Plane) Primitive { return Primitive{Kind: KindPlane, Plane: p} }

// TrianglePrimitive wraps a triangle
func TrianglePrimitive(t *Triangle) Primitive { return Primitive{Kind: KindTriangle, Triangle: t} }

// MeshPrimitive wraps a mesh
func MeshPrimitive(m *Mesh) Primitive { return Primitive{Kind: KindMesh, Mesh: m} }

// Hit tests the wrapped shape for the nearest intersection in [tMin, tMax]
func (p *Primitive) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	switch p.Kind {
	case KindSphere:
		return p.Sphere.Hit(ray, tMin, tMax)
	case KindPlane:
		return p.Plane.Hit(ray, tMin, tMax)
	case KindTriangle:
		return p.Triangle.Hit(ray, tMin, tMax)
	case KindMesh:
		return p.Mesh.Hit(ray, tMin, tMax)
	}
	return HitRecord{}, false
}

// Surface returns the material attached to the wrapped shape
func (p *Primitive) Surface() material.Surface {
	switch p.Kind {
	case KindSphere:
		return p.Sphere.Surface
	case KindPlane:
		return p.Plane.Surface
	case KindTriangle:
		return p.Triangle.Surface
	case KindMesh:
		return p.Mesh.Surface
	}
	return material.Surface{}
}
