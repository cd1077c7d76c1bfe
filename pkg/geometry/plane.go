package geometry

import (
	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/material"
)

// planeEpsilon rejects rays that are parallel to the plane or approach it from behind
const planeEpsilon = 1e-6

// Plane represents an infinite single-sided plane defined by a point and normal.
// Only rays travelling against the normal can hit it.
type Plane struct {
	Center  core.Vec3 // A point on the plane
	Normal  core.Vec3 // Unit normal of the visible side
	Surface material.Surface
}

// NewPlane creates a new plane
func NewPlane(center, normal core.Vec3, surface material.Surface) *Plane {
	return &Plane{
		Center:  center,
		Normal:  normal.Normalize(),
		Surface: surface,
	}
}

// Hit tests if a ray intersects with the front side of the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	facing := p.Normal.Negate()

	// t = (C - O)·(-N) / ((-N)·D)
	denominator := facing.Dot(ray.Direction)
	if denominator <= planeEpsilon {
		return HitRecord{}, false
	}

	t := p.Center.Subtract(ray.Origin).Dot(facing) / denominator
	if t < tMin || t > tMax {
		return HitRecord{}, false
	}

	return HitRecord{
		T:      t,
		Point:  ray.At(t),
		Normal: p.Normal,
	}, true
}
