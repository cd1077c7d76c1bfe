package geometry

import (
	"math"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center  core.Vec3
	Radius  float64
	Surface material.Surface
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, surface material.Surface) *Sphere {
	return &Sphere{
		Center:  center,
		Radius:  radius,
		Surface: surface,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return HitRecord{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		// Try the farther intersection point
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return HitRecord{}, false
		}
	}

	point := ray.At(root)
	return HitRecord{
		T:      root,
		Point:  point,
		Normal: point.Subtract(s.Center).Multiply(1.0 / s.Radius),
	}, true
}
