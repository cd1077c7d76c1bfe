package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/material"
)

func TestTriangle_Hit(t *testing.T) {
	triangle := NewTriangle(
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		material.Surface{},
	)

	tests := []struct {
		name      string
		ray       core.Ray
		expectHit bool
	}{
		{"inside from front", core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1)), true},
		{"inside from back", core.NewRay(core.NewVec3(0.25, 0.25, -1), core.NewVec3(0, 0, 1)), true},
		{"outside u+v>1", core.NewRay(core.NewVec3(0.75, 0.75, 1), core.NewVec3(0, 0, -1)), false},
		{"outside u<0", core.NewRay(core.NewVec3(-0.1, 0.5, 1), core.NewVec3(0, 0, -1)), false},
		{"parallel to plane", core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(1, 0, 0)), false},
		{"behind origin", core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, 1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := triangle.Hit(tt.ray, 0.001, 1000.0)
			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%v, got %v", tt.expectHit, isHit)
			}
			if isHit && math.Abs(hit.T-1.0) > 1e-9 {
				t.Errorf("Expected t=1, got %f", hit.T)
			}
		})
	}
}

func TestTriangle_Hit_BarycentricInside(t *testing.T) {
	triangle := NewTriangle(
		core.NewVec3(-1, -0.5, 2),
		core.NewVec3(1.5, -0.25, 2.5),
		core.NewVec3(0.2, 1.2, 1.8),
		material.Surface{},
	)
	sampler := core.NewSeededSampler(5)
	origin := core.NewVec3(0, 0, -3)

	hits := 0
	for i := 0; i < 2000; i++ {
		s := sampler.Get2D()
		aim := core.NewVec3(3*(s.X-0.5), 3*(s.Y-0.5), 2)
		ray := core.NewRay(origin, aim.Subtract(origin).Normalize())

		hit, isHit := triangle.Hit(ray, 0, math.Inf(1))
		if !isHit {
			continue
		}
		hits++

		u, v := triangle.Barycentric(ray.At(hit.T))
		const tolerance = 1e-9
		if u < -tolerance || v < -tolerance || u+v > 1+tolerance {
			t.Fatalf("Barycentric coordinates (%f, %f) fall outside the triangle", u, v)
		}
		// The hit point lies in the triangle's plane
		if d := hit.Point.Subtract(triangle.V0).Dot(triangle.GetNormal()); math.Abs(d) > 1e-9 {
			t.Fatalf("Hit point is %g away from the triangle plane", d)
		}
	}

	if hits == 0 {
		t.Fatal("Expected at least some rays to hit the triangle")
	}
}
