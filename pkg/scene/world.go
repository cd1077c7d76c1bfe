package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/geometry"
	"github.com/df07/go-stream-raytracer/pkg/lights"
)

// cameraBasisEpsilon is the tolerance for the camera orthonormality check
const cameraBasisEpsilon = 1e-6

// ErrCameraBasis is returned for a camera whose up hint is parallel to the view direction
var ErrCameraBasis = errors.New("camera basis is not orthonormal")

// World is the render-ready form of a Scene: the camera is built, every shape is
// flattened into one primitive list, and nothing changes while rendering. It is
// shared read-only between workers.
type World struct {
	Camera     *geometry.Camera
	Primitives []geometry.Primitive
	Lights     []lights.Light
}

// NewWorld validates the scene and builds the render-ready world
func NewWorld(s *Scene) (*World, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene %q: %w", s.Name, err)
	}

	camera := geometry.NewCamera(s.Camera)
	if !camera.Orthonormal(cameraBasisEpsilon) {
		return nil, fmt.Errorf("scene %q: %w (forward=%v up=%v right=%v)",
			s.Name, ErrCameraBasis, camera.Forward, camera.Up, camera.Right)
	}

	primitives := make([]geometry.Primitive, 0, len(s.Spheres)+len(s.Planes)+len(s.Triangles)+len(s.Meshes))
	for _, sphere := range s.Spheres {
		primitives = append(primitives, geometry.SpherePrimitive(sphere))
	}
	for _, plane := range s.Planes {
		primitives = append(primitives, geometry.PlanePrimitive(plane))
	}
	for _, triangle := range s.Triangles {
		primitives = append(primitives, geometry.TrianglePrimitive(triangle))
	}
	for _, mesh := range s.Meshes {
		primitives = append(primitives, geometry.MeshPrimitive(mesh))
	}

	worldLights := make([]lights.Light, 0, len(s.Lights))
	for _, light := range s.Lights {
		worldLights = append(worldLights, light)
	}

	return &World{
		Camera:     camera,
		Primitives: primitives,
		Lights:     worldLights,
	}, nil
}

// ClosestHit finds the nearest primitive hit by the ray in [tMin, tMax]
func (w *World) ClosestHit(ray core.Ray, tMin, tMax float64) (geometry.HitRecord, *geometry.Primitive, bool) {
	var closest geometry.HitRecord
	var hitPrimitive *geometry.Primitive

	for i := range w.Primitives {
		if hit, ok := w.Primitives[i].Hit(ray, tMin, tMax); ok {
			tMax = hit.T
			closest = hit
			hitPrimitive = &w.Primitives[i]
		}
	}

	return closest, hitPrimitive, hitPrimitive != nil
}
