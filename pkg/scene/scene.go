package scene

import (
	"fmt"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/geometry"
	"github.com/df07/go-stream-raytracer/pkg/lights"
	"github.com/df07/go-stream-raytracer/pkg/material"
)

// Scene contains all the elements needed for rendering. It is built by a
// loader or one of the built-in constructors and turned into a World before
// any ray is traced.
type Scene struct {
	Name        string
	Description string
	Camera      geometry.CameraConfig

	Spheres   []*geometry.Sphere
	Planes    []*geometry.Plane
	Triangles []*geometry.Triangle
	Meshes    []*geometry.Mesh
	Lights    []*lights.PointLight
}

// NewScene creates an empty scene with the given camera
func NewScene(name string, camera geometry.CameraConfig) *Scene {
	return &Scene{
		Name:   name,
		Camera: camera,
	}
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, surface material.Surface) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius, surface)
	s.Spheres = append(s.Spheres, sphere)
	return sphere
}

// AddPlane adds a single-sided infinite plane to the scene
func (s *Scene) AddPlane(center, normal core.Vec3, surface material.Surface) *geometry.Plane {
	plane := geometry.NewPlane(center, normal, surface)
	s.Planes = append(s.Planes, plane)
	return plane
}

// AddTriangle adds a triangle to the scene
func (s *Scene) AddTriangle(v0, v1, v2 core.Vec3, surface material.Surface) *geometry.Triangle {
	triangle := geometry.NewTriangle(v0, v1, v2, surface)
	s.Triangles = append(s.Triangles, triangle)
	return triangle
}

// AddQuad adds a parallelogram made of two triangles spanning corner+u and corner+v
func (s *Scene) AddQuad(corner, u, v core.Vec3, surface material.Surface) {
	s.AddTriangle(corner, corner.Add(u), corner.Add(u).Add(v), surface)
	s.AddTriangle(corner, corner.Add(u).Add(v), corner.Add(v), surface)
}

// AddMesh adds a triangle mesh to the scene
func (s *Scene) AddMesh(mesh *geometry.Mesh) {
	s.Meshes = append(s.Meshes, mesh)
}

// AddPointLight adds a white point light to the scene
func (s *Scene) AddPointLight(position core.Vec3, intensity float64) *lights.PointLight {
	light := lights.NewPointLight(position, intensity)
	s.Lights = append(s.Lights, light)
	return light
}

// GetPrimitiveCount returns the total number of primitive objects in the scene,
// counting every triangle of a mesh
func (s *Scene) GetPrimitiveCount() int {
	count := len(s.Spheres) + len(s.Planes) + len(s.Triangles)
	for _, mesh := range s.Meshes {
		count += mesh.GetTriangleCount()
	}
	return count
}

// Validate checks every surface and light in the scene
func (s *Scene) Validate() error {
	for i, sphere := range s.Spheres {
		if sphere.Radius <= 0 {
			return fmt.Errorf("sphere %d: radius must be positive, got %g", i, sphere.Radius)
		}
		if err := sphere.Surface.Validate(); err != nil {
			return fmt.Errorf("sphere %d: %w", i, err)
		}
	}
	for i, plane := range s.Planes {
		if plane.Normal.IsZero() {
			return fmt.Errorf("plane %d: normal must not be zero", i)
		}
		if err := plane.Surface.Validate(); err != nil {
			return fmt.Errorf("plane %d: %w", i, err)
		}
	}
	for i, triangle := range s.Triangles {
		if err := triangle.Surface.Validate(); err != nil {
			return fmt.Errorf("triangle %d: %w", i, err)
		}
	}
	for i, mesh := range s.Meshes {
		if err := mesh.Surface.Validate(); err != nil {
			return fmt.Errorf("mesh %d: %w", i, err)
		}
	}
	for i, light := range s.Lights {
		if err := light.Validate(); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}
	return nil
}
