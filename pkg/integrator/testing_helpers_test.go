package integrator

import (
	"testing"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/geometry"
	"github.com/df07/go-stream-raytracer/pkg/material"
	"github.com/df07/go-stream-raytracer/pkg/scene"
)

// newTestScene returns an empty scene with a camera at the origin looking down +Z
func newTestScene() *scene.Scene {
	return scene.NewScene("test", geometry.CameraConfig{
		Origin:      core.NewVec3(0, 0, 0),
		Target:      core.NewVec3(0, 0, 1),
		Up:          core.NewVec3(0, 1, 0),
		FovX:        90,
		Near:        1,
		Width:       16,
		AspectRatio: 1,
	})
}

// newSkyScene returns a Lambertian floor at y=0 inside a uniformly emitting sky sphere
func newSkyScene(albedo float64) *scene.Scene {
	s := newTestScene()
	s.AddSphere(core.NewVec3(0, 0, 0), 50, material.NewEmissive(core.NewVec3(1, 1, 1), 1))
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), material.Surface{
		Color: core.NewVec3(albedo, albedo, albedo),
		Kd:    1,
	})
	return s
}

func buildWorld(t *testing.T, s *scene.Scene) *scene.World {
	t.Helper()
	world, err := scene.NewWorld(s)
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	return world
}

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return a.Subtract(b).Length() <= tolerance
}
