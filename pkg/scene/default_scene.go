package scene

import (
	"math"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/geometry"
	"github.com/df07/go-stream-raytracer/pkg/material"
)

// NewDefaultScene creates a default scene with spheres, ground, and camera.
// Point lights drive the ray tracer; the emissive sky sphere lights the path tracer.
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := geometry.CameraConfig{
		Origin:      core.NewVec3(0, 1, -4), // Slightly above the ground, looking at the spheres
		Target:      core.NewVec3(0, 0.5, 2),
		Up:          core.NewVec3(0, 1, 0),
		FovX:        75,
		Near:        1,
		Far:         math.Inf(1),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = mergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	s := NewScene("default", cameraConfig)
	s.Description = "Diffuse, mirror and glass spheres on a ground plane under an emissive sky"

	red := material.NewPhong(core.NewVec3(0.8, 0.15, 0.1), 0.5, 32)
	blue := material.NewLambertian(core.NewVec3(0.1, 0.25, 0.7))
	ground := material.NewLambertian(core.NewVec3(0.6, 0.6, 0.55))
	mirror := material.NewMirror(core.NewVec3(0.9, 0.9, 0.9), 0.8)
	glass := material.NewGlass()
	sky := material.NewEmissive(core.NewVec3(0.7, 0.8, 1.0), 1.0)

	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), ground)

	s.AddSphere(core.NewVec3(-1.6, 0.6, 3), 0.6, red)
	s.AddSphere(core.NewVec3(0, 0.9, 3.5), 0.9, mirror)
	s.AddSphere(core.NewVec3(1.4, 0.5, 2), 0.5, glass)
	s.AddSphere(core.NewVec3(0.6, 0.25, 0.8), 0.25, blue)

	// Large sphere enclosing the scene; seen from inside it acts as a uniform sky
	s.AddSphere(core.NewVec3(0, 0, 0), 100, sky)

	s.AddPointLight(core.NewVec3(-4, 6, -2), 8)
	s.AddPointLight(core.NewVec3(5, 4, 1), 4)

	return s
}

// mergeCameraConfig returns base with every non-zero field of override applied
func mergeCameraConfig(base, override geometry.CameraConfig) geometry.CameraConfig {
	result := base
	if !override.Origin.IsZero() {
		result.Origin = override.Origin
	}
	if !override.Target.IsZero() {
		result.Target = override.Target
	}
	if !override.Up.IsZero() {
		result.Up = override.Up
	}
	if override.FovX != 0 {
		result.FovX = override.FovX
	}
	if override.Near != 0 {
		result.Near = override.Near
	}
	if override.Far != 0 {
		result.Far = override.Far
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	return result
}
