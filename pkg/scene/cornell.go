package scene

import (
	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/geometry"
	"github.com/df07/go-stream-raytracer/pkg/material"
)

// NewCornellScene creates a Cornell box built from single-sided planes facing
// into the box. The ceiling panel is emissive for the path tracer and a point
// light just below it lights the box for the ray tracer.
func NewCornellScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := geometry.CameraConfig{
		Origin:      core.NewVec3(0, 1, -2.2), // Outside the open front, looking in
		Target:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		FovX:        60,
		Near:        1,
		Width:       400,
		AspectRatio: 1.0, // Square aspect ratio for Cornell box
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = mergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	s := NewScene("cornell-box", cameraConfig)
	s.Description = "Cornell box with a mirror sphere and a glass sphere"

	// Create materials
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))
	lamp := material.NewEmissive(core.NewVec3(1, 0.95, 0.85), 12)

	// Box spans x in [-1, 1], y in [0, 2], z in [-1, 1]; every normal points inward
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), white)  // floor
	s.AddPlane(core.NewVec3(0, 2, 0), core.NewVec3(0, -1, 0), white) // ceiling
	s.AddPlane(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1), white) // back wall
	s.AddPlane(core.NewVec3(-1, 0, 0), core.NewVec3(1, 0, 0), red)   // left wall
	s.AddPlane(core.NewVec3(1, 0, 0), core.NewVec3(-1, 0, 0), green) // right wall

	// Ceiling panel slightly below the ceiling
	lightSize := 0.5
	s.AddQuad(
		core.NewVec3(-lightSize/2, 1.999, -lightSize/2),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		lamp,
	)

	s.AddSphere(core.NewVec3(-0.45, 0.35, 0.35), 0.35, material.NewMirror(core.NewVec3(0.8, 0.8, 0.9), 0.9))
	s.AddSphere(core.NewVec3(0.45, 0.35, -0.25), 0.35, material.NewGlass())

	s.AddPointLight(core.NewVec3(0, 1.9, 0), 1.5)

	return s
}
