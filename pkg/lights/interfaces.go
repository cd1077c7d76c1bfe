package lights

import "github.com/df07/go-stream-raytracer/pkg/core"

type LightType string

const (
	LightTypePoint LightType = "point"
)

// Light is a source sampled explicitly for direct illumination
type Light interface {
	Type() LightType

	// Sample returns the light as seen from a shading point.
	// Direction points FROM the shading point TO the light.
	Sample(point core.Vec3) LightSample
}

// LightSample contains information about a sampled point on a light
type LightSample struct {
	Point     core.Vec3 // Point on the light source
	Direction core.Vec3 // Unit direction from shading point to light
	Distance  float64   // Distance to light
	Emission  core.Vec3 // Color scaled by intensity
}
