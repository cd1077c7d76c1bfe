package lights

import (
	"fmt"

	"github.com/df07/go-stream-raytracer/pkg/core"
)

// PointLight is an infinitely small light with no area. It is only visible
// through explicit light sampling and cannot be hit by rays.
type PointLight struct {
	Position  core.Vec3
	Intensity float64
	Color     core.Vec3
}

// NewPointLight creates a white point light
func NewPointLight(position core.Vec3, intensity float64) *PointLight {
	return NewColoredPointLight(position, intensity, core.NewVec3(1, 1, 1))
}

// NewColoredPointLight creates a point light with a tinted emission
func NewColoredPointLight(position core.Vec3, intensity float64, color core.Vec3) *PointLight {
	return &PointLight{
		Position:  position,
		Intensity: intensity,
		Color:     color,
	}
}

// Type returns the light type
func (pl *PointLight) Type() LightType {
	return LightTypePoint
}

// Sample returns the direction and distance to the light from a point
func (pl *PointLight) Sample(point core.Vec3) LightSample {
	toLight := pl.Position.Subtract(point)
	distance := toLight.Length()

	return LightSample{
		Point:     pl.Position,
		Direction: toLight.Multiply(1.0 / distance),
		Distance:  distance,
		Emission:  pl.Color.Multiply(pl.Intensity),
	}
}

// Validate checks that the light emits a meaningful amount of energy
func (pl *PointLight) Validate() error {
	if pl.Intensity < 0 {
		return fmt.Errorf("light intensity must be non-negative, got %g", pl.Intensity)
	}
	if pl.Color.X < 0 || pl.Color.Y < 0 || pl.Color.Z < 0 {
		return fmt.Errorf("light color must be non-negative, got %v", pl.Color)
	}
	return nil
}
