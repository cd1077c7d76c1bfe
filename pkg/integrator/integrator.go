package integrator

import (
	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance arriving along a primary camera ray.
	// The world is shared read-only; the sampler belongs to the calling worker.
	RayColor(ray core.Ray, world *scene.World, sampler core.Sampler) core.Vec3
}

// HemisphereSampling selects how the path tracer picks diffuse bounce directions
type HemisphereSampling int

const (
	// CosineSampling draws directions with pdf cos(theta)/pi
	CosineSampling HemisphereSampling = iota
	// UniformSampling draws directions with pdf 1/(2*pi)
	UniformSampling
)

func (h HemisphereSampling) String() string {
	switch h {
	case CosineSampling:
		return "cosine"
	case UniformSampling:
		return "uniform"
	default:
		return "unknown"
	}
}

// Config contains the integrator parameters
type Config struct {
	MaxDepth   int                // Rays at this depth return black
	Hemisphere HemisphereSampling // Path tracer only
	Background core.Vec3          // Radiance returned by rays that escape the scene
}

// Default maximum depths for each integrator
const (
	DefaultRayTracingDepth  = 5
	DefaultPathTracingDepth = 8
)

// primaryRange returns the clipping interval for camera rays
func primaryRange(world *scene.World) (float64, float64) {
	return world.Camera.Near, world.Camera.Far
}
