package integrator

import (
	"math"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/geometry"
	"github.com/df07/go-stream-raytracer/pkg/material"
	"github.com/df07/go-stream-raytracer/pkg/scene"
)

// PathTracingIntegrator implements unidirectional path tracing with one
// diffuse bounce sample per hit. Only emissive surfaces light the scene;
// point lights have no area and are never hit by a path.
type PathTracingIntegrator struct {
	config Config
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config Config) *PathTracingIntegrator {
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultPathTracingDepth
	}
	return &PathTracingIntegrator{config: config}
}

// RayColor estimates the radiance along a camera ray with a single path
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world *scene.World, sampler core.Sampler) core.Vec3 {
	tMin, tMax := primaryRange(world)
	return pt.tracePath(ray, world, sampler, tMin, tMax, 0)
}

// tracePath returns emitted light plus the diffuse and specular estimates at the first hit
func (pt *PathTracingIntegrator) tracePath(ray core.Ray, world *scene.World, sampler core.Sampler, tMin, tMax float64, depth int) core.Vec3 {
	if depth >= pt.config.MaxDepth {
		return core.Vec3{}
	}

	hit, primitive, isHit := world.ClosestHit(ray, tMin, tMax)
	if !isHit {
		return pt.config.Background
	}

	surface := primitive.Surface()
	trace := func(secondary core.Ray, nextDepth int) core.Vec3 {
		return pt.tracePath(secondary, world, sampler, 0, math.Inf(1), nextDepth)
	}

	return surface.Emittance().
		Add(pt.diffuseColor(ray, hit, surface, depth, sampler, trace)).
		Add(specularColor(ray, hit, surface, depth, trace))
}

// diffuseColor is the one-sample estimator (kd*color/pi) * L(wi) * cos / pdf(wi)
func (pt *PathTracingIntegrator) diffuseColor(ray core.Ray, hit geometry.HitRecord, surface material.Surface, depth int, sampler core.Sampler, trace traceFunc) core.Vec3 {
	if surface.Kd <= 0 || surface.Color.IsZero() {
		return core.Vec3{}
	}

	normal := hit.FacingNormal(ray)
	direction, cosine, pdf := pt.sampleHemisphere(normal, sampler.Get2D())
	if pdf <= 0 || cosine <= 0 {
		return core.Vec3{}
	}

	incoming := trace(offsetRay(hit.Point, normal, direction, SurfaceEpsilon), depth+1)
	brdf := surface.Color.Multiply(surface.Kd / math.Pi)
	return brdf.MultiplyVec(incoming).Multiply(cosine / pdf)
}

// sampleHemisphere draws a bounce direction with the configured strategy
func (pt *PathTracingIntegrator) sampleHemisphere(normal core.Vec3, sample core.Vec2) (core.Vec3, float64, float64) {
	if pt.config.Hemisphere == UniformSampling {
		direction, cosine := core.SampleUniformHemisphere(normal, sample)
		return direction, cosine, core.UniformHemispherePDF()
	}
	direction, cosine := core.SampleCosineHemisphere(normal, sample)
	return direction, cosine, core.CosineHemispherePDF(cosine)
}
