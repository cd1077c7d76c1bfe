package integrator

import (
	"math"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/geometry"
	"github.com/df07/go-stream-raytracer/pkg/lights"
	"github.com/df07/go-stream-raytracer/pkg/material"
	"github.com/df07/go-stream-raytracer/pkg/scene"
)

// RayTracingIntegrator implements Whitted-style recursive ray tracing:
// Phong shading from point lights with shadow rays, plus perfect mirror
// reflection and refraction. It is deterministic apart from the camera jitter.
type RayTracingIntegrator struct {
	config Config
}

// NewRayTracingIntegrator creates a new Whitted ray tracer
func NewRayTracingIntegrator(config Config) *RayTracingIntegrator {
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultRayTracingDepth
	}
	return &RayTracingIntegrator{config: config}
}

// RayColor traces a camera ray clipped to the camera's near and far distances
func (rt *RayTracingIntegrator) RayColor(ray core.Ray, world *scene.World, sampler core.Sampler) core.Vec3 {
	tMin, tMax := primaryRange(world)
	return rt.traceRay(ray, world, tMin, tMax, 0)
}

// traceRay returns the radiance along a ray
func (rt *RayTracingIntegrator) traceRay(ray core.Ray, world *scene.World, tMin, tMax float64, depth int) core.Vec3 {
	if depth >= rt.config.MaxDepth {
		return core.Vec3{}
	}

	hit, primitive, isHit := world.ClosestHit(ray, tMin, tMax)
	if !isHit {
		return rt.config.Background
	}

	surface := primitive.Surface()
	color := surface.Emittance().Add(rt.localColor(ray, hit, surface, world))

	trace := func(secondary core.Ray, nextDepth int) core.Vec3 {
		return rt.traceRay(secondary, world, 0, math.Inf(1), nextDepth)
	}
	return color.Add(specularColor(ray, hit, surface, depth, trace))
}

// localColor evaluates the Phong model: ambient plus, for every light, diffuse
// and specular terms scaled by shadow transmission and divided by the distance
func (rt *RayTracingIntegrator) localColor(ray core.Ray, hit geometry.HitRecord, surface material.Surface, world *scene.World) core.Vec3 {
	normal := hit.FacingNormal(ray)
	reflected := core.Reflect(ray.Direction, normal).Normalize()

	color := surface.Color.Multiply(surface.Ka)
	for _, light := range world.Lights {
		sample := light.Sample(hit.Point)
		if sample.Distance <= 0 {
			continue
		}
		// Lights behind the surface contribute nothing, not even a highlight
		if normal.Dot(sample.Direction) <= 0 {
			continue
		}

		transmission := shadowTransmission(world, hit, normal, sample)
		if transmission <= 0 {
			continue
		}

		diffuse := surface.Color.MultiplyVec(sample.Emission).
			Multiply(surface.Kd * math.Max(0, normal.Dot(sample.Direction)))

		var specular core.Vec3
		if surface.Ks > 0 {
			highlight := math.Pow(math.Max(0, reflected.Dot(sample.Direction)), surface.Ns)
			specular = sample.Emission.Multiply(surface.Ks * highlight)
		}

		color = color.Add(diffuse.Add(specular).Multiply(transmission / sample.Distance))
	}
	return color
}

// shadowTransmission returns the fraction of a light's energy that reaches the
// hit point: 0 behind an opaque occluder, otherwise the product of the kt of
// every transmissive primitive between the point and the light
func shadowTransmission(world *scene.World, hit geometry.HitRecord, normal core.Vec3, sample lights.LightSample) float64 {
	shadowRay := offsetRay(hit.Point, normal, sample.Direction, ShadowEpsilon)
	maxDistance := shadowRay.Origin.Subtract(sample.Point).Length()

	transmission := 1.0
	for i := range world.Primitives {
		if _, blocked := world.Primitives[i].Hit(shadowRay, 0, maxDistance); !blocked {
			continue
		}
		kt := world.Primitives[i].Surface().Kt
		if kt <= 0 {
			return 0
		}
		transmission *= kt
	}
	return transmission
}
