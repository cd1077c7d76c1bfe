package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler backed by a fresh generator with the given seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// ConstantSampler always returns the same values. Used to disable jitter.
type ConstantSampler struct {
	Value float64
}

// Get2D returns the constant value twice
func (c ConstantSampler) Get2D() Vec2 {
	return NewVec2(c.Value, c.Value)
}

// OrthonormalBasis builds a tangent frame whose third axis is normal.
// An arbitrary helper axis that is not parallel to the normal is crossed
// with it to get the tangent.
func OrthonormalBasis(normal Vec3) (tangent, bitangent Vec3) {
	var helper Vec3
	if math.Abs(normal.X) > 0.1 {
		helper = NewVec3(0, 1, 0)
	} else {
		helper = NewVec3(1, 0, 0)
	}
	tangent = helper.Cross(normal).Normalize()
	bitangent = normal.Cross(tangent)
	return tangent, bitangent
}

// SampleCosineHemisphere generates a cosine-weighted direction in the hemisphere around normal.
// Returns the direction and cos(theta) relative to the normal; the pdf is cos(theta)/pi.
func SampleCosineHemisphere(normal Vec3, sample Vec2) (Vec3, float64) {
	cosTheta := math.Sqrt(sample.X)
	sinTheta := math.Sqrt(1.0 - sample.X)
	return hemisphereDirection(normal, cosTheta, sinTheta, sample.Y), cosTheta
}

// SampleUniformHemisphere generates a uniformly distributed direction in the hemisphere around normal.
// cos(theta) is taken directly from the first sample; the pdf is 1/(2*pi).
func SampleUniformHemisphere(normal Vec3, sample Vec2) (Vec3, float64) {
	cosTheta := sample.X
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	return hemisphereDirection(normal, cosTheta, sinTheta, sample.Y), cosTheta
}

// hemisphereDirection maps spherical coordinates in the local frame (normal is up) to world space
func hemisphereDirection(normal Vec3, cosTheta, sinTheta, u float64) Vec3 {
	phi := 2.0 * math.Pi * u
	x := sinTheta * math.Cos(phi)
	z := sinTheta * math.Sin(phi)

	tangent, bitangent := OrthonormalBasis(normal)
	return tangent.Multiply(x).Add(normal.Multiply(cosTheta)).Add(bitangent.Multiply(z)).Normalize()
}

// CosineHemispherePDF returns the pdf of SampleCosineHemisphere for a direction with the given cosine
func CosineHemispherePDF(cosTheta float64) float64 {
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / math.Pi
}

// UniformHemispherePDF returns the pdf of SampleUniformHemisphere
func UniformHemispherePDF() float64 {
	return 1.0 / (2.0 * math.Pi)
}
