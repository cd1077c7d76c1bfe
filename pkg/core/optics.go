package core

import "math"

// Reflect calculates the mirror reflection of v about normal n: v - 2(v·n)n
func Reflect(v, n Vec3) Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract bends the unit direction uv through a surface with unit normal n facing
// against uv, using Snell's law with ratio = n1/n2. ok is false on total internal
// reflection. cosTransmitted is the cosine of the transmitted angle.
func Refract(uv, n Vec3, ratio float64) (direction Vec3, cosTransmitted float64, ok bool) {
	cosIncident := math.Min(-uv.Dot(n), 1.0)
	k := 1.0 - ratio*ratio*(1.0-cosIncident*cosIncident)
	if k < 0 {
		return Vec3{}, 0, false
	}
	cosTransmitted = math.Sqrt(k)
	direction = uv.Multiply(ratio).Add(n.Multiply(ratio*cosIncident - cosTransmitted))
	return direction.Normalize(), cosTransmitted, true
}

// Schlick calculates the Fresnel reflectance using Schlick's approximation.
// n1 is the index on the incident side, n2 on the transmitted side. The result is in [0, 1].
func Schlick(cosine, n1, n2 float64) float64 {
	r0 := (n2 - n1) / (n2 + n1)
	r0 = r0 * r0
	cosine = math.Max(0, math.Min(1, cosine))
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
