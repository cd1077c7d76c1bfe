package material

import (
	"fmt"

	"github.com/df07/go-stream-raytracer/pkg/core"
)

// Indices of refraction used for every transmissive surface
const (
	AirIndex        = 1.0
	DielectricIndex = 1.5
)

// Surface holds the reflectance coefficients attached to a primitive.
// It is small and copied by value into every shape.
type Surface struct {
	Color core.Vec3 // Base color
	Ka    float64   // Ambient
	Kd    float64   // Lambert diffuse
	Ks    float64   // Phong specular
	Ns    float64   // Phong exponent
	Kr    float64   // Mirror reflectivity
	Kt    float64   // Transmission; > 0 makes the surface a dielectric
	Ke    *float64  // Emittance, nil for surfaces that do not emit
}

// NewLambertian creates a purely diffuse surface
func NewLambertian(color core.Vec3) Surface {
	return Surface{Color: color, Ka: 0.1, Kd: 1.0}
}

// NewPhong creates a diffuse surface with a specular highlight
func NewPhong(color core.Vec3, ks, ns float64) Surface {
	return Surface{Color: color, Ka: 0.1, Kd: 0.9, Ks: ks, Ns: ns}
}

// NewMirror creates a reflective surface; kr in [0, 1] blends between diffuse and mirror
func NewMirror(color core.Vec3, kr float64) Surface {
	return Surface{Color: color, Ka: 0.05, Kd: 1 - kr, Ks: 0.5, Ns: 64, Kr: kr}
}

// NewGlass creates a clear dielectric surface
func NewGlass() Surface {
	return Surface{Color: core.NewVec3(1, 1, 1), Ks: 0.5, Ns: 128, Kt: 1.0}
}

// NewEmissive creates a light-emitting surface. The emitted radiance is color * ke.
func NewEmissive(color core.Vec3, ke float64) Surface {
	return Surface{Color: color, Kd: 0.0, Ke: &ke}
}

// IsDielectric reports whether the surface transmits light
func (s Surface) IsDielectric() bool {
	return s.Kt > 0
}

// Emittance returns the light emitted by the surface itself
func (s Surface) Emittance() core.Vec3 {
	if s.Ke == nil {
		return core.Vec3{}
	}
	return s.Color.Multiply(*s.Ke)
}

// Validate checks that all coefficients are physically meaningful
func (s Surface) Validate() error {
	coefficients := []struct {
		name  string
		value float64
	}{
		{"ka", s.Ka}, {"kd", s.Kd}, {"ks", s.Ks}, {"ns", s.Ns}, {"kr", s.Kr}, {"kt", s.Kt},
	}
	for _, c := range coefficients {
		if c.value < 0 {
			return fmt.Errorf("coefficient %s must be non-negative, got %g", c.name, c.value)
		}
	}
	if s.Ke != nil && *s.Ke < 0 {
		return fmt.Errorf("coefficient ke must be non-negative, got %g", *s.Ke)
	}
	if s.Color.X < 0 || s.Color.Y < 0 || s.Color.Z < 0 {
		return fmt.Errorf("color must be non-negative, got %v", s.Color)
	}
	return nil
}
