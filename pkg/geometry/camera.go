package geometry

import (
	"math"

	"github.com/df07/go-stream-raytracer/pkg/core"
)

// CameraConfig contains the user-facing camera parameters
type CameraConfig struct {
	Origin      core.Vec3 // Camera position
	Target      core.Vec3 // Point the camera looks at
	Up          core.Vec3 // World up hint
	FovX        float64   // Horizontal field of view in degrees (0 = 90)
	Near        float64   // Near clipping distance, also the image plane distance (0 = 1)
	Far         float64   // Far clipping distance (0 = +Inf)
	Width       int       // Canvas width in pixels
	AspectRatio float64   // Width / height (0 = 16/9)
}

// DefaultCameraConfig returns sensible default values
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:      core.NewVec3(0, 0, -5),
		Target:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		FovX:        90,
		Near:        1,
		Far:         math.Inf(1),
		Width:       320,
		AspectRatio: 16.0 / 9.0,
	}
}

// Camera generates primary rays. It is immutable once constructed and safe
// to share between goroutines.
type Camera struct {
	Origin  core.Vec3
	Forward core.Vec3
	Up      core.Vec3
	Right   core.Vec3
	Near    float64
	Far     float64
	FovX    float64
	Width   int
	Height  int

	halfWidth  float64 // Viewport half extents on the near plane
	halfHeight float64
}

// NewCamera builds the orthonormal view basis from the config.
// An up hint parallel to the view direction yields a zero Right vector;
// Orthonormal reports false for such a camera.
func NewCamera(config CameraConfig) *Camera {
	config = withCameraDefaults(config)

	forward := config.Target.Subtract(config.Origin).Normalize()
	right := config.Up.Cross(forward).Normalize()
	up := forward.Cross(right)

	halfWidth := config.Near * math.Tan(config.FovX*math.Pi/360.0)

	return &Camera{
		Origin:     config.Origin,
		Forward:    forward,
		Up:         up,
		Right:      right,
		Near:       config.Near,
		Far:        config.Far,
		FovX:       config.FovX,
		Width:      config.Width,
		Height:     max(1, int(float64(config.Width)/config.AspectRatio)),
		halfWidth:  halfWidth,
		halfHeight: halfWidth / config.AspectRatio,
	}
}

// withCameraDefaults fills zero-valued fields
func withCameraDefaults(config CameraConfig) CameraConfig {
	if config.FovX == 0 {
		config.FovX = 90
	}
	if config.Near == 0 {
		config.Near = 1
	}
	if config.Far == 0 {
		config.Far = math.Inf(1)
	}
	if config.AspectRatio == 0 {
		config.AspectRatio = 16.0 / 9.0
	}
	if config.Width <= 0 {
		config.Width = 320
	}
	return config
}

// GetRay returns a normalized ray through pixel (x, y) jittered inside the pixel
// by a sample from the sampler. Pixel (0, 0) is the top-left corner.
func (c *Camera) GetRay(x, y int, sampler core.Sampler) core.Ray {
	jitter := sampler.Get2D()

	u := 2.0*(float64(x)+jitter.X)/float64(c.Width) - 1.0
	v := 1.0 - 2.0*(float64(y)+jitter.Y)/float64(c.Height)

	target := c.Origin.
		Add(c.Forward.Multiply(c.Near)).
		Add(c.Right.Multiply(u * c.halfWidth)).
		Add(c.Up.Multiply(v * c.halfHeight))

	return core.NewRay(c.Origin, target.Subtract(c.Origin).Normalize())
}

// PixelCount returns the number of pixels on the canvas
func (c *Camera) PixelCount() int {
	return c.Width * c.Height
}

// Orthonormal reports whether Forward, Up and Right are unit length and mutually perpendicular
func (c *Camera) Orthonormal(epsilon float64) bool {
	unit := func(v core.Vec3) bool { return math.Abs(v.Length()-1) <= epsilon }
	return unit(c.Forward) && unit(c.Up) && unit(c.Right) &&
		math.Abs(c.Forward.Dot(c.Up)) <= epsilon &&
		math.Abs(c.Forward.Dot(c.Right)) <= epsilon &&
		math.Abs(c.Up.Dot(c.Right)) <= epsilon
}
