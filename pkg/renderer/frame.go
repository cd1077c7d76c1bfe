package renderer

import (
	"image"
	"image/color"
	"time"

	"github.com/df07/go-stream-raytracer/pkg/core"
)

// Frame is one complete set of samples for every pixel, produced by a single
// iteration of the stream. Pixels are stored row-major.
type Frame struct {
	Iteration int
	Width     int
	Height    int
	Samples   int           // Samples per pixel averaged into this frame
	Duration  time.Duration // Wall time spent rendering the iteration
	Pixels    []core.Vec3
}

// At returns the linear radiance of pixel (x, y)
func (f *Frame) At(x, y int) core.Vec3 {
	return f.Pixels[y*f.Width+x]
}

// Image encodes the frame for display using the given gamma
func (f *Frame) Image(gamma float64) *image.RGBA {
	return pixelsToImage(f.Pixels, f.Width, f.Height, gamma)
}

// pixelsToImage converts a row-major radiance buffer to an 8-bit image
func pixelsToImage(pixels []core.Vec3, width, height int, gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, vec3ToColor(pixels[y*width+x], gamma))
		}
	}
	return img
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func vec3ToColor(colorVec core.Vec3, gamma float64) color.RGBA {
	colorVec = colorVec.GammaCorrect(gamma)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
