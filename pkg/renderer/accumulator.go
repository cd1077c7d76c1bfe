package renderer

import (
	"fmt"
	"image"

	"github.com/df07/go-stream-raytracer/pkg/core"
)

// Accumulator keeps the running mean of every frame merged into it
type Accumulator struct {
	Width   int
	Height  int
	Count   int // Frames merged so far
	Samples int // Samples per pixel merged so far
	Pixels  []core.Vec3
}

// NewAccumulator creates an empty accumulator for a canvas
func NewAccumulator(width, height int) *Accumulator {
	return &Accumulator{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// Merge folds a frame into the running mean: merged = merged*n/(n+1) + frame/(n+1)
func (a *Accumulator) Merge(frame Frame) error {
	if frame.Width != a.Width || frame.Height != a.Height || len(frame.Pixels) != len(a.Pixels) {
		return fmt.Errorf("frame %d is %dx%d, accumulator is %dx%d",
			frame.Iteration, frame.Width, frame.Height, a.Width, a.Height)
	}

	n := float64(a.Count)
	keep := n / (n + 1)
	add := 1 / (n + 1)
	for i, pixel := range frame.Pixels {
		a.Pixels[i] = a.Pixels[i].Multiply(keep).Add(pixel.Multiply(add))
	}

	a.Count++
	a.Samples += frame.Samples
	return nil
}

// At returns the current mean radiance of pixel (x, y)
func (a *Accumulator) At(x, y int) core.Vec3 {
	return a.Pixels[y*a.Width+x]
}

// Image encodes the running mean for display using the given gamma
func (a *Accumulator) Image(gamma float64) *image.RGBA {
	return pixelsToImage(a.Pixels, a.Width, a.Height, gamma)
}

// Stats summarizes the accumulated image
func (a *Accumulator) Stats() RenderStats {
	stats := RenderStats{
		TotalPixels:     len(a.Pixels),
		Frames:          a.Count,
		SamplesPerPixel: a.Samples,
		TotalSamples:    a.Samples * len(a.Pixels),
	}
	for _, pixel := range a.Pixels {
		stats.MeanLuminance += pixel.Luminance()
	}
	if stats.TotalPixels > 0 {
		stats.MeanLuminance /= float64(stats.TotalPixels)
	}
	return stats
}
