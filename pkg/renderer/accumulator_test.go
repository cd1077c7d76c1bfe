package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-stream-raytracer/pkg/core"
)

func constantFrame(iteration, width, height int, value float64) Frame {
	pixels := make([]core.Vec3, width*height)
	for i := range pixels {
		pixels[i] = core.NewVec3(value, value*2, value*3)
	}
	return Frame{Iteration: iteration, Width: width, Height: height, Samples: 1, Pixels: pixels}
}

func TestAccumulator_Merge(t *testing.T) {
	acc := NewAccumulator(4, 2)

	values := []float64{1, 2, 6}
	expectedMeans := []float64{1, 1.5, 3}
	for i, value := range values {
		if err := acc.Merge(constantFrame(i, 4, 2, value)); err != nil {
			t.Fatalf("Merge failed: %v", err)
		}
		got := acc.At(3, 1)
		expected := core.NewVec3(expectedMeans[i], expectedMeans[i]*2, expectedMeans[i]*3)
		if got.Subtract(expected).Length() > 1e-12 {
			t.Errorf("After %d frames expected %v, got %v", i+1, expected, got)
		}
	}

	if acc.Count != 3 || acc.Samples != 3 {
		t.Errorf("Expected 3 frames and 3 samples, got %d and %d", acc.Count, acc.Samples)
	}

	stats := acc.Stats()
	if stats.TotalPixels != 8 || stats.TotalSamples != 24 || stats.Frames != 3 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if math.Abs(stats.MeanLuminance-core.NewVec3(3, 6, 9).Luminance()) > 1e-9 {
		t.Errorf("Unexpected mean luminance %f", stats.MeanLuminance)
	}
}

func TestAccumulator_MergeSizeMismatch(t *testing.T) {
	acc := NewAccumulator(4, 2)
	if err := acc.Merge(constantFrame(0, 2, 4, 1)); err == nil {
		t.Error("Expected error for mismatched frame size")
	}
	if acc.Count != 0 {
		t.Errorf("Rejected frame must not be counted, got count %d", acc.Count)
	}
}

func TestVec3ToColor(t *testing.T) {
	tests := []struct {
		name     string
		input    core.Vec3
		gamma    float64
		expected [3]uint8
	}{
		{"black", core.NewVec3(0, 0, 0), 2.0, [3]uint8{0, 0, 0}},
		{"white", core.NewVec3(1, 1, 1), 2.0, [3]uint8{255, 255, 255}},
		{"gamma 2 square root", core.NewVec3(0.25, 0.25, 0.25), 2.0, [3]uint8{127, 127, 127}},
		{"overexposed clamps", core.NewVec3(4, 0.5, 0), 1.0, [3]uint8{255, 127, 0}},
		{"negative clamps", core.NewVec3(-1, 0, 1), 1.5, [3]uint8{0, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := vec3ToColor(tt.input, tt.gamma)
			got := [3]uint8{c.R, c.G, c.B}
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
			if c.A != 255 {
				t.Errorf("Expected opaque alpha, got %d", c.A)
			}
		})
	}
}

func TestFrame_Image(t *testing.T) {
	frame := constantFrame(0, 3, 2, 0)
	frame.Pixels[1*3+2] = core.NewVec3(1, 0, 0) // bottom-right pixel

	img := frame.Image(2.0)
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("Unexpected image bounds %v", img.Bounds())
	}
	if got := img.RGBAAt(2, 1); got.R != 255 || got.G != 0 {
		t.Errorf("Expected red bottom-right pixel, got %v", got)
	}
	if got := img.RGBAAt(0, 0); got.R != 0 {
		t.Errorf("Expected black top-left pixel, got %v", got)
	}
}
