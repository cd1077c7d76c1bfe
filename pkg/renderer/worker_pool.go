package renderer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/integrator"
	"github.com/df07/go-stream-raytracer/pkg/scene"
)

// cancelCheckInterval is how many pixels a worker renders between context checks
const cancelCheckInterval = 256

// WorkerPool renders one iteration at a time by splitting the canvas between
// a fixed number of workers. Worker w owns every pixel whose linear offset o
// satisfies o % numWorkers == w, so each worker gets the same number of pixels
// spread evenly over the image.
type WorkerPool struct {
	world      *scene.World
	integrator integrator.Integrator
	numWorkers int
	samples    int
	seed       int64
}

// NewWorkerPool creates a worker pool for validated stream options
func NewWorkerPool(world *scene.World, integ integrator.Integrator, options StreamOptions) *WorkerPool {
	return &WorkerPool{
		world:      world,
		integrator: integ,
		numWorkers: options.Workers,
		samples:    options.SamplesPerIteration,
		seed:       options.Seed,
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// RenderIteration runs every worker once and interleaves their partial buffers
// into a full frame. A failing or panicking worker cancels its siblings and the
// iteration returns the first error.
func (wp *WorkerPool) RenderIteration(ctx context.Context, iteration int) (Frame, error) {
	start := time.Now()
	partials := make([][]core.Vec3, wp.numWorkers)

	g, gctx := errgroup.WithContext(ctx)
	for worker := 0; worker < wp.numWorkers; worker++ {
		worker := worker
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("worker %d panicked: %v", worker, r)
				}
			}()
			partials[worker], err = wp.renderPartition(gctx, iteration, worker)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Frame{}, err
	}

	camera := wp.world.Camera
	pixels := make([]core.Vec3, camera.PixelCount())
	for offset := range pixels {
		pixels[offset] = partials[offset%wp.numWorkers][offset/wp.numWorkers]
	}

	return Frame{
		Iteration: iteration,
		Width:     camera.Width,
		Height:    camera.Height,
		Samples:   wp.samples,
		Duration:  time.Since(start),
		Pixels:    pixels,
	}, nil
}

// renderPartition averages samples for every pixel owned by one worker into a
// private buffer indexed by offset / numWorkers
func (wp *WorkerPool) renderPartition(ctx context.Context, iteration, worker int) ([]core.Vec3, error) {
	camera := wp.world.Camera
	total := camera.PixelCount()
	buffer := make([]core.Vec3, 0, total/wp.numWorkers)

	sampler := core.NewSeededSampler(workerSeed(wp.seed, iteration, worker))
	inverseSamples := 1.0 / float64(wp.samples)

	for offset := worker; offset < total; offset += wp.numWorkers {
		if len(buffer)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		x, y := offset%camera.Width, offset/camera.Width
		var colorAccum core.Vec3
		for s := 0; s < wp.samples; s++ {
			ray := camera.GetRay(x, y, sampler)
			colorAccum = colorAccum.Add(wp.integrator.RayColor(ray, wp.world, sampler))
		}
		buffer = append(buffer, colorAccum.Multiply(inverseSamples))
	}

	return buffer, nil
}

// workerSeed derives an independent generator seed for one worker in one
// iteration using the splitmix64 finalizer
func workerSeed(seed int64, iteration, worker int) int64 {
	x := uint64(seed) + uint64(iteration)*0x9E3779B97F4A7C15 + uint64(worker)*0xD1B54A32D192ED03
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return int64(x)
}
