package renderer

import (
	"context"
	"errors"
	"fmt"
)

// Errors returned by ValidateStreamOptions
var (
	ErrInvalidWorkers  = errors.New("worker count must be positive")
	ErrInvalidSamples  = errors.New("samples per iteration must be positive")
	ErrWorkerPartition = errors.New("pixel count must be divisible by the worker count")
)

// StreamOptions configures a streaming render
type StreamOptions struct {
	Workers             int   // Parallel workers per iteration; must divide the pixel count
	SamplesPerIteration int   // Samples per pixel in every frame
	Iterations          int   // Frames to produce; 0 streams until the context is cancelled
	Seed                int64 // Base seed; equal seeds give identical frames
}

// DefaultStreamOptions returns sensible default values
func DefaultStreamOptions() StreamOptions {
	return StreamOptions{
		Workers:             1,
		SamplesPerIteration: 1,
		Iterations:          16,
		Seed:                42,
	}
}

// ValidateStreamOptions checks the options against a canvas with the given number of pixels
func ValidateStreamOptions(options StreamOptions, pixels int) error {
	if options.Workers <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidWorkers, options.Workers)
	}
	if options.SamplesPerIteration <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidSamples, options.SamplesPerIteration)
	}
	if options.Iterations < 0 {
		return fmt.Errorf("iterations must not be negative, got %d", options.Iterations)
	}
	if pixels%options.Workers != 0 {
		return fmt.Errorf("%w: %d pixels, %d workers", ErrWorkerPartition, pixels, options.Workers)
	}
	return nil
}

// StreamRender renders frames on a background goroutine and delivers them in
// order on the returned frame channel. At most one error is delivered on the
// error channel, after which no more frames follow. Both channels are closed
// when rendering stops. The caller must keep reading frames or cancel ctx.
func (e *Engine) StreamRender(ctx context.Context, options StreamOptions) (<-chan Frame, <-chan error) {
	frameChan := make(chan Frame, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(frameChan)
		defer close(errChan)

		if err := ValidateStreamOptions(options, e.PixelCount()); err != nil {
			errChan <- err
			return
		}

		pool := NewWorkerPool(e.world, e.integrator, options)
		e.logger.Printf("Streaming %s render with %d workers, %d samples per iteration...\n",
			e.config.Mode, pool.GetNumWorkers(), options.SamplesPerIteration)

		for iteration := 0; options.Iterations == 0 || iteration < options.Iterations; iteration++ {
			// Check if the consumer went away before starting this iteration
			select {
			case <-ctx.Done():
				e.logger.Printf("Rendering cancelled before iteration %d\n", iteration+1)
				errChan <- ctx.Err()
				return
			default:
			}

			frame, err := pool.RenderIteration(ctx, iteration)
			if err != nil {
				errChan <- fmt.Errorf("iteration %d: %w", iteration+1, err)
				return
			}

			select {
			case frameChan <- frame:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return frameChan, errChan
}

// Render consumes a stream and returns the running mean of all its frames.
// On error the accumulator holds every frame merged before the failure.
func (e *Engine) Render(ctx context.Context, options StreamOptions, onFrame func(Frame, *Accumulator)) (*Accumulator, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	accumulator := NewAccumulator(e.Width(), e.Height())
	frames, errs := e.StreamRender(ctx, options)

	for frame := range frames {
		if err := accumulator.Merge(frame); err != nil {
			return accumulator, err
		}
		e.logger.Printf("Iteration %d completed in %v (%d samples/pixel)\n",
			frame.Iteration+1, frame.Duration, accumulator.Samples)
		if onFrame != nil {
			onFrame(frame, accumulator)
		}
	}

	// The frame channel closes after any error has been queued
	if err := <-errs; err != nil {
		return accumulator, err
	}
	return accumulator, nil
}
