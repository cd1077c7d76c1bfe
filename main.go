package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/integrator"
	"github.com/df07/go-stream-raytracer/pkg/loaders"
	"github.com/df07/go-stream-raytracer/pkg/renderer"
	"github.com/df07/go-stream-raytracer/pkg/scene"
)

// Config holds the parsed command line
type Config struct {
	Scene      string
	Mode       renderer.Mode
	Hemisphere integrator.HemisphereSampling
	Workers    int // 0 = pick from the CPU count
	Samples    int
	Iterations int
	MaxDepth   int
	Seed       int64
	Output     string // empty = output/<scene>/render_<timestamp>.png
	Watch      bool
}

func main() {
	config, help, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if help {
		showHelp()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := renderer.NewDefaultLogger()
	logSystemInfo(logger)

	if config.Watch {
		err = watchScene(ctx, config, logger)
	} else {
		_, err = runRender(ctx, config, logger)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags converts command line arguments into a Config
func parseFlags(args []string) (Config, bool, error) {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)

	defaults := renderer.DefaultStreamOptions()
	sceneRef := fs.String("scene", "default", "Built-in scene id, json:<name> or path to a .json scene file")
	modeName := fs.String("mode", "raytrace", "Render mode: 'raytrace' or 'pathtrace'")
	hemisphere := fs.String("hemisphere", "cosine", "Path tracer hemisphere sampling: 'cosine' or 'uniform'")
	workers := fs.Int("workers", 0, "Number of parallel workers, must divide the pixel count (0 = auto)")
	samples := fs.Int("samples", defaults.SamplesPerIteration, "Samples per pixel in each iteration")
	iterations := fs.Int("iterations", defaults.Iterations, "Number of iterations to accumulate (0 = until interrupted)")
	depth := fs.Int("depth", 0, "Maximum recursion depth (0 = mode default)")
	seed := fs.Int64("seed", defaults.Seed, "Random seed")
	output := fs.String("output", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	watch := fs.Bool("watch", false, "Re-render whenever the scene file changes")
	help := fs.Bool("help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, true, nil
		}
		return Config{}, false, err
	}
	if *help {
		fs.SetOutput(os.Stdout)
		fs.PrintDefaults()
		return Config{}, true, nil
	}

	mode, err := renderer.ParseMode(*modeName)
	if err != nil {
		return Config{}, false, err
	}

	var sampling integrator.HemisphereSampling
	switch strings.ToLower(*hemisphere) {
	case "cosine":
		sampling = integrator.CosineSampling
	case "uniform":
		sampling = integrator.UniformSampling
	default:
		return Config{}, false, fmt.Errorf("unknown hemisphere sampling %q (expected cosine or uniform)", *hemisphere)
	}

	if *workers < 0 {
		return Config{}, false, fmt.Errorf("workers must not be negative, got %d", *workers)
	}
	if *depth < 0 {
		return Config{}, false, fmt.Errorf("depth must not be negative, got %d", *depth)
	}
	if *iterations < 0 {
		return Config{}, false, fmt.Errorf("iterations must not be negative, got %d", *iterations)
	}

	return Config{
		Scene:      *sceneRef,
		Mode:       mode,
		Hemisphere: sampling,
		Workers:    *workers,
		Samples:    *samples,
		Iterations: *iterations,
		MaxDepth:   *depth,
		Seed:       *seed,
		Output:     *output,
		Watch:      *watch,
	}, false, nil
}

func showHelp() {
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, id := range scene.BuiltinSceneIDs() {
		fmt.Printf("  %s\n", id)
	}
	fmt.Println("  json:<name> - any scene file in ./scenes")
	fmt.Println("  <path>.json - a scene file anywhere on disk")
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
}

// runRender renders the configured scene once and saves the result.
// On interruption the frames accumulated so far are still written.
func runRender(ctx context.Context, config Config, logger core.Logger) (string, error) {
	s, _, err := loaders.ResolveScene(config.Scene, logger)
	if err != nil {
		return "", err
	}

	engine, err := renderer.NewEngine(s, renderer.Config{
		Mode:       config.Mode,
		MaxDepth:   config.MaxDepth,
		Hemisphere: config.Hemisphere,
	}, logger)
	if err != nil {
		return "", err
	}

	workers := config.Workers
	if workers == 0 {
		workers = renderer.AutoWorkers(engine.PixelCount())
	}

	options := renderer.StreamOptions{
		Workers:             workers,
		SamplesPerIteration: config.Samples,
		Iterations:          config.Iterations,
		Seed:                config.Seed,
	}

	startTime := time.Now()
	accumulator, renderErr := engine.Render(ctx, options, nil)
	if renderErr != nil && (accumulator == nil || accumulator.Count == 0) {
		return "", renderErr
	}

	stats := accumulator.Stats()
	logger.Printf("Render finished in %v: %d frames, %d samples/pixel, mean luminance %.4f\n",
		time.Since(startTime), stats.Frames, stats.SamplesPerPixel, stats.MeanLuminance)

	filename := config.Output
	if filename == "" {
		filename = defaultOutputPath(config.Scene, time.Now())
	}
	if err := savePNG(filename, accumulator.Image(engine.Gamma())); err != nil {
		return "", err
	}
	logger.Printf("Render saved as %s\n", filename)

	return filename, renderErr
}

// logSystemInfo reports the host CPU the render runs on
func logSystemInfo(logger core.Logger) {
	info, err := cpu.Info()
	if err != nil || len(info) == 0 {
		logger.Printf("CPU: %d logical cores\n", renderer.CPUCount())
		return
	}
	logger.Printf("CPU: %s (%.2f GHz), %d logical cores\n", info[0].ModelName, info[0].Mhz/1000, renderer.CPUCount())
}

// defaultOutputPath builds output/<scene>/render_<timestamp>.png
func defaultOutputPath(sceneRef string, now time.Time) string {
	return filepath.Join("output", sceneDirName(sceneRef), fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

// sceneDirName turns a scene reference into a directory name
func sceneDirName(sceneRef string) string {
	name := strings.TrimPrefix(sceneRef, "json:")
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "scene"
	}
	return name
}

// savePNG writes img to filename, creating parent directories as needed
func savePNG(filename string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("error saving PNG: %w", err)
	}
	return nil
}
