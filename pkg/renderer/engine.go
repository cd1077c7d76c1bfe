package renderer

import (
	"fmt"
	"strings"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/integrator"
	"github.com/df07/go-stream-raytracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Mode selects the light transport algorithm
type Mode int

const (
	ModeRayTrace Mode = iota
	ModePathTrace
)

func (m Mode) String() string {
	switch m {
	case ModeRayTrace:
		return "raytrace"
	case ModePathTrace:
		return "pathtrace"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a CLI or query string into a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raytrace", "raytracing", "whitted", "rt":
		return ModeRayTrace, nil
	case "pathtrace", "pathtracing", "path-tracing", "pt":
		return ModePathTrace, nil
	default:
		return 0, fmt.Errorf("unknown render mode %q (expected raytrace or pathtrace)", s)
	}
}

// Gamma returns the display gamma used when encoding frames rendered in this mode
func (m Mode) Gamma() float64 {
	if m == ModePathTrace {
		return 2.0
	}
	return 1.5
}

// Config contains engine configuration
type Config struct {
	Mode       Mode
	MaxDepth   int // 0 = integrator default
	Hemisphere integrator.HemisphereSampling
	Background core.Vec3
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Mode:       ModeRayTrace,
		MaxDepth:   0,
		Hemisphere: integrator.CosineSampling,
	}
}

// Engine renders one world with one integrator. It is immutable after
// construction and can serve several streams at once.
type Engine struct {
	world      *scene.World
	integrator integrator.Integrator
	config     Config
	logger     core.Logger
}

// NewEngine validates the scene, builds the render-ready world and selects the integrator
func NewEngine(s *scene.Scene, config Config, logger core.Logger) (*Engine, error) {
	if logger == nil {
		logger = NewDefaultLogger()
	}

	world, err := scene.NewWorld(s)
	if err != nil {
		return nil, err
	}

	integratorConfig := integrator.Config{
		MaxDepth:   config.MaxDepth,
		Hemisphere: config.Hemisphere,
		Background: config.Background,
	}

	var integ integrator.Integrator
	switch config.Mode {
	case ModeRayTrace:
		integ = integrator.NewRayTracingIntegrator(integratorConfig)
	case ModePathTrace:
		integ = integrator.NewPathTracingIntegrator(integratorConfig)
	default:
		return nil, fmt.Errorf("unsupported render mode %v", config.Mode)
	}

	logger.Printf("Scene %q: %d primitives, %d lights, %dx%d canvas, %s\n",
		s.Name, s.GetPrimitiveCount(), len(world.Lights), world.Camera.Width, world.Camera.Height, config.Mode)

	return &Engine{
		world:      world,
		integrator: integ,
		config:     config,
		logger:     logger,
	}, nil
}

// World returns the render-ready world
func (e *Engine) World() *scene.World {
	return e.world
}

// Width returns the canvas width in pixels
func (e *Engine) Width() int {
	return e.world.Camera.Width
}

// Height returns the canvas height in pixels
func (e *Engine) Height() int {
	return e.world.Camera.Height
}

// PixelCount returns the number of pixels on the canvas
func (e *Engine) PixelCount() int {
	return e.world.Camera.PixelCount()
}

// Gamma returns the display gamma for the configured mode
func (e *Engine) Gamma() float64 {
	return e.config.Mode.Gamma()
}

// Mode returns the configured transport mode
func (e *Engine) Mode() Mode {
	return e.config.Mode
}
