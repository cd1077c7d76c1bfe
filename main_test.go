package main

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/df07/go-stream-raytracer/pkg/integrator"
	"github.com/df07/go-stream-raytracer/pkg/renderer"
)

type silentLogger struct{}

func (silentLogger) Printf(string, ...interface{}) {}

func TestParseFlags(t *testing.T) {
	config, help, err := parseFlags([]string{"-scene", "cornell-box", "-mode", "pathtrace", "-hemisphere", "uniform",
		"-workers", "4", "-samples", "2", "-iterations", "3", "-depth", "6", "-seed", "7"})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if help {
		t.Fatal("Did not expect help")
	}

	if config.Scene != "cornell-box" || config.Mode != renderer.ModePathTrace ||
		config.Hemisphere != integrator.UniformSampling {
		t.Errorf("Unexpected scene/mode/sampling: %+v", config)
	}
	if config.Workers != 4 || config.Samples != 2 || config.Iterations != 3 || config.MaxDepth != 6 || config.Seed != 7 {
		t.Errorf("Unexpected numeric options: %+v", config)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad mode", []string{"-mode", "raster"}},
		{"bad hemisphere", []string{"-hemisphere", "stratified"}},
		{"negative workers", []string{"-workers", "-2"}},
		{"negative depth", []string{"-depth", "-1"}},
		{"negative iterations", []string{"-iterations", "-1"}},
		{"unknown flag", []string{"-bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseFlags(tt.args); err == nil {
				t.Errorf("Expected error for %v", tt.args)
			}
		})
	}
}

func TestDefaultOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 30, 15, 0, time.UTC)

	tests := []struct {
		sceneRef string
		expected string
	}{
		{"default", filepath.Join("output", "default", "render_20240305_143015.png")},
		{"json:mirror-room", filepath.Join("output", "mirror-room", "render_20240305_143015.png")},
		{filepath.Join("scenes", "glass.json"), filepath.Join("output", "glass", "render_20240305_143015.png")},
	}

	for _, tt := range tests {
		t.Run(tt.sceneRef, func(t *testing.T) {
			if got := defaultOutputPath(tt.sceneRef, now); got != tt.expected {
				t.Errorf("defaultOutputPath(%q) = %q, expected %q", tt.sceneRef, got, tt.expected)
			}
		})
	}
}

func TestRunRender(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out", "render.png")
	config := Config{
		Scene:      "default",
		Mode:       renderer.ModeRayTrace,
		Workers:    0,
		Samples:    1,
		Iterations: 1,
		Seed:       1,
		Output:     output,
	}

	filename, err := runRender(context.Background(), config, silentLogger{})
	if err != nil {
		t.Fatalf("runRender failed: %v", err)
	}
	if filename != output {
		t.Errorf("Expected output %s, got %s", output, filename)
	}

	file, err := os.Open(output)
	if err != nil {
		t.Fatalf("Output not written: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 225 {
		t.Errorf("Expected 400x225 image, got %v", img.Bounds())
	}
}

func TestRunRender_UnknownScene(t *testing.T) {
	config := Config{Scene: "no-such-scene", Samples: 1, Iterations: 1}
	if _, err := runRender(context.Background(), config, silentLogger{}); err == nil {
		t.Error("Expected error for unknown scene")
	}
}

func TestIsSceneChange(t *testing.T) {
	scenePath := filepath.Join("scenes", "room.json")

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"write to scene", fsnotify.Event{Name: scenePath, Op: fsnotify.Write}, true},
		{"scene replaced", fsnotify.Event{Name: scenePath, Op: fsnotify.Create}, true},
		{"mesh written", fsnotify.Event{Name: filepath.Join("scenes", "bunny.obj"), Op: fsnotify.Write}, true},
		{"other scene", fsnotify.Event{Name: filepath.Join("scenes", "other.json"), Op: fsnotify.Write}, false},
		{"chmod only", fsnotify.Event{Name: scenePath, Op: fsnotify.Chmod}, false},
		{"removed", fsnotify.Event{Name: scenePath, Op: fsnotify.Remove}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSceneChange(tt.event, scenePath); got != tt.expected {
				t.Errorf("isSceneChange(%v) = %v, expected %v", tt.event, got, tt.expected)
			}
		})
	}
}

func TestWatchScene_BuiltinRejected(t *testing.T) {
	err := watchScene(context.Background(), Config{Scene: "default"}, silentLogger{})
	if err == nil {
		t.Error("Expected error when watching a built-in scene")
	}
}
