package loaders

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/geometry"
	"github.com/df07/go-stream-raytracer/pkg/scene"
)

const testSceneJSON = `{
  "format": "1.1",
  "name": "Test Scene",
  "description": "two spheres over a floor",
  "group": "Tests",
  "camera": {
    "origin": [0, 1, -4],
    "target": [0, 0, 0],
    "up": [0, 1, 0],
    "fov_x": 60,
    "near_clipping_range": 0.5,
    "far_clipping_range": 100,
    "aspect_ratio_num": 4,
    "aspect_ratio_den": 3,
    "canvas_width": 64
  },
  "textures": [
    {"metadata": {"type": "red"}, "color": [1, 0, 0], "ka": 0.1, "kd": 0.9, "ks": 0.2, "ns": 16},
    {"metadata": {"type": "lamp"}, "color": [1, 1, 1], "ke": 4}
  ],
  "objects": [
    {"metadata": {"type": "sphere"}, "textmat": "red", "center": [0, 0, 0], "radius": 1},
    {"metadata": {"type": "plane"}, "textmat": "red", "center": [0, -1, 0], "normal": [0, 1, 0]},
    {"metadata": {"type": "triangle"}, "textmat": "lamp", "v0": [0, 3, 0], "v1": [1, 3, 0], "v2": [0, 3, 1]}
  ],
  "lights": [
    {"position": [2, 4, -2], "intensity": 10},
    {"position": [-2, 4, -2], "intensity": 5, "color": [1, 0.5, 0.5]}
  ]
}`

func TestParseScene(t *testing.T) {
	s, err := ParseScene([]byte(testSceneJSON), ".", "fallback")
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}

	if s.Name != "Test Scene" {
		t.Errorf("Expected name 'Test Scene', got %q", s.Name)
	}
	if s.Description != "two spheres over a floor" {
		t.Errorf("Unexpected description %q", s.Description)
	}
	if len(s.Spheres) != 1 || len(s.Planes) != 1 || len(s.Triangles) != 1 {
		t.Errorf("Expected 1 sphere, 1 plane, 1 triangle; got %d, %d, %d",
			len(s.Spheres), len(s.Planes), len(s.Triangles))
	}
	if len(s.Lights) != 2 {
		t.Fatalf("Expected 2 lights, got %d", len(s.Lights))
	}
	if s.Lights[1].Color != core.NewVec3(1, 0.5, 0.5) {
		t.Errorf("Expected colored light, got %v", s.Lights[1].Color)
	}

	cam := s.Camera
	if cam.FovX != 60 || cam.Near != 0.5 || cam.Far != 100 || cam.Width != 64 {
		t.Errorf("Camera fields not applied: %+v", cam)
	}
	if math.Abs(cam.AspectRatio-4.0/3.0) > 1e-12 {
		t.Errorf("Expected aspect 4/3, got %g", cam.AspectRatio)
	}

	sphere := s.Spheres[0].Surface
	if sphere.Kd != 0.9 || sphere.Ns != 16 || sphere.Ke != nil {
		t.Errorf("Texture not applied to sphere: %+v", sphere)
	}
	lamp := s.Triangles[0].Surface
	if lamp.Ke == nil || *lamp.Ke != 4 {
		t.Errorf("Expected emissive lamp with ke=4, got %+v", lamp)
	}

	if err := s.Validate(); err != nil {
		t.Errorf("Parsed scene should validate: %v", err)
	}
}

func TestParseScene_Defaults(t *testing.T) {
	s, err := ParseScene([]byte(`{"textures": [], "objects": []}`), ".", "fallback")
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}

	if s.Name != "fallback" {
		t.Errorf("Expected fallback name, got %q", s.Name)
	}

	defaults := geometry.DefaultCameraConfig()
	if s.Camera != defaults {
		t.Errorf("Expected default camera %+v, got %+v", defaults, s.Camera)
	}
}

func TestParseScene_Format(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"1.0", false},
		{"1.4.2", false},
		{"2.0", true},
		{"0.9", true},
		{"banana", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			_, err := ParseScene([]byte(`{"format": "`+tt.format+`"}`), ".", "test")
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Expected format %s to be accepted, got %v", tt.format, err)
			}
		})
	}
}

func TestParseScene_Errors(t *testing.T) {
	texture := `"textures": [{"metadata": {"type": "white"}, "color": [1, 1, 1], "kd": 1}]`

	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{"malformed", `{"objects": [`, "failed to parse"},
		{"unknown field", `{"colour": 1}`, "unknown field"},
		{"unknown texture", `{` + texture + `, "objects": [{"metadata": {"type": "sphere"}, "textmat": "blue", "center": [0,0,0], "radius": 1}]}`, "unknown texture"},
		{"unknown object", `{` + texture + `, "objects": [{"metadata": {"type": "torus"}, "textmat": "white"}]}`, "unknown object type"},
		{"zero radius", `{` + texture + `, "objects": [{"metadata": {"type": "sphere"}, "textmat": "white", "center": [0,0,0], "radius": 0}]}`, "radius"},
		{"zero normal", `{` + texture + `, "objects": [{"metadata": {"type": "plane"}, "textmat": "white", "center": [0,0,0], "normal": [0,0,0]}]}`, "normal"},
		{"missing vertex", `{` + texture + `, "objects": [{"metadata": {"type": "triangle"}, "textmat": "white", "v0": [0,0,0], "v1": [1,0,0]}]}`, "v0, v1 and v2"},
		{"duplicate texture", `{"textures": [{"metadata": {"type": "a"}}, {"metadata": {"type": "a"}}]}`, "duplicate"},
		{"negative coefficient", `{"textures": [{"metadata": {"type": "a"}, "kd": -1}]}`, "non-negative"},
		{"bad fov", `{"camera": {"fov_x": 180}}`, "fov_x"},
		{"bad clipping", `{"camera": {"near_clipping_range": 5, "far_clipping_range": 2}}`, "clipping"},
		{"bad width", `{"camera": {"canvas_width": 0}}`, "canvas_width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene([]byte(tt.json), ".", "test")
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadScene_WithMesh(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "models"), 0755); err != nil {
		t.Fatalf("Failed to create models dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "models", "quad.obj"), []byte(testQuadOBJ), 0644); err != nil {
		t.Fatalf("Failed to write OBJ: %v", err)
	}

	sceneJSON := `{
  "textures": [{"metadata": {"type": "grey"}, "color": [0.5, 0.5, 0.5], "kd": 1}],
  "meshes": [{"path": "models/quad.obj", "textmat": "grey", "scale": 2, "rotation": [0, 90, 0], "translate": [0, 0, 5]}]
}`
	path := filepath.Join(dir, "mesh-scene.json")
	if err := os.WriteFile(path, []byte(sceneJSON), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	s, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}

	if s.Name != "mesh-scene" {
		t.Errorf("Expected name from file, got %q", s.Name)
	}
	if len(s.Meshes) != 1 {
		t.Fatalf("Expected 1 mesh, got %d", len(s.Meshes))
	}

	mesh := s.Meshes[0]
	if mesh.GetTriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.GetTriangleCount())
	}

	// Vertex (1,0,0) scaled by 2 and rotated 90° about Y lands at (0,0,-2), then moves to z=3
	v1 := mesh.Triangles[0].V1
	if v1.Subtract(core.NewVec3(0, 0, 3)).Length() > 1e-9 {
		t.Errorf("Expected transformed vertex (0,0,3), got %v", v1)
	}
}

func TestLoadScene_MissingMesh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	sceneJSON := `{
  "textures": [{"metadata": {"type": "grey"}, "kd": 1}],
  "meshes": [{"path": "nowhere.obj", "textmat": "grey"}]
}`
	if err := os.WriteFile(path, []byte(sceneJSON), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	_, err := LoadScene(path)
	if err == nil || !strings.Contains(err.Error(), "mesh 0") {
		t.Errorf("Expected mesh error, got %v", err)
	}
}

func TestResolveScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	if err := os.WriteFile(path, []byte(testSceneJSON), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	s, source, err := ResolveScene(path, nil)
	if err != nil {
		t.Fatalf("ResolveScene(file) failed: %v", err)
	}
	if s.Name != "Test Scene" || source != path {
		t.Errorf("Expected file scene from %s, got %q from %q", path, s.Name, source)
	}

	s, source, err = ResolveScene("cornell-box", nil)
	if err != nil {
		t.Fatalf("ResolveScene(builtin) failed: %v", err)
	}
	if source != "" || s.GetPrimitiveCount() == 0 {
		t.Errorf("Expected built-in scene with primitives, got %d from %q", s.GetPrimitiveCount(), source)
	}

	if _, _, err := ResolveScene("no-such-scene", nil); !errors.Is(err, scene.ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene for unknown id, got %v", err)
	}
	if _, _, err := ResolveScene("json:no-such-scene", nil); !errors.Is(err, scene.ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene for unknown file id, got %v", err)
	}
}

func TestLoadScene_ShippedScenes(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "scenes", "*.json"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(files) == 0 {
		t.Skip("no scene files found")
	}

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			s, err := LoadScene(file)
			if err != nil {
				t.Fatalf("LoadScene failed: %v", err)
			}
			if _, err := scene.NewWorld(s); err != nil {
				t.Errorf("Scene does not build a world: %v", err)
			}
		})
	}
}
