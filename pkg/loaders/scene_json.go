package loaders

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/geometry"
	"github.com/df07/go-stream-raytracer/pkg/material"
	"github.com/df07/go-stream-raytracer/pkg/scene"
)

// defaultFormat is assumed for scene files without a "format" field
const defaultFormat = "1.0"

// SupportedFormats is the range of scene file format versions this loader reads
const SupportedFormats = ">= 1.0, < 2.0"

var supportedFormats = mustConstraint(SupportedFormats)

// ErrUnsupportedFormat is returned for scene files outside SupportedFormats
var ErrUnsupportedFormat = errors.New("unsupported scene format")

func mustConstraint(constraint string) *semver.Constraints {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		panic(fmt.Sprintf("invalid format constraint %q: %v", constraint, err))
	}
	return c
}

// sceneFile mirrors the JSON scene layout
type sceneFile struct {
	Format      string        `json:"format"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Group       string        `json:"group"`
	Variant     string        `json:"variant"`
	Camera      cameraJSON    `json:"camera"`
	Textures    []textureJSON `json:"textures"`
	Objects     []objectJSON  `json:"objects"`
	Meshes      []meshJSON    `json:"meshes"`
	Lights      []lightJSON   `json:"lights"`
}

type vec3JSON [3]float64

func (v vec3JSON) vec() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

type metadataJSON struct {
	Type string `json:"type"`
}

type cameraJSON struct {
	Origin         *vec3JSON `json:"origin"`
	Target         *vec3JSON `json:"target"`
	Up             *vec3JSON `json:"up"`
	FovX           *float64  `json:"fov_x"`
	Near           *float64  `json:"near_clipping_range"`
	Far            *float64  `json:"far_clipping_range"`
	AspectRatioNum *float64  `json:"aspect_ratio_num"`
	AspectRatioDen *float64  `json:"aspect_ratio_den"`
	CanvasWidth    *int      `json:"canvas_width"`
}

// textureJSON is a named surface; metadata.type is the name objects refer to
type textureJSON struct {
	Metadata metadataJSON `json:"metadata"`
	Color    vec3JSON     `json:"color"`
	Ka       float64      `json:"ka"`
	Kd       float64      `json:"kd"`
	Ks       float64      `json:"ks"`
	Ns       float64      `json:"ns"`
	Kr       float64      `json:"kr"`
	Kt       float64      `json:"kt"`
	Ke       *float64     `json:"ke"`
}

type objectJSON struct {
	Metadata metadataJSON `json:"metadata"`
	Textmat  string       `json:"textmat"`

	// sphere
	Center *vec3JSON `json:"center"`
	Radius float64   `json:"radius"`

	// plane (uses center as well)
	Normal *vec3JSON `json:"normal"`

	// triangle
	V0 *vec3JSON `json:"v0"`
	V1 *vec3JSON `json:"v1"`
	V2 *vec3JSON `json:"v2"`
}

type meshJSON struct {
	Path      string    `json:"path"`
	Textmat   string    `json:"textmat"`
	Scale     float64   `json:"scale"`
	Rotation  *vec3JSON `json:"rotation"` // degrees around X, Y, Z
	Translate *vec3JSON `json:"translate"`
}

type lightJSON struct {
	Position  vec3JSON  `json:"position"`
	Intensity float64   `json:"intensity"`
	Color     *vec3JSON `json:"color"`
}

// LoadScene loads a JSON scene file. Mesh paths are resolved relative to the scene file.
func LoadScene(filename string) (*scene.Scene, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	s, err := ParseScene(data, filepath.Dir(filename), name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// ParseScene builds a scene from JSON. baseDir anchors relative mesh paths and
// fallbackName is used when the file does not name the scene.
func ParseScene(data []byte, baseDir, fallbackName string) (*scene.Scene, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var file sceneFile
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse scene JSON: %w", err)
	}

	if err := checkFormat(file.Format); err != nil {
		return nil, err
	}

	name := file.Name
	if name == "" {
		name = fallbackName
	}

	camera, err := file.Camera.config()
	if err != nil {
		return nil, err
	}

	s := scene.NewScene(name, camera)
	s.Description = file.Description

	surfaces, err := parseTextures(file.Textures)
	if err != nil {
		return nil, err
	}

	for i, obj := range file.Objects {
		if err := addObject(s, obj, surfaces); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}

	for i, m := range file.Meshes {
		mesh, err := loadMesh(m, baseDir, surfaces)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		s.AddMesh(mesh)
	}

	for _, l := range file.Lights {
		light := s.AddPointLight(l.Position.vec(), l.Intensity)
		if l.Color != nil {
			light.Color = l.Color.vec()
		}
	}

	return s, nil
}

// checkFormat accepts format versions within SupportedFormats
func checkFormat(format string) error {
	if format == "" {
		format = defaultFormat
	}

	version, err := semver.NewVersion(format)
	if err != nil {
		return fmt.Errorf("%w: invalid version %q: %v", ErrUnsupportedFormat, format, err)
	}
	if !supportedFormats.Check(version) {
		return fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedFormat, version, SupportedFormats)
	}
	return nil
}

// config converts the camera block, filling missing fields with defaults
func (c cameraJSON) config() (geometry.CameraConfig, error) {
	config := geometry.DefaultCameraConfig()

	if c.Origin != nil {
		config.Origin = c.Origin.vec()
	}
	if c.Target != nil {
		config.Target = c.Target.vec()
	}
	if c.Up != nil {
		config.Up = c.Up.vec()
	}
	if c.FovX != nil {
		if *c.FovX <= 0 || *c.FovX >= 180 {
			return config, fmt.Errorf("camera fov_x must be in (0, 180), got %g", *c.FovX)
		}
		config.FovX = *c.FovX
	}
	if c.Near != nil {
		config.Near = *c.Near
	}
	if c.Far != nil {
		config.Far = *c.Far
	}
	if config.Near <= 0 || config.Far <= config.Near {
		return config, fmt.Errorf("camera clipping range must satisfy 0 < near < far, got [%g, %g]", config.Near, config.Far)
	}

	if c.AspectRatioNum != nil || c.AspectRatioDen != nil {
		num, den := 16.0, 9.0
		if c.AspectRatioNum != nil {
			num = *c.AspectRatioNum
		}
		if c.AspectRatioDen != nil {
			den = *c.AspectRatioDen
		}
		if num <= 0 || den <= 0 {
			return config, fmt.Errorf("camera aspect ratio must be positive, got %g/%g", num, den)
		}
		config.AspectRatio = num / den
	}

	if c.CanvasWidth != nil {
		if *c.CanvasWidth <= 0 {
			return config, fmt.Errorf("camera canvas_width must be positive, got %d", *c.CanvasWidth)
		}
		config.Width = *c.CanvasWidth
	}
	return config, nil
}

// parseTextures indexes the surfaces by name, rejecting duplicates
func parseTextures(textures []textureJSON) (map[string]material.Surface, error) {
	surfaces := make(map[string]material.Surface, len(textures))
	for i, t := range textures {
		name := t.Metadata.Type
		if name == "" {
			return nil, fmt.Errorf("texture %d: metadata.type is required", i)
		}
		if _, exists := surfaces[name]; exists {
			return nil, fmt.Errorf("texture %d: duplicate name %q", i, name)
		}

		surface := material.Surface{
			Color: t.Color.vec(),
			Ka:    t.Ka,
			Kd:    t.Kd,
			Ks:    t.Ks,
			Ns:    t.Ns,
			Kr:    t.Kr,
			Kt:    t.Kt,
			Ke:    t.Ke,
		}
		if err := surface.Validate(); err != nil {
			return nil, fmt.Errorf("texture %q: %w", name, err)
		}
		surfaces[name] = surface
	}
	return surfaces, nil
}

// lookupSurface resolves a textmat reference
func lookupSurface(surfaces map[string]material.Surface, name string) (material.Surface, error) {
	surface, ok := surfaces[name]
	if !ok {
		return material.Surface{}, fmt.Errorf("unknown texture %q", name)
	}
	return surface, nil
}

// addObject adds one sphere, plane or triangle to the scene
func addObject(s *scene.Scene, obj objectJSON, surfaces map[string]material.Surface) error {
	surface, err := lookupSurface(surfaces, obj.Textmat)
	if err != nil {
		return err
	}

	switch obj.Metadata.Type {
	case "sphere":
		if obj.Center == nil {
			return fmt.Errorf("sphere requires center")
		}
		if obj.Radius <= 0 {
			return fmt.Errorf("sphere radius must be positive, got %g", obj.Radius)
		}
		s.AddSphere(obj.Center.vec(), obj.Radius, surface)

	case "plane":
		if obj.Center == nil || obj.Normal == nil {
			return fmt.Errorf("plane requires center and normal")
		}
		if obj.Normal.vec().IsZero() {
			return fmt.Errorf("plane normal must not be zero")
		}
		s.AddPlane(obj.Center.vec(), obj.Normal.vec(), surface)

	case "triangle":
		if obj.V0 == nil || obj.V1 == nil || obj.V2 == nil {
			return fmt.Errorf("triangle requires v0, v1 and v2")
		}
		s.AddTriangle(obj.V0.vec(), obj.V1.vec(), obj.V2.vec(), surface)

	default:
		return fmt.Errorf("unknown object type %q", obj.Metadata.Type)
	}
	return nil
}

// loadMesh reads an OBJ file and applies the mesh transform
func loadMesh(m meshJSON, baseDir string, surfaces map[string]material.Surface) (*geometry.Mesh, error) {
	surface, err := lookupSurface(surfaces, m.Textmat)
	if err != nil {
		return nil, err
	}
	if m.Path == "" {
		return nil, fmt.Errorf("mesh requires path")
	}

	path := m.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	data, err := LoadOBJ(path)
	if err != nil {
		return nil, err
	}

	options := &geometry.MeshOptions{Scale: m.Scale}
	if m.Rotation != nil {
		rotation := m.Rotation.vec().Multiply(math.Pi / 180)
		options.Rotation = &rotation
	}
	if m.Translate != nil {
		options.Translate = m.Translate.vec()
	}

	return geometry.NewMesh(data.Vertices, data.Faces, surface, options)
}
