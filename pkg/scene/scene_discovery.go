package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-stream-raytracer/pkg/core"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to scene file (json type only)
	Variant     string `json:"variant"`     // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtInGroupName = "Built-in Scenes"

// ErrUnknownScene is returned when a scene id matches neither a built-in scene nor a file
var ErrUnknownScene = errors.New("unknown scene")

// builtinScene pairs the listing metadata with the constructor
type builtinScene struct {
	info    SceneInfo
	factory func() *Scene
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Diffuse, mirror and glass spheres on a ground plane",
		},
		factory: func() *Scene { return NewDefaultScene() },
	},
	{
		info: SceneInfo{
			ID:          "cornell-box",
			Name:        "Cornell Box",
			Description: "Cornell box with a mirror sphere and a glass sphere",
		},
		factory: func() *Scene { return NewCornellScene() },
	},
	{
		info: SceneInfo{
			ID:          "triangle-mesh",
			Name:        "Triangle Mesh",
			Description: "Scene showcasing triangle mesh geometry",
		},
		factory: func() *Scene { return NewTriangleMeshScene() },
	},
}

// BuiltinSceneIDs returns the ids of all built-in scenes in listing order
func BuiltinSceneIDs() []string {
	ids := make([]string, len(builtinScenes))
	for i, b := range builtinScenes {
		ids[i] = b.info.ID
	}
	return ids
}

// NewBuiltinScene constructs a built-in scene by id
func NewBuiltinScene(id string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.factory(), nil
		}
	}
	return nil, fmt.Errorf("%w: %q (built-in scenes: %s)", ErrUnknownScene, id, strings.Join(BuiltinSceneIDs(), ", "))
}

// ListJSONScenes scans the scenes directory and returns discovered scene files
func ListJSONScenes(logger core.Logger) ([]SceneInfo, error) {
	// Try different possible paths for scenes directory
	possiblePaths := []string{"scenes", "../scenes"}
	var scenesDir string

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			scenesDir = path
			break
		}
	}

	if scenesDir == "" {
		// No scenes directory found, return empty list
		return []SceneInfo{}, nil
	}

	return ListJSONScenesIn(scenesDir, logger)
}

// ListJSONScenesIn returns the scene files found in dir, sorted by display name
func ListJSONScenesIn(dir string, logger core.Logger) ([]SceneInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			if logger != nil {
				logger.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			}
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// sceneHeader holds the descriptive fields at the top level of a scene file
type sceneHeader struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Group       string `json:"group"`
	Variant     string `json:"variant"`
}

// ParseSceneMetadata extracts the descriptive fields from a scene file.
// Missing fields fall back to values derived from the file name.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          fmt.Sprintf("json:%s", nameWithoutExt),
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        "json",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return sceneInfo, fmt.Errorf("failed to read scene file: %w", err)
	}

	var header sceneHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return sceneInfo, fmt.Errorf("failed to parse scene file: %w", err)
	}

	if header.Name != "" {
		sceneInfo.Name = header.Name
	}
	if header.Group != "" {
		sceneInfo.Group = header.Group
	}
	sceneInfo.Description = header.Description
	sceneInfo.Variant = header.Variant

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, nil
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes(logger core.Logger) (ScenesResponse, error) {
	var response ScenesResponse

	allScenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtInGroupName
		info.Type = "builtin"
		allScenes = append(allScenes, info)
	}

	fileScenes, err := ListJSONScenes(logger)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	allScenes = append(allScenes, fileScenes...)

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroupName {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if builtInGroup, exists := groupMap[builtInGroupName]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   builtInGroupName,
			Scenes: builtInGroup,
		})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
