package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/scene"
)

// ResolveScene turns a scene reference into a scene. A reference is one of
// a built-in ID ("default", "cornell-box"), a discovered file ID ("json:<name>")
// or a path to a JSON scene file. It returns the scene together with the file
// it was loaded from, which is empty for built-ins.
func ResolveScene(ref string, logger core.Logger) (*scene.Scene, string, error) {
	if name, ok := strings.CutPrefix(ref, "json:"); ok {
		path, err := findJSONScene(name, logger)
		if err != nil {
			return nil, "", err
		}
		s, err := LoadScene(path)
		return s, path, err
	}

	if isSceneFile(ref) {
		s, err := LoadScene(ref)
		return s, ref, err
	}

	s, err := scene.NewBuiltinScene(ref)
	return s, "", err
}

// findJSONScene looks a discovered scene up by name. Only files found by
// discovery are eligible, so a web request cannot name an arbitrary path.
func findJSONScene(name string, logger core.Logger) (string, error) {
	scenes, err := scene.ListJSONScenes(logger)
	if err != nil {
		return "", err
	}

	id := "json:" + name
	for _, info := range scenes {
		if info.ID == id {
			return info.FilePath, nil
		}
	}
	return "", fmt.Errorf("%w: %s", scene.ErrUnknownScene, id)
}

func isSceneFile(ref string) bool {
	if strings.EqualFold(filepath.Ext(ref), ".json") {
		return true
	}
	info, err := os.Stat(ref)
	return err == nil && !info.IsDir()
}
