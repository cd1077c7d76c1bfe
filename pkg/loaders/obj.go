package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-stream-raytracer/pkg/core"
)

// OBJData contains the geometry loaded from a Wavefront OBJ file
type OBJData struct {
	Vertices []core.Vec3 // Vertex positions (x, y, z)
	Faces    []int       // Triangle indices (3 per triangle), zero-based
}

// LoadOBJ loads an OBJ file and returns its vertices and triangulated faces
func LoadOBJ(filename string) (*OBJData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ParseOBJ reads "v" and "f" records. Faces with more than three vertices are
// fan-triangulated; texture and normal references in face tokens are ignored.
// Every other record type is skipped.
func ParseOBJ(reader io.Reader) (*OBJData, error) {
	data := &OBJData{}
	scanner := bufio.NewScanner(reader)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			vertex, err := parseOBJVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			data.Vertices = append(data.Vertices, vertex)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices, got %d", lineNumber, len(fields)-1)
			}
			indices := make([]int, 0, len(fields)-1)
			for _, token := range fields[1:] {
				index, err := parseOBJIndex(token, len(data.Vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNumber, err)
				}
				indices = append(indices, index)
			}

			// Fan triangulation around the first vertex
			for i := 1; i+1 < len(indices); i++ {
				data.Faces = append(data.Faces, indices[0], indices[i], indices[i+1])
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return data, nil
}

// parseOBJVertex parses the coordinates of a "v" record. A fourth (w) component is ignored.
func parseOBJVertex(values []string) (core.Vec3, error) {
	if len(values) < 3 {
		return core.Vec3{}, fmt.Errorf("vertex needs 3 coordinates, got %d", len(values))
	}

	var coords [3]float64
	for i := 0; i < 3; i++ {
		value, err := strconv.ParseFloat(values[i], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid vertex coordinate %q: %w", values[i], err)
		}
		coords[i] = value
	}
	return core.NewVec3(coords[0], coords[1], coords[2]), nil
}

// parseOBJIndex converts a face token such as "7", "7/2" or "-1//3" to a
// zero-based vertex index. Negative indices count back from the last vertex read.
func parseOBJIndex(token string, vertexCount int) (int, error) {
	vertexPart, _, _ := strings.Cut(token, "/")
	index, err := strconv.Atoi(vertexPart)
	if err != nil {
		return 0, fmt.Errorf("invalid face index %q: %w", token, err)
	}

	switch {
	case index > 0:
		index--
	case index < 0:
		index += vertexCount
	default:
		return 0, fmt.Errorf("face index 0 is not valid, OBJ indices start at 1")
	}

	if index < 0 || index >= vertexCount {
		return 0, fmt.Errorf("face index %q references a vertex that is not defined yet (%d vertices)", token, vertexCount)
	}
	return index, nil
}
