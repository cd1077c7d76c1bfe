package scene

import (
	"math"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/geometry"
	"github.com/df07/go-stream-raytracer/pkg/material"
)

// NewTriangleMeshScene creates a scene showcasing triangle mesh geometry
func NewTriangleMeshScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := geometry.CameraConfig{
		Origin:      core.NewVec3(0, 2, -6), // Position camera to see the meshes
		Target:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		FovX:        70,
		Near:        1,
		Width:       400,
		AspectRatio: 16.0 / 9.0,
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = mergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	s := NewScene("triangle-mesh", cameraConfig)
	s.Description = "Tessellated sphere and pyramid meshes on a ground plane"

	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	// Sphere mesh on the left
	vertices, faces := createSphereMesh(1.0, 12, 24)
	if mesh, err := geometry.NewMesh(vertices, faces,
		material.NewPhong(core.NewVec3(0.2, 0.6, 0.3), 0.6, 48),
		&geometry.MeshOptions{Translate: core.NewVec3(-1.6, 1.0, 0)},
	); err == nil {
		s.AddMesh(mesh)
	}

	// Rotated pyramid on the right
	rotation := core.NewVec3(0, math.Pi/5, 0)
	if mesh, err := geometry.NewMesh(pyramidVertices, pyramidFaces,
		material.NewMirror(core.NewVec3(0.9, 0.7, 0.4), 0.6),
		&geometry.MeshOptions{Scale: 1.4, Rotation: &rotation, Translate: core.NewVec3(1.6, 0, 0)},
	); err == nil {
		s.AddMesh(mesh)
	}

	// Overhead emissive panel for the path tracer
	s.AddQuad(
		core.NewVec3(-2, 5, -2),
		core.NewVec3(0, 0, 4),
		core.NewVec3(4, 0, 0),
		material.NewEmissive(core.NewVec3(1, 1, 1), 4),
	)

	s.AddPointLight(core.NewVec3(-3, 4, -3), 6)
	s.AddPointLight(core.NewVec3(3, 3, -2), 3)

	return s
}

// Square pyramid with its base on y=0 and apex at y=1.5
var (
	pyramidVertices = []core.Vec3{
		core.NewVec3(-0.5, 0, -0.5),
		core.NewVec3(0.5, 0, -0.5),
		core.NewVec3(0.5, 0, 0.5),
		core.NewVec3(-0.5, 0, 0.5),
		core.NewVec3(0, 1.5, 0),
	}
	pyramidFaces = []int{
		0, 1, 4,
		1, 2, 4,
		2, 3, 4,
		3, 0, 4,
		0, 2, 1,
		0, 3, 2,
	}
)

// createSphereMesh tessellates a sphere centered at the origin into latitude/longitude triangles
func createSphereMesh(radius float64, rings, segments int) ([]core.Vec3, []int) {
	var vertices []core.Vec3
	for ring := 0; ring <= rings; ring++ {
		theta := math.Pi * float64(ring) / float64(rings)
		for segment := 0; segment < segments; segment++ {
			phi := 2 * math.Pi * float64(segment) / float64(segments)
			vertices = append(vertices, core.NewVec3(
				radius*math.Sin(theta)*math.Cos(phi),
				radius*math.Cos(theta),
				radius*math.Sin(theta)*math.Sin(phi),
			))
		}
	}

	var faces []int
	for ring := 0; ring < rings; ring++ {
		for segment := 0; segment < segments; segment++ {
			next := (segment + 1) % segments
			a := ring*segments + segment
			b := ring*segments + next
			c := (ring+1)*segments + segment
			d := (ring+1)*segments + next

			// The triangles touching the poles collapse to zero area and are skipped
			if ring != 0 {
				faces = append(faces, a, b, c)
			}
			if ring != rings-1 {
				faces = append(faces, b, d, c)
			}
		}
	}
	return vertices, faces
}
