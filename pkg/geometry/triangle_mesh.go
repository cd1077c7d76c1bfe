package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/material"
)

// meshBoundsPadding keeps the box of a flat mesh from collapsing to zero thickness
const meshBoundsPadding = 1e-6

// Mesh is a list of triangles sharing one surface, guarded by a single bounding box.
// There is no hierarchy below the box: a ray that enters it scans every triangle.
type Mesh struct {
	Triangles []Triangle
	Surface   material.Surface
	bbox      core.AABB
}

// MeshOptions contains optional transforms applied to the vertices before triangulation
type MeshOptions struct {
	Scale     float64    // Uniform scale, 0 means 1
	Rotation  *core.Vec3 // Optional rotation in radians around X, Y, Z (in that order)
	Center    *core.Vec3 // Optional pivot for scale and rotation
	Translate core.Vec3  // Offset applied last
}

// NewMesh creates a mesh from vertices and face indices (3 per triangle)
func NewMesh(vertices []core.Vec3, faces []int, surface material.Surface, options *MeshOptions) (*Mesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("face indices must be a multiple of 3, got %d", len(faces))
	}

	workingVertices := vertices
	if options != nil {
		workingVertices = make([]core.Vec3, len(vertices))
		for i, vertex := range vertices {
			workingVertices[i] = options.transform(vertex)
		}
	}

	numTriangles := len(faces) / 3
	triangles := make([]Triangle, 0, numTriangles)
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		for _, idx := range []int{i0, i1, i2} {
			if idx < 0 || idx >= len(workingVertices) {
				return nil, fmt.Errorf("face %d references vertex %d, mesh has %d vertices", i, idx, len(workingVertices))
			}
		}
		triangles = append(triangles, *NewTriangle(workingVertices[i0], workingVertices[i1], workingVertices[i2], surface))
	}

	return NewMeshFromTriangles(triangles, surface), nil
}

// NewMeshFromTriangles wraps already-built triangles and precomputes the bounding box
func NewMeshFromTriangles(triangles []Triangle, surface material.Surface) *Mesh {
	points := make([]core.Vec3, 0, len(triangles)*3)
	for i := range triangles {
		triangles[i].Surface = surface
		points = append(points, triangles[i].V0, triangles[i].V1, triangles[i].V2)
	}

	return &Mesh{
		Triangles: triangles,
		Surface:   surface,
		bbox:      core.NewAABBFromPoints(points...).Expand(meshBoundsPadding),
	}
}

// Hit rejects rays that miss the bounding box, then scans every triangle,
// narrowing tMax as closer hits are found
func (m *Mesh) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	if len(m.Triangles) == 0 || !m.bbox.Hit(ray, tMin, tMax) {
		return HitRecord{}, false
	}

	var closest HitRecord
	hitAnything := false
	for i := range m.Triangles {
		if hit, ok := m.Triangles[i].Hit(ray, tMin, tMax); ok {
			hitAnything = true
			tMax = hit.T
			closest = hit
		}
	}
	return closest, hitAnything
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (m *Mesh) BoundingBox() core.AABB {
	return m.bbox
}

// GetTriangleCount returns the number of triangles in this mesh
func (m *Mesh) GetTriangleCount() int {
	return len(m.Triangles)
}

// transform applies scale and rotation about the pivot, then the translation
func (o *MeshOptions) transform(vertex core.Vec3) core.Vec3 {
	if o.Center != nil {
		vertex = vertex.Subtract(*o.Center)
	}
	if o.Scale != 0 {
		vertex = vertex.Multiply(o.Scale)
	}
	if o.Rotation != nil {
		vertex = rotateVertex(vertex, *o.Rotation)
	}
	if o.Center != nil {
		vertex = vertex.Add(*o.Center)
	}
	return vertex.Add(o.Translate)
}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	// Rotation around X axis
	if rotation.X != 0 {
		cos := math.Cos(rotation.X)
		sin := math.Sin(rotation.X)
		y := vertex.Y*cos - vertex.Z*sin
		z := vertex.Y*sin + vertex.Z*cos
		vertex = core.NewVec3(vertex.X, y, z)
	}

	// Rotation around Y axis
	if rotation.Y != 0 {
		cos := math.Cos(rotation.Y)
		sin := math.Sin(rotation.Y)
		x := vertex.X*cos + vertex.Z*sin
		z := -vertex.X*sin + vertex.Z*cos
		vertex = core.NewVec3(x, vertex.Y, z)
	}

	// Rotation around Z axis
	if rotation.Z != 0 {
		cos := math.Cos(rotation.Z)
		sin := math.Sin(rotation.Z)
		x := vertex.X*cos - vertex.Y*sin
		y := vertex.X*sin + vertex.Y*cos
		vertex = core.NewVec3(x, y, vertex.Z)
	}

	return vertex
}
