package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/geometry"
	"github.com/df07/go-stream-raytracer/pkg/material"
	"github.com/df07/go-stream-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Surface      map[string]interface{} `json:"surface"`
	Geometry     map[string]interface{} `json:"geometry"`
}

// InspectResult is the first primitive hit by an inspection ray
type InspectResult struct {
	Hit       bool
	Ray       core.Ray
	HitRecord geometry.HitRecord
	Primitive *geometry.Primitive
}

// inspectPixel casts the primary ray through the centre of pixel (x, y)
// and returns the first primitive it hits within the clipping range
func inspectPixel(world *scene.World, pixelX, pixelY int) InspectResult {
	ray := world.Camera.GetRay(pixelX, pixelY, core.ConstantSampler{Value: 0.5})

	// Same clipping as primary rays in the renderer
	hit, primitive, ok := world.ClosestHit(ray, world.Camera.Near, world.Camera.Far)
	if !ok {
		return InspectResult{Ray: ray}
	}
	return InspectResult{Hit: true, Ray: ray, HitRecord: hit, Primitive: primitive}
}

// surfaceInfo lists the lighting coefficients of a surface
func surfaceInfo(surface material.Surface) map[string]interface{} {
	info := map[string]interface{}{
		"color":      vecArray(surface.Color),
		"ka":         surface.Ka,
		"kd":         surface.Kd,
		"ks":         surface.Ks,
		"ns":         surface.Ns,
		"kr":         surface.Kr,
		"kt":         surface.Kt,
		"dielectric": surface.IsDielectric(),
	}
	if surface.Ke != nil {
		info["ke"] = *surface.Ke
	}
	return info
}

// geometryInfo describes the shape held by a primitive
func geometryInfo(p *geometry.Primitive) map[string]interface{} {
	info := make(map[string]interface{})

	switch p.Kind {
	case geometry.KindSphere:
		info["center"] = vecArray(p.Sphere.Center)
		info["radius"] = p.Sphere.Radius
	case geometry.KindPlane:
		info["center"] = vecArray(p.Plane.Center)
		info["normal"] = vecArray(p.Plane.Normal)
	case geometry.KindTriangle:
		info["v0"] = vecArray(p.Triangle.V0)
		info["v1"] = vecArray(p.Triangle.V1)
		info["v2"] = vecArray(p.Triangle.V2)
	case geometry.KindMesh:
		bbox := p.Mesh.BoundingBox()
		info["triangles"] = p.Mesh.GetTriangleCount()
		info["boundsMin"] = vecArray(bbox.Min)
		info["boundsMax"] = vecArray(bbox.Max)
	}
	return info
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(c echo.Context) error {
	query := c.QueryParams()

	sceneID := query.Get("scene")
	if sceneID == "" {
		sceneID = "cornell-box"
	}
	width, err := parseIntParam(query, "width", 0, 16, 2000)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	sceneObj, err := loadScene(sceneID, width, serverLogger{})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	world, err := scene.NewWorld(sceneObj)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	pixelX, err := parseIntParam(query, "x", -1, 0, world.Camera.Width-1)
	if err != nil || pixelX < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid x coordinate (0..%d)", world.Camera.Width-1)})
	}
	pixelY, err := parseIntParam(query, "y", -1, 0, world.Camera.Height-1)
	if err != nil || pixelY < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid y coordinate (0..%d)", world.Camera.Height-1)})
	}

	result := inspectPixel(world, pixelX, pixelY)
	if !result.Hit {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	hit := result.HitRecord

	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		GeometryType: result.Primitive.Kind.String(),
		Point:        vecArray(hit.Point),
		Normal:       vecArray(hit.Normal),
		Distance:     hit.T,
		FrontFace:    hit.FrontFace(result.Ray),
		Surface:      surfaceInfo(result.Primitive.Surface()),
		Geometry:     geometryInfo(result.Primitive),
	})
}
