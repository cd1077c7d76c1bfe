package server

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/loaders"
	"github.com/df07/go-stream-raytracer/pkg/scene"
)

// Server handles web requests for the streaming raytracer preview
type Server struct {
	port      int
	staticDir string
	echo      *echo.Echo
}

// NewServer creates a new web server serving static files from staticDir
func NewServer(port int, staticDir string) *Server {
	s := &Server{
		port:      port,
		staticDir: staticDir,
		echo:      echo.New(),
	}
	s.echo.HideBanner = true
	s.routes()
	return s
}

// routes registers the API endpoints
func (s *Server) routes() {
	s.echo.Use(corsMiddleware)

	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/api/scenes", s.handleScenes)
	s.echo.GET("/api/render", s.handleRender)
	s.echo.GET("/api/inspect", s.handleInspect)

	if s.staticDir != "" {
		s.echo.Static("/", s.staticDir)
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}

		return next(c)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene files found on disk
func (s *Server) handleScenes(c echo.Context) error {
	response, err := scene.ListAllScenes(serverLogger{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, response)
}

// loadScene resolves a scene id from a request. Only built-in ids and
// discovered "json:" ids are accepted, never raw paths.
func loadScene(sceneID string, width int, logger core.Logger) (*scene.Scene, error) {
	if !isSceneID(sceneID) {
		return nil, fmt.Errorf("%w: %q", scene.ErrUnknownScene, sceneID)
	}

	s, _, err := loaders.ResolveScene(sceneID, logger)
	if err != nil {
		return nil, err
	}
	if width > 0 {
		s.Camera.Width = width
	}
	return s, nil
}

// isSceneID reports whether id is a built-in id or a discovered file id
func isSceneID(id string) bool {
	if strings.HasPrefix(id, "json:") {
		return len(id) > len("json:")
	}
	for _, builtin := range scene.BuiltinSceneIDs() {
		if id == builtin {
			return true
		}
	}
	return false
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// serverLogger sends library log output to the server log
type serverLogger struct{}

func (serverLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}
