package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/integrator"
	"github.com/df07/go-stream-raytracer/pkg/renderer"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string        `json:"scene"`      // Scene id (e.g., "cornell-box" or "json:glass")
	Mode       renderer.Mode `json:"mode"`       // Light transport
	Width      int           `json:"width"`      // Canvas width override (0 = scene default)
	Workers    int           `json:"workers"`    // Parallel workers (0 = auto)
	Samples    int           `json:"samples"`    // Samples per pixel per iteration
	Iterations int           `json:"iterations"` // Frames to accumulate
	MaxDepth   int           `json:"maxDepth"`   // Recursion limit (0 = mode default)
	Seed       int64         `json:"seed"`
}

// FrameUpdate is sent via SSE after every merged frame
type FrameUpdate struct {
	Iteration       int     `json:"iteration"` // 1-based
	TotalIterations int     `json:"totalIterations"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	FrameMs         int64   `json:"frameMs"`
	ElapsedMs       int64   `json:"elapsedMs"`
	MeanLuminance   float64 `json:"meanLuminance"`
	PrimitiveCount  int     `json:"primitiveCount"`
	ImageData       string  `json:"imageData"` // Base64 encoded PNG of the running mean
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "frame", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// handleRender streams a render as Server-Sent Events until it completes or the client disconnects
func (s *Server) handleRender(c echo.Context) error {
	w := c.Response()
	setSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// Single writer goroutine; every other goroutine sends through sseEventChan
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := parseRenderRequest(c)
	if err != nil {
		sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("Invalid request: %v", err))
		return nil
	}

	consoleChan, webLogger := setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	renderErr := s.runRender(ctx, req, webLogger, sseEventChan)

	// The engine has stopped logging once runRender returns
	close(consoleChan)
	<-consoleDone

	switch {
	case renderErr == nil:
		sendEvent(ctx, sseEventChan, "complete", "Rendering completed")
	case errors.Is(renderErr, context.Canceled):
		// Client went away, nobody to tell
	default:
		sendEvent(ctx, sseEventChan, "error", fmt.Sprintf("Rendering failed: %v", renderErr))
	}
	return nil
}

// runRender builds the engine for req and sends a frame event per iteration
func (s *Server) runRender(ctx context.Context, req *RenderRequest, logger core.Logger, sseEventChan chan<- SSEEvent) error {
	sceneObj, err := loadScene(req.Scene, req.Width, logger)
	if err != nil {
		return err
	}

	engine, err := renderer.NewEngine(sceneObj, renderer.Config{
		Mode:       req.Mode,
		MaxDepth:   req.MaxDepth,
		Hemisphere: integrator.CosineSampling,
	}, logger)
	if err != nil {
		return err
	}

	workers := req.Workers
	if workers == 0 {
		workers = renderer.AutoWorkers(engine.PixelCount())
	}

	options := renderer.StreamOptions{
		Workers:             workers,
		SamplesPerIteration: req.Samples,
		Iterations:          req.Iterations,
		Seed:                req.Seed,
	}

	startTime := time.Now()
	primitiveCount := sceneObj.GetPrimitiveCount()

	_, err = engine.Render(ctx, options, func(frame renderer.Frame, acc *renderer.Accumulator) {
		imageData, err := imageToBase64PNG(acc.Image(engine.Gamma()))
		if err != nil {
			log.Printf("Error encoding frame %d: %v", frame.Iteration+1, err)
			return
		}

		stats := acc.Stats()
		update := FrameUpdate{
			Iteration:       frame.Iteration + 1,
			TotalIterations: req.Iterations,
			Width:           acc.Width,
			Height:          acc.Height,
			SamplesPerPixel: stats.SamplesPerPixel,
			FrameMs:         frame.Duration.Milliseconds(),
			ElapsedMs:       time.Since(startTime).Milliseconds(),
			MeanLuminance:   stats.MeanLuminance,
			PrimitiveCount:  primitiveCount,
			ImageData:       imageData,
		}

		data, err := json.Marshal(update)
		if err != nil {
			log.Printf("Error marshaling frame update: %v", err)
			return
		}
		sendEvent(ctx, sseEventChan, "frame", string(data))
	})
	return err
}

// parseRenderRequest parses and validates the query parameters
func parseRenderRequest(c echo.Context) (*RenderRequest, error) {
	query := c.QueryParams()

	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "cornell-box"
	}

	req.Mode = renderer.ModeRayTrace
	if mode := query.Get("mode"); mode != "" {
		parsed, err := renderer.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		req.Mode = parsed
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 16, 2000); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", 0, 0, 256); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", 1, 1, 1000); err != nil {
		return nil, err
	}
	if req.Iterations, err = parseIntParam(query, "iterations", 16, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 0, 0, 64); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", 42, 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	return req, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// setupConsoleLogging creates console channel and web logger for a render
func setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents writes every event in a single goroutine until the channel
// closes or the client disconnects
func writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher != nil {
				flusher.Flush()
			}

		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards console messages as SSE events until consoleChan closes
func streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}
		sendEvent(ctx, sseEventChan, "console", string(data))
	}
}

// sendEvent queues an event unless the client has gone away
func sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType, data string) {
	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: data}:
	case <-ctx.Done():
	}
}
