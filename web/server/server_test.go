package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTestServer() *Server {
	return NewServer(0, "")
}

func doGet(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := doGet(t, newTestServer(), "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header")
	}
}

func TestHandleScenes(t *testing.T) {
	rec := doGet(t, newTestServer(), "/api/scenes")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	for _, id := range []string{"default", "cornell-box", "triangle-mesh"} {
		if !strings.Contains(rec.Body.String(), `"`+id+`"`) {
			t.Errorf("Expected scene %q in response: %s", id, rec.Body.String())
		}
	}
}

func TestHandleRender_StreamsFrames(t *testing.T) {
	rec := doGet(t, newTestServer(), "/api/render?scene=default&width=32&samples=1&iterations=3&workers=4")

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected event stream content type, got %q", ct)
	}

	body := rec.Body.String()
	if n := strings.Count(body, "event: frame\n"); n != 3 {
		t.Errorf("Expected 3 frame events, got %d", n)
	}
	if !strings.Contains(body, "event: console\n") {
		t.Error("Expected console events")
	}
	if !strings.HasSuffix(body, "event: complete\ndata: Rendering completed\n\n") {
		t.Errorf("Expected stream to end with complete event, got tail %q", body[max(0, len(body)-120):])
	}
	if strings.Contains(body, "event: error") {
		t.Errorf("Unexpected error event: %s", body)
	}

	// The last frame reports the accumulated sample count
	lines := strings.Split(body, "\n")
	var last FrameUpdate
	for i, line := range lines {
		if line == "event: frame" && i+1 < len(lines) {
			if err := json.Unmarshal([]byte(strings.TrimPrefix(lines[i+1], "data: ")), &last); err != nil {
				t.Fatalf("Invalid frame JSON: %v", err)
			}
		}
	}
	if last.Iteration != 3 || last.SamplesPerPixel != 3 || last.Width != 32 {
		t.Errorf("Unexpected last frame: iteration %d, spp %d, width %d", last.Iteration, last.SamplesPerPixel, last.Width)
	}
	if last.ImageData == "" {
		t.Error("Expected image data in frame")
	}
}

func TestHandleRender_Errors(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{"unknown scene", "scene=nonexistent", "unknown scene"},
		{"raw path", "scene=" + url.QueryEscape("/etc/passwd"), "unknown scene"},
		{"unknown file scene", "scene=json:nonexistent", "unknown scene"},
		{"bad mode", "mode=raster", "Invalid request"},
		{"bad iterations", "iterations=0", "Invalid request"},
		{"bad width", "width=abc", "Invalid request"},
		{"non-dividing workers", "scene=default&width=32&workers=7", "divisible"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(t, newTestServer(), "/api/render?"+tt.query)
			body := rec.Body.String()

			if !strings.Contains(body, "event: error\n") {
				t.Fatalf("Expected error event, got %q", body)
			}
			if !strings.Contains(body, tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, body)
			}
			if strings.Contains(body, "event: frame") {
				t.Error("No frame should be sent for an invalid request")
			}
		})
	}
}

func TestHandleInspect(t *testing.T) {
	rec := doGet(t, newTestServer(), "/api/inspect?scene=cornell-box&width=64&x=32&y=32")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if !response.Hit {
		t.Fatal("Expected the centre of the Cornell box to hit something")
	}
	if response.Distance <= 0 {
		t.Errorf("Expected positive distance, got %g", response.Distance)
	}
	if response.Surface == nil || response.Geometry == nil {
		t.Error("Expected surface and geometry details")
	}
}

func TestHandleInspect_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown scene", "scene=nope&x=1&y=1"},
		{"missing x", "scene=cornell-box&width=64&y=1"},
		{"x out of range", "scene=cornell-box&width=64&x=64&y=1"},
		{"negative y", "scene=cornell-box&width=64&x=1&y=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(t, newTestServer(), "/api/inspect?"+tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
		wantErr  bool
	}{
		{"default", "", 7, false},
		{"valid", "12", 12, false},
		{"lower bound", "1", 1, false},
		{"below range", "0", 0, true},
		{"above range", "101", 0, true},
		{"not a number", "ten", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			if tt.value != "" {
				values.Set("n", tt.value)
			}
			got, err := parseIntParam(values, "n", 7, 1, 100)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseIntParam(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("parseIntParam(%q) = %d, expected %d", tt.value, got, tt.expected)
			}
		})
	}
}

func TestIsSceneID(t *testing.T) {
	tests := []struct {
		id       string
		expected bool
	}{
		{"default", true},
		{"cornell-box", true},
		{"json:glass", true},
		{"json:", false},
		{"scenes/glass.json", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := isSceneID(tt.id); got != tt.expected {
				t.Errorf("isSceneID(%q) = %v, expected %v", tt.id, got, tt.expected)
			}
		})
	}
}
