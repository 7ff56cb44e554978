package server_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quickdim/quickdim/internal/broadcast"
	"github.com/quickdim/quickdim/internal/display"
	"github.com/quickdim/quickdim/internal/engine"
	"github.com/quickdim/quickdim/internal/focus"
	"github.com/quickdim/quickdim/internal/overlay"
	"github.com/quickdim/quickdim/internal/server"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeErrorPayload(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("expected json error payload, got %q (err=%v)", string(body), err)
	}
	if payload.Code == "" || payload.Message == "" {
		t.Fatalf("expected non-empty code/message, got %+v", payload)
	}
	return payload
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func setupTestServer(t *testing.T) (*httptest.Server, *engine.Coordinator) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	coord, err := engine.New(engine.Options{
		Overlays: overlay.NewRecorder(),
		Enumerate: func() ([]display.Display, error) {
			return []display.Display{
				{ID: 1, Bounds: display.Bounds{Width: 1920, Height: 1080}, IsBuiltin: true},
				{ID: 2, Bounds: display.Bounds{X: 1920, Width: 2560, Height: 1440}},
			}, nil
		},
		Logger:  logger,
		Enabled: true,
		Opacity: 0.7,
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	hub := broadcast.NewHub(func() any { return coord.Status() }, logger)
	t.Cleanup(hub.Close)

	mux := server.NewMux(coord, hub, logger)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, coord
}

func postJSON(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := ts.Client().Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func TestGetStatus(t *testing.T) {
	ts, coord := setupTestServer(t)
	coord.HandleSample(focus.Sample{App: "editor", X: 100, Y: 1000, Known: true})

	resp, err := ts.Client().Get(ts.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code: got %d, want 200", resp.StatusCode)
	}
	var st engine.Status
	decodeJSON(t, resp, &st)
	if !st.Enabled || st.Opacity != 0.7 {
		t.Errorf("status: got %+v, want enabled at 0.7", st)
	}
	if st.FocusedDisplay == nil || *st.FocusedDisplay != 1 {
		t.Errorf("focused: got %v, want 1", st.FocusedDisplay)
	}
	if len(st.MonitorSettings) != 2 {
		t.Errorf("monitor settings: got %d entries, want 2", len(st.MonitorSettings))
	}
}

func TestGetDisplays(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/displays")
	if err != nil {
		t.Fatalf("GET /displays: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Displays      []engine.DisplayInfo `json:"displays"`
		TotalDisplays int                  `json:"total_displays"`
	}
	decodeJSON(t, resp, &body)
	if body.TotalDisplays != 2 || len(body.Displays) != 2 {
		t.Fatalf("got %d/%d displays, want 2", body.TotalDisplays, len(body.Displays))
	}
	if !body.Displays[0].IsBuiltin {
		t.Error("display 1 should be builtin")
	}
}

func TestGetMonitor(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/monitor/2")
	if err != nil {
		t.Fatalf("GET /monitor/2: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code: got %d, want 200", resp.StatusCode)
	}
	var info engine.MonitorInfo
	decodeJSON(t, resp, &info)
	if info.DisplayID != 2 || !info.Enabled {
		t.Errorf("monitor 2: got %+v", info)
	}
}

func TestGetMonitor_Unknown(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/monitor/99")
	if err != nil {
		t.Fatalf("GET /monitor/99: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status code: got %d, want 404", resp.StatusCode)
	}
	if payload := decodeErrorPayload(t, resp); payload.Code != "unknown_display" {
		t.Errorf("error code: got %q, want unknown_display", payload.Code)
	}
}

func TestGetMonitor_BadID(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/monitor/abc")
	if err != nil {
		t.Fatalf("GET /monitor/abc: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status code: got %d, want 400", resp.StatusCode)
	}
	if payload := decodeErrorPayload(t, resp); payload.Code != "invalid_display_id" {
		t.Errorf("error code: got %q, want invalid_display_id", payload.Code)
	}
}

func TestPostToggle(t *testing.T) {
	ts, coord := setupTestServer(t)

	resp := postJSON(t, ts, "/toggle", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code: got %d, want 200", resp.StatusCode)
	}
	var body struct {
		Enabled bool `json:"enabled"`
	}
	decodeJSON(t, resp, &body)
	if body.Enabled {
		t.Error("toggle from enabled: got true, want false")
	}
	if coord.Status().Enabled {
		t.Error("coordinator still enabled after toggle")
	}
}

func TestPostOpacity(t *testing.T) {
	ts, coord := setupTestServer(t)

	resp := postJSON(t, ts, "/opacity", `{"opacity": 0.5}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code: got %d, want 200", resp.StatusCode)
	}
	if got := coord.Status().Opacity; got != 0.5 {
		t.Errorf("opacity: got %v, want 0.5", got)
	}
}

func TestPostOpacity_Invalid(t *testing.T) {
	ts, _ := setupTestServer(t)

	cases := []struct {
		name string
		body string
		code string
	}{
		{"out of range high", `{"opacity": 1.5}`, "invalid_opacity"},
		{"out of range low", `{"opacity": -0.1}`, "invalid_opacity"},
		{"missing field", `{}`, "missing_opacity"},
		{"not json", `{{{`, "invalid_request_body"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, ts, "/opacity", tc.body)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status code: got %d, want 400", resp.StatusCode)
			}
			if payload := decodeErrorPayload(t, resp); payload.Code != tc.code {
				t.Errorf("error code: got %q, want %q", payload.Code, tc.code)
			}
		})
	}
}

func TestPostMonitorOpacity(t *testing.T) {
	ts, coord := setupTestServer(t)

	resp := postJSON(t, ts, "/monitor/2/opacity", `{"opacity": 0.42}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code: got %d, want 200", resp.StatusCode)
	}

	info, err := coord.Monitor(2)
	if err != nil {
		t.Fatalf("Monitor(2): %v", err)
	}
	if info.Opacity != 0.42 {
		t.Errorf("monitor 2 opacity: got %v, want 0.42", info.Opacity)
	}

	// Other monitors untouched.
	if info, _ := coord.Monitor(1); info.Opacity != 0.7 {
		t.Errorf("monitor 1 opacity: got %v, want 0.7", info.Opacity)
	}
}

func TestPostMonitorOpacity_Unknown(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp := postJSON(t, ts, "/monitor/99/opacity", `{"opacity": 0.5}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status code: got %d, want 404", resp.StatusCode)
	}
}

func TestPostMonitorEnabled(t *testing.T) {
	ts, coord := setupTestServer(t)

	resp := postJSON(t, ts, "/monitor/2/enabled", `{"enabled": false}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code: got %d, want 200", resp.StatusCode)
	}
	if info, _ := coord.Monitor(2); info.Enabled {
		t.Error("monitor 2 still enabled")
	}
}

func TestPostMonitorEnabled_MissingField(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp := postJSON(t, ts, "/monitor/2/enabled", `{}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status code: got %d, want 400", resp.StatusCode)
	}
	if payload := decodeErrorPayload(t, resp); payload.Code != "missing_enabled" {
		t.Errorf("error code: got %q, want missing_enabled", payload.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/toggle")
	if err != nil {
		t.Fatalf("GET /toggle: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status code: got %d, want 405", resp.StatusCode)
	}
}

func TestGetHealth(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status code: got %d, want 200", resp.StatusCode)
	}
}
