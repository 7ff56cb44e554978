// Package server exposes the engine's control and query surface over
// loopback HTTP, plus the websocket push channel.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/quickdim/quickdim/internal/engine"
	"github.com/quickdim/quickdim/internal/logging"
)

// Engine is the slice of the overlay coordinator the API needs.
type Engine interface {
	Status() engine.Status
	Displays() []engine.DisplayInfo
	Monitors() map[int]engine.MonitorInfo
	Monitor(id int) (engine.MonitorInfo, error)
	Toggle() bool
	SetGlobalOpacity(opacity float64) float64
	SetMonitorOpacity(id int, opacity float64) error
	SetMonitorEnabled(id int, enabled bool) error
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("server.response.encode_failed", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// NewMux builds the HTTP handler for the daemon's endpoints. ws is the
// broadcaster's upgrade handler.
func NewMux(eng Engine, ws http.Handler, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, eng.Status())
	})

	mux.HandleFunc("GET /displays", func(w http.ResponseWriter, r *http.Request) {
		displays := eng.Displays()
		writeJSON(w, http.StatusOK, map[string]any{
			"displays":        displays,
			"total_displays":  len(displays),
			"focused_display": eng.Status().FocusedDisplay,
		})
	})

	mux.HandleFunc("GET /monitors", func(w http.ResponseWriter, r *http.Request) {
		monitors := eng.Monitors()
		writeJSON(w, http.StatusOK, map[string]any{
			"monitors":       monitors,
			"total_monitors": len(monitors),
		})
	})

	mux.HandleFunc("GET /monitor/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := displayID(w, r)
		if !ok {
			return
		}
		info, err := eng.Monitor(id)
		if err != nil {
			writeUnknownDisplay(w, err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	})

	mux.HandleFunc("POST /toggle", func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(logger, r)
		logger.Info("server.toggle.request")

		enabled := eng.Toggle()
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "enabled": enabled})
	})

	mux.HandleFunc("POST /opacity", func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(logger, r)

		opacity, ok := decodeOpacity(w, r)
		if !ok {
			logger.Warn("server.opacity.request.rejected")
			return
		}

		applied := eng.SetGlobalOpacity(opacity)
		logger.Info("server.opacity.request.completed", "opacity", applied)
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "opacity": applied})
	})

	mux.HandleFunc("POST /monitor/{id}/opacity", func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(logger, r)

		id, ok := displayID(w, r)
		if !ok {
			return
		}
		opacity, ok := decodeOpacity(w, r)
		if !ok {
			logger.Warn("server.monitor_opacity.request.rejected", "display", id)
			return
		}

		if err := eng.SetMonitorOpacity(id, opacity); err != nil {
			writeUnknownDisplay(w, err)
			return
		}
		logger.Info("server.monitor_opacity.request.completed", "display", id, "opacity", opacity)
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "display_id": id, "opacity": opacity})
	})

	mux.HandleFunc("POST /monitor/{id}/enabled", func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(logger, r)

		id, ok := displayID(w, r)
		if !ok {
			return
		}

		var body struct {
			Enabled *bool `json:"enabled"`
		}
		if !decodeBody(w, r, &body) {
			logger.Warn("server.monitor_enabled.request.rejected", "display", id)
			return
		}
		if body.Enabled == nil {
			writeJSONError(w, http.StatusBadRequest, "missing_enabled", "enabled parameter required")
			return
		}

		if err := eng.SetMonitorEnabled(id, *body.Enabled); err != nil {
			writeUnknownDisplay(w, err)
			return
		}
		logger.Info("server.monitor_enabled.request.completed", "display", id, "enabled", *body.Enabled)
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "display_id": id, "enabled": *body.Enabled})
	})

	mux.Handle("GET /ws", ws)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}

// Start launches the HTTP server on the configured address.
func Start(address string, eng Engine, ws http.Handler, logger *slog.Logger) *http.Server {
	mux := NewMux(eng, ws, logger)
	srv := &http.Server{
		Addr:         address,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	logger.Info("server.started", "address", address)
	return srv
}

func requestLogger(logger *slog.Logger, r *http.Request) *slog.Logger {
	requestID := logging.EnsureRequestID(r.Header.Get(logging.RequestIDHeader))
	operationID := logging.NewOperationID()
	return logger.With("request_id", requestID, "operation_id", operationID, "method", r.Method, "path", r.URL.Path)
}

// displayID parses the {id} path segment; malformed IDs never reach the
// coordinator.
func displayID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_display_id", "display id must be an integer")
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request_too_large", "request body too large")
			return false
		}
		writeJSONError(w, http.StatusBadRequest, "invalid_request_body", "invalid request body")
		return false
	}

	if err := json.Unmarshal(rawBody, v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request_body", "invalid request body")
		return false
	}
	return true
}

// decodeOpacity reads and validates an {"opacity": f} body. Values
// outside [0,1] are rejected here so the coordinator's invariants never
// see them.
func decodeOpacity(w http.ResponseWriter, r *http.Request) (float64, bool) {
	var body struct {
		Opacity *float64 `json:"opacity"`
	}
	if !decodeBody(w, r, &body) {
		return 0, false
	}
	if body.Opacity == nil {
		writeJSONError(w, http.StatusBadRequest, "missing_opacity", "opacity parameter required")
		return 0, false
	}
	if *body.Opacity < 0.0 || *body.Opacity > 1.0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_opacity", "opacity must be between 0.0 and 1.0")
		return 0, false
	}
	return *body.Opacity, true
}

func writeUnknownDisplay(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrUnknownDisplay) {
		writeJSONError(w, http.StatusNotFound, "unknown_display", err.Error())
		return
	}
	writeJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
}
