// Package broadcast pushes state-change events to websocket observers.
//
// Delivery is best-effort and ordered per observer; there is no durable
// queue. A disconnected observer misses events until it reconnects, at
// which point it receives a fresh full-state snapshot instead of a
// replay.
package broadcast

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 64
)

// Message types owned by the hub itself; state-change events carry
// their own types from the engine.
const (
	msgInitialStatus = "initial_status"
	msgStatusUpdate  = "status_update"
	msgPong          = "pong"
	msgError         = "error"
)

type frame struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func newFrame(frameType string) frame {
	return frame{Type: frameType, Timestamp: time.Now().UnixMilli()}
}

// Hub fans out published values to all connected observers.
type Hub struct {
	snapshot func() any
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub builds a hub. snapshot must return the current authoritative
// state; it is called once per (re)connect for the initial_status frame
// and once per request_status message.
func NewHub(snapshot func() any, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		snapshot: snapshot,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The daemon binds to loopback; the frontend connects from
			// a file:// or app origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Publish sends v to every connected observer in emission order. A
// client whose send queue is full is dropped rather than allowed to
// stall the others.
func (h *Hub) Publish(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("broadcast.marshal_failed", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !c.enqueue(payload) {
			h.logger.Warn("broadcast.client_dropped", "reason", "send queue full")
			delete(h.clients, c)
			c.shutdown()
		}
	}
}

// ClientCount returns the number of connected observers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all observers.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.shutdown()
	}
}

// ServeHTTP upgrades the connection and subscribes the observer. The
// first frame is always an initial_status snapshot, so late joiners and
// reconnecting observers resynchronize without event replay.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("broadcast.upgrade_failed", "error", err)
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}

	initial := newFrame(msgInitialStatus)
	initial.Data = h.snapshot()
	payload, err := json.Marshal(initial)
	if err != nil {
		h.logger.Error("broadcast.marshal_failed", "error", err)
		conn.Close()
		return
	}

	h.mu.Lock()
	c.enqueue(payload)
	h.clients[c] = struct{}{}
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("broadcast.client_connected", "clients", clientCount)

	go c.writePump()
	go c.readPump()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		c.shutdown()
	}
	clientCount := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Info("broadcast.client_disconnected", "clients", clientCount)
	}
}
