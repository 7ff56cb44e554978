package broadcast

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	closeOnce sync.Once
}

// enqueue appends a payload to the client's ordered send queue. Returns
// false when the client is shutting down or the queue is full (slow
// consumer).
func (c *client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *client) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })
}

// writePump drains the send queue onto the wire and emits keep-alive
// pings so observers can tell a quiet connection from a dead one.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump handles observer messages: ping, request_status, and nothing
// else. Anything unparseable gets an error frame back.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("invalid JSON")
			continue
		}

		switch msg.Type {
		case "ping":
			c.sendFrame(newFrame(msgPong))
		case "request_status":
			f := newFrame(msgStatusUpdate)
			f.Data = c.hub.snapshot()
			c.sendFrame(f)
		default:
			c.sendError("unknown message type: " + msg.Type)
		}
	}
}

func (c *client) sendFrame(f frame) {
	payload, err := json.Marshal(f)
	if err != nil {
		c.hub.logger.Error("broadcast.marshal_failed", "error", err)
		return
	}
	c.enqueue(payload)
}

func (c *client) sendError(message string) {
	f := newFrame(msgError)
	f.Message = message
	c.sendFrame(f)
}
