package sse

import (
	"net/http"
	"time"
)

const (
	// Time between keepalive comments
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client represents a connected SSE client
type Client struct {
	hub         *Hub
	remoteAddr  string
	connectedAt time.Time
	send        chan []byte
}

// NewClient creates a new SSE client
func NewClient(hub *Hub, remoteAddr string) *Client {
	return &Client{
		hub:         hub,
		remoteAddr:  remoteAddr,
		connectedAt: time.Now(),
		send:        make(chan []byte, sendBufferSize),
	}
}

// Messages returns the client's outgoing message channel; it is closed when
// the client is unregistered
func (c *Client) Messages() <-chan []byte {
	return c.send
}

// ServeSSE streams hub events to the requesting client until it disconnects.
// initial, if non-empty, is sent as a "session" event right after connecting.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, initial []byte) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient(hub, r.RemoteAddr)
	if !hub.Register(client) {
		http.Error(w, "Server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	if len(initial) > 0 {
		_, _ = w.Write(formatSSEMessage(EventSession, string(initial)))
	}
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				// Hub closed the channel
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
