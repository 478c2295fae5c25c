package sse

import (
	"log/slog"

	"github.com/mcoot/triviaduel/internal/model"
)

// Broadcaster pushes session events to SSE clients.
// It implements the session controller's Notifier.
type Broadcaster struct {
	hub      *Hub
	renderer *Renderer
	logger   *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:      hub,
		renderer: NewRenderer(),
		logger:   logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Notify renders event and broadcasts it; it never blocks
func (b *Broadcaster) Notify(event model.Event) {
	name, data, err := b.renderer.RenderEvent(event)
	if err != nil {
		b.logger.Error("sse failed to render event",
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}
	b.hub.BroadcastEvent(name, data)
}
