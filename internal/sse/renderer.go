package sse

import (
	"encoding/json"

	"github.com/mcoot/triviaduel/internal/api/response"
	"github.com/mcoot/triviaduel/internal/model"
)

// EventSession is the SSE event name for a full session snapshot
const EventSession = "session"

// Renderer converts session events to SSE payloads
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderEvent returns the SSE event name and JSON data for event
func (r *Renderer) RenderEvent(event model.Event) (string, string, error) {
	data, err := json.Marshal(response.EventFromModel(event))
	if err != nil {
		return "", "", err
	}
	return string(event.Type), string(data), nil
}

// RenderView returns the JSON snapshot of view
func (r *Renderer) RenderView(view model.SessionView) ([]byte, error) {
	return json.Marshal(response.SessionFromView(view))
}
