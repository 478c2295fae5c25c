package response

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/triviaduel/internal/model"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteSession writes the session view as JSON
func WriteSession(w http.ResponseWriter, status int, view model.SessionView) {
	JSON(w, status, SessionFromView(view))
}
