package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/triviaduel/internal/api/response"
	"github.com/mcoot/triviaduel/internal/services/questions"
	"github.com/mcoot/triviaduel/internal/services/session"
)

// TopicsHandler serves the question bank catalogue
type TopicsHandler struct {
	questions *questions.Service
	logger    *slog.Logger
}

// NewTopicsHandler creates a new topics handler
func NewTopicsHandler(questions *questions.Service, logger *slog.Logger) *TopicsHandler {
	return &TopicsHandler{questions: questions, logger: logger}
}

// List handles GET /api/v1/topics
func (h *TopicsHandler) List(w http.ResponseWriter, r *http.Request) {
	topics, err := h.questions.Topics(r.Context())
	if err != nil {
		h.logger.Error("failed to list topics", slog.String("error", err.Error()))
		WriteError(w, err)
		return
	}
	count, err := h.questions.Count(r.Context())
	if err != nil {
		h.logger.Error("failed to count questions", slog.String("error", err.Error()))
		WriteError(w, err)
		return
	}

	if topics == nil {
		topics = []string{}
	}
	response.JSON(w, http.StatusOK, response.Topics{Topics: topics, Questions: count})
}

// HealthHandler reports liveness
type HealthHandler struct {
	controller *session.Controller
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(controller *session.Controller) *HealthHandler {
	return &HealthHandler{controller: controller}
}

// Get handles GET /api/v1/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{
		Status: "ok",
		Phase:  string(h.controller.State().Phase),
	})
}
