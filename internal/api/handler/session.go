package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/mcoot/triviaduel/internal/api/request"
	"github.com/mcoot/triviaduel/internal/api/response"
	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/services/session"
	"github.com/mcoot/triviaduel/internal/sse"
)

// SessionHandler handles the single game session
type SessionHandler struct {
	controller *session.Controller
	hub        *sse.Hub
	renderer   *sse.Renderer
	logger     *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller *session.Controller, hub *sse.Hub, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		controller: controller,
		hub:        hub,
		renderer:   sse.NewRenderer(),
		logger:     logger,
	}
}

// Get handles GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.WriteSession(w, http.StatusOK, h.controller.View())
}

// Start handles POST /api/v1/session
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req request.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid JSON"))
		return
	}

	settings, roster, err := settingsFromRequest(req)
	if err != nil {
		WriteError(w, err)
		return
	}

	if phase := h.controller.View().Phase; phase != model.PhaseSetup {
		WriteError(w, fmt.Errorf("%w: cannot start a game during %s", model.ErrInvalidPhase, phase))
		return
	}

	view, err := h.controller.StartGame(r.Context(), settings, roster)
	if err != nil {
		h.logger.Error("failed to start game", slog.String("error", err.Error()))
		WriteError(w, err)
		return
	}

	response.WriteSession(w, http.StatusAccepted, view)
}

// Answer handles POST /api/v1/session/answer
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req request.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid JSON"))
		return
	}
	if req.Answer == "" {
		WriteError(w, NewInvalidRequestError("answer is required"))
		return
	}

	view := h.controller.View()
	if !view.Phase.InGame() {
		WriteError(w, fmt.Errorf("%w: no question is being asked", model.ErrInvalidPhase))
		return
	}
	if q := view.CurrentQuestion(); q != nil && !slices.Contains(q.Options, req.Answer) {
		WriteError(w, NewInvalidRequestError("answer must be one of the options"))
		return
	}

	if !h.controller.SubmitAnswer(req.Answer) {
		WriteError(w, fmt.Errorf("%w: answer was not accepted", model.ErrInvalidPhase))
		return
	}

	response.WriteSession(w, http.StatusOK, h.controller.View())
}

// End handles POST /api/v1/session/end
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	h.controller.EndGame()
	response.WriteSession(w, http.StatusOK, h.controller.View())
}

// PlayAgain handles POST /api/v1/session/play-again
func (h *SessionHandler) PlayAgain(w http.ResponseWriter, r *http.Request) {
	if phase := h.controller.View().Phase; phase != model.PhaseResults {
		WriteError(w, fmt.Errorf("%w: play again is only available on the results screen", model.ErrInvalidPhase))
		return
	}

	h.controller.PlayAgain()
	response.WriteSession(w, http.StatusOK, h.controller.View())
}

// DismissError handles DELETE /api/v1/session/error
func (h *SessionHandler) DismissError(w http.ResponseWriter, r *http.Request) {
	h.controller.DismissError()
	response.WriteSession(w, http.StatusOK, h.controller.View())
}

// Events handles GET /api/v1/session/events
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	initial, err := h.renderer.RenderView(h.controller.View())
	if err != nil {
		h.logger.Error("failed to render session snapshot", slog.String("error", err.Error()))
		initial = nil
	}
	sse.ServeSSE(w, r, h.hub, initial)
}

// settingsFromRequest fills in defaults and validates the request
func settingsFromRequest(req request.StartSessionRequest) (model.GameSettings, []model.PlayerSetup, error) {
	numPlayers := req.NumPlayers
	if numPlayers == 0 {
		numPlayers = len(req.Players)
	}
	if numPlayers == 0 {
		numPlayers = model.DefaultNumPlayers
	}

	numRounds := req.NumRounds
	if numRounds == 0 {
		numRounds = model.DefaultNumRounds
	}

	difficulty := model.DifficultyMedium
	if req.Difficulty != "" {
		d, err := model.ParseDifficulty(req.Difficulty)
		if err != nil {
			return model.GameSettings{}, nil, err
		}
		difficulty = d
	}

	topics := make([]string, len(req.Topics))
	for i, t := range req.Topics {
		topics[i] = strings.TrimSpace(t)
	}

	var roster []model.PlayerSetup
	if len(req.Players) == 0 {
		roster = model.DefaultRoster(numPlayers)
	} else {
		roster = make([]model.PlayerSetup, len(req.Players))
		for i, p := range req.Players {
			roster[i] = model.PlayerSetup{Name: strings.TrimSpace(p.Name), AvatarID: p.AvatarID}
		}
	}

	settings := model.GameSettings{
		Topics:     topics,
		NumPlayers: numPlayers,
		NumRounds:  numRounds,
		Difficulty: difficulty,
	}
	if err := settings.Validate(roster); err != nil {
		return model.GameSettings{}, nil, err
	}
	return settings, roster, nil
}
