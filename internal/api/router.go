package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/triviaduel/internal/api/handler"
	"github.com/mcoot/triviaduel/internal/api/middleware"
	"github.com/mcoot/triviaduel/internal/services/questions"
	"github.com/mcoot/triviaduel/internal/services/session"
	"github.com/mcoot/triviaduel/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController *session.Controller
	QuestionService   *questions.Service
	Hub               *sse.Hub
	Metrics           http.Handler               // Served at /metrics when set
	RequestObserver   middleware.RequestObserver // Optional
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.SessionController, cfg.Hub, cfg.Logger)
	topicsHandler := handler.NewTopicsHandler(cfg.QuestionService, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.SessionController)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger, cfg.RequestObserver))

	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/topics", topicsHandler.List).Methods(http.MethodGet)

	s := api.PathPrefix("/session").Subrouter()
	s.HandleFunc("", sessionHandler.Get).Methods(http.MethodGet)
	s.HandleFunc("", sessionHandler.Start).Methods(http.MethodPost)
	s.HandleFunc("/answer", sessionHandler.Answer).Methods(http.MethodPost)
	s.HandleFunc("/end", sessionHandler.End).Methods(http.MethodPost)
	s.HandleFunc("/play-again", sessionHandler.PlayAgain).Methods(http.MethodPost)
	s.HandleFunc("/error", sessionHandler.DismissError).Methods(http.MethodDelete)
	s.HandleFunc("/events", sessionHandler.Events).Methods(http.MethodGet)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics).Methods(http.MethodGet)
	}

	return r
}
