package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mcoot/triviaduel/internal/dependencies/clock"
	"github.com/mcoot/triviaduel/internal/dependencies/random"
	"github.com/mcoot/triviaduel/internal/metrics"
	"github.com/mcoot/triviaduel/internal/services/questions"
	"github.com/mcoot/triviaduel/internal/services/scoring"
	"github.com/mcoot/triviaduel/internal/services/session"
	"github.com/mcoot/triviaduel/internal/sse"
	"github.com/mcoot/triviaduel/internal/storage"
	"github.com/mcoot/triviaduel/internal/storage/memory"
	redisstorage "github.com/mcoot/triviaduel/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	QuestionService   *questions.Service
	ScoringService    *scoring.Service
	SessionController *session.Controller
	Hub               *sse.Hub
	Metrics           *metrics.Metrics
	HTTPMetrics       *metrics.HTTP
	Registry          *prometheus.Registry

	logger  *slog.Logger
	closers []func() error
}

// Config holds configuration for the application factory
type Config struct {
	// BankPath is the question bank JSON file (optional)
	// If empty, questions must be loaded manually
	BankPath string
	// ReloadBank replaces questions already in storage with the bank file
	ReloadBank bool
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// RevealDelay and FetchTimeout override the session defaults when non-zero
	RevealDelay  time.Duration
	FetchTimeout time.Duration
	// Notifiers receive every session event in addition to SSE and metrics
	Notifiers []session.Notifier
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	var closers []func() error
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig, logger)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore.Close)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := []session.Option{
		session.WithRevealDelay(cfg.RevealDelay),
		session.WithFetchTimeout(cfg.FetchTimeout),
	}
	for _, n := range cfg.Notifiers {
		opts = append(opts, session.WithNotifier(n))
	}

	app := newWithDependencies(store, clock.New(), random.New(), reg, logger, opts...)
	app.closers = closers

	if cfg.BankPath != "" {
		if err := app.loadBank(ctx, cfg.BankPath, cfg.ReloadBank); err != nil {
			_ = app.Close()
			return nil, err
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	reg *prometheus.Registry,
	logger *slog.Logger,
	opts ...session.Option,
) *App {
	questionService := questions.New(store, rnd, logger)
	scoringService := scoring.New()
	hub := sse.NewHub(logger)
	m := metrics.New(reg)

	opts = append(opts,
		session.WithNotifier(sse.NewBroadcaster(hub, logger)),
		session.WithNotifier(m),
	)
	controller := session.NewController(questionService, scoringService, clk, logger, opts...)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		QuestionService:   questionService,
		ScoringService:    scoringService,
		SessionController: controller,
		Hub:               hub,
		Metrics:           m,
		HTTPMetrics:       metrics.NewHTTP(reg),
		Registry:          reg,
		logger:            logger,
	}
}

// loadBank loads the bank file unless storage already holds questions from a
// previous run and reload is false
func (a *App) loadBank(ctx context.Context, path string, reload bool) error {
	if reload {
		if err := a.QuestionService.Clear(ctx); err != nil {
			return err
		}
	}

	existing, err := a.QuestionService.Count(ctx)
	if err != nil {
		return fmt.Errorf("count stored questions: %w", err)
	}
	if existing > 0 {
		a.logger.Info("question bank already loaded", slog.Int("questions", existing))
		return nil
	}

	if _, err := a.QuestionService.LoadFromFile(ctx, path); err != nil {
		return fmt.Errorf("load question bank: %w", err)
	}
	return nil
}

// Start runs background components
func (a *App) Start() {
	go a.Hub.Run()
}

// Close stops the session, disconnects SSE clients and releases storage
func (a *App) Close() error {
	a.SessionController.Close()
	a.Hub.Close()

	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
