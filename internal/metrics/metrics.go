package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mcoot/triviaduel/internal/model"
)

const namespace = "trivia"

// Answer results
const (
	ResultCorrect   = "correct"
	ResultIncorrect = "incorrect"
)

// Metrics records session events as prometheus collectors.
// It implements the session controller's Notifier.
type Metrics struct {
	events  *prometheus.CounterVec
	answers *prometheus.CounterVec
	phase   *prometheus.GaugeVec
}

// New registers the session collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session events by type.",
		}, []string{"type"}),
		answers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Submitted answers by result.",
		}, []string{"result"}),
		phase: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_phase",
			Help:      "1 for the phase the session is currently in, 0 otherwise.",
		}, []string{"phase"}),
	}
	m.setPhase(model.PhaseSetup)
	return m
}

// Notify updates the collectors for event
func (m *Metrics) Notify(event model.Event) {
	m.events.WithLabelValues(string(event.Type)).Inc()

	if p, ok := event.Payload.(model.AnswerRevealedPayload); ok {
		result := ResultIncorrect
		if p.Correct {
			result = ResultCorrect
		}
		m.answers.WithLabelValues(result).Inc()
	}

	m.setPhase(event.View.Phase)
}

func (m *Metrics) setPhase(current model.Phase) {
	for _, p := range model.Phases() {
		v := 0.0
		if p == current {
			v = 1
		}
		m.phase.WithLabelValues(string(p)).Set(v)
	}
}

// HTTP records API request metrics.
// It implements the API logging middleware's RequestObserver.
type HTTP struct {
	requests *prometheus.HistogramVec
}

// NewHTTP registers the HTTP collectors with reg
func NewHTTP(reg prometheus.Registerer) *HTTP {
	return &HTTP{
		requests: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by method, route template and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// ObserveRequest records one completed request
func (h *HTTP) ObserveRequest(method, route string, status int, duration time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
