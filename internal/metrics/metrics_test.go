package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/triviaduel/internal/model"
)

// value returns the value of the series of family name carrying label=labelValue
func value(t *testing.T, reg *prometheus.Registry, name, label, labelValue string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == label && l.GetValue() == labelValue {
					if m.GetCounter() != nil {
						return m.GetCounter().GetValue()
					}
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	return 0
}

func event(eventType model.EventType, phase model.Phase, payload any) model.Event {
	return model.Event{
		Type:    eventType,
		View:    model.SessionView{Phase: phase},
		Payload: payload,
	}
}

func TestNewStartsInSetup(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Equal(t, 1.0, value(t, reg, "trivia_session_phase", "phase", "setup"))
	assert.Equal(t, 0.0, value(t, reg, "trivia_session_phase", "phase", "playing"))
}

func TestNotifyCountsEventsAndAnswers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Notify(event(model.EventGameStarted, model.PhaseLoadingQuestions, nil))
	m.Notify(event(model.EventQuestionsLoaded, model.PhasePlaying, model.QuestionsLoadedPayload{Requested: 4, Received: 4}))
	m.Notify(event(model.EventAnswerRevealed, model.PhaseShowingAnswer, model.AnswerRevealedPayload{Correct: true, Points: 10}))
	m.Notify(event(model.EventAnswerRevealed, model.PhaseShowingAnswer, model.AnswerRevealedPayload{Correct: false}))
	m.Notify(event(model.EventAnswerRevealed, model.PhaseShowingAnswer, model.AnswerRevealedPayload{Correct: true, Points: 10}))

	assert.Equal(t, 1.0, value(t, reg, "trivia_session_events_total", "type", "game_started"))
	assert.Equal(t, 3.0, value(t, reg, "trivia_session_events_total", "type", "answer_revealed"))
	assert.Equal(t, 2.0, value(t, reg, "trivia_answers_total", "result", ResultCorrect))
	assert.Equal(t, 1.0, value(t, reg, "trivia_answers_total", "result", ResultIncorrect))
}

func TestNotifyTracksCurrentPhase(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Notify(event(model.EventGameFinished, model.PhaseResults, model.GameFinishedPayload{Early: true}))

	for _, p := range model.Phases() {
		want := 0.0
		if p == model.PhaseResults {
			want = 1
		}
		assert.Equal(t, want, value(t, reg, "trivia_session_phase", "phase", string(p)), string(p))
	}
}

func TestHTTPObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewHTTP(reg)

	h.ObserveRequest("POST", "/api/v1/session/answer", 200, 20*time.Millisecond)
	h.ObserveRequest("POST", "/api/v1/session/answer", 200, 40*time.Millisecond)
	h.ObserveRequest("POST", "/api/v1/session/answer", 409, time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "trivia_http_request_duration_seconds", families[0].GetName())

	counts := map[string]uint64{}
	for _, m := range families[0].GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "status" {
				counts[l.GetValue()] = m.GetHistogram().GetSampleCount()
			}
		}
	}
	assert.Equal(t, map[string]uint64{"200": 2, "409": 1}, counts)
}
