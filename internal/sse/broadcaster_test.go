package sse

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/testutil"
)

func revealedEvent() model.Event {
	answer := "Paris"
	return model.Event{
		Type:      model.EventAnswerRevealed,
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		SessionID: "session-1",
		View: model.SessionView{
			SessionID: "session-1",
			Phase:     model.PhaseShowingAnswer,
			Settings: &model.GameSettings{
				Topics:     []string{"Geography"},
				NumPlayers: 2,
				NumRounds:  1,
				Difficulty: model.DifficultyEasy,
			},
			Players: []model.Player{
				{Name: "Alice", AvatarID: "👽", Score: 10},
				{Name: "Bob", AvatarID: "🤖"},
			},
			Questions: []model.Question{{
				ID:            "q1",
				QuestionText:  "Capital of France?",
				Options:       []string{"Paris", "Lyon"},
				CorrectAnswer: "Paris",
			}},
			SelectedAnswer:   &answer,
			IsAnswerRevealed: true,
			Revision:         4,
		},
		Payload: model.AnswerRevealedPayload{PlayerIndex: 0, Answer: "Paris", Correct: true, Points: 10},
	}
}

func TestRendererRenderEvent(t *testing.T) {
	name, data, err := NewRenderer().RenderEvent(revealedEvent())
	require.NoError(t, err)

	assert.Equal(t, "answer_revealed", name)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &decoded))
	assert.Equal(t, "answer_revealed", decoded["type"])

	session := decoded["session"].(map[string]any)
	assert.Equal(t, "showing_answer", session["phase"])
	question := session["current_question"].(map[string]any)
	assert.Equal(t, "Paris", question["correct_answer"])

	payload := decoded["payload"].(map[string]any)
	assert.Equal(t, true, payload["correct"])
	assert.EqualValues(t, 10, payload["points"])
}

func TestRendererHidesAnswerWhilePlaying(t *testing.T) {
	event := revealedEvent()
	event.Type = model.EventQuestionsLoaded
	event.View.Phase = model.PhasePlaying
	event.View.IsAnswerRevealed = false
	event.View.SelectedAnswer = nil

	_, data, err := NewRenderer().RenderEvent(event)
	require.NoError(t, err)
	assert.NotContains(t, data, "correct_answer")
}

func TestBroadcasterNotify(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "client-1")
	hub.Register(client)

	NewBroadcaster(hub, testutil.NopLogger()).Notify(revealedEvent())

	select {
	case msg := <-client.send:
		msgStr := string(msg)
		assert.True(t, strings.HasPrefix(msgStr, "event: answer_revealed\n"), msgStr)
		assert.Contains(t, msgStr, `"session_id":"session-1"`)
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
	}
}

func TestBroadcasterNotifyWithoutClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	// Must not block
	b := NewBroadcaster(hub, testutil.NopLogger())
	for i := 0; i < 1000; i++ {
		b.Notify(revealedEvent())
	}
}
