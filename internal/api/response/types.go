package response

import (
	"time"

	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/services/scoring"
)

// Player represents a player in API responses
type Player struct {
	Name     string `json:"name"`
	AvatarID string `json:"avatar_id"`
	Score    int    `json:"score"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		Name:     p.Name,
		AvatarID: p.AvatarID,
		Score:    p.Score,
	}
}

// Settings represents game settings
type Settings struct {
	Topics     []string `json:"topics"`
	NumPlayers int      `json:"num_players"`
	NumRounds  int      `json:"num_rounds"`
	Difficulty string   `json:"difficulty"`
}

// SettingsFromModel converts model.GameSettings
func SettingsFromModel(s *model.GameSettings) *Settings {
	if s == nil {
		return nil
	}
	return &Settings{
		Topics:     append([]string{}, s.Topics...),
		NumPlayers: s.NumPlayers,
		NumRounds:  s.NumRounds,
		Difficulty: string(s.Difficulty),
	}
}

// Question represents the question on screen.
// CorrectAnswer is only set once the answer has been revealed.
type Question struct {
	ID            string   `json:"id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer *string  `json:"correct_answer,omitempty"`
}

// QuestionFromModel converts model.Question, hiding the answer unless reveal is set
func QuestionFromModel(q *model.Question, reveal bool) *Question {
	if q == nil {
		return nil
	}
	out := &Question{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		Options:      append([]string{}, q.Options...),
	}
	if reveal {
		answer := q.CorrectAnswer
		out.CorrectAnswer = &answer
	}
	return out
}

// Standing is one row of the final results
type Standing struct {
	Rank     int    `json:"rank"`
	Index    int    `json:"index"`
	Name     string `json:"name"`
	AvatarID string `json:"avatar_id"`
	Score    int    `json:"score"`
	Winner   bool   `json:"winner"`
}

// Session represents the session view
type Session struct {
	SessionID            string     `json:"session_id,omitempty"`
	Phase                string     `json:"phase"`
	Settings             *Settings  `json:"settings"`
	Players              []Player   `json:"players"`
	CurrentQuestionIndex int        `json:"current_question_index"`
	TotalQuestions       int        `json:"total_questions"`
	CurrentPlayer        int        `json:"current_player"`
	CurrentQuestion      *Question  `json:"current_question,omitempty"`
	SelectedAnswer       *string    `json:"selected_answer"`
	IsAnswerRevealed     bool       `json:"is_answer_revealed"`
	Error                *string    `json:"error"`
	Warning              *string    `json:"warning"`
	Recovering           bool       `json:"recovering,omitempty"`
	Standings            []Standing `json:"standings,omitempty"`
	Revision             uint64     `json:"revision"`
}

// SessionFromView converts model.SessionView.
// Standings are only included in the results phase.
func SessionFromView(v model.SessionView) Session {
	players := make([]Player, len(v.Players))
	for i, p := range v.Players {
		players[i] = PlayerFromModel(p)
	}

	resp := Session{
		SessionID:            v.SessionID,
		Phase:                string(v.Phase),
		Settings:             SettingsFromModel(v.Settings),
		Players:              players,
		CurrentQuestionIndex: v.CurrentQuestionIndex,
		TotalQuestions:       len(v.Questions),
		CurrentPlayer:        v.CurrentPlayer,
		CurrentQuestion:      QuestionFromModel(v.CurrentQuestion(), v.IsAnswerRevealed),
		SelectedAnswer:       v.SelectedAnswer,
		IsAnswerRevealed:     v.IsAnswerRevealed,
		Error:                v.Error,
		Warning:              v.Warning,
		Recovering:           v.Recovering,
		Revision:             v.Revision,
	}

	if v.Phase == model.PhaseResults {
		resp.Standings = StandingsFromPlayers(v.Players)
	}

	return resp
}

// StandingsFromPlayers ranks players for the results screen
func StandingsFromPlayers(players []model.Player) []Standing {
	scorer := scoring.New()
	ranked := scorer.Standings(players)
	out := make([]Standing, len(ranked))
	for i, st := range ranked {
		out[i] = Standing{
			Rank:     st.Rank,
			Index:    st.Index,
			Name:     st.Player.Name,
			AvatarID: st.Player.AvatarID,
			Score:    st.Player.Score,
			Winner:   st.Rank == 1,
		}
	}
	return out
}

// Event is a session event pushed over SSE
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id,omitempty"`
	Session   Session   `json:"session"`
	Payload   any       `json:"payload,omitempty"`
}

// EventFromModel converts model.Event
func EventFromModel(e model.Event) Event {
	return Event{
		Type:      string(e.Type),
		Timestamp: e.Timestamp,
		SessionID: e.SessionID,
		Session:   SessionFromView(e.View),
		Payload:   e.Payload,
	}
}

// Topics lists the topics available in the question bank
type Topics struct {
	Topics    []string `json:"topics"`
	Questions int      `json:"questions"`
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
	Phase  string `json:"phase"`
}
