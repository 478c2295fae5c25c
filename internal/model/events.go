package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventGameStarted      EventType = "game_started"
	EventQuestionsLoaded  EventType = "questions_loaded"
	EventLoadFailed       EventType = "load_failed"
	EventAnswerRevealed   EventType = "answer_revealed"
	EventQuestionAdvanced EventType = "question_advanced"
	EventGameFinished     EventType = "game_finished"
	EventGameReset        EventType = "game_reset"
	EventErrorDismissed   EventType = "error_dismissed"
)

// Event is emitted by the session controller after every transition
type Event struct {
	Type      EventType
	Timestamp time.Time
	SessionID string
	View      SessionView // State after the transition
	Payload   any         // Type-specific data
}

// QuestionsLoadedPayload contains data for questions loaded events
type QuestionsLoadedPayload struct {
	Requested int `json:"requested"`
	Received  int `json:"received"`
}

// LoadFailedPayload contains data for load failed events
type LoadFailedPayload struct {
	Reason string `json:"reason"`
}

// AnswerRevealedPayload contains data for answer revealed events
type AnswerRevealedPayload struct {
	PlayerIndex int    `json:"player_index"`
	Answer      string `json:"answer"`
	Correct     bool   `json:"correct"`
	Points      int    `json:"points"`
	Replaced    bool   `json:"replaced"` // A previous answer to the same question was superseded
}

// GameFinishedPayload contains data for game finished events
type GameFinishedPayload struct {
	Early bool `json:"early"` // Ended by early termination rather than running out of questions
}
