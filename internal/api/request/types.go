package request

// PlayerSetup is one roster entry
type PlayerSetup struct {
	Name     string `json:"name"`
	AvatarID string `json:"avatar_id,omitempty"`
}

// StartSessionRequest is the request body for starting a game.
// Omitted players default to "Player 1..n"; zero counts use the defaults.
type StartSessionRequest struct {
	Topics     []string      `json:"topics"`
	NumPlayers int           `json:"num_players,omitempty"`
	NumRounds  int           `json:"num_rounds,omitempty"`
	Difficulty string        `json:"difficulty,omitempty"`
	Players    []PlayerSetup `json:"players,omitempty"`
}

// AnswerRequest is the request body for answering the current question
type AnswerRequest struct {
	Answer string `json:"answer"`
}
