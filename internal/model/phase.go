package model

// Phase is the current step of a game session
type Phase string

const (
	PhaseSetup            Phase = "setup"             // Waiting for settings and roster
	PhaseLoadingQuestions Phase = "loading_questions" // Question fetch in flight
	PhasePlaying          Phase = "playing"           // Current player is choosing an answer
	PhaseShowingAnswer    Phase = "showing_answer"    // Answer revealed, auto-advance pending
	PhaseResults          Phase = "results"           // Final standings
)

// Phases returns every phase in transition order
func Phases() []Phase {
	return []Phase{PhaseSetup, PhaseLoadingQuestions, PhasePlaying, PhaseShowingAnswer, PhaseResults}
}

// InGame returns true for the phases where a question is on screen
func (p Phase) InGame() bool {
	return p == PhasePlaying || p == PhaseShowingAnswer
}
