package model

// TimerID identifies one scheduled auto-advance
type TimerID uint64

// SessionState is the mutable aggregate owned by the session controller
type SessionState struct {
	SessionID            string // Empty until the first game starts
	Phase                Phase
	Settings             *GameSettings // nil before start and after reset
	Players              []Player
	Questions            []Question
	CurrentQuestionIndex int
	SelectedAnswer       *string
	Error                *string
	Warning              *string  // Non-fatal, e.g. fewer questions than requested
	PendingTimer         *TimerID // At most one auto-advance is pending
	Revision             uint64   // Bumped on every mutation
}

// NewSessionState returns the initial state
func NewSessionState() *SessionState {
	return &SessionState{Phase: PhaseSetup}
}

// CurrentQuestion returns the question at the current index, or nil if out of range
func (s *SessionState) CurrentQuestion() *Question {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentQuestionIndex]
}

// HasMoreQuestions returns true if another question follows the current one
func (s *SessionState) HasMoreQuestions() bool {
	return s.CurrentQuestionIndex+1 < len(s.Questions)
}

// Clone returns a deep copy
func (s *SessionState) Clone() *SessionState {
	c := *s
	c.Settings = s.Settings.Clone()
	c.Players = append([]Player(nil), s.Players...)
	c.Questions = cloneQuestions(s.Questions)
	c.SelectedAnswer = cloneString(s.SelectedAnswer)
	c.Error = cloneString(s.Error)
	c.Warning = cloneString(s.Warning)
	if s.PendingTimer != nil {
		id := *s.PendingTimer
		c.PendingTimer = &id
	}
	return &c
}

// SessionView is the read-only projection rendered by the presentation surface
type SessionView struct {
	SessionID            string
	Phase                Phase
	Settings             *GameSettings
	Players              []Player
	Questions            []Question
	CurrentQuestionIndex int
	CurrentPlayer        int // Index into Players whose turn it is, -1 outside a game
	SelectedAnswer       *string
	IsAnswerRevealed     bool
	Error                *string
	Warning              *string
	Recovering           bool // Transient loading indicator after a corrupted-state reset
	Revision             uint64
}

// CurrentQuestion returns the question on screen, or nil
func (v *SessionView) CurrentQuestion() *Question {
	if !v.Phase.InGame() || v.CurrentQuestionIndex < 0 || v.CurrentQuestionIndex >= len(v.Questions) {
		return nil
	}
	return &v.Questions[v.CurrentQuestionIndex]
}

func cloneQuestions(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q
		out[i].Options = append([]string(nil), q.Options...)
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
