package model

import (
	"fmt"
	"strings"
)

// Difficulty of the requested questions
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty parses a difficulty name, case-insensitively
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalidSettings, s)
	}
	return d, nil
}

// IsValid returns true for the known difficulties
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Setup limits and defaults
const (
	MinPlayers        = 2
	MaxPlayers        = 10
	DefaultNumPlayers = 2

	MinRounds        = 1
	MaxRounds        = 10
	DefaultNumRounds = 2

	MinTopics = 1
	MaxTopics = 5
)

// GameSettings is the configuration chosen on the setup screen
type GameSettings struct {
	Topics     []string
	NumPlayers int
	NumRounds  int // Rounds per player
	Difficulty Difficulty
}

// TotalQuestions returns the number of questions to request
func (s *GameSettings) TotalQuestions() int {
	return s.NumPlayers * s.NumRounds
}

// Validate checks the settings and roster the way the setup screen does
func (s *GameSettings) Validate(roster []PlayerSetup) error {
	if len(s.Topics) < MinTopics || len(s.Topics) > MaxTopics {
		return fmt.Errorf("%w: need %d-%d topics, got %d", ErrInvalidSettings, MinTopics, MaxTopics, len(s.Topics))
	}
	seen := make(map[string]struct{}, len(s.Topics))
	for _, t := range s.Topics {
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "" {
			return fmt.Errorf("%w: empty topic", ErrInvalidSettings)
		}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: duplicate topic %q", ErrInvalidSettings, t)
		}
		seen[key] = struct{}{}
	}
	if s.NumPlayers < MinPlayers || s.NumPlayers > MaxPlayers {
		return fmt.Errorf("%w: need %d-%d players, got %d", ErrInvalidSettings, MinPlayers, MaxPlayers, s.NumPlayers)
	}
	if s.NumRounds < MinRounds || s.NumRounds > MaxRounds {
		return fmt.Errorf("%w: need %d-%d rounds, got %d", ErrInvalidSettings, MinRounds, MaxRounds, s.NumRounds)
	}
	if !s.Difficulty.IsValid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidSettings, s.Difficulty)
	}
	if len(roster) != s.NumPlayers {
		return fmt.Errorf("%w: roster has %d players, settings want %d", ErrInvalidSettings, len(roster), s.NumPlayers)
	}
	for i, p := range roster {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: player %d has no name", ErrInvalidSettings, i+1)
		}
	}
	return nil
}

// Clone returns a deep copy
func (s *GameSettings) Clone() *GameSettings {
	if s == nil {
		return nil
	}
	c := *s
	c.Topics = append([]string(nil), s.Topics...)
	return &c
}
