package model

import (
	"fmt"
	"slices"
	"strings"
)

// Question is a multiple-choice question as used during a session
type Question struct {
	ID            string   `json:"id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// IsCorrect returns true if answer matches the correct answer exactly
func (q *Question) IsCorrect(answer string) bool {
	return answer == q.CorrectAnswer
}

// Validate checks the question is playable. A single option is allowed.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return fmt.Errorf("%w: empty question text", ErrInvalidQuestion)
	}
	if len(q.Options) == 0 {
		return fmt.Errorf("%w: no options", ErrInvalidQuestion)
	}
	if !slices.Contains(q.Options, q.CorrectAnswer) {
		return fmt.Errorf("%w: correct answer %q is not one of the options", ErrInvalidQuestion, q.CorrectAnswer)
	}
	return nil
}

// ValidateBank applies the stricter rules for questions stored in the bank,
// which must offer a real choice
func (q *Question) ValidateBank() error {
	if err := q.Validate(); err != nil {
		return err
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: need at least 2 options, got %d", ErrInvalidQuestion, len(q.Options))
	}
	return nil
}

// BankQuestion is a stored question tagged with its topic and difficulty
type BankQuestion struct {
	Question
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
}
