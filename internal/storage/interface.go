package storage

import (
	"context"
	"strings"

	"github.com/mcoot/triviaduel/internal/model"
)

// Storage defines the interface for question bank persistence
type Storage interface {
	// SaveQuestions appends questions to the bank
	SaveQuestions(ctx context.Context, questions []model.BankQuestion) error
	// GetQuestions returns the questions for a topic and difficulty, empty if none
	GetQuestions(ctx context.Context, topic string, difficulty model.Difficulty) ([]model.BankQuestion, error)
	// ListTopics returns the display names of all topics, sorted
	ListTopics(ctx context.Context) ([]string, error)
	// CountQuestions returns the total number of questions in the bank
	CountQuestions(ctx context.Context) (int, error)
	// ClearQuestions removes every question and topic
	ClearQuestions(ctx context.Context) error
}

// NormalizeTopic returns the lookup key for a topic name
func NormalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}
