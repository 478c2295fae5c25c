package questions

import (
	"context"

	"github.com/mcoot/triviaduel/internal/model"
)

// Source supplies questions for a session.
// It may return fewer questions than requested; an empty result is not an error
// at this layer.
type Source interface {
	FetchQuestions(ctx context.Context, topics []string, count int, difficulty model.Difficulty) ([]model.Question, error)
}

// SourceFunc adapts a plain function to a Source
type SourceFunc func(ctx context.Context, topics []string, count int, difficulty model.Difficulty) ([]model.Question, error)

// FetchQuestions calls f
func (f SourceFunc) FetchQuestions(ctx context.Context, topics []string, count int, difficulty model.Difficulty) ([]model.Question, error) {
	return f(ctx, topics, count, difficulty)
}
