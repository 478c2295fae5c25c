package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/mcoot/triviaduel/internal/dependencies/random"
	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/storage"
)

// Service is a question bank: a Source backed by storage
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger
}

// New creates a new question bank service
func New(storage storage.Storage, random random.Random, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Service{
		storage: storage,
		random:  random,
		logger:  logger.With(slog.String("component", "questions")),
	}
}

// Ensure Service implements Source
var _ Source = (*Service)(nil)

// LoadFromFile loads a JSON array of bank questions and saves them to storage
func (s *Service) LoadFromFile(ctx context.Context, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return s.LoadFromReader(ctx, file)
}

// LoadFromReader loads a JSON array of bank questions and saves them to storage
func (s *Service) LoadFromReader(ctx context.Context, r io.Reader) (int, error) {
	var questions []model.BankQuestion
	if err := json.NewDecoder(r).Decode(&questions); err != nil {
		return 0, fmt.Errorf("decode question bank: %w", err)
	}
	return s.LoadQuestions(ctx, questions)
}

// LoadQuestions validates questions, assigns missing IDs and saves them to storage.
// Invalid questions are skipped with a warning; the count saved is returned.
func (s *Service) LoadQuestions(ctx context.Context, questions []model.BankQuestion) (int, error) {
	valid := make([]model.BankQuestion, 0, len(questions))
	for i, q := range questions {
		if err := q.ValidateBank(); err != nil {
			s.logger.Warn("skipping invalid bank question",
				slog.Int("position", i),
				slog.String("error", err.Error()))
			continue
		}
		if storage.NormalizeTopic(q.Topic) == "" {
			s.logger.Warn("skipping bank question without topic", slog.Int("position", i))
			continue
		}
		if !q.Difficulty.IsValid() {
			s.logger.Warn("skipping bank question with unknown difficulty",
				slog.Int("position", i),
				slog.String("difficulty", string(q.Difficulty)))
			continue
		}
		if q.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return 0, fmt.Errorf("generate question ID: %w", err)
			}
			q.ID = id.String()
		}
		valid = append(valid, q)
	}

	if err := s.storage.SaveQuestions(ctx, valid); err != nil {
		return 0, err
	}

	s.logger.Info("question bank loaded",
		slog.Int("loaded", len(valid)),
		slog.Int("skipped", len(questions)-len(valid)))
	return len(valid), nil
}

// Topics returns the topics available in the bank
func (s *Service) Topics(ctx context.Context) ([]string, error) {
	return s.storage.ListTopics(ctx)
}

// Clear removes every question from the bank
func (s *Service) Clear(ctx context.Context) error {
	if err := s.storage.ClearQuestions(ctx); err != nil {
		return fmt.Errorf("clear question bank: %w", err)
	}
	s.logger.Info("question bank cleared")
	return nil
}

// Count returns the number of questions in the bank
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.storage.CountQuestions(ctx)
}

// FetchQuestions draws up to count questions of the given difficulty from the topics.
// Each topic pool is shuffled and topics are interleaved round-robin so every
// topic is represented; answer options are shuffled per question.
func (s *Service) FetchQuestions(ctx context.Context, topics []string, count int, difficulty model.Difficulty) ([]model.Question, error) {
	if count <= 0 || len(topics) == 0 {
		return []model.Question{}, nil
	}

	total, err := s.storage.CountQuestions(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, model.ErrQuestionBankEmpty
	}

	pools := make([][]model.BankQuestion, 0, len(topics))
	seen := make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		key := storage.NormalizeTopic(topic)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		pool, err := s.storage.GetQuestions(ctx, topic, difficulty)
		if err != nil {
			return nil, fmt.Errorf("load topic %q: %w", topic, err)
		}
		random.Shuffle(s.random, len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		pools = append(pools, pool)
	}

	result := make([]model.Question, 0, count)
	used := make(map[string]struct{})
	for depth := 0; len(result) < count; depth++ {
		added := false
		for _, pool := range pools {
			if depth >= len(pool) || len(result) >= count {
				continue
			}
			q := pool[depth].Question
			added = true
			if _, dup := used[q.ID]; dup {
				continue
			}
			used[q.ID] = struct{}{}
			random.Shuffle(s.random, len(q.Options), func(i, j int) {
				q.Options[i], q.Options[j] = q.Options[j], q.Options[i]
			})
			result = append(result, q)
		}
		if !added {
			break
		}
	}

	if len(result) < count {
		s.logger.Debug("question bank short",
			slog.Int("requested", count),
			slog.Int("available", len(result)),
			slog.String("difficulty", string(difficulty)))
	}
	return result, nil
}
