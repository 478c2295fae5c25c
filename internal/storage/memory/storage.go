package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	questions map[questionKey][]model.BankQuestion
	topics    map[string]string // normalized -> display name
	count     int
}

type questionKey struct {
	topic      string
	difficulty model.Difficulty
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		questions: make(map[questionKey][]model.BankQuestion),
		topics:    make(map[string]string),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveQuestions(ctx context.Context, questions []model.BankQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range questions {
		topic := storage.NormalizeTopic(q.Topic)
		if _, ok := s.topics[topic]; !ok {
			s.topics[topic] = q.Topic
		}
		key := questionKey{topic: topic, difficulty: q.Difficulty}
		s.questions[key] = append(s.questions[key], cloneBankQuestion(q))
		s.count++
	}
	return nil
}

func (s *Storage) GetQuestions(ctx context.Context, topic string, difficulty model.Difficulty) ([]model.BankQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.questions[questionKey{topic: storage.NormalizeTopic(topic), difficulty: difficulty}]
	result := make([]model.BankQuestion, len(stored))
	for i, q := range stored {
		result[i] = cloneBankQuestion(q)
	}
	return result, nil
}

func (s *Storage) ListTopics(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	topics := make([]string, 0, len(s.topics))
	for _, name := range s.topics {
		topics = append(topics, name)
	}
	sort.Strings(topics)
	return topics, nil
}

func (s *Storage) CountQuestions(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count, nil
}

func (s *Storage) ClearQuestions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = make(map[questionKey][]model.BankQuestion)
	s.topics = make(map[string]string)
	s.count = 0
	return nil
}

func cloneBankQuestion(q model.BankQuestion) model.BankQuestion {
	q.Options = append([]string(nil), q.Options...)
	return q
}
