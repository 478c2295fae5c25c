package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config, logger *slog.Logger) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	if cfg.Instrument {
		if err := Instrument(client, logger); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("instrument redis: %w", err)
		}
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveQuestions(ctx context.Context, questions []model.BankQuestion) error {
	if len(questions) == 0 {
		return nil
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	touched := make(map[string]struct{})
	for _, q := range questions {
		data, err := json.Marshal(q)
		if err != nil {
			return err
		}
		topic := storage.NormalizeTopic(q.Topic)
		key := questionsKey(topic, q.Difficulty)
		pipe.RPush(ctx, key, data)
		pipe.HSetNX(ctx, topicsKey(), topic, q.Topic)
		pipe.SAdd(ctx, questionListsIndexKey(), key)
		touched[key] = struct{}{}
	}
	if s.cfg.QuestionTTL > 0 {
		for key := range touched {
			pipe.Expire(ctx, key, s.cfg.QuestionTTL)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetQuestions(ctx context.Context, topic string, difficulty model.Difficulty) ([]model.BankQuestion, error) {
	values, err := s.client.LRange(ctx, questionsKey(storage.NormalizeTopic(topic), difficulty), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	questions := make([]model.BankQuestion, 0, len(values))
	for _, val := range values {
		var q model.BankQuestion
		if err := json.Unmarshal([]byte(val), &q); err != nil {
			continue // Skip invalid data
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (s *Storage) ListTopics(ctx context.Context) ([]string, error) {
	names, err := s.client.HVals(ctx, topicsKey()).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (s *Storage) CountQuestions(ctx context.Context) (int, error) {
	keys, err := s.client.SMembers(ctx, questionListsIndexKey()).Result()
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.LLen(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	total := 0
	for _, cmd := range cmds {
		total += int(cmd.Val())
	}
	return total, nil
}

func (s *Storage) ClearQuestions(ctx context.Context) error {
	keys, err := s.client.SMembers(ctx, questionListsIndexKey()).Result()
	if err != nil {
		return err
	}

	// Delete all lists, the topic hash and the index in one pipeline
	pipe := s.client.TxPipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	pipe.Del(ctx, topicsKey())
	pipe.Del(ctx, questionListsIndexKey())
	_, err = pipe.Exec(ctx)
	return err
}
