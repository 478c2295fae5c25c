package redis

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/testutil"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func bankQuestion(id, topic string, difficulty model.Difficulty) model.BankQuestion {
	return model.BankQuestion{
		Question: model.Question{
			ID:            id,
			QuestionText:  "Question " + id,
			Options:       []string{"a", "b", "c"},
			CorrectAnswer: "b",
		},
		Topic:      topic,
		Difficulty: difficulty,
	}
}

func (s *StorageSuite) TestSaveAndGetQuestions() {
	err := s.storage.SaveQuestions(s.ctx, []model.BankQuestion{
		bankQuestion("q1", "History", model.DifficultyMedium),
		bankQuestion("q2", "History", model.DifficultyMedium),
	})
	s.Require().NoError(err)

	questions, err := s.storage.GetQuestions(s.ctx, "history", model.DifficultyMedium)
	s.Require().NoError(err)
	s.Require().Len(questions, 2)
	s.Equal("q1", questions[0].ID)
	s.Equal("History", questions[0].Topic)
	s.Equal([]string{"a", "b", "c"}, questions[0].Options)
	s.Equal("b", questions[0].CorrectAnswer)
}

func (s *StorageSuite) TestSaveQuestionsUsesExpectedKeys() {
	_ = s.storage.SaveQuestions(s.ctx, []model.BankQuestion{bankQuestion("q1", "Space Travel", model.DifficultyHard)})

	s.True(s.mini.Exists(questionsKey("space travel", model.DifficultyHard)))
	s.True(s.mini.Exists(topicsKey()))
	members, err := s.mini.Members(questionListsIndexKey())
	s.Require().NoError(err)
	s.Equal([]string{questionsKey("space travel", model.DifficultyHard)}, members)
}

func (s *StorageSuite) TestGetQuestionsUnknownTopicIsEmpty() {
	questions, err := s.storage.GetQuestions(s.ctx, "nope", model.DifficultyEasy)
	s.Require().NoError(err)
	s.Empty(questions)
}

func (s *StorageSuite) TestGetQuestionsSkipsCorruptEntries() {
	_ = s.storage.SaveQuestions(s.ctx, []model.BankQuestion{bankQuestion("q1", "Music", model.DifficultyEasy)})
	_, err := s.mini.Push(questionsKey("music", model.DifficultyEasy), "not-json")
	s.Require().NoError(err)

	questions, err := s.storage.GetQuestions(s.ctx, "Music", model.DifficultyEasy)
	s.Require().NoError(err)
	s.Len(questions, 1)
}

func (s *StorageSuite) TestListTopics() {
	_ = s.storage.SaveQuestions(s.ctx, []model.BankQuestion{
		bankQuestion("q1", "Science", model.DifficultyEasy),
		bankQuestion("q2", "SCIENCE", model.DifficultyHard),
		bankQuestion("q3", "Art", model.DifficultyEasy),
	})

	topics, err := s.storage.ListTopics(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Art", "Science"}, topics)
}

func (s *StorageSuite) TestCountAndClear() {
	_ = s.storage.SaveQuestions(s.ctx, []model.BankQuestion{
		bankQuestion("q1", "Science", model.DifficultyEasy),
		bankQuestion("q2", "Science", model.DifficultyHard),
		bankQuestion("q3", "Art", model.DifficultyEasy),
	})

	count, err := s.storage.CountQuestions(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, count)

	s.Require().NoError(s.storage.ClearQuestions(s.ctx))

	count, err = s.storage.CountQuestions(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)
	s.False(s.mini.Exists(questionsKey("science", model.DifficultyEasy)))
	s.False(s.mini.Exists(topicsKey()))
}

func (s *StorageSuite) TestQuestionTTL() {
	cfg := DefaultConfig()
	cfg.QuestionTTL = time.Hour
	s.storage = NewWithClient(redis.NewClient(&redis.Options{Addr: s.mini.Addr()}), cfg)

	_ = s.storage.SaveQuestions(s.ctx, []model.BankQuestion{bankQuestion("q1", "Science", model.DifficultyEasy)})

	s.True(s.mini.TTL(questionsKey("science", model.DifficultyEasy)) > 0, "question list should have TTL")
}

func (s *StorageSuite) TestNoTTLByDefault() {
	_ = s.storage.SaveQuestions(s.ctx, []model.BankQuestion{bankQuestion("q1", "Science", model.DifficultyEasy)})

	s.Equal(time.Duration(0), s.mini.TTL(questionsKey("science", model.DifficultyEasy)))
}

func (s *StorageSuite) TestInstrumentedClientLogsCommands() {
	_ = s.storage.Close()

	logger, logs := testutil.BufferLogger()
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()
	cfg.Instrument = true

	storage, err := New(cfg, logger)
	s.Require().NoError(err)
	s.storage = storage

	_, err = s.storage.CountQuestions(s.ctx)
	s.Require().NoError(err)

	commands := map[string]map[string]any{}
	for _, rec := range logs.Records() {
		if rec[slog.MessageKey] == "redis command" {
			s.Equal("DEBUG", rec[slog.LevelKey])
			s.Equal("redis", rec["component"])
			commands[rec["cmd"].(string)] = rec
		}
	}
	for _, name := range []string{"ping", "smembers"} {
		rec, ok := commands[name]
		s.Require().True(ok, "expected %s to be logged", name)
		s.Equal(false, rec["failed"])
	}

	_, ok := logs.Find("redis dialed")
	s.True(ok)
}
