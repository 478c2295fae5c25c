package factory

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcoot/triviaduel/internal/dependencies/mocks"
	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/storage/memory"
	"github.com/mcoot/triviaduel/internal/testutil"
)

// TestRevealDelay is the reveal delay used by TestApp
const TestRevealDelay = 2500 * time.Millisecond

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The SSE hub is running; call Close when done.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, prometheus.NewRegistry(), testutil.NopLogger())
	app.Start()

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestBank loads a small question bank: two topics with four questions
// each at medium difficulty, plus one easy history question
func (t *TestApp) LoadTestBank() error {
	bank := []model.BankQuestion{
		testQuestion("h1", "History", model.DifficultyMedium, "Who was the first Roman emperor?", "Augustus", "Nero", "Caligula", "Trajan"),
		testQuestion("h2", "History", model.DifficultyMedium, "In which year did the Berlin Wall fall?", "1989", "1979", "1991", "1961"),
		testQuestion("h3", "History", model.DifficultyMedium, "Which empire built Machu Picchu?", "Inca", "Aztec", "Maya", "Olmec"),
		testQuestion("h4", "History", model.DifficultyMedium, "Who wrote the Communist Manifesto with Engels?", "Marx", "Lenin", "Trotsky", "Hegel"),
		testQuestion("h5", "History", model.DifficultyEasy, "Who was the first US president?", "Washington", "Lincoln", "Jefferson", "Adams"),
		testQuestion("s1", "Science", model.DifficultyMedium, "What is the chemical symbol for gold?", "Au", "Ag", "Gd", "Go"),
		testQuestion("s2", "Science", model.DifficultyMedium, "What planet is known as the Red Planet?", "Mars", "Venus", "Jupiter", "Mercury"),
		testQuestion("s3", "Science", model.DifficultyMedium, "What gas do plants absorb?", "Carbon dioxide", "Oxygen", "Nitrogen", "Helium"),
		testQuestion("s4", "Science", model.DifficultyMedium, "How many bones are in the adult human body?", "206", "196", "216", "226"),
	}
	_, err := t.QuestionService.LoadQuestions(context.Background(), bank)
	return err
}

// WaitForLoad waits for the in-flight question fetch to be applied
func (t *TestApp) WaitForLoad(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if t.SessionController.State().Phase != model.PhaseLoadingQuestions {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

func testQuestion(id, topic string, difficulty model.Difficulty, text string, correct string, wrong ...string) model.BankQuestion {
	return model.BankQuestion{
		Question: model.Question{
			ID:            id,
			QuestionText:  text,
			Options:       append([]string{correct}, wrong...),
			CorrectAnswer: correct,
		},
		Topic:      topic,
		Difficulty: difficulty,
	}
}
