package factory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/sse"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.Require().NoError(s.app.LoadTestBank())
}

func (s *IntegrationSuite) TearDownTest() {
	s.Require().NoError(s.app.Close())
}

func (s *IntegrationSuite) startGame(topics ...string) {
	settings := model.GameSettings{
		Topics:     topics,
		NumPlayers: 2,
		NumRounds:  2,
		Difficulty: model.DifficultyMedium,
	}
	roster := []model.PlayerSetup{{Name: "Alice", AvatarID: "👽"}, {Name: "Bob", AvatarID: "🤖"}}
	s.Require().NoError(settings.Validate(roster))

	_, err := s.app.SessionController.StartGame(s.ctx, settings, roster)
	s.Require().NoError(err)
	s.Require().True(s.app.WaitForLoad(time.Second))
}

// Test: Complete game flow from setup to results and back
func (s *IntegrationSuite) TestCompleteGameFlow() {
	controller := s.app.SessionController

	// Step 1: Start with two topics
	s.startGame("History", "Science")
	view := controller.View()
	s.Require().Equal(model.PhasePlaying, view.Phase)
	s.Require().Len(view.Questions, 4)
	s.Nil(view.Warning)

	// Step 2: Answer every question; the first option is always correct in the
	// test bank and MockRandom leaves option order alone
	answers := []bool{true, true, false, true}
	for i, correct := range answers {
		view = controller.View()
		s.Equal(i, view.CurrentQuestionIndex)
		s.Equal(i%2, view.CurrentPlayer)

		q := view.CurrentQuestion()
		s.Require().NotNil(q)
		answer := q.CorrectAnswer
		if !correct {
			answer = q.Options[1]
		}
		s.Require().True(controller.SubmitAnswer(answer))
		s.app.MockClock.Advance(TestRevealDelay)
	}

	// Step 3: Results
	view = controller.View()
	s.Equal(model.PhaseResults, view.Phase)
	standings := s.app.ScoringService.Standings(view.Players)
	s.Equal("Bob", standings[0].Player.Name)
	s.Equal(20, standings[0].Player.Score)
	s.Equal(10, standings[1].Player.Score)

	// Step 4: Play again
	controller.PlayAgain()
	view = controller.View()
	s.Equal(model.PhaseSetup, view.Phase)
	s.Nil(view.Settings)
	s.Empty(view.Players)
}

// Test: Short bank produces a warning but the game proceeds
func (s *IntegrationSuite) TestShortBankWarns() {
	settings := model.GameSettings{
		Topics:     []string{"History"},
		NumPlayers: 3,
		NumRounds:  2,
		Difficulty: model.DifficultyMedium,
	}
	_, err := s.app.SessionController.StartGame(s.ctx, settings, model.DefaultRoster(3))
	s.Require().NoError(err)
	s.Require().True(s.app.WaitForLoad(time.Second))

	view := s.app.SessionController.View()
	s.Equal(model.PhasePlaying, view.Phase)
	s.Len(view.Questions, 4)
	s.Require().NotNil(view.Warning)
}

// Test: Unknown topic sends the session back to setup with an error
func (s *IntegrationSuite) TestUnknownTopicFails() {
	s.startGame("Cooking")

	view := s.app.SessionController.View()
	s.Equal(model.PhaseSetup, view.Phase)
	s.Require().NotNil(view.Error)

	s.app.SessionController.DismissError()
	s.Nil(s.app.SessionController.View().Error)
}

// Test: Early termination mid-question cancels the pending advance
func (s *IntegrationSuite) TestEndGameEarly() {
	s.startGame("History", "Science")
	controller := s.app.SessionController

	current := controller.View()
	s.Require().True(controller.SubmitAnswer(current.CurrentQuestion().CorrectAnswer))
	controller.EndGame()
	s.app.MockClock.Advance(10 * TestRevealDelay)

	view := controller.View()
	s.Equal(model.PhaseResults, view.Phase)
	s.Equal(0, view.CurrentQuestionIndex)
	s.Equal(10, view.Players[0].Score)
}

// Test: Session events reach SSE clients
func (s *IntegrationSuite) TestEventsAreBroadcast() {
	client := sse.NewClient(s.app.Hub, "test")
	s.Require().True(s.app.Hub.Register(client))
	defer s.app.Hub.Unregister(client)

	s.startGame("History")

	var received []string
	timeout := time.After(time.Second)
	for len(received) < 2 {
		select {
		case msg := <-client.Messages():
			received = append(received, strings.SplitN(string(msg), "\n", 2)[0])
		case <-timeout:
			s.FailNow("timed out waiting for events", "got %v", received)
		}
	}

	s.Equal([]string{"event: game_started", "event: questions_loaded"}, received)
}
