package scoring

import (
	"sort"

	"github.com/mcoot/triviaduel/internal/model"
)

// PointsPerCorrectAnswer is awarded to the player whose turn it is on a correct answer
const PointsPerCorrectAnswer = 10

// Standing is one row of the results table
type Standing struct {
	Rank   int // 1-based; tied players share a rank
	Index  int // Position in the roster
	Player model.Player
}

// Service provides answer scoring and final standings
type Service struct{}

// New creates a new ScoringService
func New() *Service {
	return &Service{}
}

// Points returns the points earned by answering question with answer
func (s *Service) Points(question *model.Question, answer string) int {
	if question == nil || !question.IsCorrect(answer) {
		return 0
	}
	return PointsPerCorrectAnswer
}

// Standings ranks players by score descending, keeping roster order between equal scores
func (s *Service) Standings(players []model.Player) []Standing {
	standings := make([]Standing, len(players))
	for i, p := range players {
		standings[i] = Standing{Index: i, Player: p}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Player.Score > standings[j].Player.Score
	})

	for i := range standings {
		if i > 0 && standings[i].Player.Score == standings[i-1].Player.Score {
			standings[i].Rank = standings[i-1].Rank
		} else {
			standings[i].Rank = i + 1
		}
	}

	return standings
}

// Winners returns every player sharing first place, or nil if there are no players
func (s *Service) Winners(standings []Standing) []Standing {
	var winners []Standing
	for _, st := range standings {
		if st.Rank == 1 {
			winners = append(winners, st)
		}
	}
	return winners
}

// Interface for dependency injection
type ServiceInterface interface {
	Points(question *model.Question, answer string) int
	Standings(players []model.Player) []Standing
	Winners(standings []Standing) []Standing
}

var _ ServiceInterface = (*Service)(nil)
