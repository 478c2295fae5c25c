package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/triviaduel/internal/model"
)

const testBank = `[
  {"id": "h1", "topic": "History", "difficulty": "medium", "question_text": "In which year did World War II end?", "options": ["1945", "1939", "1918", "1950"], "correct_answer": "1945"},
  {"id": "h2", "topic": "History", "difficulty": "medium", "question_text": "In which year was the United Nations founded?", "options": ["1920", "1945"], "correct_answer": "1945"}
]`

func writeBank(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(testBank), 0o600))
	return path
}

func testPlayOptions(t *testing.T) playOptions {
	return playOptions{
		BankPath:    writeBank(t),
		Topics:      []string{"History"},
		NumRounds:   1,
		Difficulty:  "medium",
		Names:       []string{"Alice", "Bob"},
		RevealDelay: time.Millisecond,
	}
}

func runPlayWithInput(t *testing.T, opts playOptions, input string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out bytes.Buffer
	err := runPlay(ctx, strings.NewReader(input), &out, opts)
	return out.String(), err
}

func TestRunPlay_FullGame(t *testing.T) {
	output, err := runPlayWithInput(t, testPlayOptions(t), "1\n1\nn\n")
	require.NoError(t, err)

	assert.Contains(t, output, "Loading questions...")
	assert.Contains(t, output, "Question 1 of 2")
	assert.Contains(t, output, "Question 2 of 2")
	assert.Contains(t, output, "Alice, your answer (1-")
	assert.Contains(t, output, "Bob, your answer (1-")
	assert.Contains(t, output, "Final Scores:")
	assert.Contains(t, output, "Play again?")
}

func TestRunPlay_AnswerByText(t *testing.T) {
	output, err := runPlayWithInput(t, testPlayOptions(t), "1945\n1945\n")
	require.NoError(t, err)

	assert.Contains(t, output, "Correct! Alice now has 10 points.")
	assert.Contains(t, output, "Correct! Bob now has 10 points.")
	assert.Contains(t, output, "1. 👽 Alice: 10 points [winner]")
	assert.Contains(t, output, "1. 🤖 Bob: 10 points [winner]")
}

func TestRunPlay_QuitEarly(t *testing.T) {
	output, err := runPlayWithInput(t, testPlayOptions(t), "q\n")
	require.NoError(t, err)

	assert.Contains(t, output, "Question 1 of 2")
	assert.NotContains(t, output, "Question 2 of 2")
	assert.Contains(t, output, "Final Scores:")
	assert.Contains(t, output, "Alice: 0 points [winner]")
}

func TestRunPlay_InvalidInputReprompts(t *testing.T) {
	output, err := runPlayWithInput(t, testPlayOptions(t), "9\nq\n")
	require.NoError(t, err)

	assert.Contains(t, output, "option must be between 1 and")
	assert.Equal(t, 2, strings.Count(output, "Alice, your answer"))
}

func TestRunPlay_PlayAgain(t *testing.T) {
	output, err := runPlayWithInput(t, testPlayOptions(t), "q\ny\nq\nn\n")
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(output, "Loading questions..."))
	assert.Equal(t, 2, strings.Count(output, "Final Scores:"))
}

func TestRunPlay_UnknownTopic(t *testing.T) {
	opts := testPlayOptions(t)
	opts.Topics = []string{"Cooking"}

	_, err := runPlayWithInput(t, opts, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not start game")
}

func TestRunPlay_MissingBank(t *testing.T) {
	opts := testPlayOptions(t)
	opts.BankPath = filepath.Join(t.TempDir(), "missing.json")

	_, err := runPlayWithInput(t, opts, "")
	require.Error(t, err)
}

func TestPlayOptions_Settings(t *testing.T) {
	t.Run("defaults roster", func(t *testing.T) {
		opts := playOptions{Topics: []string{"History"}, NumRounds: 2, Difficulty: "easy"}

		settings, roster, err := opts.settings()
		require.NoError(t, err)
		assert.Equal(t, model.DefaultNumPlayers, settings.NumPlayers)
		assert.Equal(t, model.DifficultyEasy, settings.Difficulty)
		require.Len(t, roster, model.DefaultNumPlayers)
		assert.Equal(t, "Player 1", roster[0].Name)
	})

	t.Run("names set player count", func(t *testing.T) {
		opts := playOptions{Topics: []string{"History"}, NumRounds: 1, Difficulty: "hard", Names: []string{"A", "B", "C"}}

		settings, roster, err := opts.settings()
		require.NoError(t, err)
		assert.Equal(t, 3, settings.NumPlayers)
		assert.Equal(t, model.Avatars[2], roster[2].AvatarID)
	})

	tests := []struct {
		name string
		opts playOptions
	}{
		{name: "no topics", opts: playOptions{NumRounds: 1, Difficulty: "easy"}},
		{name: "bad difficulty", opts: playOptions{Topics: []string{"History"}, NumRounds: 1, Difficulty: "extreme"}},
		{name: "one player", opts: playOptions{Topics: []string{"History"}, NumRounds: 1, Difficulty: "easy", NumPlayers: 1}},
		{name: "names disagree with count", opts: playOptions{Topics: []string{"History"}, NumRounds: 1, Difficulty: "easy", NumPlayers: 3, Names: []string{"A", "B"}}},
		{name: "zero rounds", opts: playOptions{Topics: []string{"History"}, Difficulty: "easy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.opts.settings()
			assert.ErrorIs(t, err, model.ErrInvalidSettings)
		})
	}
}
