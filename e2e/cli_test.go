package e2e_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/triviaduel/internal/api"
	"github.com/mcoot/triviaduel/internal/api/response"
	"github.com/mcoot/triviaduel/internal/factory"
	"github.com/mcoot/triviaduel/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "trivia-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/trivia")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) session(t *testing.T, args ...string) response.Session {
	t.Helper()

	output, err := r.run(append([]string{"session"}, args...)...)
	require.NoError(t, err, "output: %s", output)

	var s response.Session
	require.NoError(t, json.Unmarshal([]byte(output), &s), "output: %s", output)
	return s
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	projectRoot := findProjectRoot(t)
	logger := testutil.NopLogger()

	app, err := factory.New(context.Background(), factory.Config{
		BankPath:    filepath.Join(projectRoot, "data/questions.json"),
		Logger:      logger,
		RevealDelay: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	app.Start()

	ts := httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:            logger,
		SessionController: app.SessionController,
		QuestionService:   app.QuestionService,
		Hub:               app.Hub,
	}))

	t.Cleanup(func() {
		app.Hub.Close()
		ts.Close()
		_ = app.Close()
	})
	return ts
}

func waitForPhase(t *testing.T, cli *cliRunner, phase string) response.Session {
	t.Helper()

	var s response.Session
	require.Eventually(t, func() bool {
		s = cli.session(t, "get")
		return s.Phase == phase
	}, 5*time.Second, 50*time.Millisecond, "phase never became %s", phase)
	return s
}

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.URL)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp response.Health
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "setup", resp.Phase)
}

func TestCLI_Topics(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.URL)

	output, err := cli.run("topics")
	require.NoError(t, err, "output: %s", output)

	var resp response.Topics
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Contains(t, resp.Topics, "History")
	assert.Contains(t, resp.Topics, "Science")
	assert.Positive(t, resp.Questions)
}

func TestCLI_FullGameFlow(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.URL)

	started := cli.session(t, "start", "--topic", "History", "--topic", "Science",
		"--name", "Alice", "--name", "Bob", "--rounds", "1")
	assert.NotEmpty(t, started.SessionID)
	assert.Len(t, started.Players, 2)

	playing := waitForPhase(t, cli, "playing")
	assert.Equal(t, 2, playing.TotalQuestions)
	assert.Equal(t, 0, playing.CurrentPlayer)
	require.NotNil(t, playing.CurrentQuestion)
	assert.Nil(t, playing.CurrentQuestion.CorrectAnswer, "answer hidden before reveal")

	// Answer by option text so the answer is known to be one of the options
	answered := cli.session(t, "answer", playing.CurrentQuestion.Options[0])
	assert.Equal(t, "showing_answer", answered.Phase)
	assert.True(t, answered.IsAnswerRevealed)
	require.NotNil(t, answered.CurrentQuestion.CorrectAnswer)

	// Reveal delay advances to Bob's turn
	next := waitForPhase(t, cli, "playing")
	assert.Equal(t, 1, next.CurrentQuestionIndex)
	assert.Equal(t, 1, next.CurrentPlayer)

	_ = cli.session(t, "answer", "1")

	results := waitForPhase(t, cli, "results")
	require.Len(t, results.Standings, 2)
	assert.True(t, results.Standings[0].Winner)

	reset := cli.session(t, "play-again")
	assert.Equal(t, "setup", reset.Phase)
	assert.Empty(t, reset.Players)
}

func TestCLI_EndEarly(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.URL)

	cli.session(t, "start", "--topic", "Geography")
	waitForPhase(t, cli, "playing")

	ended := cli.session(t, "end")
	assert.Equal(t, "results", ended.Phase)
	require.Len(t, ended.Standings, 2)
	assert.Equal(t, 0, ended.Standings[0].Score)
}

func TestCLI_LoadFailureAndDismiss(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.URL)

	cli.session(t, "start", "--topic", "Cooking")

	var failed response.Session
	require.Eventually(t, func() bool {
		failed = cli.session(t, "get")
		return failed.Error != nil
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, "setup", failed.Phase)
	assert.Nil(t, failed.Settings)

	dismissed := cli.session(t, "dismiss")
	assert.Nil(t, dismissed.Error)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.URL)

	// Nothing on screen to answer
	output, err := cli.run("session", "answer", "1")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "no question")

	// Play again only from results
	output, err = cli.run("session", "play-again")
	assert.Error(t, err)
	assert.Contains(t, output, "INVALID_PHASE")

	// Topic is required
	output, err = cli.run("session", "start")
	assert.Error(t, err)
	assert.Contains(t, output, "required flag")

	// Too few players
	output, err = cli.run("session", "start", "--topic", "History", "--players", "1")
	assert.Error(t, err)
	assert.Contains(t, output, "INVALID_SETTINGS")
}
