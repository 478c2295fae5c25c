package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/triviaduel/internal/api/response"
	"github.com/mcoot/triviaduel/internal/factory"
	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/services/session"
)

// playOptions are the flags of the play command
type playOptions struct {
	BankPath    string
	Topics      []string
	NumPlayers  int
	NumRounds   int
	Difficulty  string
	Names       []string
	RevealDelay time.Duration
}

func newPlayCmd() *cobra.Command {
	opts := playOptions{
		BankPath:    getEnvOrDefault("TRIVIA_QUESTIONS_BANK_PATH", "data/questions.json"),
		RevealDelay: session.DefaultRevealDelay,
	}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a local pass-and-play game in the terminal",
		Long: `Play a game against the local question bank. Players take turns in roster
order; answer with the option number or its text, or "q" to end the game early.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runPlay(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.BankPath, "bank", opts.BankPath, "Question bank JSON file (env: TRIVIA_QUESTIONS_BANK_PATH)")
	cmd.Flags().StringSliceVarP(&opts.Topics, "topic", "t", nil, "Topic to play (repeatable)")
	cmd.Flags().IntVarP(&opts.NumPlayers, "players", "p", 0, "Number of players (default 2)")
	cmd.Flags().IntVarP(&opts.NumRounds, "rounds", "r", model.DefaultNumRounds, "Rounds per player")
	cmd.Flags().StringVarP(&opts.Difficulty, "difficulty", "d", string(model.DifficultyMedium), "Difficulty: easy, medium, hard")
	cmd.Flags().StringSliceVarP(&opts.Names, "name", "n", nil, "Player name (repeatable)")
	cmd.Flags().DurationVar(&opts.RevealDelay, "reveal-delay", opts.RevealDelay, "How long the answer stays on screen")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

// settings builds and validates the game settings and roster from the flags
func (o playOptions) settings() (model.GameSettings, []model.PlayerSetup, error) {
	difficulty, err := model.ParseDifficulty(o.Difficulty)
	if err != nil {
		return model.GameSettings{}, nil, err
	}

	numPlayers := o.NumPlayers
	if numPlayers == 0 {
		numPlayers = len(o.Names)
	}
	if numPlayers == 0 {
		numPlayers = model.DefaultNumPlayers
	}

	var roster []model.PlayerSetup
	if len(o.Names) == 0 {
		roster = model.DefaultRoster(numPlayers)
	} else {
		for i, n := range o.Names {
			roster = append(roster, model.PlayerSetup{
				Name:     strings.TrimSpace(n),
				AvatarID: model.Avatars[i%len(model.Avatars)],
			})
		}
	}

	settings := model.GameSettings{
		Topics:     o.Topics,
		NumPlayers: numPlayers,
		NumRounds:  o.NumRounds,
		Difficulty: difficulty,
	}
	if err := settings.Validate(roster); err != nil {
		return model.GameSettings{}, nil, err
	}
	return settings, roster, nil
}

func runPlay(ctx context.Context, in io.Reader, w io.Writer, opts playOptions) error {
	settings, roster, err := opts.settings()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if cfg != nil && cfg.Verbose {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	events := make(chan model.Event, 64)
	notifier := session.NotifierFunc(func(e model.Event) {
		// Called under the controller lock; drop rather than block
		select {
		case events <- e:
		default:
		}
	})

	app, err := factory.New(ctx, factory.Config{
		BankPath:    opts.BankPath,
		Logger:      logger,
		RevealDelay: opts.RevealDelay,
		Notifiers:   []session.Notifier{notifier},
	})
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	app.Start()

	g := &localGame{
		controller: app.SessionController,
		events:     events,
		lines:      scanLines(in),
		w:          w,
		out:        NewOutputTo(w, "text"),
	}

	for {
		if err := g.playOnce(ctx, settings, roster); err != nil {
			return err
		}

		line, ok := g.prompt(ctx, "\nPlay again? [y/N] ")
		if !ok || !strings.EqualFold(line, "y") {
			return nil
		}
		g.controller.PlayAgain()
	}
}

// localGame drives a controller from terminal input
type localGame struct {
	controller *session.Controller
	events     <-chan model.Event
	lines      <-chan string
	w          io.Writer
	out        *Output
}

func (g *localGame) playOnce(ctx context.Context, settings model.GameSettings, roster []model.PlayerSetup) error {
	g.drain()

	if _, err := g.controller.StartGame(ctx, settings, roster); err != nil {
		return err
	}
	fmt.Fprintln(g.w, "Loading questions...")

	ev, err := g.waitFor(ctx, model.EventQuestionsLoaded, model.EventLoadFailed)
	if err != nil {
		return err
	}
	if ev.Type == model.EventLoadFailed {
		reason := "unknown error"
		if ev.View.Error != nil {
			reason = *ev.View.Error
		}
		g.controller.DismissError()
		return fmt.Errorf("could not start game: %s", reason)
	}
	if ev.View.Warning != nil {
		fmt.Fprintf(g.w, "Warning: %s\n", *ev.View.Warning)
	}

	for {
		view := g.controller.View()
		if view.Phase == model.PhaseResults {
			g.out.Print(response.SessionFromView(view))
			return nil
		}

		question := view.CurrentQuestion()
		if question == nil || view.CurrentPlayer < 0 {
			return errors.New("no question on screen")
		}
		player := view.Players[view.CurrentPlayer]

		g.out.Print(response.SessionFromView(view))
		line, ok := g.prompt(ctx, fmt.Sprintf("%s %s, your answer (1-%d, q to quit): ", player.AvatarID, player.Name, len(question.Options)))
		if !ok || strings.EqualFold(line, "q") {
			g.controller.EndGame()
			continue
		}

		answer, err := resolveAnswer(line, question.Options)
		if err != nil {
			fmt.Fprintf(g.w, "%s\n", err)
			continue
		}
		if !g.controller.SubmitAnswer(answer) {
			continue
		}

		if question.IsCorrect(answer) {
			fmt.Fprintf(g.w, "Correct! %s now has %d points.\n", player.Name, g.controller.View().Players[view.CurrentPlayer].Score)
		} else {
			fmt.Fprintf(g.w, "Wrong! The answer was %s.\n", question.CorrectAnswer)
		}

		if _, err := g.waitFor(ctx, model.EventQuestionAdvanced, model.EventGameFinished); err != nil {
			return err
		}
	}
}

// waitFor discards events until one of the given types arrives
func (g *localGame) waitFor(ctx context.Context, types ...model.EventType) (model.Event, error) {
	for {
		select {
		case <-ctx.Done():
			return model.Event{}, ctx.Err()
		case ev := <-g.events:
			for _, t := range types {
				if ev.Type == t {
					return ev, nil
				}
			}
		}
	}
}

func (g *localGame) drain() {
	for {
		select {
		case <-g.events:
		default:
			return
		}
	}
}

// prompt writes msg and waits for a line. ok is false on EOF or cancellation.
func (g *localGame) prompt(ctx context.Context, msg string) (string, bool) {
	fmt.Fprint(g.w, msg)
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-g.lines:
		return strings.TrimSpace(line), ok
	}
}

// scanLines reads r line by line in the background; the channel closes on EOF
func scanLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}
