package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/triviaduel/internal/api/request"
	"github.com/mcoot/triviaduel/internal/api/response"
)

const sessionPath = "/api/v1/session"

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session commands",
	}

	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionStartCmd())
	cmd.AddCommand(newSessionAnswerCmd())
	cmd.AddCommand(newSessionEndCmd())
	cmd.AddCommand(newSessionPlayAgainCmd())
	cmd.AddCommand(newSessionDismissCmd())

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Get the current session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session

			if err := client.Get(sessionPath, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionStartCmd() *cobra.Command {
	var req request.StartSessionRequest
	var names []string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new game",
		Long: `Start a new game on the server. Questions are fetched in the background,
so the session is returned in the loading phase.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range names {
				req.Players = append(req.Players, request.PlayerSetup{Name: n})
			}

			var result response.Session

			if err := client.Post(sessionPath, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&req.Topics, "topic", "t", nil, "Topic to play (repeatable)")
	cmd.Flags().IntVarP(&req.NumPlayers, "players", "p", 0, "Number of players (default 2)")
	cmd.Flags().IntVarP(&req.NumRounds, "rounds", "r", 0, "Rounds per player (default 2)")
	cmd.Flags().StringVarP(&req.Difficulty, "difficulty", "d", "", "Difficulty: easy, medium, hard")
	cmd.Flags().StringSliceVarP(&names, "name", "n", nil, "Player name (repeatable)")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func newSessionAnswerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answer <option>",
		Short: "Answer the current question",
		Long:  `Answer the current question for the player whose turn it is. The option may be given as its number (1-based) or its text.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var current response.Session
			if err := client.Get(sessionPath, &current); err != nil {
				return err
			}
			if current.CurrentQuestion == nil {
				return errors.New("no question is on screen")
			}

			answer, err := resolveAnswer(strings.Join(args, " "), current.CurrentQuestion.Options)
			if err != nil {
				return err
			}

			var result response.Session
			if err := client.Post(sessionPath+"/answer", request.AnswerRequest{Answer: answer}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the game early and show results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postSession(sessionPath + "/end")
		},
	}
}

func newSessionPlayAgainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play-again",
		Short: "Return to setup after a finished game",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postSession(sessionPath + "/play-again")
		},
	}
}

func newSessionDismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss",
		Short: "Dismiss the current error message",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session

			if err := client.Delete(sessionPath+"/error", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func postSession(path string) error {
	var result response.Session

	if err := client.Post(path, nil, &result); err != nil {
		return err
	}

	out := NewOutput(cfg.Output)
	out.Print(result)
	return nil
}

// resolveAnswer maps user input to one of the options, by text
// (case-insensitive) or by 1-based number. Text wins when an option is itself
// a number.
func resolveAnswer(input string, options []string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("answer must not be empty")
	}

	for _, opt := range options {
		if strings.EqualFold(opt, input) {
			return opt, nil
		}
	}

	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(options) {
			return "", fmt.Errorf("option must be between 1 and %d", len(options))
		}
		return options[n-1], nil
	}
	return "", fmt.Errorf("%q is not one of the options", input)
}
