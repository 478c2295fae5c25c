package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcoot/triviaduel/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return NewOutputTo(os.Stdout, format)
}

// NewOutputTo creates a new Output formatter writing to w
func NewOutputTo(w io.Writer, format string) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Session:
		o.printSession(v)
	case response.Topics:
		o.printTopics(v)
	case response.Health:
		o.printHealth(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printSession(s response.Session) {
	if s.SessionID != "" {
		fmt.Fprintf(o.w, "Session: %s\n", s.SessionID)
	}
	fmt.Fprintf(o.w, "Phase: %s\n", s.Phase)

	if s.Settings != nil {
		fmt.Fprintf(o.w, "Topics: %s\n", strings.Join(s.Settings.Topics, ", "))
		fmt.Fprintf(o.w, "Difficulty: %s\n", s.Settings.Difficulty)
		fmt.Fprintf(o.w, "Rounds: %d\n", s.Settings.NumRounds)
	}

	if s.Error != nil {
		fmt.Fprintf(o.w, "Error: %s\n", *s.Error)
	}
	if s.Warning != nil {
		fmt.Fprintf(o.w, "Warning: %s\n", *s.Warning)
	}

	if len(s.Players) > 0 && len(s.Standings) == 0 {
		fmt.Fprintf(o.w, "Players (%d):\n", len(s.Players))
		for i, p := range s.Players {
			turn := ""
			if i == s.CurrentPlayer {
				turn = " <- turn"
			}
			fmt.Fprintf(o.w, "  %s %s: %d%s\n", p.AvatarID, p.Name, p.Score, turn)
		}
	}

	if s.CurrentQuestion != nil {
		o.printQuestion(s)
	}

	if len(s.Standings) > 0 {
		o.printStandings(s.Standings)
	}
}

func (o *Output) printQuestion(s response.Session) {
	q := s.CurrentQuestion
	fmt.Fprintf(o.w, "\nQuestion %d of %d\n", s.CurrentQuestionIndex+1, s.TotalQuestions)
	fmt.Fprintf(o.w, "%s\n", q.QuestionText)
	for i, opt := range q.Options {
		marker := " "
		if q.CorrectAnswer != nil && opt == *q.CorrectAnswer {
			marker = "*"
		}
		if s.SelectedAnswer != nil && opt == *s.SelectedAnswer {
			marker = ">"
			if q.CorrectAnswer != nil && opt == *q.CorrectAnswer {
				marker = "+"
			}
		}
		fmt.Fprintf(o.w, " %s %d) %s\n", marker, i+1, opt)
	}
}

func (o *Output) printStandings(standings []response.Standing) {
	fmt.Fprintln(o.w, "\nFinal Scores:")
	for _, st := range standings {
		winner := ""
		if st.Winner {
			winner = " [winner]"
		}
		fmt.Fprintf(o.w, "  %d. %s %s: %d points%s\n", st.Rank, st.AvatarID, st.Name, st.Score, winner)
	}
}

func (o *Output) printTopics(t response.Topics) {
	fmt.Fprintf(o.w, "Questions: %d\n", t.Questions)
	fmt.Fprintf(o.w, "Topics (%d):\n", len(t.Topics))
	for _, topic := range t.Topics {
		fmt.Fprintf(o.w, "  - %s\n", topic)
	}
}

func (o *Output) printHealth(h response.Health) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	if h.Phase != "" {
		fmt.Fprintf(o.w, "Phase: %s\n", h.Phase)
	}
}
