package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream session events from the server",
		Long: `Connect to the session's SSE endpoint and stream events in real-time.

The stream opens with a "session" snapshot, then one event per transition:
  - game_started: A game was started and questions are loading
  - questions_loaded: Questions arrived and play has begun
  - load_failed: Fetching questions failed; back to setup
  - answer_revealed: The current player answered
  - question_advanced: The next question is on screen
  - game_finished: Results are showing
  - game_reset: Back to setup for another game
  - error_dismissed: The error message was dismissed

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, os.Stdout, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(ctx context.Context, w io.Writer, jsonOutput bool) error {
	url := strings.TrimSuffix(cfg.ServerURL, "/") + sessionPath + "/events"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// No timeout; the stream stays open until ctx is cancelled
	httpClient := &http.Client{}

	resp, err := httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if !jsonOutput {
		fmt.Fprintf(w, "Connected to %s\n", cfg.ServerURL)
	}

	err = readEvents(resp.Body, func(event, data string) {
		printEvent(w, event, data, jsonOutput)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

// readEvents parses an SSE stream, calling fn once per complete event.
// Comment lines (keepalives) and events without a name are skipped.
func readEvents(r io.Reader, fn func(event, data string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			if currentEvent != "" {
				fn(currentEvent, strings.Join(dataLines, "\n"))
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	return scanner.Err()
}

func printEvent(w io.Writer, event, data string, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		evt := SSEEvent{
			Time:  now,
			Event: event,
			Data:  data,
		}
		jsonData, _ := json.Marshal(evt)
		fmt.Fprintln(w, string(jsonData))
		return
	}

	timestamp := now.Format("2006-01-02 15:04:05")
	displayData := strings.ReplaceAll(data, "\n", " ")
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	fmt.Fprintf(w, "[%s] %s: %s\n", timestamp, event, displayData)
}
