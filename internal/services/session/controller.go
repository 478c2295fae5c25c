package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/triviaduel/internal/dependencies/clock"
	"github.com/mcoot/triviaduel/internal/model"
	"github.com/mcoot/triviaduel/internal/services/questions"
	"github.com/mcoot/triviaduel/internal/services/scoring"
)

// User-facing messages stored in SessionState.Error
const (
	MessageNoTopics     = "No topics are configured for this game. Pick at least one topic and try again."
	MessageNoQuestions  = "Could not generate questions for these settings. Try different topics or a different difficulty."
	MessageFetchTimeout = "Timed out while loading questions. Please try again."
)

// award remembers the points granted by the currently revealed answer so a
// replacement answer can revoke them
type award struct {
	questionIndex int
	playerIndex   int
	points        int
}

// Controller owns the session state machine.
// All mutations are serialized by a single mutex; auto-advance timers and
// question fetches re-enter through the same lock and are discarded when stale.
type Controller struct {
	source         questions.Source
	scoringService *scoring.Service
	clock          clock.Clock
	logger         *slog.Logger

	revealDelay  time.Duration
	fetchTimeout time.Duration
	notifiers    []Notifier

	mu         sync.Mutex
	state      *model.SessionState
	timer      clock.Timer // Handle for state.PendingTimer
	timerSeq   uint64
	loadSeq    uint64 // Generation of the most recent fetch
	cancelLoad context.CancelFunc
	award      *award
	loads      sync.WaitGroup
}

// NewController creates a new session Controller in the SETUP phase
func NewController(
	source questions.Source,
	scoringService *scoring.Service,
	clock clock.Clock,
	logger *slog.Logger,
	opts ...Option,
) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	c := &Controller{
		source:         source,
		scoringService: scoringService,
		clock:          clock,
		logger:         logger,
		revealDelay:    DefaultRevealDelay,
		fetchTimeout:   DefaultFetchTimeout,
		state:          model.NewSessionState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RevealDelay returns how long an answer is shown before auto-advance
func (c *Controller) RevealDelay() time.Duration {
	return c.revealDelay
}

// StartGame stores the settings and roster, enters LOADING_QUESTIONS and
// begins fetching questions in the background.
// Any pending timer and any in-flight fetch from a previous start are
// superseded.
func (c *Controller) StartGame(ctx context.Context, settings model.GameSettings, roster []model.PlayerSetup) (model.SessionView, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.SessionView{}, fmt.Errorf("generate session id: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelTimerLocked()
	c.cancelLoadLocked()

	revision := c.state.Revision
	c.state = &model.SessionState{
		SessionID: id.String(),
		Phase:     model.PhaseLoadingQuestions,
		Settings:  settings.Clone(),
		Players:   model.NewPlayers(roster),
		Revision:  revision,
	}
	c.award = nil

	c.loadSeq++
	generation := c.loadSeq
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
	c.cancelLoad = cancel

	c.logger.Info("game started",
		slog.String("session_id", c.state.SessionID),
		slog.Any("topics", settings.Topics),
		slog.Int("player_count", settings.NumPlayers),
		slog.Int("rounds", settings.NumRounds),
		slog.String("difficulty", string(settings.Difficulty)),
	)
	c.emitLocked(model.EventGameStarted, nil)

	c.loads.Add(1)
	go c.loadQuestions(loadCtx, cancel, generation, *settings.Clone())

	return c.viewLocked(), nil
}

// loadQuestions runs the fetch outside the lock and applies its result only if
// it still belongs to the current load
func (c *Controller) loadQuestions(ctx context.Context, cancel context.CancelFunc, generation uint64, settings model.GameSettings) {
	defer c.loads.Done()
	defer cancel()

	if len(settings.Topics) == 0 {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.isCurrentLoadLocked(generation) {
			c.failLoadLocked(model.ErrNoTopics, MessageNoTopics)
		}
		return
	}

	requested := settings.TotalQuestions()
	fetched, err := c.fetch(ctx, settings.Topics, requested, settings.Difficulty)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCurrentLoadLocked(generation) {
		c.logger.Debug("discarding stale question fetch",
			slog.Uint64("generation", generation),
			slog.Int("received", len(fetched)),
		)
		return
	}

	if err != nil {
		message := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			message = MessageFetchTimeout
		}
		c.failLoadLocked(fmt.Errorf("%w: %w", model.ErrFetchFailed, err), message)
		return
	}

	valid := make([]model.Question, 0, len(fetched))
	for _, q := range fetched {
		if err := q.Validate(); err != nil {
			c.logger.Warn("dropping invalid question",
				slog.String("session_id", c.state.SessionID),
				slog.String("question_id", q.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		valid = append(valid, q)
	}
	if len(valid) > requested {
		valid = valid[:requested]
	}

	if len(valid) == 0 {
		c.failLoadLocked(model.ErrNoQuestions, MessageNoQuestions)
		return
	}

	if len(valid) < requested {
		warning := fmt.Sprintf("Expected %d questions but only received %d. The game will continue with the available questions.", requested, len(valid))
		c.state.Warning = &warning
		c.logger.Warn("fewer questions than requested",
			slog.String("session_id", c.state.SessionID),
			slog.Int("requested", requested),
			slog.Int("received", len(valid)),
		)
	}

	c.state.Questions = valid
	c.state.CurrentQuestionIndex = 0
	c.state.SelectedAnswer = nil
	c.state.Phase = model.PhasePlaying

	c.logger.Info("questions loaded",
		slog.String("session_id", c.state.SessionID),
		slog.Int("count", len(valid)),
	)
	c.emitLocked(model.EventQuestionsLoaded, model.QuestionsLoadedPayload{
		Requested: requested,
		Received:  len(valid),
	})
}

// fetch calls the source and converts a panic into an error
func (c *Controller) fetch(ctx context.Context, topics []string, count int, difficulty model.Difficulty) (qs []model.Question, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("question source panicked", slog.Any("panic", r))
			qs, err = nil, fmt.Errorf("question source panicked: %v", r)
		}
	}()
	return c.source.FetchQuestions(ctx, append([]string(nil), topics...), count, difficulty)
}

func (c *Controller) isCurrentLoadLocked(generation uint64) bool {
	return generation == c.loadSeq && c.state.Phase == model.PhaseLoadingQuestions
}

// failLoadLocked returns to SETUP with settings and players cleared
func (c *Controller) failLoadLocked(err error, message string) {
	c.logger.Error("question load failed",
		slog.String("session_id", c.state.SessionID),
		slog.String("error", err.Error()),
	)

	c.state.Phase = model.PhaseSetup
	c.state.Settings = nil
	c.state.Players = nil
	c.state.Questions = nil
	c.state.CurrentQuestionIndex = 0
	c.state.SelectedAnswer = nil
	c.state.Warning = nil
	c.state.Error = &message
	c.cancelLoad = nil

	c.emitLocked(model.EventLoadFailed, model.LoadFailedPayload{Reason: message})
}

// SubmitAnswer records answer for the current question, scores it for the
// player whose turn it is and schedules the auto-advance.
// Answering again while the answer is shown replaces the previous answer and
// revokes any points it earned. It returns false if the answer was ignored.
func (c *Controller) SubmitAnswer(answer string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Settings == nil {
		c.logger.Debug("answer ignored: no active settings")
		return false
	}
	if !c.state.Phase.InGame() {
		c.logger.Debug("answer ignored: not in a question phase",
			slog.String("phase", string(c.state.Phase)),
		)
		return false
	}

	question := c.state.CurrentQuestion()
	if question == nil {
		c.logger.Warn("answer ignored: question index out of range",
			slog.String("session_id", c.state.SessionID),
			slog.Int("index", c.state.CurrentQuestionIndex),
		)
		return false
	}

	c.cancelTimerLocked()

	index := c.state.CurrentQuestionIndex
	replaced := c.state.Phase == model.PhaseShowingAnswer
	if c.award != nil && c.award.questionIndex == index {
		if c.award.playerIndex < len(c.state.Players) {
			c.state.Players[c.award.playerIndex].Score -= c.award.points
		}
	}
	c.award = nil

	c.state.SelectedAnswer = &answer
	c.state.Phase = model.PhaseShowingAnswer

	playerIndex := TurnOwner(index, c.state.Settings.NumPlayers)
	points := 0
	if playerIndex >= 0 && playerIndex < len(c.state.Players) {
		points = c.scoringService.Points(question, answer)
		if points > 0 {
			c.state.Players[playerIndex].Score += points
			c.award = &award{questionIndex: index, playerIndex: playerIndex, points: points}
		}
	}

	c.scheduleAdvanceLocked()

	c.emitLocked(model.EventAnswerRevealed, model.AnswerRevealedPayload{
		PlayerIndex: playerIndex,
		Answer:      answer,
		Correct:     question.IsCorrect(answer),
		Points:      points,
		Replaced:    replaced,
	})
	return true
}

// TimerFired performs the auto-advance for timer id.
// Timers that are no longer pending are ignored. It returns false if nothing
// happened.
func (c *Controller) TimerFired(id model.TimerID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.PendingTimer == nil || *c.state.PendingTimer != id {
		c.logger.Debug("stale auto-advance ignored", slog.Uint64("timer_id", uint64(id)))
		return false
	}
	c.state.PendingTimer = nil
	c.timer = nil

	if c.state.Phase != model.PhaseShowingAnswer {
		return false
	}
	c.award = nil

	if c.state.HasMoreQuestions() {
		c.state.CurrentQuestionIndex++
		c.state.SelectedAnswer = nil
		c.state.Phase = model.PhasePlaying
		c.emitLocked(model.EventQuestionAdvanced, nil)
		return true
	}

	c.state.Phase = model.PhaseResults
	c.logger.Info("game finished",
		slog.String("session_id", c.state.SessionID),
		slog.Int("questions", len(c.state.Questions)),
	)
	c.emitLocked(model.EventGameFinished, model.GameFinishedPayload{Early: false})
	return true
}

// EndGame jumps straight to RESULTS from any phase, cancelling any pending
// timer and abandoning any in-flight fetch
func (c *Controller) EndGame() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase == model.PhaseResults {
		return
	}

	c.cancelTimerLocked()
	c.cancelLoadLocked()
	c.award = nil

	from := c.state.Phase
	c.state.Phase = model.PhaseResults
	c.logger.Info("game ended early",
		slog.String("session_id", c.state.SessionID),
		slog.String("from_phase", string(from)),
	)
	c.emitLocked(model.EventGameFinished, model.GameFinishedPayload{Early: true})
}

// PlayAgain resets the session to SETUP with nothing retained
func (c *Controller) PlayAgain() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()
}

// DismissError clears the current error message, if any
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Error == nil {
		return
	}
	c.state.Error = nil
	c.emitLocked(model.EventErrorDismissed, nil)
}

// View returns the presentation projection of the current state.
// A RESULTS state without settings cannot be rendered; it is reset to SETUP
// and the returned view is flagged as recovering.
func (c *Controller) View() model.SessionView {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase == model.PhaseResults && c.state.Settings == nil {
		c.logger.Warn("results without settings, resetting session",
			slog.String("session_id", c.state.SessionID),
		)
		c.resetLocked()
		view := c.viewLocked()
		view.Recovering = true
		return view
	}

	return c.viewLocked()
}

// State returns a deep copy of the raw session state
func (c *Controller) State() *model.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.Clone()
}

// Close cancels any pending timer and in-flight fetch and waits for the fetch
// goroutine to exit
func (c *Controller) Close() {
	c.mu.Lock()
	c.cancelTimerLocked()
	c.cancelLoadLocked()
	c.mu.Unlock()

	c.loads.Wait()
}

func (c *Controller) resetLocked() {
	c.cancelTimerLocked()
	c.cancelLoadLocked()
	c.award = nil

	revision := c.state.Revision
	c.state = model.NewSessionState()
	c.state.Revision = revision

	c.emitLocked(model.EventGameReset, nil)
}

func (c *Controller) scheduleAdvanceLocked() {
	c.timerSeq++
	id := model.TimerID(c.timerSeq)
	c.state.PendingTimer = &id
	c.timer = c.clock.AfterFunc(c.revealDelay, func() {
		c.TimerFired(id)
	})
}

func (c *Controller) cancelTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.state.PendingTimer = nil
}

func (c *Controller) cancelLoadLocked() {
	if c.cancelLoad != nil {
		c.cancelLoad()
		c.cancelLoad = nil
	}
}

// emitLocked bumps the revision and delivers the event to every notifier
func (c *Controller) emitLocked(eventType model.EventType, payload any) {
	c.state.Revision++
	event := model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		SessionID: c.state.SessionID,
		View:      c.viewLocked(),
		Payload:   payload,
	}
	for _, n := range c.notifiers {
		n.Notify(event)
	}
}

func (c *Controller) viewLocked() model.SessionView {
	s := c.state.Clone()
	view := model.SessionView{
		SessionID:            s.SessionID,
		Phase:                s.Phase,
		Settings:             s.Settings,
		Players:              s.Players,
		Questions:            s.Questions,
		CurrentQuestionIndex: s.CurrentQuestionIndex,
		CurrentPlayer:        -1,
		SelectedAnswer:       s.SelectedAnswer,
		IsAnswerRevealed:     s.Phase == model.PhaseShowingAnswer,
		Error:                s.Error,
		Warning:              s.Warning,
		Revision:             s.Revision,
	}
	if s.Phase.InGame() && s.Settings != nil {
		view.CurrentPlayer = TurnOwner(s.CurrentQuestionIndex, s.Settings.NumPlayers)
	}
	return view
}
