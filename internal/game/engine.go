// internal/game/engine.go
//
// Session controller for one playthrough of a category.
// Responsibilities:
//   - Sample the round's questions from the catalog.
//   - Drive the answer board for the current question.
//   - Check answers, keep score and per-question timings.
//   - Run the state machine and emit presentation events and audio cues.
//   - On completion, compute the summary and record the leaderboard entry.
//
// Notes:
//   - A Session is not safe for concurrent use. Every mutating call is gated on the
//     current state, so out-of-order calls are rejected without side effects.
//   - Error is terminal: every later call returns ErrSessionFailed.
//   - Persistence writes are best effort; failures are logged and the in-memory
//     session stays authoritative.

package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/susunkata/internal/board"
	"github.com/robalobadob/susunkata/internal/catalog"
	"github.com/robalobadob/susunkata/internal/clock"
	"github.com/robalobadob/susunkata/internal/event"
	"github.com/robalobadob/susunkata/internal/leaderboard"
	"github.com/robalobadob/susunkata/internal/random"
	"github.com/robalobadob/susunkata/internal/sound"
	"github.com/robalobadob/susunkata/internal/stats"
	"github.com/robalobadob/susunkata/internal/store"
)

// Deps are the collaborators a Session is built from.
// Catalog is required; everything else has a usable default.
type Deps struct {
	Catalog     catalog.Catalog
	Selector    *random.Selector
	Store       store.Store
	Leaderboard *leaderboard.Board
	Events      event.Sink
	Sounds      sound.Player
	Clock       clock.Clock
	Preloader   Preloader
}

// Options tune a round.
type Options struct {
	QuestionsPerGame int
	MinQuestions     int
	Mode             Mode
}

// Session holds the state of a single round.
type Session struct {
	id   string
	deps Deps
	opts Options

	state     State
	err       error
	category  string
	questions []catalog.Question
	index     int
	score     int

	board             *board.Board
	sessionStartedAt  time.Time
	questionStartedAt time.Time
	durations         []time.Duration
	lastCheck         *Check
	summary           *Summary
}

// New constructs a session in the loading state.
func New(deps Deps, opts Options) *Session {
	if deps.Selector == nil {
		deps.Selector = random.New()
	}
	if deps.Store == nil {
		deps.Store = store.NewMemoryStore()
	}
	if deps.Leaderboard == nil {
		deps.Leaderboard = leaderboard.New(deps.Store)
	}
	if deps.Events == nil {
		deps.Events = event.Discard
	}
	if deps.Sounds == nil {
		deps.Sounds = sound.Mute
	}
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if opts.QuestionsPerGame <= 0 {
		opts.QuestionsPerGame = DefaultQuestionsPerGame
	}
	if opts.MinQuestions <= 0 {
		opts.MinQuestions = DefaultMinQuestions
	}
	if opts.Mode == "" {
		opts.Mode = ModeNormal
	}
	return &Session{
		id:    uuid.NewString(),
		deps:  deps,
		opts:  opts,
		state: StateLoading,
		board: board.New(deps.Selector, deps.Events),
	}
}

// Start looks up category, samples the round and loads the first question.
// Transitions: loading → ready → playing, or loading → error.
func (s *Session) Start(ctx context.Context, category string) error {
	if err := s.require(StateLoading); err != nil {
		return err
	}
	if s.deps.Catalog == nil {
		return s.fail(fmt.Errorf("%w: no catalog configured", ErrCategoryNotFound))
	}
	all, ok := s.deps.Catalog.Get(category)
	if !ok {
		return s.fail(fmt.Errorf("%w: %q", ErrCategoryNotFound, category))
	}
	if len(all) < s.opts.MinQuestions {
		return s.fail(fmt.Errorf("%w: %q has %d, need %d", ErrInsufficientQuestions, category, len(all), s.opts.MinQuestions))
	}

	picked := random.Sample(s.deps.Selector, all, s.opts.QuestionsPerGame)
	for i, q := range picked {
		norm, err := catalog.Normalize(q)
		if err != nil || norm.Answer != q.Answer {
			return s.fail(fmt.Errorf("%w: question %d of %q: %q", ErrInvalidAnswer, i, category, q.Answer))
		}
	}

	s.category = category
	s.questions = picked
	s.sessionStartedAt = s.deps.Clock.Now()
	s.setState(StateReady)

	s.preload(ctx)
	s.persist(ctx, KeySelectedCategory, category)
	s.persist(ctx, KeyTotalQuestions, len(picked))
	s.persist(ctx, KeyCurrentScore, 0)

	if err := s.load(0); err != nil {
		return s.fail(err)
	}
	s.setState(StatePlaying)
	log.Info().Str("session", s.id).Str("category", category).Str("mode", string(s.opts.Mode)).
		Int("questions", len(picked)).Msg("session started")
	return nil
}

// preload asks the preloader for the round's images; failures only degrade visuals.
func (s *Session) preload(ctx context.Context) {
	if s.deps.Preloader == nil {
		return
	}
	images := make([]string, 0, len(s.questions))
	for _, q := range s.questions {
		images = append(images, q.Image)
	}
	if err := s.deps.Preloader.Preload(ctx, images); err != nil {
		log.Warn().Err(err).Str("session", s.id).Msg("asset preload failed; using placeholders")
		s.emit(event.Event{Kind: event.AssetUnavailable, Assets: images, Err: err.Error()})
	}
}

// load resets the board for question i and starts its timer.
func (s *Session) load(i int) error {
	q := s.questions[i]
	if err := s.board.Reset(q.Answer); err != nil {
		return err
	}
	s.index = i
	s.lastCheck = nil
	s.questionStartedAt = s.deps.Clock.Now()
	s.emit(event.Event{Kind: event.QuestionLoaded, Question: s.question()})
	s.emit(event.Event{Kind: event.ProgressUpdated, Current: i + 1, Total: len(s.questions)})
	return nil
}

// PlaceTile moves pool tile i into the first empty slot.
func (s *Session) PlaceTile(i int) error {
	if err := s.require(StatePlaying); err != nil {
		return err
	}
	if _, err := s.board.PlaceLetter(i); err != nil {
		return err
	}
	s.deps.Sounds.Play(sound.Click)
	return nil
}

// ClearSlot returns the letter in slot i to the pool. Clearing an empty slot is a no-op.
func (s *Session) ClearSlot(i int) error {
	if err := s.require(StatePlaying); err != nil {
		return err
	}
	cleared, err := s.board.ClearSlot(i)
	if err != nil {
		return err
	}
	if cleared {
		s.deps.Sounds.Play(sound.Undo)
	}
	return nil
}

// ClearAll returns every placed letter to the pool.
func (s *Session) ClearAll() error {
	if err := s.require(StatePlaying); err != nil {
		return err
	}
	if s.board.ClearAll() > 0 {
		s.deps.Sounds.Play(sound.Undo)
	}
	return nil
}

// ShuffleTiles reorders the tile pool.
func (s *Session) ShuffleTiles() error {
	if err := s.require(StatePlaying); err != nil {
		return err
	}
	s.board.Shuffle()
	s.deps.Sounds.Play(sound.Shuffle)
	return nil
}

// Submit checks the filled board against the current answer.
// Transition: playing → checking. An incomplete board returns ErrIncompleteAnswer
// and changes nothing.
func (s *Session) Submit(ctx context.Context) (Check, error) {
	if err := s.require(StatePlaying); err != nil {
		return Check{}, err
	}
	given, ok := s.board.CurrentAnswer()
	if !ok {
		return Check{}, ErrIncompleteAnswer
	}

	q := s.questions[s.index]
	c := Check{
		Correct: given == s.board.Target(),
		Given:   given,
		Answer:  q.Answer,
	}
	if c.Correct {
		s.score++
	}
	s.lastCheck = &c
	s.setState(StateChecking)

	s.emit(event.Event{Kind: event.AnswerChecked, Correct: c.Correct, Answer: c.Answer})
	if c.Correct {
		s.deps.Sounds.Play(sound.Correct)
	} else {
		s.deps.Sounds.Play(sound.Wrong)
	}
	s.persist(ctx, KeyCurrentScore, s.score)
	return c, nil
}

// Advance finalizes the checked question, recording the time since it was loaded,
// and moves on.
// Transitions: checking → playing (more questions) or checking → completed.
func (s *Session) Advance(ctx context.Context) error {
	if err := s.require(StateChecking); err != nil {
		return err
	}
	s.durations = append(s.durations, s.deps.Clock.Now().Sub(s.questionStartedAt))

	next := s.index + 1
	if next >= len(s.questions) {
		s.index = next
		s.complete(ctx)
		return nil
	}
	if err := s.load(next); err != nil {
		return s.fail(err)
	}
	s.setState(StatePlaying)
	s.deps.Sounds.Play(sound.Next)
	return nil
}

// complete computes the summary, then records the leaderboard entry.
// Achievements are judged against the leaderboard as it was before this round.
func (s *Session) complete(ctx context.Context) {
	now := s.deps.Clock.Now()
	res := stats.Compute(stats.Record{
		Category:          s.category,
		Score:             s.score,
		TotalQuestions:    len(s.questions),
		StartedAt:         s.sessionStartedAt,
		QuestionDurations: s.durations,
	}, now)

	prior := s.deps.Leaderboard.Top(ctx, s.category, leaderboard.MaxEntries)
	achievements := stats.Achievements(res, prior)
	ranked := s.deps.Leaderboard.Record(ctx, s.category, res.Entry())

	tier := stats.Classify(res.Percentage)
	s.summary = &Summary{
		Result:       res,
		Tier:         tier,
		Message:      tier.Message(),
		Achievements: achievements,
		Leaderboard:  ranked,
	}
	s.persist(ctx, KeyCurrentScore, s.score)
	s.persist(ctx, KeyLastSession, LastSession{Result: res, Tier: tier, Achievements: achievements})
	s.setState(StateCompleted)

	s.emit(event.Event{Kind: event.SessionCompleted, Result: &res})
	s.deps.Sounds.Play(sound.Score)
	log.Info().Str("session", s.id).Str("category", s.category).Int("score", res.Score).
		Int("total", res.TotalQuestions).Dur("elapsed", res.TotalTime).Msg("session completed")
}

// require rejects calls made in any state other than want.
func (s *Session) require(want State) error {
	if s.state == StateError {
		return fmt.Errorf("%w: %v", ErrSessionFailed, s.err)
	}
	if s.state != want {
		return fmt.Errorf("%w: session is %s, need %s", ErrInvalidTransition, s.state, want)
	}
	return nil
}

// fail moves the session into the terminal error state and returns err.
func (s *Session) fail(err error) error {
	s.err = err
	s.setState(StateError)
	s.emit(event.Event{Kind: event.SessionFailed, Err: err.Error()})
	s.deps.Sounds.Play(sound.Error)
	log.Error().Err(err).Str("session", s.id).Msg("session failed")
	return err
}

func (s *Session) setState(st State) {
	s.state = st
	s.emit(event.Event{Kind: event.StateChanged, State: string(st)})
}

func (s *Session) emit(e event.Event) { s.deps.Events.Emit(e) }

// persist writes value under key, logging failures.
func (s *Session) persist(ctx context.Context, key string, value any) {
	if err := store.SetJSON(ctx, s.deps.Store, key, value); err != nil {
		log.Warn().Err(err).Str("session", s.id).Str("key", key).Msg("persist")
	}
}

func (s *Session) question() *event.Question {
	if s.index >= len(s.questions) {
		return nil
	}
	q := s.questions[s.index]
	return &event.Question{
		Index:       s.index,
		Translation: q.Translation,
		Image:       q.Image,
		Difficulty:  q.Difficulty,
		Slots:       s.board.SlotCount(),
		Breaks:      s.board.Breaks(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Err returns the error that moved the session into StateError.
func (s *Session) Err() error { return s.err }

// Category returns the category being played.
func (s *Session) Category() string { return s.category }

// Score returns the number of correct answers so far.
func (s *Session) Score() int { return s.score }

// Index returns the 0-based index of the current question.
func (s *Session) Index() int { return s.index }

// Total returns the number of questions in the round.
func (s *Session) Total() int { return len(s.questions) }

// Durations returns the time spent on each finalized question.
func (s *Session) Durations() []time.Duration {
	return append([]time.Duration(nil), s.durations...)
}

// Summary returns a copy of the score screen data once completed, else nil.
func (s *Session) Summary() *Summary { return s.summary.clone() }

// Board exposes the current answer board for read-only rendering helpers.
func (s *Session) Board() *board.Board { return s.board }

// Snapshot returns a read-only view of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:        s.id,
		Category:  s.category,
		Mode:      s.opts.Mode,
		State:     s.state,
		Index:     s.index,
		Total:     len(s.questions),
		Score:     s.score,
		Summary:   s.summary.clone(),
		Slots:     []string{},
		Tiles:     []board.Tile{},
	}
	if s.lastCheck != nil {
		c := *s.lastCheck
		snap.LastCheck = &c
	}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	if s.state == StatePlaying || s.state == StateChecking {
		snap.Question = s.question()
		snap.Slots = s.board.Slots()
		snap.Tiles = s.board.Tiles()
		snap.Display = s.board.Display()
		snap.Complete = s.board.IsComplete()
	}
	return snap
}

// LoadLastSession reads the record written when a session last completed.
// found is false when no session has completed yet.
func LoadLastSession(ctx context.Context, kv store.Store) (last LastSession, found bool, err error) {
	found, err = store.GetJSON(ctx, kv, KeyLastSession, &last)
	return last, found, err
}
