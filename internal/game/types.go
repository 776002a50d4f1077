// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - State: the session state machine (loading → ready → playing ⇄ checking → completed, or error).
//   - Errors returned by session operations.
//   - Check, Summary, Snapshot: values handed to the presentation layer.

package game

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/susunkata/internal/board"
	"github.com/robalobadob/susunkata/internal/event"
	"github.com/robalobadob/susunkata/internal/leaderboard"
	"github.com/robalobadob/susunkata/internal/stats"
)

// State is the lifecycle state of a Session.
type State string

const (
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StatePlaying   State = "playing"
	StateChecking  State = "checking"
	StateCompleted State = "completed"
	StateError     State = "error" // terminal
)

// Mode selects how questions are drawn.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeDaily  Mode = "daily" // seeded per date and category, same questions for everyone
)

const (
	DefaultQuestionsPerGame = 10
	DefaultMinQuestions     = 5
)

// Keys written to the key-value store.
const (
	KeySelectedCategory = "selectedCategory"
	KeyCurrentScore     = "currentScore"
	KeyTotalQuestions   = "totalQuestions"
	KeyLastSession      = "lastSessionStats"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrInsufficientQuestions = errors.New("insufficient questions")
	ErrInvalidAnswer         = board.ErrInvalidAnswer
	ErrIncompleteAnswer      = errors.New("incomplete answer")
	ErrNoEmptySlot           = board.ErrNoEmptySlot
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrSessionFailed         = errors.New("session failed")
)

// Preloader warms up question images. Failures are not fatal to a session.
type Preloader interface {
	Preload(ctx context.Context, images []string) error
}

// Check is the outcome of submitting an answer.
type Check struct {
	Correct bool   `json:"correct"`
	Given   string `json:"given"`
	Answer  string `json:"answer"` // canonical answer, spaces included
}

// Summary is everything the score screen shows.
type Summary struct {
	Result       stats.Result        `json:"result"`
	Tier         stats.Tier          `json:"tier"`
	Message      string              `json:"message"`
	Achievements []stats.Achievement `json:"achievements"`
	Leaderboard  []leaderboard.Entry `json:"leaderboard"`
}

// clone returns a deep copy of sum, or nil.
func (sum *Summary) clone() *Summary {
	if sum == nil {
		return nil
	}
	out := *sum
	out.Result.QuestionDurations = append([]time.Duration(nil), sum.Result.QuestionDurations...)
	out.Achievements = append([]stats.Achievement(nil), sum.Achievements...)
	out.Leaderboard = append([]leaderboard.Entry(nil), sum.Leaderboard...)
	return &out
}

// Snapshot is a read-only view of a session for rendering.
type Snapshot struct {
	ID        string          `json:"id"`
	Category  string          `json:"category"`
	Mode      Mode            `json:"mode"`
	State     State           `json:"state"`
	Index     int             `json:"index"`
	Total     int             `json:"total"`
	Score     int             `json:"score"`
	Question  *event.Question `json:"question,omitempty"`
	Slots     []string        `json:"slots"`
	Tiles     []board.Tile    `json:"tiles"`
	Display   string          `json:"display"`
	Complete  bool            `json:"complete"`
	LastCheck *Check          `json:"lastCheck,omitempty"`
	Summary   *Summary        `json:"summary,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// LastSession is the record of the most recent completed session.
type LastSession struct {
	Result       stats.Result        `json:"result"`
	Tier         stats.Tier          `json:"tier"`
	Achievements []stats.Achievement `json:"achievements"`
}
