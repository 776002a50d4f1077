// internal/event/event.go
//
// Typed presentation events emitted by the game engine.
// The engine never renders anything itself; a presentation layer (HTTP client,
// terminal UI, test) subscribes to these and draws whatever it likes.

package event

import "github.com/robalobadob/susunkata/internal/stats"

// Kind names an event.
type Kind string

const (
	TilePlaced       Kind = "tile_placed"
	TileReturned     Kind = "tile_returned"
	TilesShuffled    Kind = "tiles_shuffled"
	SlotFilled       Kind = "slot_filled"
	SlotCleared      Kind = "slot_cleared"
	QuestionLoaded   Kind = "question_loaded"
	AnswerChecked    Kind = "answer_checked"
	ProgressUpdated  Kind = "progress_updated"
	SessionCompleted Kind = "session_completed"
	StateChanged     Kind = "state_changed"
	AssetUnavailable Kind = "asset_unavailable"
	SessionFailed    Kind = "session_failed"
)

// Question is the public part of a loaded question. The answer is not included.
type Question struct {
	Index       int    `json:"index"`
	Translation string `json:"translation"`
	Image       string `json:"image"`
	Difficulty  int    `json:"difficulty"`
	Slots       int    `json:"slots"`
	Breaks      []int  `json:"breaks,omitempty"` // slot indexes preceded by a space
}

// Event is a single state change. Only the fields relevant to Kind are set.
type Event struct {
	Kind     Kind          `json:"kind"`
	Slot     int           `json:"slot"`
	Tile     int           `json:"tile"` // tile id, stable for the life of a tile
	Letter   string        `json:"letter,omitempty"`
	Correct  bool          `json:"correct,omitempty"`
	Answer   string        `json:"answer,omitempty"`
	Current  int           `json:"current,omitempty"`
	Total    int           `json:"total,omitempty"`
	State    string        `json:"state,omitempty"`
	Assets   []string      `json:"assets,omitempty"`
	Question *Question     `json:"question,omitempty"`
	Result   *stats.Result `json:"result,omitempty"`
	Err      string        `json:"error,omitempty"`
}

// Sink consumes events.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})
