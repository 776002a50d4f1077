// internal/board/board.go
//
// Answer board for a single question.
// Responsibilities:
//   - Split an answer into one slot per letter (spaces are word breaks, not slots).
//   - Hold the shuffled tile pool the player picks from.
//   - Move letters between pool and slots without ever duplicating or losing one.
//
// Invariant: letters in slots ∪ letters in pool == letters of the answer, as multisets.
// Every mutation is reported to the event sink.

package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/susunkata/internal/event"
)

var (
	ErrInvalidAnswer  = errors.New("invalid answer")
	ErrNoEmptySlot    = errors.New("no empty slot")
	ErrTileOutOfRange = errors.New("tile index out of range")
	ErrSlotOutOfRange = errors.New("slot index out of range")
)

// reshuffleAttempts bounds how often Reset retries a shuffle that left the
// answer already spelled out in the pool.
const reshuffleAttempts = 8

// Shuffler permutes n elements. *random.Selector satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Tile is one pickable letter. IDs are unique within a Board.
type Tile struct {
	ID     int    `json:"id"`
	Letter string `json:"letter"`
}

// Board is the mutable puzzle state for one question. Not safe for concurrent use.
type Board struct {
	shuffler Shuffler
	sink     event.Sink

	target []byte // answer letters without spaces
	breaks []int  // slot indexes preceded by a space in the answer
	slots  []Tile // zero Tile (ID 0) means empty
	pool   []Tile
	lastID int
}

// New returns an empty board. A nil sink discards events.
func New(sh Shuffler, sink event.Sink) *Board {
	if sink == nil {
		sink = event.Discard
	}
	return &Board{shuffler: sh, sink: sink}
}

// Reset loads answer, which must match ^[A-Z ]+$ and contain at least one letter.
// On error the previous state is kept.
func (b *Board) Reset(answer string) error {
	target, breaks, err := parseAnswer(answer)
	if err != nil {
		return err
	}

	b.target = target
	b.breaks = breaks
	b.slots = make([]Tile, len(target))
	b.pool = make([]Tile, len(target))
	for i, c := range target {
		b.pool[i] = b.newTile(c)
	}
	b.shuffle()
	for i := 0; i < reshuffleAttempts && b.poolSpellsTarget(); i++ {
		b.shuffle()
	}
	return nil
}

// parseAnswer validates answer and returns its letters plus break positions.
func parseAnswer(answer string) ([]byte, []int, error) {
	target := make([]byte, 0, len(answer))
	var breaks []int
	pendingBreak := false
	for i := 0; i < len(answer); i++ {
		c := answer[i]
		switch {
		case c == ' ':
			pendingBreak = len(target) > 0
		case c >= 'A' && c <= 'Z':
			if pendingBreak {
				breaks = append(breaks, len(target))
				pendingBreak = false
			}
			target = append(target, c)
		default:
			return nil, nil, fmt.Errorf("%w: %q contains %q", ErrInvalidAnswer, answer, c)
		}
	}
	if len(target) == 0 {
		return nil, nil, fmt.Errorf("%w: %q has no letters", ErrInvalidAnswer, answer)
	}
	return target, breaks, nil
}

func (b *Board) newTile(c byte) Tile {
	b.lastID++
	return Tile{ID: b.lastID, Letter: string(c)}
}

func (b *Board) shuffle() {
	if b.shuffler == nil {
		return
	}
	b.shuffler.Shuffle(len(b.pool), func(i, j int) { b.pool[i], b.pool[j] = b.pool[j], b.pool[i] })
}

// poolSpellsTarget reports whether a freshly reset pool reads as the answer while
// some other arrangement exists.
func (b *Board) poolSpellsTarget() bool {
	distinct := false
	for i, t := range b.pool {
		if t.Letter[0] != b.target[i] {
			return false
		}
		if t.Letter[0] != b.target[0] {
			distinct = true
		}
	}
	return distinct
}

// PlaceLetter moves pool[tileIndex] into the first empty slot and returns that slot.
func (b *Board) PlaceLetter(tileIndex int) (int, error) {
	if tileIndex < 0 || tileIndex >= len(b.pool) {
		return -1, fmt.Errorf("%w: %d", ErrTileOutOfRange, tileIndex)
	}
	slot := b.firstEmpty()
	if slot < 0 {
		return -1, ErrNoEmptySlot
	}
	t := b.pool[tileIndex]
	b.pool = append(b.pool[:tileIndex], b.pool[tileIndex+1:]...)
	b.slots[slot] = t

	b.sink.Emit(event.Event{Kind: event.TilePlaced, Tile: t.ID, Letter: t.Letter, Slot: slot})
	b.sink.Emit(event.Event{Kind: event.SlotFilled, Tile: t.ID, Letter: t.Letter, Slot: slot})
	return slot, nil
}

// ClearSlot returns the letter in slot to the pool as a new tile.
// Clearing an empty slot is a no-op and reports false.
func (b *Board) ClearSlot(slot int) (bool, error) {
	if slot < 0 || slot >= len(b.slots) {
		return false, fmt.Errorf("%w: %d", ErrSlotOutOfRange, slot)
	}
	old := b.slots[slot]
	if old.ID == 0 {
		return false, nil
	}
	b.slots[slot] = Tile{}
	t := b.newTile(old.Letter[0])
	b.pool = append(b.pool, t)

	b.sink.Emit(event.Event{Kind: event.SlotCleared, Tile: old.ID, Letter: old.Letter, Slot: slot})
	b.sink.Emit(event.Event{Kind: event.TileReturned, Tile: t.ID, Letter: t.Letter, Slot: slot})
	return true, nil
}

// ClearAll empties every slot and returns how many letters went back to the pool.
func (b *Board) ClearAll() int {
	n := 0
	for i := range b.slots {
		if ok, _ := b.ClearSlot(i); ok {
			n++
		}
	}
	return n
}

// Shuffle reorders the pool.
func (b *Board) Shuffle() {
	b.shuffle()
	b.sink.Emit(event.Event{Kind: event.TilesShuffled})
}

func (b *Board) firstEmpty() int {
	for i, t := range b.slots {
		if t.ID == 0 {
			return i
		}
	}
	return -1
}

// IsComplete reports whether every slot holds a letter.
func (b *Board) IsComplete() bool {
	return len(b.slots) > 0 && b.firstEmpty() < 0
}

// CurrentAnswer concatenates the slot letters. ok is false until the board is complete.
func (b *Board) CurrentAnswer() (answer string, ok bool) {
	if !b.IsComplete() {
		return "", false
	}
	var sb strings.Builder
	for _, t := range b.slots {
		sb.WriteString(t.Letter)
	}
	return sb.String(), true
}

// Target is the answer with spaces removed.
func (b *Board) Target() string { return string(b.target) }

// SlotCount is the number of letters in the answer.
func (b *Board) SlotCount() int { return len(b.slots) }

// Slots returns the slot letters, "" for empty slots.
func (b *Board) Slots() []string {
	out := make([]string, len(b.slots))
	for i, t := range b.slots {
		out[i] = t.Letter
	}
	return out
}

// Tiles returns a copy of the pool in display order.
func (b *Board) Tiles() []Tile {
	out := make([]Tile, len(b.pool))
	copy(out, b.pool)
	return out
}

// Breaks returns the slot indexes that start a new word.
func (b *Board) Breaks() []int {
	out := make([]int, len(b.breaks))
	copy(out, b.breaks)
	return out
}

// LastFilled returns the highest filled slot index, or -1.
func (b *Board) LastFilled() int {
	for i := len(b.slots) - 1; i >= 0; i-- {
		if b.slots[i].ID != 0 {
			return i
		}
	}
	return -1
}

// TileIndex returns the pool index of the first tile showing letter, or -1.
func (b *Board) TileIndex(letter string) int {
	for i, t := range b.pool {
		if t.Letter == letter {
			return i
		}
	}
	return -1
}

// Display renders the slots with spaces restored and "_" for empty slots.
func (b *Board) Display() string {
	var sb strings.Builder
	bi := 0
	for i, t := range b.slots {
		if bi < len(b.breaks) && b.breaks[bi] == i {
			sb.WriteByte(' ')
			bi++
		}
		if t.ID == 0 {
			sb.WriteByte('_')
		} else {
			sb.WriteString(t.Letter)
		}
	}
	return sb.String()
}
