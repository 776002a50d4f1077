// internal/sound/sound.go
//
// Audio cues. The engine names the sound; whoever owns a speaker plays it.

package sound

import "sync"

// Cue identifies a sound effect.
type Cue string

const (
	Click   Cue = "click"
	Undo    Cue = "undo"
	Shuffle Cue = "shuffle"
	Correct Cue = "correct"
	Wrong   Cue = "wrong"
	Next    Cue = "next"
	Score   Cue = "score"
	Error   Cue = "error"
)

// Player plays cues.
type Player interface {
	Play(Cue)
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(Cue)

// Play calls f(c).
func (f PlayerFunc) Play(c Cue) { f(c) }

// Mute ignores every cue.
var Mute Player = PlayerFunc(func(Cue) {})

// Recorder buffers cues until drained.
type Recorder struct {
	mu   sync.Mutex
	cues []Cue
}

// Play appends c.
func (r *Recorder) Play(c Cue) {
	r.mu.Lock()
	r.cues = append(r.cues, c)
	r.mu.Unlock()
}

// Drain returns the buffered cues and clears the buffer.
func (r *Recorder) Drain() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.cues
	r.cues = nil
	if out == nil {
		out = []Cue{}
	}
	return out
}
