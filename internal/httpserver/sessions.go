// internal/httpserver/sessions.go
//
// In-memory registry of live game sessions.
// Each session carries its own event and cue recorders; handlers drain them into
// the response so the client sees exactly what the action produced.
// Sessions idle for longer than the TTL are evicted lazily on access.

package httpserver

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/susunkata/internal/clock"
	"github.com/robalobadob/susunkata/internal/event"
	"github.com/robalobadob/susunkata/internal/game"
	"github.com/robalobadob/susunkata/internal/sound"
)

// liveSession is a session plus what the HTTP layer needs around it.
type liveSession struct {
	mu       sync.Mutex // serializes actions; game.Session is not concurrency-safe
	sess     *game.Session
	events   *event.Recorder
	cues     *sound.Recorder
	player   string
	mode     game.Mode
	date     string // UTC date a daily round was dealt for
	lastSeen time.Time
}

type registry struct {
	ttl   time.Duration
	clock clock.Clock

	mu   sync.Mutex
	byID map[string]*liveSession
}

func newRegistry(ttl time.Duration, c clock.Clock) *registry {
	return &registry{ttl: ttl, clock: c, byID: make(map[string]*liveSession)}
}

func (r *registry) put(ls *liveSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock.Now()
	r.sweepLocked(now)
	ls.lastSeen = now
	r.byID[ls.sess.ID()] = ls
}

// get returns the session and marks it as seen.
func (r *registry) get(id string) (*liveSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock.Now()
	r.sweepLocked(now)
	ls, ok := r.byID[id]
	if ok {
		ls.lastSeen = now
	}
	return ls, ok
}

// players returns the IDs of players that own a live session.
func (r *registry) players() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked(r.clock.Now())
	out := make(map[string]bool, len(r.byID))
	for _, ls := range r.byID {
		out[ls.player] = true
	}
	return out
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *registry) sweepLocked(now time.Time) {
	if r.ttl <= 0 {
		return
	}
	for id, ls := range r.byID {
		if now.Sub(ls.lastSeen) > r.ttl {
			delete(r.byID, id)
			log.Debug().Str("session", id).Msg("evicted idle session")
		}
	}
}
