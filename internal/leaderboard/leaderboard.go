// internal/leaderboard/leaderboard.go
//
// Per-category high score history.
//
// Ordering: score DESC, then total time ASC (faster wins ties). Entries equal on both
// keep insertion order. Each category keeps at most MaxEntries.
//
// The whole category → entries mapping is persisted as one JSON document under
// HighScoresKey. Reads that fail fall back to the last known in-memory copy (or an
// empty board). Results that could not be persisted are held as pending and merged
// into the document on the next successful read; nothing is written while the
// document is unreadable, so categories this Board never saw are not overwritten.
// Concurrent writers in other processes are not coordinated: last writer wins.

package leaderboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/susunkata/internal/store"
)

const (
	MaxEntries    = 10
	HighScoresKey = "highScores"
)

// Entry is one recorded result.
type Entry struct {
	Score      int           `json:"score"`
	Percentage float64       `json:"percentage"`
	TotalTime  time.Duration `json:"totalTime"`
	Date       time.Time     `json:"date"`
}

// Board reads and writes the high score mapping.
type Board struct {
	kv store.Store

	mu      sync.Mutex
	cache   map[string][]Entry // last known ranking per category
	pending map[string][]Entry // recorded but not yet persisted
}

// New returns a Board persisting through kv.
func New(kv store.Store) *Board {
	return &Board{kv: kv, cache: make(map[string][]Entry), pending: make(map[string][]Entry)}
}

// Rank sorts entries in place and truncates to MaxEntries.
func Rank(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].TotalTime < entries[j].TotalTime
	})
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

// load returns the persisted mapping with pending results merged in. When the read
// fails it returns the cache and false. Caller holds b.mu.
func (b *Board) load(ctx context.Context) (map[string][]Entry, bool) {
	all := map[string][]Entry{}
	found, err := store.GetJSON(ctx, b.kv, HighScoresKey, &all)
	if err != nil {
		log.Warn().Err(err).Msg("read high scores; using in-memory copy")
		return b.snapshotCache(), false
	}
	if !found || all == nil {
		all = map[string][]Entry{}
	}
	for cat, entries := range b.pending {
		all[cat] = Rank(append(all[cat], entries...))
	}
	for cat, entries := range all {
		b.cache[cat] = append([]Entry(nil), entries...)
	}
	return all, true
}

func (b *Board) snapshotCache() map[string][]Entry {
	out := make(map[string][]Entry, len(b.cache))
	for cat, entries := range b.cache {
		out[cat] = append([]Entry(nil), entries...)
	}
	return out
}

// Record adds entry to category and returns the updated ranking.
func (b *Board) Record(ctx context.Context, category string, e Entry) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	all, readable := b.load(ctx)
	ranked := Rank(append(all[category], e))
	all[category] = ranked
	b.cache[category] = append([]Entry(nil), ranked...)
	b.pending[category] = append(b.pending[category], e)

	if !readable {
		log.Warn().Str("category", category).Msg("high scores unreadable; result kept in memory")
		return append([]Entry(nil), ranked...)
	}
	if err := store.SetJSON(ctx, b.kv, HighScoresKey, all); err != nil {
		log.Warn().Err(err).Str("category", category).Msg("persist high scores")
	} else {
		clear(b.pending)
	}
	return append([]Entry(nil), ranked...)
}

// Top returns at most n entries of category in ranked order. n <= 0 means all.
func (b *Board) Top(ctx context.Context, category string, n int) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	all, _ := b.load(ctx)
	ranked := Rank(append([]Entry(nil), all[category]...))
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// All returns every category's ranking.
func (b *Board) All(ctx context.Context) map[string][]Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	all, _ := b.load(ctx)
	for cat, entries := range all {
		all[cat] = Rank(entries)
	}
	return all
}
