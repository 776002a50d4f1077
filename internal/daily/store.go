// internal/daily/store.go
//
// Daily challenge results.
// Responsibilities:
//   - Remember which players finished a category's daily round on a date.
//   - Rank the day's results across players (score desc, elapsed asc, first finisher wins ties).
//
// Results for one date and category live under a single key: "daily:<date>:<category>".

package daily

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/robalobadob/susunkata/internal/store"
)

// Result is one player's finished daily round.
type Result struct {
	PlayerID   string    `json:"playerId"`
	Date       string    `json:"date"`
	Category   string    `json:"category"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	ElapsedMs  int64     `json:"elapsedMs"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Store persists daily results in a key-value store shared by every player.
type Store struct {
	kv store.Store
	mu sync.Mutex // serializes read-modify-write of a day's results
}

func NewStore(kv store.Store) *Store { return &Store{kv: kv} }

func key(date, category string) string { return "daily:" + date + ":" + category }

func (s *Store) load(ctx context.Context, date, category string) ([]Result, error) {
	var out []Result
	if _, err := store.GetJSON(ctx, s.kv, key(date, category), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AlreadyPlayed reports whether playerID has a result for category on date.
func (s *Store) AlreadyPlayed(ctx context.Context, playerID, category, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	results, err := s.load(ctx, date, category)
	if err != nil {
		return false, err
	}
	for _, r := range results {
		if r.PlayerID == playerID {
			return true, nil
		}
	}
	return false, nil
}

// InsertResult stores r unless the player already has a result for that day.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	results, err := s.load(ctx, r.Date, r.Category)
	if err != nil {
		return err
	}
	for _, existing := range results {
		if existing.PlayerID == r.PlayerID {
			return nil
		}
	}
	return store.SetJSON(ctx, s.kv, key(r.Date, r.Category), append(results, r))
}

// Leaderboard returns at most limit results for category on date, best first.
func (s *Store) Leaderboard(ctx context.Context, category, date string, limit int) ([]Result, error) {
	s.mu.Lock()
	results, err := s.load(ctx, date, category)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ElapsedMs < results[j].ElapsedMs
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []Result{}
	}
	return results, nil
}
