package daily

import (
	"context"
	"testing"

	"github.com/robalobadob/susunkata/internal/store"
)

func TestStoreOncePerDay(t *testing.T) {
	ctx := context.Background()
	s := NewStore(store.NewMemoryStore())

	played, err := s.AlreadyPlayed(ctx, "p1", "animals", "2026-10-19")
	if err != nil || played {
		t.Fatalf("played=%v err=%v before any result", played, err)
	}
	if err := s.InsertResult(ctx, Result{PlayerID: "p1", Date: "2026-10-19", Category: "animals", Score: 4}); err != nil {
		t.Fatal(err)
	}
	// a second result for the same day is ignored
	if err := s.InsertResult(ctx, Result{PlayerID: "p1", Date: "2026-10-19", Category: "animals", Score: 5}); err != nil {
		t.Fatal(err)
	}

	played, _ = s.AlreadyPlayed(ctx, "p1", "animals", "2026-10-19")
	if !played {
		t.Fatal("expected played")
	}
	for _, tc := range []struct{ player, category, date string }{
		{"p2", "animals", "2026-10-19"},
		{"p1", "fruits", "2026-10-19"},
		{"p1", "animals", "2026-10-20"},
	} {
		if played, _ := s.AlreadyPlayed(ctx, tc.player, tc.category, tc.date); played {
			t.Errorf("%+v reported played", tc)
		}
	}

	lb, err := s.Leaderboard(ctx, "animals", "2026-10-19", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(lb) != 1 || lb[0].Score != 4 {
		t.Fatalf("leaderboard = %+v", lb)
	}
}

func TestStoreLeaderboardOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore(store.NewMemoryStore())
	for _, r := range []Result{
		{PlayerID: "slow", Score: 5, ElapsedMs: 90_000},
		{PlayerID: "low", Score: 3, ElapsedMs: 10_000},
		{PlayerID: "fast", Score: 5, ElapsedMs: 40_000},
		{PlayerID: "tie", Score: 5, ElapsedMs: 40_000},
	} {
		r.Date, r.Category = "2026-10-19", "animals"
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	lb, err := s.Leaderboard(ctx, "animals", "2026-10-19", 3)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, r := range lb {
		got = append(got, r.PlayerID)
	}
	want := []string{"fast", "tie", "slow"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	empty, err := s.Leaderboard(ctx, "fruits", "2026-10-19", 3)
	if err != nil || len(empty) != 0 || empty == nil {
		t.Fatalf("empty leaderboard = %#v, %v", empty, err)
	}
}
