package stats

import (
	"testing"
	"time"

	"github.com/robalobadob/susunkata/internal/leaderboard"
)

var t0 = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		p    float64
		want Tier
	}{
		{100, Excellent},
		{90, Excellent},
		{89.9, Good},
		{70, Good},
		{69.9, Average},
		{50, Average},
		{49.9, NeedsImprovement},
		{0, NeedsImprovement},
	}
	for _, tt := range tests {
		if got := Classify(tt.p); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total int
		want         float64
	}{
		{5, 5, 100},
		{2, 3, 66.7},
		{1, 3, 33.3},
		{0, 7, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := Percentage(tt.score, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %v, want %v", tt.score, tt.total, got, tt.want)
		}
	}
}

func TestCompute(t *testing.T) {
	rec := Record{
		Category:          "animals",
		Score:             3,
		TotalQuestions:    4,
		StartedAt:         t0,
		QuestionDurations: []time.Duration{2 * time.Second, 4 * time.Second, 3 * time.Second, 3 * time.Second},
	}
	res := Compute(rec, t0.Add(15*time.Second))
	if res.Percentage != 75 {
		t.Errorf("Percentage = %v", res.Percentage)
	}
	if res.TotalTime != 15*time.Second {
		t.Errorf("TotalTime = %v", res.TotalTime)
	}
	if res.AverageTime != 3*time.Second {
		t.Errorf("AverageTime = %v", res.AverageTime)
	}
	if res.Category != "animals" || !res.CompletedAt.Equal(t0.Add(15*time.Second)) {
		t.Errorf("unexpected result %+v", res)
	}

	// Mutating the input afterwards does not leak into the result.
	rec.QuestionDurations[0] = time.Hour
	if res.QuestionDurations[0] != 2*time.Second {
		t.Error("result shares the durations slice")
	}

	empty := Compute(Record{StartedAt: t0}, t0)
	if empty.AverageTime != 0 || empty.Percentage != 0 {
		t.Errorf("empty record = %+v", empty)
	}
}

func ids(list []Achievement) map[string]bool {
	m := map[string]bool{}
	for _, a := range list {
		m[a.ID] = true
	}
	return m
}

func TestAchievements(t *testing.T) {
	lb := func(scores ...int) []leaderboard.Entry {
		out := make([]leaderboard.Entry, len(scores))
		for i, s := range scores {
			out[i] = leaderboard.Entry{Score: s}
		}
		return out
	}
	tests := []struct {
		name  string
		res   Result
		prior []leaderboard.Entry
		want  []string
		not   []string
	}{
		{
			name:  "perfect first round",
			res:   Result{Score: 5, TotalQuestions: 5, Percentage: 100, TotalTime: 2 * time.Minute},
			prior: nil,
			want:  []string{"perfect", "excellent", "first_time"},
			not:   []string{"good", "speed", "improvement"},
		},
		{
			name:  "good and fast",
			res:   Result{Score: 4, TotalQuestions: 5, Percentage: 80, TotalTime: 59 * time.Second},
			prior: lb(5, 3, 2),
			want:  []string{"good", "speed", "improvement"},
			not:   []string{"excellent", "perfect", "first_time"},
		},
		{
			name:  "exactly one minute is not speedy",
			res:   Result{Score: 2, TotalQuestions: 5, Percentage: 40, TotalTime: time.Minute},
			prior: lb(5, 4),
			not:   []string{"speed", "improvement", "first_time", "good", "excellent"},
		},
		{
			name:  "zero time is not speedy",
			res:   Result{Score: 1, TotalQuestions: 5, Percentage: 20},
			prior: lb(1),
			want:  []string{"first_time"},
			not:   []string{"speed"},
		},
		{
			name:  "equal to second entry is no improvement",
			res:   Result{Score: 3, TotalQuestions: 5, Percentage: 60, TotalTime: time.Hour},
			prior: lb(4, 3),
			not:   []string{"improvement"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Achievements(tt.res, tt.prior))
			for _, id := range tt.want {
				if !got[id] {
					t.Errorf("missing %s in %v", id, got)
				}
			}
			for _, id := range tt.not {
				if got[id] {
					t.Errorf("unexpected %s in %v", id, got)
				}
			}
		})
	}
}

func TestResultEntry(t *testing.T) {
	r := Result{Score: 4, Percentage: 80, TotalTime: time.Second, CompletedAt: t0}
	e := r.Entry()
	if e.Score != 4 || e.Percentage != 80 || e.TotalTime != time.Second || !e.Date.Equal(t0) {
		t.Fatalf("Entry = %+v", e)
	}
	if Classify(r.Percentage).Message() == "" {
		t.Fatal("empty tier message")
	}
}
