// internal/stats/stats.go
//
// End-of-session statistics. Everything here is a pure function of its inputs.
//   - Compute:      percentage, total and average time.
//   - Classify:     performance tier from a percentage.
//   - Achievements: badges earned by a result, judged against the leaderboard as it
//                   was before this result was recorded.

package stats

import (
	"math"
	"time"

	"github.com/robalobadob/susunkata/internal/leaderboard"
)

// SpeedLimit is the total time under which a session earns the speed badge.
const SpeedLimit = 60 * time.Second

// Record is the raw data of a finished session.
type Record struct {
	Category          string
	Score             int
	TotalQuestions    int
	StartedAt         time.Time
	QuestionDurations []time.Duration
}

// Result is the immutable summary of a finished session.
type Result struct {
	Score             int             `json:"score"`
	TotalQuestions    int             `json:"totalQuestions"`
	Percentage        float64         `json:"percentage"`
	TotalTime         time.Duration   `json:"totalTime"`
	AverageTime       time.Duration   `json:"averageTime"`
	QuestionDurations []time.Duration `json:"questionDurations"`
	Category          string          `json:"category"`
	CompletedAt       time.Time       `json:"completedAt"`
}

// Compute derives a Result from rec at time now.
func Compute(rec Record, now time.Time) Result {
	res := Result{
		Score:             rec.Score,
		TotalQuestions:    rec.TotalQuestions,
		Percentage:        Percentage(rec.Score, rec.TotalQuestions),
		TotalTime:         now.Sub(rec.StartedAt),
		QuestionDurations: append([]time.Duration{}, rec.QuestionDurations...),
		Category:          rec.Category,
		CompletedAt:       now,
	}
	if res.TotalTime < 0 {
		res.TotalTime = 0
	}
	if n := len(rec.QuestionDurations); n > 0 {
		var sum time.Duration
		for _, d := range rec.QuestionDurations {
			sum += d
		}
		res.AverageTime = sum / time.Duration(n)
	}
	return res
}

// Percentage is score/total*100 rounded to one decimal; 0 when total is 0.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*1000) / 10
}

// Entry converts r into a leaderboard entry.
func (r Result) Entry() leaderboard.Entry {
	return leaderboard.Entry{
		Score:      r.Score,
		Percentage: r.Percentage,
		TotalTime:  r.TotalTime,
		Date:       r.CompletedAt,
	}
}

// Tier is a qualitative performance bucket.
type Tier string

const (
	Excellent        Tier = "excellent"
	Good             Tier = "good"
	Average          Tier = "average"
	NeedsImprovement Tier = "needsImprovement"
)

// Classify maps a percentage to a Tier. Thresholds are inclusive lower bounds.
func Classify(percentage float64) Tier {
	switch {
	case percentage >= 90:
		return Excellent
	case percentage >= 70:
		return Good
	case percentage >= 50:
		return Average
	default:
		return NeedsImprovement
	}
}

// Message is the headline shown on the summary screen.
func (t Tier) Message() string {
	switch t {
	case Excellent:
		return "Outstanding! You really know your words."
	case Good:
		return "Great job! Just a few slipped past you."
	case Average:
		return "Not bad! Keep practising to improve."
	default:
		return "Keep going! Every round makes you better."
	}
}
