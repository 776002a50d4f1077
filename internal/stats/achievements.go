package stats

import "github.com/robalobadob/susunkata/internal/leaderboard"

// Rarity grades how hard an achievement is to earn.
type Rarity string

const (
	Common    Rarity = "common"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
)

// Achievement is a badge earned by a single result. It is not persisted.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Rarity      Rarity `json:"rarity"`
}

var (
	Perfect      = Achievement{ID: "perfect", Title: "Perfect Score", Description: "Answered every question correctly.", Rarity: Legendary}
	WordMaster   = Achievement{ID: "excellent", Title: "Word Master", Description: "Scored 90% or higher.", Rarity: Epic}
	WordExplorer = Achievement{ID: "good", Title: "Word Explorer", Description: "Scored 70% or higher.", Rarity: Rare}
	SpeedRunner  = Achievement{ID: "speed", Title: "Speed Runner", Description: "Finished the round in under a minute.", Rarity: Rare}
	FirstSteps   = Achievement{ID: "first_time", Title: "First Steps", Description: "Completed your first round in this category.", Rarity: Common}
	OnTheRise    = Achievement{ID: "improvement", Title: "On The Rise", Description: "Beat your second best score in this category.", Rarity: Rare}
)

// Achievements returns every badge r earns. prior is the category's leaderboard in
// ranked order as it was before r was recorded.
func Achievements(r Result, prior []leaderboard.Entry) []Achievement {
	var out []Achievement
	if r.TotalQuestions > 0 && r.Score == r.TotalQuestions {
		out = append(out, Perfect)
	}
	switch Classify(r.Percentage) {
	case Excellent:
		out = append(out, WordMaster)
	case Good:
		out = append(out, WordExplorer)
	}
	if r.TotalTime > 0 && r.TotalTime < SpeedLimit {
		out = append(out, SpeedRunner)
	}
	if len(prior) <= 1 {
		out = append(out, FirstSteps)
	}
	if len(prior) >= 2 && r.Score > prior[1].Score {
		out = append(out, OnTheRise)
	}
	return out
}

// Has reports whether list contains the achievement id.
func Has(list []Achievement, id string) bool {
	for _, a := range list {
		if a.ID == id {
			return true
		}
	}
	return false
}
