package emotion

import "time"

// Entry is one row of the mood history.
type Entry struct {
	ID           string    `json:"id"`
	Emotion      Label     `json:"emotion"`
	Notes        string    `json:"notes,omitempty"`
	PredictionID string    `json:"predictionId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Summary aggregates the mood history for dashboards.
type Summary struct {
	TotalEntries  int           `json:"totalEntries"`
	Distribution  map[Label]int `json:"distribution"`
	MostCommon    Label         `json:"mostCommon,omitempty"`
	LongestStreak int           `json:"longestStreak"`
	CurrentStreak int           `json:"currentStreak"`
}
