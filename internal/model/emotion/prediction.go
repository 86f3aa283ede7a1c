package emotion

import "time"

// Score pairs a label with a confidence expressed in percent.
type Score struct {
	Emotion    Label   `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// Prediction is the payload returned by POST /predict.
type Prediction struct {
	ID          string    `json:"id"`
	Emotion     Label     `json:"emotion"`
	Confidence  float64   `json:"confidence"`
	TopEmotions []Score   `json:"top_emotions"`
	CreatedAt   time.Time `json:"createdAt"`
}
