// Package prediction serves emotion predictions and fans them out to the
// mood history and live subscribers.
package prediction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hearmony/backend/internal/model/emotion"
)

// History stores settled predictions.
type History interface {
	Record(ctx context.Context, entry emotion.Entry) (emotion.Entry, error)
}

// Publisher delivers predictions to live subscribers.
type Publisher interface {
	Publish(payload any)
}

// Service wraps a Classifier with identifiers, persistence and fan-out.
type Service struct {
	classifier Classifier
	history    History
	publisher  Publisher
	log        zerolog.Logger
}

// NewService creates a prediction service. history and publisher may be nil.
func NewService(classifier Classifier, history History, publisher Publisher, logger zerolog.Logger) *Service {
	return &Service{
		classifier: classifier,
		history:    history,
		publisher:  publisher,
		log:        logger.With().Str("component", "prediction").Logger(),
	}
}

// Predict runs the classifier once.
func (s *Service) Predict(ctx context.Context) (emotion.Prediction, error) {
	result, err := s.classifier.Classify(ctx)
	if err != nil {
		return emotion.Prediction{}, fmt.Errorf("classify: %w", err)
	}

	pred := emotion.Prediction{
		ID:          uuid.NewString(),
		Emotion:     result.Emotion,
		Confidence:  result.Shares[result.Emotion] * 100,
		TopEmotions: TopScores(result.Shares, topN),
		CreatedAt:   time.Now().UTC(),
	}

	if s.history != nil {
		entry := emotion.Entry{
			Emotion:      pred.Emotion,
			PredictionID: pred.ID,
			CreatedAt:    pred.CreatedAt,
		}
		if _, err := s.history.Record(ctx, entry); err != nil {
			s.log.Warn().Err(err).Str("prediction_id", pred.ID).Msg("failed to record mood entry")
		}
	}

	if s.publisher != nil {
		s.publisher.Publish(pred)
	}

	s.log.Info().
		Str("prediction_id", pred.ID).
		Str("emotion", string(pred.Emotion)).
		Float64("confidence", pred.Confidence).
		Msg("prediction served")

	return pred, nil
}
