package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hearmony/backend/internal/client/predict"
	"github.com/hearmony/backend/internal/model/emotion"
	"github.com/hearmony/backend/internal/recorder"
	"github.com/hearmony/backend/internal/service/insight"
	"github.com/hearmony/backend/internal/service/live"
	"github.com/hearmony/backend/internal/service/mood"
	"github.com/hearmony/backend/internal/service/prediction"
)

type recordingUI struct {
	enabled bool
	label   string
	output  string
}

func (u *recordingUI) SetEnabled(enabled bool) { u.enabled = enabled }
func (u *recordingUI) SetLabel(label string)   { u.label = label }
func (u *recordingUI) SetOutput(text string)   { u.output = text }

func setupServer(t *testing.T) (*httptest.Server, *mood.Service) {
	t.Helper()
	logger := zerolog.Nop()
	catalog := emotion.NewMemoryCatalog(emotion.MustSeed())
	moods := mood.NewService(50)
	hub := live.NewHub(10, logger)

	seed := int64(7)
	classifier := prediction.NewSimulatedClassifier(&seed, 0)
	predictions := prediction.NewService(classifier, moods, hub, logger)

	insights, err := insight.NewService(context.Background(), nil, catalog, insight.Config{}, logger)
	if err != nil {
		t.Fatalf("insight.NewService err: %v", err)
	}

	router := NewRouter(Dependencies{
		Catalog:     catalog,
		Predictions: predictions,
		Moods:       moods,
		Insights:    insights,
		Feed:        hub,
		Logger:      logger,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, moods
}

func TestHealthz(t *testing.T) {
	server, _ := setupServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestRecorderCycleAgainstServer(t *testing.T) {
	server, moods := setupServer(t)

	client := predict.NewClient(predict.Config{BaseURL: server.URL, Timeout: 5 * time.Second}, zerolog.Nop())
	ui := &recordingUI{}
	h := recorder.New(ui, client, zerolog.Nop())

	outcome := <-h.Trigger(context.Background())
	if outcome.Err != nil {
		t.Fatalf("unexpected failure: %v", outcome.Err)
	}
	if !ui.enabled || ui.label != recorder.LabelRecordAgain {
		t.Fatalf("unexpected final state %+v", ui)
	}
	if ui.output == "" || ui.output == "🧠 Predicted Emotion: undefined" {
		t.Fatalf("expected a rendered message, got %q", ui.output)
	}

	summary := moods.Summary(context.Background())
	if summary.TotalEntries != 1 {
		t.Fatalf("prediction should be recorded in history, got %d entries", summary.TotalEntries)
	}
}
