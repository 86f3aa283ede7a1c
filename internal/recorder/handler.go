// Package recorder drives the record button: it disables the control,
// asks the prediction server for an emotion and renders the result.
package recorder

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hearmony/backend/internal/analysis/message"
	"github.com/hearmony/backend/internal/client/predict"
)

// Control labels.
const (
	LabelRecord      = "Record"
	LabelRecording   = "Recording... Please wait"
	LabelRecordAgain = "Record Again"
	LabelTryAgain    = "Try Again"
)

// UI is the surface the handler drives: one control and one output region.
type UI interface {
	SetEnabled(enabled bool)
	SetLabel(label string)
	SetOutput(text string)
}

// Predictor fetches one prediction.
type Predictor interface {
	Predict(ctx context.Context) (*predict.Response, error)
}

// RequestFailure wraps any failure to obtain or decode a prediction.
type RequestFailure struct {
	Err error
}

func (e *RequestFailure) Error() string {
	return fmt.Sprintf("request failure: %v", e.Err)
}

func (e *RequestFailure) Unwrap() error {
	return e.Err
}

// Outcome is the settled result of one cycle.
type Outcome struct {
	Message string
	Label   string
	Err     error
}

// Handler runs predict-and-display cycles against a UI.
type Handler struct {
	ui        UI
	predictor Predictor
	log       zerolog.Logger

	mu       sync.Mutex
	inFlight int
	cycles   int
}

// New creates a handler. The UI must be non-nil.
func New(ui UI, predictor Predictor, logger zerolog.Logger) *Handler {
	return &Handler{
		ui:        ui,
		predictor: predictor,
		log:       logger.With().Str("component", "recorder").Logger(),
	}
}

// Trigger starts one cycle and returns without waiting for the network.
// The control is disabled, relabelled and the output cleared before the
// request is issued. The returned channel yields the outcome once the UI
// has been finalized.
//
// Trigger does not refuse overlapping calls; the disabled control is what
// keeps a user from starting a second cycle.
func (h *Handler) Trigger(ctx context.Context) <-chan Outcome {
	h.log.Info().Msg("record triggered, sending prediction request")

	h.ui.SetEnabled(false)
	h.ui.SetLabel(LabelRecording)
	h.ui.SetOutput("")

	h.mu.Lock()
	h.inFlight++
	h.mu.Unlock()

	done := make(chan Outcome, 1)
	go func() {
		defer close(done)
		out := h.resolve(ctx)
		h.finalize(out)
		done <- out
	}()
	return done
}

// Run triggers a cycle and blocks until it settles.
func (h *Handler) Run(ctx context.Context) Outcome {
	return <-h.Trigger(ctx)
}

// State reports the control state as seen by the handler.
func (h *Handler) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inFlight > 0 {
		return StateRequesting
	}
	return StateIdle
}

// Cycles returns the number of settled cycles.
func (h *Handler) Cycles() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cycles
}

func (h *Handler) resolve(ctx context.Context) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = failure(fmt.Errorf("panic while resolving prediction: %v", r))
		}
	}()

	resp, err := h.predictor.Predict(ctx)
	if err != nil {
		return failure(err)
	}

	event := h.log.Info().Int("status", resp.StatusCode)
	if len(resp.Body) > 0 {
		event = event.RawJSON("response", resp.Body)
	}
	event.Msg("response received")

	return Outcome{
		Message: message.RenderField(resp.Emotion()),
		Label:   LabelRecordAgain,
	}
}

func failure(err error) Outcome {
	return Outcome{
		Message: message.ErrorText,
		Label:   LabelTryAgain,
		Err:     &RequestFailure{Err: err},
	}
}

// finalize is shared by both branches.
func (h *Handler) finalize(out Outcome) {
	if out.Err != nil {
		h.log.Error().Err(out.Err).Msg("prediction failed")
	}

	h.ui.SetOutput(out.Message)
	h.ui.SetLabel(out.Label)
	h.ui.SetEnabled(true)

	h.mu.Lock()
	h.inFlight--
	h.cycles++
	h.mu.Unlock()
}
