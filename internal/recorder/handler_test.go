package recorder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hearmony/backend/internal/client/predict"
)

type call struct {
	method string
	value  any
}

type fakeUI struct {
	mu      sync.Mutex
	calls   []call
	enabled bool
	label   string
	output  string
}

func newFakeUI() *fakeUI {
	return &fakeUI{enabled: true, label: "Record", output: "stale"}
}

func (f *fakeUI) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = enabled
	f.calls = append(f.calls, call{"SetEnabled", enabled})
}

func (f *fakeUI) SetLabel(label string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.label = label
	f.calls = append(f.calls, call{"SetLabel", label})
}

func (f *fakeUI) SetOutput(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.output = text
	f.calls = append(f.calls, call{"SetOutput", text})
}

func (f *fakeUI) snapshot() (bool, string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled, f.label, f.output
}

type fakePredictor struct {
	release chan struct{}
	status  int
	body    string
	err     error
	calls   int
	mu      sync.Mutex
}

func (f *fakePredictor) Predict(ctx context.Context) (*predict.Response, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return predict.DecodeResponse(status, []byte(f.body))
}

func waitOutcome(t *testing.T, done <-chan Outcome) Outcome {
	t.Helper()
	select {
	case out := <-done:
		return out
	case <-time.After(2 * time.Second):
		t.Fatal("cycle did not settle")
		return Outcome{}
	}
}

func serverReturning(t *testing.T, status int, body string) *predict.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return predict.NewClient(predict.Config{BaseURL: srv.URL}, zerolog.Nop())
}

func TestTriggerDisablesBeforeRequestSettles(t *testing.T) {
	ui := newFakeUI()
	predictor := &fakePredictor{release: make(chan struct{}), body: `{"emotion":"Happy"}`}
	handler := New(ui, predictor, zerolog.Nop())

	done := handler.Trigger(context.Background())

	enabled, label, output := ui.snapshot()
	if enabled {
		t.Fatal("control should be disabled while requesting")
	}
	if label != "Recording... Please wait" {
		t.Fatalf("unexpected in-progress label: %q", label)
	}
	if output != "" {
		t.Fatalf("output should be cleared, got %q", output)
	}
	if handler.State() != StateRequesting {
		t.Fatalf("expected requesting state, got %s", handler.State())
	}

	close(predictor.release)
	waitOutcome(t, done)

	if handler.State() != StateIdle {
		t.Fatalf("expected idle state after settle, got %s", handler.State())
	}
}

func TestTriggerSideEffectOrder(t *testing.T) {
	ui := newFakeUI()
	handler := New(ui, &fakePredictor{body: `{"emotion":"Sad"}`}, zerolog.Nop())

	waitOutcome(t, handler.Trigger(context.Background()))

	want := []call{
		{"SetEnabled", false},
		{"SetLabel", "Recording... Please wait"},
		{"SetOutput", ""},
		{"SetOutput", "😢 Oh no! You seem a bit sad. Hope things get better soon!"},
		{"SetLabel", "Record Again"},
		{"SetEnabled", true},
	}
	ui.mu.Lock()
	defer ui.mu.Unlock()
	if len(ui.calls) != len(want) {
		t.Fatalf("expected %d UI calls, got %d: %+v", len(want), len(ui.calls), ui.calls)
	}
	for i := range want {
		if ui.calls[i] != want[i] {
			t.Fatalf("call %d: expected %+v, got %+v", i, want[i], ui.calls[i])
		}
	}
}

func TestKnownLabelsRenderMessages(t *testing.T) {
	expected := map[string]string{
		"Happy":     "😄 Wohoo! Looks like you're feeling happy and cheerful!",
		"Sad":       "😢 Oh no! You seem a bit sad. Hope things get better soon!",
		"Angry":     "😠 Whoa! You sound a bit angry. Take a deep breath!",
		"Calm":      "😌 You seem calm and relaxed. Keep enjoying the peace!",
		"Fearful":   "😨 Sounds like you're a little scared. Stay brave!",
		"Surprised": "😲 Ooh! That sounded surprising!",
		"Disgust":   "🤢 Hmm… Something seems off. You sound disgusted!",
	}

	for label, want := range expected {
		ui := newFakeUI()
		client := serverReturning(t, http.StatusOK, `{"emotion":"`+label+`"}`)
		out := New(ui, client, zerolog.Nop()).Run(context.Background())

		if out.Err != nil {
			t.Fatalf("label %s: unexpected error %v", label, out.Err)
		}
		enabled, btn, output := ui.snapshot()
		if output != want {
			t.Fatalf("label %s: expected %q, got %q", label, want, output)
		}
		if btn != "Record Again" || !enabled {
			t.Fatalf("label %s: expected enabled Record Again, got enabled=%v label=%q", label, enabled, btn)
		}
	}
}

func TestUnknownLabelFallback(t *testing.T) {
	ui := newFakeUI()
	client := serverReturning(t, http.StatusOK, `{"emotion":"Confused"}`)
	New(ui, client, zerolog.Nop()).Run(context.Background())

	if _, _, output := ui.snapshot(); output != "🧠 Predicted Emotion: Confused" {
		t.Fatalf("unexpected fallback output: %q", output)
	}
}

func TestMissingEmotionField(t *testing.T) {
	ui := newFakeUI()
	client := serverReturning(t, http.StatusOK, `{"confidence": 80}`)
	out := New(ui, client, zerolog.Nop()).Run(context.Background())

	if out.Err != nil {
		t.Fatalf("missing field is not an error, got %v", out.Err)
	}
	if _, label, output := ui.snapshot(); output != "🧠 Predicted Emotion: undefined" || label != "Record Again" {
		t.Fatalf("unexpected rendering: output=%q label=%q", output, label)
	}
}

// An error status with a JSON body still takes the success branch.
func TestErrorStatusWithJSONBodyUsesSuccessBranch(t *testing.T) {
	ui := newFakeUI()
	client := serverReturning(t, http.StatusInternalServerError, `{"error":"model offline"}`)
	out := New(ui, client, zerolog.Nop()).Run(context.Background())

	if out.Err != nil {
		t.Fatalf("expected success branch, got %v", out.Err)
	}
	if _, label, output := ui.snapshot(); output != "🧠 Predicted Emotion: undefined" || label != "Record Again" {
		t.Fatalf("unexpected rendering: output=%q label=%q", output, label)
	}
}

func TestErrorStatusWithEmotionRendersLabel(t *testing.T) {
	ui := newFakeUI()
	client := serverReturning(t, http.StatusServiceUnavailable, `{"emotion":"Calm"}`)
	New(ui, client, zerolog.Nop()).Run(context.Background())

	if _, _, output := ui.snapshot(); output != "😌 You seem calm and relaxed. Keep enjoying the peace!" {
		t.Fatalf("unexpected output: %q", output)
	}
}

func TestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ui := newFakeUI()
	client := predict.NewClient(predict.Config{BaseURL: url}, zerolog.Nop())
	out := New(ui, client, zerolog.Nop()).Run(context.Background())

	var failure *RequestFailure
	if !errors.As(out.Err, &failure) {
		t.Fatalf("expected RequestFailure, got %v", out.Err)
	}
	enabled, label, output := ui.snapshot()
	if output != "❌ Error predicting emotion." {
		t.Fatalf("unexpected error output: %q", output)
	}
	if label != "Try Again" {
		t.Fatalf("unexpected label: %q", label)
	}
	if !enabled {
		t.Fatal("control should be re-enabled after failure")
	}
}

func TestNonJSONBodyFails(t *testing.T) {
	ui := newFakeUI()
	client := serverReturning(t, http.StatusOK, `not json`)
	out := New(ui, client, zerolog.Nop()).Run(context.Background())

	if out.Err == nil {
		t.Fatal("expected failure for non-JSON body")
	}
	if _, label, output := ui.snapshot(); output != "❌ Error predicting emotion." || label != "Try Again" {
		t.Fatalf("unexpected rendering: output=%q label=%q", output, label)
	}
}

func TestFailureIsLogged(t *testing.T) {
	var logs strings.Builder
	logger := zerolog.New(&logs)

	ui := newFakeUI()
	handler := New(ui, &fakePredictor{err: errors.New("boom")}, logger)
	handler.Run(context.Background())

	if !strings.Contains(logs.String(), "boom") {
		t.Fatalf("expected error detail in diagnostic log, got %s", logs.String())
	}
	if _, _, output := ui.snapshot(); strings.Contains(output, "boom") {
		t.Fatal("error detail must not reach the output region")
	}
}

type panickingPredictor struct{}

func (panickingPredictor) Predict(context.Context) (*predict.Response, error) {
	panic("decoder exploded")
}

func TestPanicDuringResolveIsAbsorbed(t *testing.T) {
	ui := newFakeUI()
	out := New(ui, panickingPredictor{}, zerolog.Nop()).Run(context.Background())

	if out.Err == nil {
		t.Fatal("expected failure outcome")
	}
	if enabled, label, _ := ui.snapshot(); !enabled || label != "Try Again" {
		t.Fatalf("unexpected control state: enabled=%v label=%q", enabled, label)
	}
}

func TestRepeatedCyclesEndEnabled(t *testing.T) {
	ui := newFakeUI()
	predictor := &fakePredictor{body: `{"emotion":"Angry"}`}
	handler := New(ui, predictor, zerolog.Nop())

	for i := 0; i < 10; i++ {
		if i%3 == 0 {
			predictor.err = errors.New("flaky")
		} else {
			predictor.err = nil
		}
		handler.Run(context.Background())

		enabled, label, _ := ui.snapshot()
		if !enabled {
			t.Fatalf("cycle %d: control left disabled", i)
		}
		if label != "Record Again" && label != "Try Again" {
			t.Fatalf("cycle %d: unexpected label %q", i, label)
		}
	}
	if handler.Cycles() != 10 {
		t.Fatalf("expected 10 cycles, got %d", handler.Cycles())
	}
}

func TestNilUIPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing UI")
		}
	}()
	New(nil, &fakePredictor{}, zerolog.Nop()).Trigger(context.Background())
}
