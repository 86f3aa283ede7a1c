package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRespondError(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, http.StatusBadRequest, "bad input")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != `{"error":"bad input"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestSSEFrames(t *testing.T) {
	rr := httptest.NewRecorder()
	SetupSSEHeaders(rr)
	SendSSEData(rr, rr, []byte(`{"emotion":"Calm"}`))
	SendSSEComment(rr, rr, time.Unix(100, 0))

	if rr.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatal("missing event-stream content type")
	}
	want := "data: {\"emotion\":\"Calm\"}\n\n: ping 100\n\n"
	if rr.Body.String() != want {
		t.Fatalf("unexpected frames: %q", rr.Body.String())
	}
	if !rr.Flushed {
		t.Fatal("frames should be flushed")
	}
}
