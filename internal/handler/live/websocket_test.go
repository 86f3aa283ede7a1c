package live

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	liveservice "github.com/hearmony/backend/internal/service/live"
)

func TestWebSocketDeliversRecentAndLiveEvents(t *testing.T) {
	hub := liveservice.NewHub(10, zerolog.Nop())
	hub.Publish(map[string]string{"emotion": "Calm"})

	r := chi.NewRouter()
	NewWebSocketHandler(hub, zerolog.Nop()).RegisterRoutes(r)
	server := httptest.NewServer(r)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/predictions/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read recent: %v", err)
	}
	if string(data) != `{"emotion":"Calm"}` {
		t.Fatalf("unexpected replay %s", data)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	hub.Publish(map[string]string{"emotion": "Happy"})

	_, data, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("read live: %v", err)
	}
	if string(data) != `{"emotion":"Happy"}` {
		t.Fatalf("unexpected event %s", data)
	}
}
