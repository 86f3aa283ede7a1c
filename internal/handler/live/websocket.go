// Package live serves the prediction feed over WebSocket.
package live

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	liveservice "github.com/hearmony/backend/internal/service/live"
)

const (
	pingInterval = 30 * time.Second
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
)

// Feed is the source of prediction events.
type Feed interface {
	Subscribe() (liveservice.Subscription, func())
}

// WebSocketHandler pushes predictions to WebSocket clients.
type WebSocketHandler struct {
	feed     Feed
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the WebSocket feed handler.
func NewWebSocketHandler(feed Feed, logger zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		feed: feed,
		log:  logger.With().Str("component", "prediction_ws").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes registers the WebSocket route.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/predictions/ws", h.handleWebSocket)
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sub, cancel := h.feed.Subscribe()
	defer cancel()

	h.log.Debug().Str("subscriber", sub.ID).Msg("websocket subscriber connected")

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	// 客户端只发控制帧，读循环用于感知断开
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Debug().Err(err).Msg("websocket read error")
				}
				return
			}
		}
	}()

	for _, data := range sub.Recent {
		if err := h.write(conn, websocket.TextMessage, data); err != nil {
			return
		}
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case data, ok := <-sub.C:
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed")
				_ = h.write(conn, websocket.CloseMessage, msg)
				return
			}
			if err := h.write(conn, websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := h.write(conn, websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) write(conn *websocket.Conn, messageType int, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(messageType, data); err != nil {
		h.log.Debug().Err(err).Msg("websocket write failed")
		return err
	}
	return nil
}
