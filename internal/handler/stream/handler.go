package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/hearmony/backend/internal/service/live"
	"github.com/hearmony/backend/pkg/utils"
)

const keepAliveInterval = 15 * time.Second

// Feed 是预测事件的订阅源
type Feed interface {
	Subscribe() (live.Subscription, func())
}

// Handler 通过 Server-Sent Events 推送新的预测结果
type Handler struct {
	feed      Feed
	log       zerolog.Logger
	keepAlive time.Duration
}

// New creates a new stream handler
func New(feed Feed, logger zerolog.Logger) *Handler {
	return &Handler{
		feed:      feed,
		log:       logger.With().Str("component", "prediction_stream").Logger(),
		keepAlive: keepAliveInterval,
	}
}

// RegisterRoutes 注册 SSE 路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/predictions/stream", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sub, cancel := h.feed.Subscribe()
	defer cancel()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.log.Debug().Str("subscriber", sub.ID).Int("replay", len(sub.Recent)).Msg("stream subscriber connected")

	// 先补发最近的事件
	for _, data := range sub.Recent {
		utils.SendSSEData(w, flusher, data)
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.log.Debug().Str("subscriber", sub.ID).Msg("stream subscriber disconnected")
			return
		case data, ok := <-sub.C:
			if !ok {
				return
			}
			utils.SendSSEData(w, flusher, data)
		case now := <-ticker.C:
			utils.SendSSEComment(w, flusher, now)
		}
	}
}
