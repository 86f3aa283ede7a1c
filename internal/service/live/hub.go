// Package live fans out prediction events to streaming subscribers.
package live

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultBuffer  = 16
	defaultHistory = 20
)

// Subscription is one subscriber's view of the feed.
type Subscription struct {
	ID     string
	C      <-chan []byte
	Recent [][]byte
}

// Hub broadcasts JSON-encoded payloads. Slow subscribers lose messages
// rather than block publishers.
type Hub struct {
	log zerolog.Logger

	mu      sync.Mutex
	subs    map[string]chan []byte
	history [][]byte
	limit   int
	closed  bool
}

// NewHub creates a hub that replays up to historyLimit recent events.
func NewHub(historyLimit int, logger zerolog.Logger) *Hub {
	if historyLimit <= 0 {
		historyLimit = defaultHistory
	}
	return &Hub{
		log:   logger.With().Str("component", "live_hub").Logger(),
		subs:  make(map[string]chan []byte),
		limit: historyLimit,
	}
}

// Publish encodes payload and delivers it to every subscriber.
func (h *Hub) Publish(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode live event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	h.history = append(h.history, data)
	if len(h.history) > h.limit {
		h.history = append(h.history[:0:0], h.history[len(h.history)-h.limit:]...)
	}

	for id, ch := range h.subs {
		select {
		case ch <- data:
		default:
			h.log.Debug().Str("subscriber", id).Msg("dropping event for slow subscriber")
		}
	}
}

// Subscribe registers a subscriber. The returned cancel func must be called
// once the subscriber is done; it closes the channel.
func (h *Hub) Subscribe() (Subscription, func()) {
	ch := make(chan []byte, defaultBuffer)
	id := uuid.NewString()

	h.mu.Lock()
	recent := append([][]byte(nil), h.history...)
	if h.closed {
		close(ch)
	} else {
		h.subs[id] = ch
	}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if existing, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(existing)
			}
		})
	}

	return Subscription{ID: id, C: ch, Recent: recent}, cancel
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Run blocks until ctx is done, then closes every subscription.
func (h *Hub) Run(ctx context.Context) error {
	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
	h.log.Info().Msg("live hub stopped")
	return nil
}
