package mood

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hearmony/backend/internal/model/emotion"
	moodservice "github.com/hearmony/backend/internal/service/mood"
	"github.com/hearmony/backend/pkg/utils"
)

const defaultDays = 30

// MoodService abstracts the mood log for handlers and tests.
type MoodService interface {
	Record(ctx context.Context, entry emotion.Entry) (emotion.Entry, error)
	Get(ctx context.Context, id string) (emotion.Entry, error)
	List(ctx context.Context, days int) []emotion.Entry
	Summary(ctx context.Context) emotion.Summary
}

// Handler exposes the mood history.
type Handler struct {
	svc MoodService
}

// New creates a mood handler.
func New(svc MoodService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the mood history routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/moods", func(moods chi.Router) {
		moods.Get("/", h.handleList)
		moods.Post("/", h.handleCreate)
		moods.Get("/summary", h.handleSummary)
		moods.Get("/{entryID}", h.handleGet)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	days := defaultDays
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.RespondError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = parsed
	}

	entries := h.svc.List(r.Context(), days)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"days":    days,
		"entries": entries,
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Emotion string `json:"emotion"`
		Notes   string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.svc.Record(r.Context(), emotion.Entry{
		Emotion: emotion.Label(payload.Emotion),
		Notes:   strings.TrimSpace(payload.Notes),
	})
	if err != nil {
		if errors.Is(err, moodservice.ErrEmotionRequired) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, entry)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.svc.Summary(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Get(r.Context(), chi.URLParam(r, "entryID"))
	if err != nil {
		if errors.Is(err, moodservice.ErrEntryNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, entry)
}
