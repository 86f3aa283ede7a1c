package emotion

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearmony/backend/internal/analysis/message"
	"github.com/hearmony/backend/internal/model/emotion"
	"github.com/hearmony/backend/internal/service/insight"
	"github.com/hearmony/backend/pkg/utils"
)

// InsightService 抽象建议生成
type InsightService interface {
	Suggest(ctx context.Context, label emotion.Label) (insight.Insight, error)
}

// Handler 情绪目录的HTTP处理器
type Handler struct {
	catalog  emotion.Catalog
	insights InsightService
}

// New 创建情绪目录处理器
func New(catalog emotion.Catalog, insights InsightService) *Handler {
	return &Handler{
		catalog:  catalog,
		insights: insights,
	}
}

type profileView struct {
	emotion.Profile
	Message string `json:"message"`
}

// RegisterRoutes 注册情绪相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/emotions", h.handleListEmotions)
	r.Get("/insights/{emotion}", h.handleInsight)
}

func (h *Handler) handleListEmotions(w http.ResponseWriter, r *http.Request) {
	profiles := h.catalog.List()
	views := make([]profileView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, profileView{Profile: p, Message: message.Render(string(p.Label))})
	}
	utils.RespondJSON(w, http.StatusOK, views)
}

func (h *Handler) handleInsight(w http.ResponseWriter, r *http.Request) {
	if h.insights == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "insights unavailable")
		return
	}

	label := emotion.Label(chi.URLParam(r, "emotion"))
	result, err := h.insights.Suggest(r.Context(), label)
	if err != nil {
		if errors.Is(err, insight.ErrUnknownLabel) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "insight generation failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}
