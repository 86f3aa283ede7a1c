package predict

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/hearmony/backend/internal/model/emotion"
	"github.com/hearmony/backend/pkg/utils"
)

// PredictionService 抽象预测业务，便于测试与替换实现
type PredictionService interface {
	Predict(ctx context.Context) (emotion.Prediction, error)
}

// Handler 预测服务的HTTP处理器
type Handler struct {
	svc PredictionService
	log zerolog.Logger
}

// New 创建预测处理器
func New(svc PredictionService, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: logger}
}

// RegisterRoutes registers POST /predict. The request body is ignored.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/predict", h.handlePredict)
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	pred, err := h.svc.Predict(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("[predict] prediction failed")
		utils.RespondError(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, pred)
}
