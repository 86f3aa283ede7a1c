package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/hearmony/backend/internal/handler/emotion"
	"github.com/hearmony/backend/internal/handler/live"
	"github.com/hearmony/backend/internal/handler/mood"
	"github.com/hearmony/backend/internal/handler/predict"
	"github.com/hearmony/backend/internal/handler/stream"
	middlewarePkg "github.com/hearmony/backend/internal/middleware"
	emotionModel "github.com/hearmony/backend/internal/model/emotion"
	liveService "github.com/hearmony/backend/internal/service/live"
	"github.com/hearmony/backend/pkg/utils"
)

// Dependencies collects the services the HTTP layer is wired to.
type Dependencies struct {
	Catalog     emotionModel.Catalog
	Predictions predict.PredictionService
	Moods       mood.MoodService
	Insights    emotion.InsightService
	Feed        *liveService.Hub
	Logger      zerolog.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// 录音端直接调用根路径的 /predict
	predict.New(deps.Predictions, deps.Logger).RegisterRoutes(r)

	r.Route("/api", func(api chi.Router) {
		emotion.New(deps.Catalog, deps.Insights).RegisterRoutes(api)

		if deps.Moods != nil {
			mood.New(deps.Moods).RegisterRoutes(api)
		}

		// Live prediction feed
		if deps.Feed != nil {
			stream.New(deps.Feed, deps.Logger).RegisterRoutes(api)
			live.NewWebSocketHandler(deps.Feed, deps.Logger).RegisterRoutes(api)
		}
	})

	return r
}
