package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hearmony/backend/internal/config"
	"github.com/hearmony/backend/internal/handler"
	"github.com/hearmony/backend/internal/logging"
	"github.com/hearmony/backend/internal/model/emotion"
	"github.com/hearmony/backend/internal/service/insight"
	"github.com/hearmony/backend/internal/service/live"
	"github.com/hearmony/backend/internal/service/mood"
	"github.com/hearmony/backend/internal/service/prediction"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(cfg.Log, os.Stdout)
	log.Logger = logger
	if envErr != nil {
		logger.Debug().Err(envErr).Msg("no .env file, continuing with system environment variables only")
	}

	catalog := emotion.NewMemoryCatalog(emotion.MustSeed())
	moodService := mood.NewService(cfg.Mood.HistoryLimit)
	hub := live.NewHub(0, logger)

	classifier := prediction.NewSimulatedClassifier(cfg.Predictor.Seed, cfg.Predictor.Delay)
	predictionService := prediction.NewService(classifier, moodService, hub, logger)

	// Ark 模型可选，未配置时建议来自内置目录
	var chatModel model.ChatModel
	if cfg.AI.Enabled() && cfg.AI.InsightLLMEnabled {
		chatModel, err = cfg.AI.NewChatModel(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize Ark chat model, using catalog suggestions")
			chatModel = nil
		}
	} else {
		logger.Info().Msg("Ark 凭证未配置或未启用，跳过 AI 建议初始化")
	}

	insightService, err := insight.NewService(ctx, chatModel, catalog, insight.Config{Enabled: cfg.AI.InsightLLMEnabled}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize insight chain, using catalog suggestions")
		insightService, _ = insight.NewService(ctx, nil, catalog, insight.Config{}, logger)
	} else if insightService.Enabled() {
		logger.Info().Msg("LLM insight service enabled")
	}

	router := handler.NewRouter(handler.Dependencies{
		Catalog:     catalog,
		Predictions: predictionService,
		Moods:       moodService,
		Insights:    insightService,
		Feed:        hub,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("Hearmony backend listening")
		return runServer(gctx, srv, logger)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("shutdown complete")
}

func runServer(ctx context.Context, srv *http.Server, logger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
