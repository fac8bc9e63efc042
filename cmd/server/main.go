package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/linear-intake/backend/internal/config"
	httpapi "github.com/linear-intake/backend/internal/http"
	"github.com/linear-intake/backend/internal/linear"
	"github.com/linear-intake/backend/internal/openai"
	"github.com/linear-intake/backend/internal/secrets"
	"github.com/linear-intake/backend/internal/service"
	"github.com/linear-intake/backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "intake-backend").Logger()

	ctx := context.Background()

	provider, err := secrets.NewProvider(ctx, cfg.AWSRegion)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init secrets provider")
	}
	keys := provider.GetKeys(ctx, cfg.OpenAISecretID, cfg.LinearSecretID)
	if cfg.OpenAIAPIKey != "" {
		keys.OpenAIKey = cfg.OpenAIAPIKey
	}
	if cfg.LinearAPIKey != "" {
		keys.LinearKey = cfg.LinearAPIKey
	}
	if keys.OpenAIKey == "" || keys.LinearKey == "" {
		logger.Fatal().Msg("missing OpenAI or Linear credentials")
	}

	uploader, err := storage.NewUploader(ctx, cfg.AWSRegion, cfg.S3Bucket)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init s3 uploader")
	}

	model := openai.NewClient(cfg.OpenAIBaseURL, keys.OpenAIKey, cfg.OpenAIModel, cfg.OpenAITranscribeModel)
	if cfg.RequestTimeout > 0 {
		model.HTTPClient.Timeout = cfg.RequestTimeout
	}

	pipeline := &service.Pipeline{
		Model:   model,
		Tracker: linear.NewClient(cfg.LinearBaseURL, keys.LinearKey),
		Store:   uploader,
		Logger:  logger,
	}

	router := httpapi.Router(cfg, pipeline, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
