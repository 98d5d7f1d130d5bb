// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"repolingo/internal/config"
	"repolingo/internal/domain/ports/adapter"
	aiAdapters "repolingo/internal/infra/adapters/ai"
	"repolingo/internal/infra/adapters/notify"
	pg "repolingo/internal/infra/db/postgres"
	"repolingo/internal/infra/logging"
	"repolingo/internal/infra/metrics"
	red "repolingo/internal/infra/redis"
	"repolingo/internal/infra/web"
	"repolingo/internal/infra/worker"
	"repolingo/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop provider/notifier)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	provider := pg.NewConnectionProvider(cfg.Database.URL, cfg.Database.MaxConns)
	defer provider.Close()
	tm := pg.NewTxManager(provider)

	// ---- Redis queue ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	queue, err := red.NewJobQueue(ctx, redisClient, cfg.Queue.Stream, cfg.Queue.Group, cfg.Queue.Consumer, cfg.Queue.ReclaimIdle)
	if err != nil {
		log.Fatalf("job queue: %v", err)
	}

	// ---- Repositories ----
	activityRepo := pg.NewActivityRepo(tm)
	watchRepo := pg.NewWatchRepo(tm)

	// ---- Translation provider (OpenAI -> Gemini -> noop in dev) ----
	var translator adapter.TranslationProvider
	switch {
	case cfg.Runtime.Dev:
		translator = aiAdapters.NewNoopTranslator()
		logger.Info().Msg("translator: noop (dev)")
	case cfg.Translator.OpenAIKey != "":
		translator, err = aiAdapters.NewOpenAITranslator(cfg.Translator.OpenAIKey, cfg.Translator.OpenAIBaseURL, cfg.Translator.Model, cfg.Translator.MaxInputTokens)
		if err != nil {
			log.Fatalf("openai translator: %v", err)
		}
		logger.Info().Str("model", cfg.Translator.Model).Msg("translator: openai")
	case cfg.Translator.GeminiKey != "":
		translator, err = aiAdapters.NewGeminiTranslator(ctx, cfg.Translator.GeminiKey, cfg.Translator.GeminiURL, cfg.Translator.Model)
		if err != nil {
			log.Fatalf("gemini translator: %v", err)
		}
		logger.Info().Str("model", cfg.Translator.Model).Msg("translator: gemini")
	default:
		log.Fatalf("no translation provider configured: set translator.openai_key or translator.gemini_key in %s", *cfgPath)
	}

	// ---- Watcher notifier ----
	var notifier adapter.WatcherNotifier
	if cfg.Notify.TelegramToken != "" && !cfg.Runtime.Dev {
		notifier, err = notify.NewTelegramNotifier(cfg.Notify.TelegramToken, logger)
		if err != nil {
			log.Fatalf("telegram notifier: %v", err)
		}
	} else {
		notifier = notify.NewNoopNotifier(logger)
	}

	// ---- Use cases ----
	translationUC := usecase.NewTranslationUseCase(activityRepo, queue, tm, cfg.Translator.DefaultLanguage, logger)
	jobUC := usecase.NewJobUseCase(activityRepo, watchRepo, translator, notifier, tm, cfg.Translator.DefaultLanguage, logger)

	// ---- Queue consumer ----
	pool := worker.NewPool(cfg.Queue.Workers, logger)
	pool.Start(ctx)
	defer pool.Stop()

	consumer := worker.NewConsumer(queue, jobUC, pool, cfg.Queue.BatchSize, cfg.Queue.Block, logger)
	go func() {
		if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("consumer stopped unexpectedly")
		}
	}()

	// ---- HTTP API ----
	auth := web.NewAuthManager(cfg.API.JWTSecret, 24*time.Hour)
	srv := web.NewServer(translationUC, auth, logger)
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.API.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Int("port", cfg.API.Port).Msg("api listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("api server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
}
