package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	cfgpkg "github.com/local/pdftranslator/internal/config"
	"github.com/local/pdftranslator/internal/jobcache"
	logpkg "github.com/local/pdftranslator/internal/logger"
	"github.com/local/pdftranslator/internal/metrics"
	"github.com/local/pdftranslator/internal/ocr"
	"github.com/local/pdftranslator/internal/orchestrator"
	"github.com/local/pdftranslator/internal/overlay"
	"github.com/local/pdftranslator/internal/pipeline"
	"github.com/local/pdftranslator/internal/statuscheck"
	"github.com/local/pdftranslator/internal/storage"
	"github.com/local/pdftranslator/internal/store"
	"github.com/local/pdftranslator/internal/translate"
)

func main() {
	_ = godotenv.Load()
	cfg := cfgpkg.FromEnv()

	_ = logpkg.Init(logpkg.Options{
		Level:        cfg.Logging.Level,
		Pretty:       cfg.Logging.Pretty,
		File:         cfg.Logging.File,
		MaxSizeMB:    cfg.Logging.MaxSizeMB,
		MaxBackups:   cfg.Logging.MaxBackups,
		MaxAgeDays:   cfg.Logging.MaxAgeDays,
		Compress:     cfg.Logging.Compress,
		SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
		AxiomAPIKey:  cfg.Axiom.APIKey,
		AxiomOrgID:   cfg.Axiom.OrgID,
		AxiomDataset: cfg.Axiom.Dataset,
		AxiomFlush:   cfg.Axiom.FlushInterval,
	})
	defer logpkg.Close()

	metrics.Init()

	// Status store: redis when configured, in-memory otherwise.
	var status store.StatusStore
	var redisPinger statuscheck.RedisPinger
	if cfg.Store.RedisURL != "" {
		rs, err := store.NewRedisStatus(cfg.Store.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init redis status store")
		}
		status = rs
		redisPinger = redisAdapter{rs}
	} else {
		status = store.NewMemoryStatus()
	}
	defer status.Close()

	cache := jobcache.New(cfg.Cache.TTL, nil)

	// Optional artifact export.
	var exporter pipeline.Exporter
	if cfg.Storage.Bucket != "" {
		s3cli, err := storage.NewS3Client(context.Background(), cfg.Storage.Bucket, cfg.Storage.Prefix)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init s3 client")
		}
		exporter = s3cli
	}

	pipe := pipeline.New(cfg, pipeline.Deps{
		NewEngine: func() (ocr.Engine, error) {
			return ocr.NewTesseractEngine(cfg.OCR.Languages, cfg.OCR.PageSeg)
		},
		Translator: translate.NewDispatcher(cfg.Translate),
		Renderer:   overlay.NewRenderer(cfg.Overlay),
		Cache:      cache,
		Status:     status,
		Exporter:   exporter,
	})

	checker := statuscheck.New(statuscheck.Options{
		Redis:        redisPinger,
		S3Bucket:     cfg.Storage.Bucket,
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
	})

	orch := orchestrator.New(cfg, pipe, cache, status, checker)
	mux := http.NewServeMux()
	orch.RegisterRoutes(mux)

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: mux}

	go func() {
		log.Info().Msgf("HTTP server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info().Msg("shutdown complete")
}

// redisAdapter exposes the status store's redis client as a pinger for
// health checks.
type redisAdapter struct{ rs *store.RedisStatus }

func (a redisAdapter) Ping(ctx context.Context) error { return a.rs.Client().Ping(ctx).Err() }
