package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/hamed0406/fleetstatus/internal/classify"
	"github.com/hamed0406/fleetstatus/internal/config"
	"github.com/hamed0406/fleetstatus/internal/fleet"
	"github.com/hamed0406/fleetstatus/internal/httpapi"
	"github.com/hamed0406/fleetstatus/internal/logging"
	"github.com/hamed0406/fleetstatus/internal/probe"
	"github.com/hamed0406/fleetstatus/internal/vercel"
)

func main() {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	source, err := vercel.NewClient(vercel.Config{
		BaseURL: cfg.VercelAPIBase,
		Token:   cfg.VercelToken,
		TeamID:  cfg.VercelTeamID,
		Limit:   cfg.ProjectLimit,
	})
	if err != nil {
		log.Fatal(err)
	}

	prober := probe.NewHTTPProber(cfg.ProbeTimeout)
	prober.Diagnose = cfg.DNSDiagnostics

	svc := fleet.NewService(
		source,
		classify.NewDefaultClassifier(),
		classify.VercelPolicy(),
		fleet.NewAggregator(prober, cfg.BatchSize, logger),
		logger,
	)
	api := httpapi.NewServer(logger, svc)
	api.TrustProxy = cfg.TrustProxy

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(cfg.AllowedOrigins, cfg.RatePerMin, cfg.RateBurst),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("api_shutdown_error", zap.Error(err))
		}
	}()

	logger.Info("api_listen",
		zap.String("addr", cfg.Addr),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Duration("probe_timeout", cfg.ProbeTimeout),
		zap.Bool("team_scoped", cfg.VercelTeamID != ""),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("api_listen_failed", zap.Error(err))
		log.Fatal(err)
	}
	logger.Info("api_stopped")
}
