package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rahmamo1/Sentiment-Analysis/internal/adapter/httpserver"
	"github.com/rahmamo1/Sentiment-Analysis/internal/adapter/metrics"
	"github.com/rahmamo1/Sentiment-Analysis/internal/artifact"
	"github.com/rahmamo1/Sentiment-Analysis/internal/domain"
	"github.com/rahmamo1/Sentiment-Analysis/internal/platform/config"
	"github.com/rahmamo1/Sentiment-Analysis/internal/platform/logging"
	"github.com/rahmamo1/Sentiment-Analysis/internal/platform/version"
	"github.com/rahmamo1/Sentiment-Analysis/internal/sentiment"
)

const shutdownTimeout = 10 * time.Second

func runGracefulShutdown(srv *httpserver.Server, loader *artifact.Loader) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		if err := loader.Close(); err != nil {
			slog.Error("Failed to release classifier", "error", err)
		}

		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupArtifacts(cfg *config.Config, clock clockwork.Clock, recorder artifact.LoadRecorder) *artifact.Loader {
	loader := artifact.NewLoader(artifact.Paths{
		Classifier:     cfg.ClassifierPath,
		Vectorizer:     cfg.VectorizerPath,
		LabelEncoder:   cfg.LabelEncoderPath,
		ONNXRuntimeLib: cfg.ONNXRuntimeLib,
	}, clock, recorder)

	if _, err := loader.Load(); err != nil {
		slog.Error("Failed to load artifacts", "error", err)
		os.Exit(1)
	}
	return loader
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Get().String())

	registry := metrics.NewRegistry()

	loader := setupArtifacts(cfg, clock, metrics.NewArtifactMetrics(registry))
	analyzer := sentiment.NewAnalyzer(loader, clock, metrics.NewInferenceMetrics(registry), cfg.MaxInputLength)

	healthChecks := []httpserver.HealthCheck{
		{Name: "artifacts", Check: func(context.Context) error {
			if !loader.Loaded() {
				return domain.ErrArtifactsNotLoaded
			}
			return nil
		}},
	}

	srv, err := httpserver.NewServer(cfg, analyzer, loader, registry, clock, healthChecks)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv, loader)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
