package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rahmamo1/Sentiment-Analysis/internal/adapter/metrics"
	"github.com/rahmamo1/Sentiment-Analysis/internal/domain"
	"github.com/rahmamo1/Sentiment-Analysis/internal/platform/config"
	"github.com/rahmamo1/Sentiment-Analysis/web"
)

type sentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (*domain.Prediction, error)
}

type modelInfoSource interface {
	Info() (domain.ModelInfo, bool)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config
	clock  clockwork.Clock

	analyzer sentimentAnalyzer
	models   modelInfoSource

	templates *template.Template

	httpMetrics    *metrics.HTTPMetrics
	metricsHandler http.Handler

	healthChecks []HealthCheck
	startTime    time.Time
}

// NewServer wires the page, health and metrics routes. HTTP metrics are
// registered on reg, which is also what /metrics serves. Readiness reports
// the model described by models.
func NewServer(cfg *config.Config, analyzer sentimentAnalyzer, models modelInfoSource, reg *prometheus.Registry, clock clockwork.Clock, healthChecks []HealthCheck) (*Server, error) {
	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:           e,
		config:         cfg,
		clock:          clock,
		analyzer:       analyzer,
		models:         models,
		templates:      templates,
		httpMetrics:    metrics.NewHTTPMetrics(reg),
		metricsHandler: metrics.Handler(reg),
		healthChecks:   healthChecks,
		startTime:      clock.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *Server) renderTemplate(c echo.Context, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(c.Request().Context(), "Template execution failed", "path", c.Request().URL.Path, "error", err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(status, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}
