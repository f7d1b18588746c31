package httpserver

import (
	"context"
	"errors"
	"html/template"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/rahmamo1/Sentiment-Analysis/internal/domain"
	"github.com/rahmamo1/Sentiment-Analysis/internal/platform/config"
	"github.com/rahmamo1/Sentiment-Analysis/web"
)

// --- Mock implementations ---

type mockAnalyzer struct {
	analyzeFn func(ctx context.Context, text string) (*domain.Prediction, error)
	calls     []string
}

func (m *mockAnalyzer) Analyze(ctx context.Context, text string) (*domain.Prediction, error) {
	m.calls = append(m.calls, text)
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, text)
	}
	return nil, errors.New("not implemented")
}

func predictionOf(label string, bucket domain.Bucket, dist ...float64) func(context.Context, string) (*domain.Prediction, error) {
	return func(context.Context, string) (*domain.Prediction, error) {
		best := 0
		for i, p := range dist {
			if p > dist[best] {
				best = i
			}
		}
		return &domain.Prediction{
			Label:        label,
			Index:        best,
			Confidence:   dist[best] * 100,
			Bucket:       bucket,
			Distribution: dist,
			Classes:      []string{"negative", "neutral", "positive"},
		}, nil
	}
}

type stubModelInfo struct {
	info domain.ModelInfo
	ok   bool
}

func (s stubModelInfo) Info() (domain.ModelInfo, bool) {
	return s.info, s.ok
}

// --- Test helpers ---

func newTestServer(t *testing.T, analyzer sentimentAnalyzer, opts ...func(*Server)) *Server {
	t.Helper()

	tmpl, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	require.NoError(t, err)

	clock := clockwork.NewFakeClock()

	srv := &Server{
		echo: echo.New(),
		config: &config.Config{
			Port:               "8080",
			MaxInputLength:     5000,
			RateLimitPerSecond: 100,
			RateLimitBurst:     100,
		},
		clock:     clock,
		analyzer:  analyzer,
		templates: tmpl,
		startTime: clock.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	// Register routes so endpoints are available for testing
	srv.registerRoutes()

	return srv
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

func withModelInfo(info domain.ModelInfo, ok bool) func(*Server) {
	return func(s *Server) {
		s.models = stubModelInfo{info: info, ok: ok}
	}
}

func withConfig(mutate func(*config.Config)) func(*Server) {
	return func(s *Server) {
		mutate(s.config)
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return ErrorHandlingMiddleware()(handler)(c)
}
