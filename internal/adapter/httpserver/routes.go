package httpserver

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rahmamo1/Sentiment-Analysis/internal/platform/correlation"
)

const (
	minBodyLimit = 64 * 1024
	// A form-encoded rune takes at most four %XX escapes.
	formBytesPerRune = 12
	formOverhead     = 4 * 1024
)

// bodyLimit sizes the request body limit so a form carrying maxInputLength
// runes always reaches the handler, which rejects over-long text itself.
func bodyLimit(maxInputLength int) string {
	return fmt.Sprintf("%dB", max(minBodyLimit, maxInputLength*formBytesPerRune+formOverhead))
}

func (s *Server) registerRoutes() {
	s.echo.HTTPErrorHandler = handleHTTPError

	hstsMaxAge := 0
	if s.config.IsProduction() {
		hstsMaxAge = 63072000 // 2 years; only sent over HTTPS
	}

	s.echo.Pre(normalizeRequestID)
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:        correlation.NewID,
		TargetHeader:     correlation.Header,
		RequestIDHandler: storeCorrelationID,
	}))
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         hstsMaxAge,
		HSTSPreloadEnabled: hstsMaxAge > 0,
		ContentSecurityPolicy: "default-src 'self'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"frame-ancestors 'none'",
		ReferrerPolicy: "strict-origin-when-cross-origin",
	}))
	s.echo.Use(middleware.BodyLimit(bodyLimit(s.config.MaxInputLength)))
	if s.httpMetrics != nil {
		s.echo.Use(s.httpMetrics.Middleware())
	}
	s.echo.Use(ErrorHandlingMiddleware())

	s.registerPageRoutes(newRateLimiter(s.config.RateLimitPerSecond, s.config.RateLimitBurst))
	s.registerHealthRoutes()
	if s.metricsHandler != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metricsHandler))
	}
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}
