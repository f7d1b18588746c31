package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rahmamo1/Sentiment-Analysis/internal/platform/correlation"
	apperrors "github.com/rahmamo1/Sentiment-Analysis/internal/platform/errors"
)

// normalizeRequestID replaces a missing or malformed X-Request-ID header
// before the request ID middleware reads it.
func normalizeRequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Request().Header
		h.Set(correlation.Header, correlation.Resolve(h.Get(correlation.Header)))
		return next(c)
	}
}

// storeCorrelationID is the request ID middleware's handler; it carries the
// ID into the request context so every log record of the request has it.
func storeCorrelationID(c echo.Context, id string) {
	ctx := correlation.WithID(c.Request().Context(), id)
	c.SetRequest(c.Request().WithContext(ctx))
}

func ErrorHandlingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return err
			}

			return HandleError(c, err)
		}
	}
}

func logError(c echo.Context, err *apperrors.Error) {
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.HTTPStatus(),
	}

	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	ctx := c.Request().Context()
	switch err.Type {
	case apperrors.TypeValidation:
		slog.InfoContext(ctx, "Validation error", attrs...)
	case apperrors.TypeNotFound:
		slog.InfoContext(ctx, "Not found", attrs...)
	case apperrors.TypeUnavailable:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.WarnContext(ctx, "Service unavailable", attrs...)
	case apperrors.TypeInternal:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.ErrorContext(ctx, "Internal error", attrs...)
	default:
		slog.ErrorContext(ctx, "Unknown error type", attrs...)
	}
}

func HandleError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	structuredErr := apperrors.AsStructuredError(err)
	logError(c, structuredErr)
	if err := c.JSON(structuredErr.HTTPStatus(), structuredErr.ToResponse()); err != nil {
		return fmt.Errorf("failed to write error response: %w", err)
	}
	return nil
}

// handleHTTPError renders echo's own errors (unknown routes, oversized bodies,
// rejected methods) in the structured error format, keeping their status code.
func handleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		if hErr := HandleError(c, err); hErr != nil {
			slog.ErrorContext(c.Request().Context(), "Failed to write error response", "error", hErr)
		}
		return
	}

	structuredErr := WrapHTTPError(httpErr)
	logError(c, structuredErr)
	if err := c.JSON(httpErr.Code, structuredErr.ToResponse()); err != nil {
		slog.ErrorContext(c.Request().Context(), "Failed to write error response", "error", err)
	}
}

// WrapHTTPError converts an echo error into a structured error.
func WrapHTTPError(httpErr *echo.HTTPError) *apperrors.Error {
	message := http.StatusText(httpErr.Code)
	if msg, ok := httpErr.Message.(string); ok && msg != "" {
		message = msg
	}
	if message == "" {
		message = "internal server error"
	}

	var errType apperrors.ErrorType
	switch {
	case httpErr.Code == http.StatusNotFound:
		errType = apperrors.TypeNotFound
	case httpErr.Code == http.StatusServiceUnavailable:
		errType = apperrors.TypeUnavailable
	case httpErr.Code >= 400 && httpErr.Code < 500:
		errType = apperrors.TypeValidation
	default:
		errType = apperrors.TypeInternal
	}

	err := &apperrors.Error{
		Type:    errType,
		Message: message,
		Context: make(map[string]any),
	}

	if httpErr.Internal != nil {
		err.Cause = httpErr.Internal
	}

	return err
}
