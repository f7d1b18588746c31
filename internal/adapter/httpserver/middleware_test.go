package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahmamo1/Sentiment-Analysis/internal/domain"
	"github.com/rahmamo1/Sentiment-Analysis/internal/platform/config"
	"github.com/rahmamo1/Sentiment-Analysis/internal/platform/correlation"
	apperrors "github.com/rahmamo1/Sentiment-Analysis/internal/platform/errors"
)

func TestMiddlewareWithStructuredError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ErrorHandlingMiddleware()(func(c echo.Context) error {
		return apperrors.ValidationError("invalid input")
	})

	err := handler(c)
	require.NoError(t, err) // ErrorHandlingMiddleware handles the error, doesn't return it

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid input", resp.Error)
	assert.Equal(t, apperrors.TypeValidation, resp.Type)
}

func TestMiddlewareWithStandardError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ErrorHandlingMiddleware()(func(c echo.Context) error {
		return errors.New("standard error")
	})

	err := handler(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Error)
	assert.Equal(t, apperrors.TypeInternal, resp.Type)
}

func TestMiddlewareWithNoError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ErrorHandlingMiddleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, "success")
	})

	err := handler(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", rec.Body.String())
}

func TestMiddlewarePassesHTTPErrorsThrough(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/test", nil), httptest.NewRecorder())

	httpErr := echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too large")
	handler := ErrorHandlingMiddleware()(func(c echo.Context) error {
		return httpErr
	})

	assert.Equal(t, httpErr, handler(c))
}

func TestMiddlewareWithContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := ErrorHandlingMiddleware()(func(c echo.Context) error {
		return apperrors.NotFoundError("unknown example").
			WithField("example", "sarcastic")
	})

	err := handler(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unknown example", resp.Error)
	assert.Equal(t, apperrors.TypeNotFound, resp.Type)
	assert.Equal(t, "sarcastic", resp.Context["example"])
}

func TestMiddlewareAllErrorTypes(t *testing.T) {
	tests := []struct {
		name       string
		err        *apperrors.Error
		wantStatus int
		wantType   apperrors.ErrorType
	}{
		{
			name:       "validation",
			err:        apperrors.ValidationError("invalid"),
			wantStatus: http.StatusBadRequest,
			wantType:   apperrors.TypeValidation,
		},
		{
			name:       "not_found",
			err:        apperrors.NotFoundError("missing"),
			wantStatus: http.StatusNotFound,
			wantType:   apperrors.TypeNotFound,
		},
		{
			name:       "internal",
			err:        apperrors.InternalError("failed", errors.New("cause")),
			wantStatus: http.StatusInternalServerError,
			wantType:   apperrors.TypeInternal,
		},
		{
			name:       "unavailable",
			err:        apperrors.UnavailableError("model is not available", errors.New("missing file")),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   apperrors.TypeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := ErrorHandlingMiddleware()(func(c echo.Context) error {
				return tt.err
			})

			err := handler(c)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp apperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantType, resp.Type)
		})
	}
}

func TestHandleError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := HandleError(c, apperrors.ValidationError("test"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "test", resp.Error)
	assert.Equal(t, apperrors.TypeValidation, resp.Type)
}

func TestHandleErrorWithNil(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := HandleError(c, nil)
	assert.NoError(t, err)
}

func TestWrapHTTPError(t *testing.T) {
	tests := []struct {
		name     string
		httpErr  *echo.HTTPError
		wantType apperrors.ErrorType
	}{
		{
			name:     "bad_request",
			httpErr:  echo.NewHTTPError(http.StatusBadRequest, "bad request"),
			wantType: apperrors.TypeValidation,
		},
		{
			name:     "not_found",
			httpErr:  echo.NewHTTPError(http.StatusNotFound, "not found"),
			wantType: apperrors.TypeNotFound,
		},
		{
			name:     "body_too_large",
			httpErr:  echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too large"),
			wantType: apperrors.TypeValidation,
		},
		{
			name:     "service_unavailable",
			httpErr:  echo.NewHTTPError(http.StatusServiceUnavailable, "unavailable"),
			wantType: apperrors.TypeUnavailable,
		},
		{
			name:     "internal_server_error",
			httpErr:  echo.NewHTTPError(http.StatusInternalServerError, "internal error"),
			wantType: apperrors.TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapHTTPError(tt.httpErr)
			assert.Equal(t, tt.wantType, err.Type)
		})
	}
}

func TestWrapHTTPErrorWithInternalCause(t *testing.T) {
	cause := errors.New("underlying cause")
	httpErr := echo.NewHTTPError(http.StatusInternalServerError, "wrapped")
	httpErr.Internal = cause

	err := WrapHTTPError(httpErr)

	assert.Equal(t, apperrors.TypeInternal, err.Type)
	assert.Equal(t, cause, err.Cause)
}

func TestWrapHTTPErrorWithNonStringMessage(t *testing.T) {
	httpErr := echo.NewHTTPError(http.StatusBadRequest, 12345)

	err := WrapHTTPError(httpErr)

	assert.Equal(t, "Bad Request", err.Message) // Falls back to the status text
	assert.Equal(t, apperrors.TypeValidation, err.Type)
}

func TestUnknownRouteRendersStructuredError(t *testing.T) {
	srv := newTestServer(t, &mockAnalyzer{})

	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.TypeNotFound, resp.Type)
}

func TestBodyLimit(t *testing.T) {
	srv := newTestServer(t, &mockAnalyzer{})

	body := "text=" + strings.Repeat("a", 70*1024)
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestBodyLimit_FollowsMaxInputLength(t *testing.T) {
	analyzer := &mockAnalyzer{analyzeFn: func(context.Context, string) (*domain.Prediction, error) {
		return nil, domain.ErrInputTooLong
	}}
	srv := newTestServer(t, analyzer, withConfig(func(cfg *config.Config) {
		cfg.MaxInputLength = 20000
	}))

	body := "text=" + strings.Repeat("a", 70*1024)
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "at most 20000 characters")
	assert.Len(t, analyzer.calls, 1)
}

func TestBodyLimitSize(t *testing.T) {
	assert.Equal(t, "65536B", bodyLimit(5000))
	assert.Equal(t, "244096B", bodyLimit(20000))
}

func TestRequestID_GeneratedWhenMissing(t *testing.T) {
	srv := newTestServer(t, &mockAnalyzer{})

	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	id := rec.Header().Get(correlation.Header)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRequestID_ValidIncomingKept(t *testing.T) {
	srv := newTestServer(t, &mockAnalyzer{})
	incoming := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(correlation.Header, incoming)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, incoming, rec.Header().Get(correlation.Header))
}

func TestRequestID_MalformedIncomingReplaced(t *testing.T) {
	srv := newTestServer(t, &mockAnalyzer{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(correlation.Header, "x\nforged=1")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	id := rec.Header().Get(correlation.Header)
	assert.NotEqual(t, "x\nforged=1", id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRequestID_ReachesHandlerContext(t *testing.T) {
	srv := newTestServer(t, &mockAnalyzer{})

	var seen string
	srv.echo.GET("/probe", func(c echo.Context) error {
		seen, _ = correlation.ID(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, rec.Header().Get(correlation.Header), seen)
}
