package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := ValidationError("text is required")

	assert.Equal(t, TypeValidation, err.Type)
	assert.Equal(t, "text is required", err.Message)
	assert.Nil(t, err.Cause)
	assert.NotNil(t, err.Context)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.Equal(t, "validation: text is required", err.Error())
}

func TestInternalError(t *testing.T) {
	cause := fmt.Errorf("dimension mismatch")
	err := InternalError("failed to analyze text", cause)

	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, cause, err.Cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.Contains(t, err.Error(), "failed to analyze text")
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestInternalErrorWithoutCause(t *testing.T) {
	err := InternalError("something went wrong", nil)

	assert.NotContains(t, err.Error(), "<nil>")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"validation", ValidationError("x"), http.StatusBadRequest},
		{"not found", NotFoundError("x"), http.StatusNotFound},
		{"internal", InternalError("x", nil), http.StatusInternalServerError},
		{"unavailable", UnavailableError("x", nil), http.StatusServiceUnavailable},
		{"unknown type", &Error{Type: "bogus"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestWithField(t *testing.T) {
	err := ValidationError("text too long").
		WithField("length", 6000).
		WithField("max_length", 5000)

	assert.Len(t, err.Context, 2)
	assert.Equal(t, 6000, err.Context["length"])
	assert.Equal(t, 5000, err.Context["max_length"])
}

func TestWithFieldNilMap(t *testing.T) {
	err := &Error{Type: TypeValidation, Message: "test"}
	err = err.WithField("key", "value")

	require.NotNil(t, err.Context)
	assert.Equal(t, "value", err.Context["key"])
}

func TestUnwrap(t *testing.T) {
	sentinel := errors.New("artifact missing")
	err := UnavailableError("model not ready", fmt.Errorf("load: %w", sentinel))

	assert.ErrorIs(t, err, sentinel)
}

func TestToResponse(t *testing.T) {
	err := InternalError("failed to analyze text", errors.New("secret detail")).
		WithField("classifier", "lstm")

	resp := err.ToResponse()

	assert.Equal(t, "failed to analyze text", resp.Error)
	assert.Equal(t, TypeInternal, resp.Type)
	assert.Equal(t, "lstm", resp.Context["classifier"])
}

func TestAsStructuredError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, AsStructuredError(nil))
	})

	t.Run("already structured", func(t *testing.T) {
		orig := ValidationError("bad")
		assert.Same(t, orig, AsStructuredError(orig))
	})

	t.Run("wrapped structured", func(t *testing.T) {
		orig := NotFoundError("missing")
		wrapped := fmt.Errorf("handler: %w", orig)
		assert.Same(t, orig, AsStructuredError(wrapped))
	})

	t.Run("plain error", func(t *testing.T) {
		plain := errors.New("boom")
		got := AsStructuredError(plain)

		assert.Equal(t, TypeInternal, got.Type)
		assert.Equal(t, "internal server error", got.Message)
		assert.Equal(t, plain, got.Cause)
	})
}
