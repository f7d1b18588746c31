// Package correlation carries a per-request ID through contexts and log records.
package correlation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Header is the HTTP header used to propagate correlation IDs.
const Header = "X-Request-ID"

type contextKey struct{}

// NewID generates a random UUIDv4 correlation ID.
func NewID() string {
	return uuid.NewString()
}

// Resolve returns incoming when it is a well-formed UUID, otherwise a new ID.
// Arbitrary client input never reaches the logs.
func Resolve(incoming string) string {
	if incoming == "" {
		return NewID()
	}
	id, err := uuid.Parse(incoming)
	if err != nil {
		return NewID()
	}
	return id.String()
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// ID extracts the correlation ID from ctx, returning ("", false) if not present.
func ID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// Handler wraps a slog.Handler and adds a "correlation_id" attribute to every
// record whose context carries one.
type Handler struct {
	inner slog.Handler
}

func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ID(ctx); ok {
		r.AddAttrs(slog.String("correlation_id", id))
	}
	if err := h.inner.Handle(ctx, r); err != nil {
		return fmt.Errorf("correlation handler: %w", err)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}
