package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"

	"github.com/rahmamo1/Sentiment-Analysis/internal/domain"
)

// Validation failure reasons reported to the Recorder.
const (
	ReasonEmpty   = "empty"
	ReasonTooLong = "too_long"
)

// ArtifactSource hands out the loaded artifacts.
type ArtifactSource interface {
	Load() (*domain.Artifacts, error)
}

// Recorder observes pipeline outcomes.
type Recorder interface {
	RecordPrediction(bucket domain.Bucket, duration time.Duration)
	RecordValidationFailure(reason string)
	RecordInferenceError()
}

// Analyzer runs the inference pipeline for one text at a time. It is safe
// for concurrent use.
type Analyzer struct {
	source         ArtifactSource
	clock          clockwork.Clock
	recorder       Recorder
	maxInputLength int
}

// NewAnalyzer creates an Analyzer. recorder may be nil; maxInputLength <= 0
// disables the length check.
func NewAnalyzer(source ArtifactSource, clock clockwork.Clock, recorder Recorder, maxInputLength int) *Analyzer {
	return &Analyzer{
		source:         source,
		clock:          clock,
		recorder:       recorder,
		maxInputLength: maxInputLength,
	}
}

// Validate rejects blank input and input longer than the configured maximum.
func (a *Analyzer) Validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptyInput
	}
	if a.maxInputLength > 0 {
		if n := utf8.RuneCountInString(text); n > a.maxInputLength {
			return fmt.Errorf("%w: %d characters, at most %d allowed", domain.ErrInputTooLong, n, a.maxInputLength)
		}
	}
	return nil
}

// Analyze predicts the sentiment of text. Validation happens before any
// artifact is touched; once the forward pass starts it runs to completion.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*domain.Prediction, error) {
	if err := a.Validate(text); err != nil {
		a.validationFailed(ctx, err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	artifacts, err := a.source.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrArtifactsNotLoaded, err)
	}

	start := a.clock.Now()
	p, err := predict(artifacts, text)
	if err != nil {
		if a.recorder != nil {
			a.recorder.RecordInferenceError()
		}
		slog.ErrorContext(ctx, "Inference failed", "error", err)
		return nil, err
	}
	elapsed := a.clock.Since(start)

	if a.recorder != nil {
		a.recorder.RecordPrediction(p.Bucket, elapsed)
	}
	slog.DebugContext(ctx, "Sentiment predicted",
		"label", p.Label,
		"bucket", p.Bucket,
		"confidence", p.Confidence,
		"duration", elapsed)

	return p, nil
}

func (a *Analyzer) validationFailed(ctx context.Context, err error) {
	reason := ReasonEmpty
	if errors.Is(err, domain.ErrInputTooLong) {
		reason = ReasonTooLong
	}
	if a.recorder != nil {
		a.recorder.RecordValidationFailure(reason)
	}
	slog.InfoContext(ctx, "Rejected input", "reason", reason)
}

// predict is the pure pipeline: vectorize, reshape to one timestep, forward
// pass, argmax, decode.
func predict(artifacts *domain.Artifacts, text string) (*domain.Prediction, error) {
	features, err := artifacts.Vectorizer.Vectorize(text)
	if err != nil {
		return nil, fmt.Errorf("vectorize: %w", err)
	}

	dist, err := artifacts.Classifier.Predict(domain.Sequence{features})
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(dist) == 0 {
		return nil, fmt.Errorf("predict: %w: empty distribution", domain.ErrDimensionMismatch)
	}

	idx := argmax(dist)
	label, err := artifacts.Labels.Decode(idx)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return &domain.Prediction{
		Label:        label,
		Index:        idx,
		Confidence:   dist[idx] * 100,
		Bucket:       BucketFor(label),
		Distribution: dist,
		Classes:      artifacts.Labels.Labels(),
	}, nil
}

// argmax returns the index of the largest value; ties go to the first.
func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
