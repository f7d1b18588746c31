package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rahmamo1/Sentiment-Analysis/internal/domain"
)

// InferenceMetrics holds Prometheus metrics for the inference pipeline.
type InferenceMetrics struct {
	Predictions        *prometheus.CounterVec
	Duration           prometheus.Histogram
	ValidationFailures *prometheus.CounterVec
	Errors             prometheus.Counter
}

// NewInferenceMetrics creates and registers inference metrics on the given registry.
func NewInferenceMetrics(reg prometheus.Registerer) *InferenceMetrics {
	m := &InferenceMetrics{
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Total number of predictions, by bucket.",
		}, []string{"bucket"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Duration of one vectorize and forward pass in seconds.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Total number of rejected inputs, by reason.",
		}, []string{"reason"}),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_errors_total",
			Help:      "Total number of failed forward passes.",
		}),
	}

	reg.MustRegister(m.Predictions, m.Duration, m.ValidationFailures, m.Errors)
	return m
}

func (m *InferenceMetrics) RecordPrediction(bucket domain.Bucket, duration time.Duration) {
	m.Predictions.WithLabelValues(string(bucket)).Inc()
	m.Duration.Observe(duration.Seconds())
}

func (m *InferenceMetrics) RecordValidationFailure(reason string) {
	m.ValidationFailures.WithLabelValues(reason).Inc()
}

func (m *InferenceMetrics) RecordInferenceError() {
	m.Errors.Inc()
}
