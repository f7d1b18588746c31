package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ArtifactMetrics describes the artifacts loaded at startup.
type ArtifactMetrics struct {
	LoadDuration prometheus.Gauge
	Info         *prometheus.GaugeVec
}

// NewArtifactMetrics creates and registers artifact metrics on the given registry.
func NewArtifactMetrics(reg prometheus.Registerer) *ArtifactMetrics {
	m := &ArtifactMetrics{
		LoadDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "artifact",
			Name:      "load_duration_seconds",
			Help:      "Time spent loading the classifier, vectorizer and label encoder.",
		}),
		Info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "artifact",
			Name:      "info",
			Help:      "Loaded artifact shape; always 1.",
		}, []string{"classifier", "vectorizer_features", "classes"}),
	}

	reg.MustRegister(m.LoadDuration, m.Info)
	return m
}

func (m *ArtifactMetrics) RecordArtifactLoad(duration time.Duration, backend string, features, classes int) {
	m.LoadDuration.Set(duration.Seconds())
	m.Info.WithLabelValues(backend, strconv.Itoa(features), strconv.Itoa(classes)).Set(1)
}
