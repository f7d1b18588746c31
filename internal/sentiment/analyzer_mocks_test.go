package sentiment

import (
	"sync"
	"time"

	"github.com/rahmamo1/Sentiment-Analysis/internal/domain"
)

type mockSource struct {
	artifacts *domain.Artifacts
	err       error
	calls     int
}

func (m *mockSource) Load() (*domain.Artifacts, error) {
	m.calls++
	return m.artifacts, m.err
}

type mockVectorizer struct {
	vectorizeFn func(text string) (domain.FeatureVector, error)
	features    int
}

func (m *mockVectorizer) Vectorize(text string) (domain.FeatureVector, error) {
	return m.vectorizeFn(text)
}

func (m *mockVectorizer) Features() int { return m.features }

type mockClassifier struct {
	predictFn func(seq domain.Sequence) (domain.Distribution, error)
	width     int
	classes   int
}

func (m *mockClassifier) Predict(seq domain.Sequence) (domain.Distribution, error) {
	return m.predictFn(seq)
}

func (m *mockClassifier) InputWidth() int { return m.width }
func (m *mockClassifier) Classes() int    { return m.classes }

type mockDecoder struct {
	labels []string
}

func (m *mockDecoder) Decode(i int) (string, error) {
	if i < 0 || i >= len(m.labels) {
		return "", domain.ErrUnknownClass
	}
	return m.labels[i], nil
}

func (m *mockDecoder) Labels() []string { return m.labels }

type mockRecorder struct {
	mu          sync.Mutex
	predictions []domain.Bucket
	failures    []string
	errors      int
}

func (m *mockRecorder) RecordPrediction(bucket domain.Bucket, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions = append(m.predictions, bucket)
}

func (m *mockRecorder) RecordValidationFailure(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, reason)
}

func (m *mockRecorder) RecordInferenceError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors++
}

// fixedArtifacts returns artifacts whose classifier always yields dist.
func fixedArtifacts(labels []string, dist domain.Distribution) *domain.Artifacts {
	return &domain.Artifacts{
		Vectorizer: &mockVectorizer{
			vectorizeFn: func(string) (domain.FeatureVector, error) { return domain.FeatureVector{1, 0}, nil },
			features:    2,
		},
		Classifier: &mockClassifier{
			predictFn: func(domain.Sequence) (domain.Distribution, error) { return dist, nil },
			width:     2,
			classes:   len(dist),
		},
		Labels: &mockDecoder{labels: labels},
	}
}
