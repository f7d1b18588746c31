// Package artifact loads the classifier, vectorizer and label encoder once
// per process and hands out the same instances on every call.
package artifact

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rahmamo1/Sentiment-Analysis/internal/domain"
	"github.com/rahmamo1/Sentiment-Analysis/internal/labels"
	"github.com/rahmamo1/Sentiment-Analysis/internal/nn"
	"github.com/rahmamo1/Sentiment-Analysis/internal/onnx"
	"github.com/rahmamo1/Sentiment-Analysis/internal/tfidf"
)

// Paths locates the three artifacts on disk.
type Paths struct {
	Classifier   string
	Vectorizer   string
	LabelEncoder string
	// ONNXRuntimeLib is only consulted for .onnx classifiers.
	ONNXRuntimeLib string
}

// DefaultPaths returns the artifact locations relative to dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Classifier:   filepath.Join(dir, "best_lstm_model.safetensors"),
		Vectorizer:   filepath.Join(dir, "tfidf_vectorizer.json"),
		LabelEncoder: filepath.Join(dir, "label_encoder.json"),
	}
}

// Backend names the classifier implementation a path selects.
func (p Paths) Backend() string {
	return domain.ClassifierBackend(p.Classifier)
}

// LoadRecorder receives the outcome of a successful load.
type LoadRecorder interface {
	RecordArtifactLoad(duration time.Duration, backend string, features, classes int)
}

// Loader reads the artifacts on the first Load call. Later calls return the
// cached result, including a cached failure.
type Loader struct {
	paths    Paths
	clock    clockwork.Clock
	recorder LoadRecorder

	once      sync.Once
	artifacts *domain.Artifacts
	info      domain.ModelInfo
	err       error
	loaded    atomic.Bool
}

// NewLoader creates a loader for paths. recorder may be nil.
func NewLoader(paths Paths, clock clockwork.Clock, recorder LoadRecorder) *Loader {
	return &Loader{paths: paths, clock: clock, recorder: recorder}
}

// Load returns the process-wide artifacts, reading them on first use.
func (l *Loader) Load() (*domain.Artifacts, error) {
	l.once.Do(func() {
		start := l.clock.Now()
		l.artifacts, l.err = l.read()
		if l.err != nil {
			return
		}

		elapsed := l.clock.Since(start)
		l.info = describe(l.paths.Backend(), l.artifacts)
		l.loaded.Store(true)
		if l.recorder != nil {
			l.recorder.RecordArtifactLoad(elapsed, l.info.Backend, l.info.Features, len(l.info.Classes))
		}
		slog.Info("Artifacts loaded",
			"backend", l.info.Backend,
			"architecture", l.info.Architecture,
			"features", l.info.Features,
			"classes", l.info.Classes,
			"duration", elapsed)
	})
	return l.artifacts, l.err
}

// Loaded reports whether a Load call has completed successfully.
func (l *Loader) Loaded() bool {
	return l.loaded.Load()
}

// Info describes the loaded artifacts. ok is false until a Load succeeds.
func (l *Loader) Info() (info domain.ModelInfo, ok bool) {
	if !l.Loaded() {
		return domain.ModelInfo{}, false
	}
	return l.info, true
}

// Close releases classifier resources held outside the Go heap.
func (l *Loader) Close() error {
	if !l.Loaded() {
		return nil
	}
	if c, ok := l.artifacts.Classifier.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (l *Loader) read() (*domain.Artifacts, error) {
	vectorizer, err := tfidf.Load(l.paths.Vectorizer)
	if err != nil {
		return nil, fmt.Errorf("load vectorizer: %w", err)
	}

	encoder, err := labels.Load(l.paths.LabelEncoder)
	if err != nil {
		return nil, fmt.Errorf("load label encoder: %w", err)
	}

	classifier, err := l.readClassifier()
	if err != nil {
		return nil, fmt.Errorf("load classifier: %w", err)
	}

	if err := checkCompatible(classifier, vectorizer, encoder); err != nil {
		if c, ok := classifier.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}

	return &domain.Artifacts{
		Classifier: classifier,
		Vectorizer: vectorizer,
		Labels:     encoder,
	}, nil
}

func (l *Loader) readClassifier() (domain.Classifier, error) {
	if l.paths.Backend() == domain.BackendONNX {
		return onnx.New(l.paths.Classifier, l.paths.ONNXRuntimeLib)
	}
	return nn.Load(l.paths.Classifier)
}

func describe(backend string, a *domain.Artifacts) domain.ModelInfo {
	info := domain.ModelInfo{
		Backend:  backend,
		Features: a.Vectorizer.Features(),
		Classes:  a.Labels.Labels(),
	}
	if m, ok := a.Classifier.(*nn.Model); ok {
		for _, layer := range m.Architecture() {
			info.Architecture = append(info.Architecture, layer.String())
		}
	}
	return info
}

// checkCompatible enforces that the vectorizer feeds the classifier and that
// every classifier output has a label.
func checkCompatible(c domain.Classifier, v domain.Vectorizer, d domain.LabelDecoder) error {
	if v.Features() != c.InputWidth() {
		return fmt.Errorf("%w: vectorizer produces %d features, classifier expects %d",
			domain.ErrDimensionMismatch, v.Features(), c.InputWidth())
	}
	if n := len(d.Labels()); n != c.Classes() {
		return fmt.Errorf("%w: label encoder has %d classes, classifier outputs %d",
			domain.ErrDimensionMismatch, n, c.Classes())
	}
	return nil
}
