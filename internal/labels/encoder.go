// Package labels implements the fitted label encoder that maps classifier
// output positions to label strings.
package labels

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rahmamo1/Sentiment-Analysis/internal/domain"
)

// Encoder is an immutable bidirectional mapping between class indices and labels.
type Encoder struct {
	classes []string
	index   map[string]int
}

type encoderFile struct {
	Classes []string `json:"classes"`
}

// Load reads a label encoder export of the form {"classes": [...]}.
// Class order is the classifier's output order.
func Load(path string) (*Encoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("label encoder: %w", err)
	}

	var f encoderFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("label encoder: failed to parse %s: %w", path, err)
	}

	enc, err := New(f.Classes)
	if err != nil {
		return nil, fmt.Errorf("label encoder: %s: %w", path, err)
	}
	return enc, nil
}

// New builds an encoder from classes in index order.
func New(classes []string) (*Encoder, error) {
	if len(classes) == 0 {
		return nil, errors.New("no classes")
	}

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		if strings.TrimSpace(c) == "" {
			return nil, fmt.Errorf("class %d is empty", i)
		}
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate class %q", c)
		}
		index[c] = i
	}

	cp := make([]string, len(classes))
	copy(cp, classes)
	return &Encoder{classes: cp, index: index}, nil
}

// Decode returns the label at a class index.
func (e *Encoder) Decode(index int) (string, error) {
	if index < 0 || index >= len(e.classes) {
		return "", fmt.Errorf("%w: index %d outside [0, %d)", domain.ErrUnknownClass, index, len(e.classes))
	}
	return e.classes[index], nil
}

// Encode returns the class index of a label.
func (e *Encoder) Encode(label string) (int, error) {
	i, ok := e.index[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownClass, label)
	}
	return i, nil
}

// Labels returns a copy of the known labels in index order.
func (e *Encoder) Labels() []string {
	cp := make([]string, len(e.classes))
	copy(cp, e.classes)
	return cp
}

func (e *Encoder) Len() int {
	return len(e.classes)
}
