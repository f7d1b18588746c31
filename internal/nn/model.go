// Package nn runs inference for small recurrent sentiment classifiers stored
// as safetensors files.
//
// The architecture travels in the file's metadata under "architecture" as a
// JSON list of layers; weights are F32 tensors named "<layer>.kernel",
// "<layer>.recurrent_kernel" and "<layer>.bias". Supported layers are lstm,
// dense and dropout (identity at inference). The network must end in a dense
// softmax layer.
package nn

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rahmamo1/Sentiment-Analysis/internal/domain"
)

// Model is an immutable, loaded sequence classifier. Predict is safe for
// concurrent use.
type Model struct {
	recurrent  []*lstm
	head       []*dense
	inputWidth int
	classes    int
	arch       []LayerSpec
}

// Load reads a classifier from a safetensors file.
func Load(path string) (*Model, error) {
	f, err := ReadSafetensors(path)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	m, err := FromTensorFile(f)
	if err != nil {
		return nil, fmt.Errorf("classifier: %s: %w", path, err)
	}
	return m, nil
}

// FromTensorFile builds a model from the architecture stored in the file's
// metadata.
func FromTensorFile(f *TensorFile) (*Model, error) {
	raw, ok := f.Metadata["architecture"]
	if !ok {
		return nil, errors.New("metadata has no architecture")
	}

	var arch []LayerSpec
	if err := json.Unmarshal([]byte(raw), &arch); err != nil {
		return nil, fmt.Errorf("invalid architecture: %w", err)
	}
	return Build(arch, f)
}

// Build assembles a model from layer specs and weights.
func Build(arch []LayerSpec, f *TensorFile) (*Model, error) {
	m := &Model{inputWidth: -1, arch: arch}

	width := -1
	sequence := true
	var last *LayerSpec

	for i := range arch {
		spec := arch[i]
		switch spec.Type {
		case "lstm":
			if !sequence {
				return nil, fmt.Errorf("lstm %q follows a layer that does not return sequences", spec.Name)
			}
			if len(m.head) > 0 {
				return nil, fmt.Errorf("lstm %q follows a dense layer", spec.Name)
			}
			l, err := newLSTM(spec, f, width)
			if err != nil {
				return nil, err
			}
			if m.inputWidth < 0 {
				m.inputWidth = l.in
			}
			m.recurrent = append(m.recurrent, l)
			width = l.units
			sequence = l.returnSeq
		case "dense":
			if len(m.recurrent) == 0 {
				return nil, fmt.Errorf("dense %q precedes any lstm layer", spec.Name)
			}
			if sequence {
				return nil, fmt.Errorf("dense %q needs a vector input; the last lstm must not return sequences", spec.Name)
			}
			d, err := newDense(spec, f, width)
			if err != nil {
				return nil, err
			}
			m.head = append(m.head, d)
			width = d.units
		case "dropout":
			continue
		default:
			return nil, fmt.Errorf("unsupported layer type %q", spec.Type)
		}
		last = &arch[i]
	}

	if len(m.recurrent) == 0 {
		return nil, errors.New("architecture has no lstm layer")
	}
	if last == nil || last.Type != "dense" || last.Activation != "softmax" {
		return nil, errors.New("final layer must be a dense layer with softmax activation")
	}

	m.classes = width
	return m, nil
}

// InputWidth returns the feature count expected at every timestep.
func (m *Model) InputWidth() int {
	return m.inputWidth
}

// Classes returns the length of every distribution Predict produces.
func (m *Model) Classes() int {
	return m.classes
}

// Architecture returns the layer specs the model was built from.
func (m *Model) Architecture() []LayerSpec {
	cp := make([]LayerSpec, len(m.arch))
	copy(cp, m.arch)
	return cp
}

// Predict runs one forward pass over seq and returns the class distribution.
func (m *Model) Predict(seq domain.Sequence) (domain.Distribution, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("%w: empty sequence", domain.ErrDimensionMismatch)
	}
	for t, x := range seq {
		if len(x) != m.inputWidth {
			return nil, fmt.Errorf("%w: timestep %d has %d features, classifier expects %d",
				domain.ErrDimensionMismatch, t, len(x), m.inputWidth)
		}
	}

	states := [][]float64(seq)
	for _, l := range m.recurrent {
		states = l.forward(states)
	}

	x := states[len(states)-1]
	for _, d := range m.head {
		x = d.forward(x)
	}
	return x, nil
}
