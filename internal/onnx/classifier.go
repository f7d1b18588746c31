// Package onnx serves a sentiment classifier exported to ONNX through the
// ONNX Runtime shared library.
//
// The model must take one float input shaped [batch, timesteps, features]
// and produce one float output shaped [batch, classes] holding
// probabilities, which is what exporting the Keras LSTM produces.
package onnx

import (
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/rahmamo1/Sentiment-Analysis/internal/domain"
)

// environment is initialized once per process; the library path of the first
// caller wins.
var environment struct {
	once sync.Once
	err  error
}

func initRuntime(libPath string) error {
	environment.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		environment.err = ort.InitializeEnvironment()
	})
	return environment.err
}

// Classifier runs predictions through an ONNX Runtime session.
type Classifier struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	features   int64
	classes    int64
}

// New loads the model at modelPath using the runtime library at libPath.
func New(modelPath, libPath string) (*Classifier, error) {
	if libPath == "" {
		return nil, errors.New("onnx: runtime library path is required")
	}
	if err := initRuntime(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	sig, err := inspect(inputs, outputs)
	if err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	_ = opts.SetIntraOpNumThreads(2)
	_ = opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{sig.input}, []string{sig.output}, opts)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &Classifier{
		session:    session,
		inputName:  sig.input,
		outputName: sig.output,
		features:   sig.features,
		classes:    sig.classes,
	}, nil
}

type signature struct {
	input, output     string
	features, classes int64
}

// inspect checks the model's declared tensors. Batch and timestep dimensions
// may be dynamic; feature and class dimensions must be fixed.
func inspect(inputs, outputs []ort.InputOutputInfo) (signature, error) {
	if len(inputs) != 1 {
		return signature{}, fmt.Errorf("onnx: expected exactly 1 input, got %d", len(inputs))
	}
	if len(outputs) != 1 {
		return signature{}, fmt.Errorf("onnx: expected exactly 1 output, got %d", len(outputs))
	}

	in, out := inputs[0], outputs[0]
	if len(in.Dimensions) != 3 {
		return signature{}, fmt.Errorf("onnx: expected 3D input [batch, timesteps, features], got %v", in.Dimensions)
	}
	if len(out.Dimensions) != 2 {
		return signature{}, fmt.Errorf("onnx: expected 2D output [batch, classes], got %v", out.Dimensions)
	}
	if in.DataType != ort.TensorElementDataTypeFloat || out.DataType != ort.TensorElementDataTypeFloat {
		return signature{}, errors.New("onnx: input and output must be float32 tensors")
	}

	features, classes := in.Dimensions[2], out.Dimensions[1]
	if features <= 0 {
		return signature{}, fmt.Errorf("onnx: input feature dimension must be fixed, got %d", features)
	}
	if classes <= 0 {
		return signature{}, fmt.Errorf("onnx: output class dimension must be fixed, got %d", classes)
	}

	return signature{input: in.Name, output: out.Name, features: features, classes: classes}, nil
}

// InputWidth returns the feature count expected at every timestep.
func (c *Classifier) InputWidth() int {
	return int(c.features)
}

// Classes returns the length of every distribution Predict produces.
func (c *Classifier) Classes() int {
	return int(c.classes)
}

// Predict runs seq as a batch of one.
func (c *Classifier) Predict(seq domain.Sequence) (domain.Distribution, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("%w: empty sequence", domain.ErrDimensionMismatch)
	}

	flat := make([]float32, 0, len(seq)*int(c.features))
	for t, x := range seq {
		if len(x) != int(c.features) {
			return nil, fmt.Errorf("%w: timestep %d has %d features, classifier expects %d",
				domain.ErrDimensionMismatch, t, len(x), c.features)
		}
		for _, v := range x {
			flat = append(flat, float32(v))
		}
	}

	in, err := ort.NewTensor(ort.NewShape(1, int64(len(seq)), c.features), flat)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer in.Destroy()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, c.classes))
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer out.Destroy()

	if err := c.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	src := out.GetData()
	dist := make(domain.Distribution, len(src))
	for i, v := range src {
		dist[i] = float64(v)
	}
	return dist, nil
}

// Close releases the session.
func (c *Classifier) Close() error {
	return c.session.Destroy()
}
