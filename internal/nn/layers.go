package nn

import "fmt"

// LayerSpec describes one layer of the stored architecture.
type LayerSpec struct {
	Type                string  `json:"type"`
	Name                string  `json:"name"`
	Units               int     `json:"units"`
	Activation          string  `json:"activation,omitempty"`
	RecurrentActivation string  `json:"recurrent_activation,omitempty"`
	ReturnSequences     bool    `json:"return_sequences,omitempty"`
	Rate                float64 `json:"rate,omitempty"`
}

// String summarizes the layer, e.g. "lstm(64)" or "dense(3, softmax)".
func (s LayerSpec) String() string {
	switch s.Type {
	case "lstm":
		return fmt.Sprintf("lstm(%d)", s.Units)
	case "dense":
		return fmt.Sprintf("dense(%d, %s)", s.Units, defaultString(s.Activation, "linear"))
	case "dropout":
		return fmt.Sprintf("dropout(%g)", s.Rate)
	default:
		return s.Type
	}
}

// lstm is a unidirectional LSTM layer with gate order i, f, c, o.
type lstm struct {
	name      string
	in, units int
	kernel    []float64 // [in, 4*units]
	recurrent []float64 // [units, 4*units]
	bias      []float64 // [4*units]
	act       activation
	recAct    activation
	returnSeq bool
}

func newLSTM(spec LayerSpec, f *TensorFile, in int) (*lstm, error) {
	if spec.Units <= 0 {
		return nil, fmt.Errorf("lstm %q: units must be positive", spec.Name)
	}
	u := spec.Units

	kernelName := spec.Name + ".kernel"
	if in < 0 {
		k, ok := f.Tensors[kernelName]
		if !ok || len(k.Shape) != 2 {
			return nil, fmt.Errorf("lstm %q: tensor %q not found or not 2D", spec.Name, kernelName)
		}
		in = k.Shape[0]
	}

	kernel, err := f.tensor(kernelName, in, 4*u)
	if err != nil {
		return nil, fmt.Errorf("lstm %q: %w", spec.Name, err)
	}
	recurrent, err := f.tensor(spec.Name+".recurrent_kernel", u, 4*u)
	if err != nil {
		return nil, fmt.Errorf("lstm %q: %w", spec.Name, err)
	}
	bias, err := f.tensor(spec.Name+".bias", 4*u)
	if err != nil {
		return nil, fmt.Errorf("lstm %q: %w", spec.Name, err)
	}

	act, err := elementwise(defaultString(spec.Activation, "tanh"))
	if err != nil {
		return nil, fmt.Errorf("lstm %q: %w", spec.Name, err)
	}
	recAct, err := elementwise(defaultString(spec.RecurrentActivation, "sigmoid"))
	if err != nil {
		return nil, fmt.Errorf("lstm %q: %w", spec.Name, err)
	}

	return &lstm{
		name:      spec.Name,
		in:        in,
		units:     u,
		kernel:    widen(kernel.Data),
		recurrent: widen(recurrent.Data),
		bias:      widen(bias.Data),
		act:       act,
		recAct:    recAct,
		returnSeq: spec.ReturnSequences,
	}, nil
}

// forward runs the layer over seq from a zero state and returns the hidden
// state of every timestep.
func (l *lstm) forward(seq [][]float64) [][]float64 {
	u := l.units
	h := make([]float64, u)
	c := make([]float64, u)
	z := make([]float64, 4*u)
	out := make([][]float64, len(seq))

	for t, x := range seq {
		copy(z, l.bias)
		accumulate(z, x, l.kernel)
		accumulate(z, h, l.recurrent)

		next := make([]float64, u)
		for k := 0; k < u; k++ {
			i := l.recAct(z[k])
			f := l.recAct(z[u+k])
			g := l.act(z[2*u+k])
			o := l.recAct(z[3*u+k])
			c[k] = f*c[k] + i*g
			next[k] = o * l.act(c[k])
		}
		h = next
		out[t] = h
	}
	return out
}

// dense is a fully connected layer.
type dense struct {
	name      string
	in, units int
	kernel    []float64 // [in, units]
	bias      []float64 // [units]
	act       activation
	softmax   bool
}

func newDense(spec LayerSpec, f *TensorFile, in int) (*dense, error) {
	if spec.Units <= 0 {
		return nil, fmt.Errorf("dense %q: units must be positive", spec.Name)
	}

	kernel, err := f.tensor(spec.Name+".kernel", in, spec.Units)
	if err != nil {
		return nil, fmt.Errorf("dense %q: %w", spec.Name, err)
	}
	bias, err := f.tensor(spec.Name+".bias", spec.Units)
	if err != nil {
		return nil, fmt.Errorf("dense %q: %w", spec.Name, err)
	}

	d := &dense{
		name:    spec.Name,
		in:      in,
		units:   spec.Units,
		kernel:  widen(kernel.Data),
		bias:    widen(bias.Data),
		softmax: spec.Activation == "softmax",
	}
	if !d.softmax {
		if d.act, err = elementwise(spec.Activation); err != nil {
			return nil, fmt.Errorf("dense %q: %w", spec.Name, err)
		}
	}
	return d, nil
}

func (d *dense) forward(x []float64) []float64 {
	out := make([]float64, d.units)
	copy(out, d.bias)
	accumulate(out, x, d.kernel)

	if d.softmax {
		softmax(out)
		return out
	}
	for i, v := range out {
		out[i] = d.act(v)
	}
	return out
}

// accumulate adds x·w to dst, where w is row-major [len(x), len(dst)].
// Zero inputs are skipped; TF-IDF vectors are mostly zeros.
func accumulate(dst, x, w []float64) {
	cols := len(dst)
	for j, xj := range x {
		if xj == 0 {
			continue
		}
		row := w[j*cols : (j+1)*cols]
		for k, wk := range row {
			dst[k] += xj * wk
		}
	}
}

func widen(src []float32) []float64 {
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = float64(v)
	}
	return out
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
