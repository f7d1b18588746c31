package nn

import (
	"fmt"
	"math"
)

type activation func(x float64) float64

func elementwise(name string) (activation, error) {
	switch name {
	case "", "linear":
		return func(x float64) float64 { return x }, nil
	case "relu":
		return func(x float64) float64 { return math.Max(0, x) }, nil
	case "tanh":
		return math.Tanh, nil
	case "sigmoid":
		return sigmoid, nil
	case "hard_sigmoid":
		return func(x float64) float64 { return math.Min(1, math.Max(0, 0.2*x+0.5)) }, nil
	default:
		return nil, fmt.Errorf("unsupported activation %q", name)
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// softmax normalizes v in place. The maximum is subtracted first so large
// logits do not overflow.
func softmax(v []float64) {
	if len(v) == 0 {
		return
	}
	m := v[0]
	for _, x := range v[1:] {
		m = math.Max(m, x)
	}
	var sum float64
	for i, x := range v {
		v[i] = math.Exp(x - m)
		sum += v[i]
	}
	for i := range v {
		v[i] /= sum
	}
}
