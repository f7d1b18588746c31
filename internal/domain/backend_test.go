package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifierBackend(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"artifacts/best_lstm_model.safetensors", BackendNative},
		{"model.onnx", BackendONNX},
		{"/models/sentiment.ONNX", BackendONNX},
		{"model.onnx.bak", BackendNative},
		{"", BackendNative},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifierBackend(tt.path))
		})
	}
}
