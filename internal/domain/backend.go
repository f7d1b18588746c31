package domain

import (
	"path/filepath"
	"strings"
)

const (
	BackendNative = "lstm"
	BackendONNX   = "onnx"
)

// ClassifierBackend names the classifier implementation that reads path.
// Files ending in .onnx, in any case, run on ONNX Runtime.
func ClassifierBackend(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".onnx") {
		return BackendONNX
	}
	return BackendNative
}
