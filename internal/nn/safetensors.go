package nn

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

const metadataKey = "__metadata__"

// Tensor is a dense float tensor in row-major order.
type Tensor struct {
	Shape []int
	Data  []float32
}

// Size returns the number of elements the shape describes.
func (t Tensor) Size() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// TensorFile is the parsed content of a safetensors file.
type TensorFile struct {
	Metadata map[string]string
	Tensors  map[string]Tensor
}

type tensorHeader struct {
	Dtype       string `json:"dtype"`
	Shape       []int  `json:"shape"`
	DataOffsets [2]int `json:"data_offsets"`
}

// ReadSafetensors reads every tensor of a safetensors file. Only F32 tensors
// are supported.
func ReadSafetensors(path string) (*TensorFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("safetensors: %w", err)
	}
	return ParseSafetensors(data)
}

// ParseSafetensors decodes an in-memory safetensors blob: an 8-byte LE header
// length, a JSON header, then the raw tensor data.
func ParseSafetensors(data []byte) (*TensorFile, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("safetensors: file too small: %d bytes", len(data))
	}

	headerLen := binary.LittleEndian.Uint64(data[:8])
	if headerLen > uint64(len(data)-8) {
		return nil, fmt.Errorf("safetensors: header length %d exceeds file size", headerLen)
	}
	body := data[8+headerLen:]

	var header map[string]json.RawMessage
	if err := json.Unmarshal(data[8:8+headerLen], &header); err != nil {
		return nil, fmt.Errorf("safetensors: failed to parse header: %w", err)
	}

	tf := &TensorFile{
		Metadata: map[string]string{},
		Tensors:  make(map[string]Tensor, len(header)),
	}

	for name, raw := range header {
		if name == metadataKey {
			if err := json.Unmarshal(raw, &tf.Metadata); err != nil {
				return nil, fmt.Errorf("safetensors: invalid metadata: %w", err)
			}
			continue
		}

		var meta tensorHeader
		if err := json.Unmarshal(raw, &meta); err != nil {
			return nil, fmt.Errorf("safetensors: tensor %q: %w", name, err)
		}
		t, err := decodeTensor(name, meta, body)
		if err != nil {
			return nil, err
		}
		tf.Tensors[name] = t
	}

	return tf, nil
}

func decodeTensor(name string, meta tensorHeader, body []byte) (Tensor, error) {
	if meta.Dtype != "F32" {
		return Tensor{}, fmt.Errorf("safetensors: tensor %q has unsupported dtype %s", name, meta.Dtype)
	}

	t := Tensor{Shape: meta.Shape}
	for _, d := range meta.Shape {
		if d < 0 {
			return Tensor{}, fmt.Errorf("safetensors: tensor %q has negative dimension in %v", name, meta.Shape)
		}
	}

	start, end := meta.DataOffsets[0], meta.DataOffsets[1]
	if start < 0 || end < start || end > len(body) {
		return Tensor{}, fmt.Errorf("safetensors: tensor %q data range [%d:%d] exceeds data size %d",
			name, start, end, len(body))
	}
	if end-start != t.Size()*4 {
		return Tensor{}, fmt.Errorf("safetensors: tensor %q data size %d doesn't match shape %v",
			name, end-start, meta.Shape)
	}

	t.Data = make([]float32, t.Size())
	for i := range t.Data {
		off := start + i*4
		t.Data[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[off : off+4]))
	}
	return t, nil
}

// tensor looks up a tensor and checks its shape.
func (f *TensorFile) tensor(name string, shape ...int) (Tensor, error) {
	t, ok := f.Tensors[name]
	if !ok {
		return Tensor{}, fmt.Errorf("tensor %q not found", name)
	}
	if len(t.Shape) != len(shape) {
		return Tensor{}, fmt.Errorf("tensor %q: expected shape %v, got %v", name, shape, t.Shape)
	}
	for i := range shape {
		if t.Shape[i] != shape[i] {
			return Tensor{}, fmt.Errorf("tensor %q: expected shape %v, got %v", name, shape, t.Shape)
		}
	}
	return t, nil
}
