// Package domain defines the core inference types and the narrow contracts
// between the artifact loaders, the pipeline and the HTTP adapter.
//
// No implementation code; consumers depend on these interfaces so the
// native and ONNX classifiers are interchangeable.
package domain
