// Package sentiment implements the inference pipeline.
//
// The Analyzer validates one text, vectorizes it, runs a single forward pass
// over a one-step sequence and maps the winning class to a label, a
// confidence percentage and a presentation bucket. It holds no mutable state;
// all artifacts are shared read-only.
package sentiment
