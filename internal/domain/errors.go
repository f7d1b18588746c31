package domain

import "errors"

var (
	ErrEmptyInput         = errors.New("input text is empty")
	ErrInputTooLong       = errors.New("input text is too long")
	ErrDimensionMismatch  = errors.New("dimension mismatch")
	ErrUnknownClass       = errors.New("unknown class")
	ErrArtifactsNotLoaded = errors.New("artifacts not loaded")
)
