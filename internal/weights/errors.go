package weights

import "errors"

// Common errors.
var (
	// ErrNotFound indicates a parameter name absent from the source.
	ErrNotFound = errors.New("weight not found")

	// ErrShapeMismatch indicates a stored tensor whose shape differs from the layer's.
	ErrShapeMismatch = errors.New("weight shape mismatch")

	// ErrFormat indicates an unreadable or unsupported weight file.
	ErrFormat = errors.New("unsupported weight format")
)
