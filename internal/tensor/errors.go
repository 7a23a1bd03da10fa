package tensor

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	ErrInvalidShape  = errors.New("invalid shape")
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrDType         = errors.New("unsupported dtype")
	ErrOutOfRange    = errors.New("index out of range")
)

// ShapeError reports an operation whose operands have incompatible shapes.
type ShapeError struct {
	Op     string  // Operation name (e.g., "conv2d", "add")
	Shapes []Shape // Operand shapes involved
	Detail string  // Additional details
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	parts := make([]string, len(e.Shapes))
	for i, s := range e.Shapes {
		parts[i] = fmt.Sprint(s)
	}
	msg := fmt.Sprintf("%s: shape mismatch %s", e.Op, strings.Join(parts, " vs "))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap lets errors.Is match ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}
