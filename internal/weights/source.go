package weights

import (
	"fmt"
	"strings"

	"github.com/born-ml/cugan/internal/tensor"
)

// Source resolves parameter names to float32 tensors.
type Source interface {
	// Load returns the tensor stored under name. It fails with ErrNotFound
	// when the name is absent and ErrShapeMismatch when the stored shape
	// differs from shape.
	Load(name string, shape tensor.Shape) (*tensor.RawTensor, error)

	// Has reports whether name is present.
	Has(name string) bool
}

// Scope is a position in the parameter hierarchy.
type Scope struct {
	src    Source
	prefix string
}

// Root returns the top-level scope of src.
func Root(src Source) Scope {
	return Scope{src: src}
}

// Child descends into a named sub-module.
func (s Scope) Child(name string) Scope {
	return Scope{src: s.src, prefix: s.Name(name)}
}

// Name returns the fully qualified name of leaf in this scope.
func (s Scope) Name(leaf string) string {
	if s.prefix == "" {
		return leaf
	}
	return s.prefix + "." + leaf
}

// Prefix returns the scope's dotted path.
func (s Scope) Prefix() string {
	return s.prefix
}

// Has reports whether leaf exists in this scope.
func (s Scope) Has(leaf string) bool {
	return s.src.Has(s.Name(leaf))
}

// Load fetches leaf and checks its shape.
func (s Scope) Load(leaf string, shape tensor.Shape) (*tensor.RawTensor, error) {
	return s.src.Load(s.Name(leaf), shape)
}

func errNotFound(name string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

func checkShape(name string, got, want tensor.Shape) error {
	if !got.Equal(want) {
		return fmt.Errorf("%w: %s is %v, expected %v", ErrShapeMismatch, name, got, want)
	}
	return nil
}

// hasPrefix reports whether name equals p or lies below it in the hierarchy.
func hasPrefix(name, p string) bool {
	return name == p || strings.HasPrefix(name, p+".")
}
