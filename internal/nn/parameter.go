package nn

import (
	"github.com/born-ml/cugan/internal/tensor"
)

// Parameter is a named weight tensor.
//
// The name is the fully qualified checkpoint name, e.g.
// "unet1.conv1.conv.0.weight".
type Parameter struct {
	name   string
	tensor *tensor.RawTensor
}

// NewParameter wraps a loaded tensor.
func NewParameter(name string, t *tensor.RawTensor) *Parameter {
	return &Parameter{name: name, tensor: t}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.RawTensor {
	return p.tensor
}

// CountElements sums the element counts of params.
func CountElements(params []*Parameter) int {
	n := 0
	for _, p := range params {
		n += p.tensor.NumElements()
	}
	return n
}
