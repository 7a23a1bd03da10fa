package nn

import (
	"github.com/born-ml/cugan/internal/tensor"
)

// LeakySlope is the negative slope used after every CUGAN convolution.
const LeakySlope = 0.1

// LeakyReLU is a leaky rectifier activation module.
//
// Applies the element-wise function: f(x) = x if x >= 0, slope*x otherwise.
type LeakyReLU struct {
	slope   float32
	backend tensor.Backend
}

// NewLeakyReLU creates a LeakyReLU with the given negative slope.
func NewLeakyReLU(slope float32, backend tensor.Backend) *LeakyReLU {
	return &LeakyReLU{slope: slope, backend: backend}
}

// Forward applies the activation.
func (l *LeakyReLU) Forward(input *tensor.RawTensor) (*tensor.RawTensor, error) {
	return l.backend.LeakyReLU(input, l.slope)
}

// Parameters returns nil (no parameters).
func (l *LeakyReLU) Parameters() []*Parameter {
	return nil
}

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function: f(x) = max(0, x)
type ReLU struct {
	backend tensor.Backend
}

// NewReLU creates a new ReLU activation module.
func NewReLU(backend tensor.Backend) *ReLU {
	return &ReLU{backend: backend}
}

// Forward applies ReLU activation: f(x) = max(0, x).
func (r *ReLU) Forward(input *tensor.RawTensor) (*tensor.RawTensor, error) {
	return r.backend.ReLU(input)
}

// Parameters returns nil (no parameters).
func (r *ReLU) Parameters() []*Parameter {
	return nil
}

// Sigmoid is a sigmoid activation module.
//
// Applies the element-wise function: σ(x) = 1 / (1 + exp(-x))
type Sigmoid struct {
	backend tensor.Backend
}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid(backend tensor.Backend) *Sigmoid {
	return &Sigmoid{backend: backend}
}

// Forward applies Sigmoid activation.
func (s *Sigmoid) Forward(input *tensor.RawTensor) (*tensor.RawTensor, error) {
	return s.backend.Sigmoid(input)
}

// Parameters returns nil (no parameters).
func (s *Sigmoid) Parameters() []*Parameter {
	return nil
}
