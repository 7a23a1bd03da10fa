package cpu

import (
	"math"

	"github.com/born-ml/cugan/internal/tensor"
)

// LeakyReLU computes max(x, slope*x) element-wise.
func (cpu *CPUBackend) LeakyReLU(x *tensor.RawTensor, slope float32) (*tensor.RawTensor, error) {
	return cpu.unary("leaky_relu", x, func(v float32) float32 {
		if v < 0 {
			return v * slope
		}
		return v
	})
}

// ReLU computes max(x, 0) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.unary("relu", x, func(v float32) float32 { return max(v, 0) })
}

// Sigmoid computes 1 / (1 + exp(-x)) element-wise.
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.unary("sigmoid", x, func(v float32) float32 {
		return float32(1 / (1 + math.Exp(-float64(v))))
	})
}
