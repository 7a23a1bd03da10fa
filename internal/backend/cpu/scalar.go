package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/cugan/internal/tensor"
)

// MulScalar multiplies each element by scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float32) (*tensor.RawTensor, error) {
	return cpu.unary("mul_scalar", x, func(v float32) float32 { return v * scalar })
}

// AddScalar adds scalar to each element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float32) (*tensor.RawTensor, error) {
	return cpu.unary("add_scalar", x, func(v float32) float32 { return v + scalar })
}

// DivScalar divides each element by scalar.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, scalar float32) (*tensor.RawTensor, error) {
	if scalar == 0 {
		return nil, fmt.Errorf("div_scalar: division by zero")
	}
	return cpu.unary("div_scalar", x, func(v float32) float32 { return v / scalar })
}

// Round rounds each element to the nearest integer, half away from zero.
func (cpu *CPUBackend) Round(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.unary("round", x, func(v float32) float32 { return float32(math.Round(float64(v))) })
}

// Clamp limits each element to [lo, hi].
func (cpu *CPUBackend) Clamp(x *tensor.RawTensor, lo, hi float32) (*tensor.RawTensor, error) {
	if lo > hi {
		return nil, fmt.Errorf("clamp: lo %v > hi %v", lo, hi)
	}
	return cpu.unary("clamp", x, func(v float32) float32 { return min(max(v, lo), hi) })
}

func (cpu *CPUBackend) unary(op string, x *tensor.RawTensor, f func(float32) float32) (*tensor.RawTensor, error) {
	if err := requireFloat32(op, x); err != nil {
		return nil, err
	}
	result, err := tensor.NewRaw(x.Shape(), tensor.Float32, cpu.device)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	src, dst := x.AsFloat32(), result.AsFloat32()
	cpu.forRange(len(dst), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = f(src[i])
		}
	})
	return result, nil
}
