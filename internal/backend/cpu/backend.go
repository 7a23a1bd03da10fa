// Package cpu implements the CPU backend with BLAS-backed convolutions.
package cpu

import (
	"fmt"

	"github.com/born-ml/cugan/internal/parallel"
	"github.com/born-ml/cugan/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

// Option configures a CPUBackend.
type Option func(*CPUBackend)

// WithWorkers bounds the number of goroutines used per operation.
// n <= 0 selects runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(cpu *CPUBackend) {
		cpu.par = parallel.WithWorkers(n)
	}
}

// New creates a new CPU backend.
func New(opts ...Option) *CPUBackend {
	cpu := &CPUBackend{
		device: tensor.CPU,
		par:    parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(cpu)
	}
	return cpu
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Workers returns the configured worker count.
func (cpu *CPUBackend) Workers() int {
	return cpu.par.NumWorkers
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary("add", a, b, func(x, y float32) float32 { return x + y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary("mul", a, b, func(x, y float32) float32 { return x * y })
}

func (cpu *CPUBackend) binary(op string, a, b *tensor.RawTensor, f func(x, y float32) float32) (*tensor.RawTensor, error) {
	if err := requireFloat32(op, a, b); err != nil {
		return nil, err
	}
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := tensor.NewRaw(outShape, tensor.Float32, cpu.device)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create result tensor: %w", op, err)
	}
	dst := result.AsFloat32()
	x, y := a.AsFloat32(), b.AsFloat32()

	switch {
	case !needsBroadcast:
		cpu.forRange(len(dst), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				dst[i] = f(x[i], y[i])
			}
		})
	case isPlaneVector(b.Shape(), a.Shape()):
		// [N,C,H,W] op [N,C,1,1]: one scalar per plane.
		plane := outShape[2] * outShape[3]
		parallel.For(len(y), func(p int) {
			s := y[p]
			base := p * plane
			for i := base; i < base+plane; i++ {
				dst[i] = f(x[i], s)
			}
		}, cpu.par)
	case isPlaneVector(a.Shape(), b.Shape()):
		plane := outShape[2] * outShape[3]
		parallel.For(len(x), func(p int) {
			s := x[p]
			base := p * plane
			for i := base; i < base+plane; i++ {
				dst[i] = f(s, y[i])
			}
		}, cpu.par)
	default:
		outStrides := outShape.ComputeStrides()
		aStrides := computeBroadcastStridesForShape(a.Shape(), outShape)
		bStrides := computeBroadcastStridesForShape(b.Shape(), outShape)
		for i := range dst {
			dst[i] = f(x[computeFlatIndex(i, outStrides, aStrides)], y[computeFlatIndex(i, outStrides, bStrides)])
		}
	}

	return result, nil
}

// isPlaneVector reports whether v is [N,C,1,1] against a full [N,C,H,W] operand.
func isPlaneVector(v, full tensor.Shape) bool {
	return len(v) == 4 && len(full) == 4 &&
		v[0] == full[0] && v[1] == full[1] && v[2] == 1 && v[3] == 1
}

// forRange splits [0, n) into blocks and runs f on each block in parallel.
func (cpu *CPUBackend) forRange(n int, f func(lo, hi int)) {
	const block = 1 << 15
	blocks := (n + block - 1) / block
	parallel.For(blocks, func(i int) {
		lo := i * block
		f(lo, min(lo+block, n))
	}, cpu.par)
}

func requireFloat32(op string, ts ...*tensor.RawTensor) error {
	for _, t := range ts {
		if t.DType() != tensor.Float32 {
			return fmt.Errorf("%s: %w %s (only float32 supported)", op, tensor.ErrDType, t.DType())
		}
	}
	return nil
}
