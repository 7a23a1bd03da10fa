// Package pad extends tensors by reflection and crops them back.
package pad

import (
	"fmt"

	"github.com/born-ml/cugan/internal/tensor"
)

// Spatial axes of an NCHW tensor.
const (
	DimH = 2
	DimW = 3
)

// Indices returns, for an axis of length n padded by left and right, the
// source position of every output sample.
//
// Reflection does not repeat the edge sample: for n = 4, left = 2 the
// prefix is [2 1]. Margins wider than the axis keep bouncing between the
// two edges with period 2(n-1); a length-1 axis replicates its only sample.
func Indices(n, left, right int) []int {
	idx := make([]int, 0, left+n+right)
	for i := -left; i < n+right; i++ {
		idx = append(idx, reflect(i, n))
	}
	return idx
}

func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	m := i % period
	if m < 0 {
		m += period
	}
	if m >= n {
		m = period - m
	}
	return m
}

// Reflect pads x along dim by left and right reflected samples.
func Reflect(b tensor.Backend, x *tensor.RawTensor, dim, left, right int) (*tensor.RawTensor, error) {
	if left < 0 || right < 0 {
		return nil, fmt.Errorf("pad: negative margin %d/%d", left, right)
	}
	if left == 0 && right == 0 {
		return x, nil
	}
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		return nil, fmt.Errorf("pad: dim %d for %dD tensor: %w", dim, len(shape), tensor.ErrOutOfRange)
	}
	return b.IndexSelect(x, dim, Indices(shape[dim], left, right))
}

// Crop removes left and right samples from dim. It undoes Reflect exactly.
func Crop(b tensor.Backend, x *tensor.RawTensor, dim, left, right int) (*tensor.RawTensor, error) {
	if left < 0 || right < 0 {
		return nil, fmt.Errorf("crop: negative margin %d/%d", left, right)
	}
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		return nil, fmt.Errorf("crop: dim %d for %dD tensor: %w", dim, len(shape), tensor.ErrOutOfRange)
	}
	keep := shape[dim] - left - right
	if keep <= 0 {
		return nil, fmt.Errorf("crop: %d+%d from axis of %d: %w", left, right, shape[dim], tensor.ErrInvalidShape)
	}
	return b.Narrow(x, dim, left, keep)
}

// Margins holds per-side amounts for a spatial pad or crop.
type Margins struct {
	Top, Bottom, Left, Right int
}

// Uniform returns Margins with m on every side.
func Uniform(m int) Margins {
	return Margins{Top: m, Bottom: m, Left: m, Right: m}
}

// Reflect2D reflect-pads the H and W axes of an NCHW tensor.
func Reflect2D(b tensor.Backend, x *tensor.RawTensor, m Margins) (*tensor.RawTensor, error) {
	y, err := Reflect(b, x, DimH, m.Top, m.Bottom)
	if err != nil {
		return nil, err
	}
	return Reflect(b, y, DimW, m.Left, m.Right)
}

// Crop2D crops the H and W axes of an NCHW tensor.
func Crop2D(b tensor.Backend, x *tensor.RawTensor, m Margins) (*tensor.RawTensor, error) {
	y, err := Crop(b, x, DimH, m.Top, m.Bottom)
	if err != nil {
		return nil, err
	}
	return Crop(b, y, DimW, m.Left, m.Right)
}
