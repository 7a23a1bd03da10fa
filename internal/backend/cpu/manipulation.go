package cpu

import (
	"fmt"

	"github.com/born-ml/cugan/internal/tensor"
)

// Narrow returns the slice [start, start+length) of x along dim.
// A full-range narrow returns x itself.
func (cpu *CPUBackend) Narrow(x *tensor.RawTensor, dim, start, length int) (*tensor.RawTensor, error) {
	shape := x.Shape()
	dim, err := normalizeDim("narrow", dim, len(shape))
	if err != nil {
		return nil, err
	}
	if start < 0 || length <= 0 || start+length > shape[dim] {
		return nil, fmt.Errorf("narrow: range [%d, %d) out of bounds for dim %d of size %d: %w",
			start, start+length, dim, shape[dim], tensor.ErrOutOfRange)
	}
	if start == 0 && length == shape[dim] {
		return x, nil
	}

	indices := make([]int, length)
	for i := range indices {
		indices[i] = start + i
	}
	return cpu.IndexSelect(x, dim, indices)
}

// IndexSelect gathers the slices of x at the given positions along dim.
// Indices may repeat; the result has len(indices) entries along dim.
func (cpu *CPUBackend) IndexSelect(x *tensor.RawTensor, dim int, indices []int) (*tensor.RawTensor, error) {
	shape := x.Shape()
	dim, err := normalizeDim("index_select", dim, len(shape))
	if err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("index_select: no indices: %w", tensor.ErrInvalidShape)
	}
	for _, idx := range indices {
		if idx < 0 || idx >= shape[dim] {
			return nil, fmt.Errorf("index_select: index %d out of bounds for dim %d of size %d: %w",
				idx, dim, shape[dim], tensor.ErrOutOfRange)
		}
	}

	outShape := shape.Clone()
	outShape[dim] = len(indices)
	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		return nil, fmt.Errorf("index_select: %w", err)
	}

	// Copy contiguous runs of the inner dims as raw bytes (dtype agnostic).
	outer, inner := splitAt(shape, dim)
	run := inner * x.DType().Size()
	src, dst := x.Data(), result.Data()
	srcSpan := shape[dim] * run
	dstSpan := len(indices) * run

	for o := 0; o < outer; o++ {
		srcBase := o * srcSpan
		dstBase := o * dstSpan
		for j, idx := range indices {
			copy(dst[dstBase+j*run:dstBase+(j+1)*run], src[srcBase+idx*run:srcBase+(idx+1)*run])
		}
	}

	return result, nil
}

// Cat concatenates tensors along the specified dimension.
//
// All tensors must have the same shape except along the concatenation dimension.
// Supports negative dim indexing (-1 = last dimension).
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) (*tensor.RawTensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("cat: at least one tensor required: %w", tensor.ErrInvalidShape)
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()
	dim, err := normalizeDim("cat", dim, ndim)
	if err != nil {
		return nil, err
	}

	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			return nil, fmt.Errorf("cat: tensor %d has %d dimensions, expected %d: %w", i, len(tShape), ndim, tensor.ErrShapeMismatch)
		}
		if t.DType() != dtype {
			return nil, fmt.Errorf("cat: tensor %d has dtype %s, expected %s: %w", i, t.DType(), dtype, tensor.ErrDType)
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				return nil, &tensor.ShapeError{
					Op:     "cat",
					Shapes: []tensor.Shape{shape, tShape},
					Detail: fmt.Sprintf("tensor %d dimension %d", i, d),
				}
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim
	result, err := tensor.NewRaw(outShape, dtype, cpu.device)
	if err != nil {
		return nil, fmt.Errorf("cat: %w", err)
	}

	outer, inner := splitAt(shape, dim)
	elem := dtype.Size()
	dst := result.Data()
	dstSpan := totalDim * inner * elem
	offset := 0
	for _, t := range tensors {
		span := t.Shape()[dim] * inner * elem
		src := t.Data()
		for o := 0; o < outer; o++ {
			copy(dst[o*dstSpan+offset:o*dstSpan+offset+span], src[o*span:(o+1)*span])
		}
		offset += span
	}

	return result, nil
}

// Paste copies src [N,C,h,w] into dst [N,C,H,W] with its top-left corner at (top, left).
func (cpu *CPUBackend) Paste(dst, src *tensor.RawTensor, top, left int) error {
	dn, dc, dh, dw, err := dst.Shape().Dims4()
	if err != nil {
		return fmt.Errorf("paste: dst: %w", err)
	}
	sn, sc, sh, sw, err := src.Shape().Dims4()
	if err != nil {
		return fmt.Errorf("paste: src: %w", err)
	}
	if dn != sn || dc != sc || dst.DType() != src.DType() {
		return &tensor.ShapeError{Op: "paste", Shapes: []tensor.Shape{dst.Shape(), src.Shape()}}
	}
	if top < 0 || left < 0 || top+sh > dh || left+sw > dw {
		return fmt.Errorf("paste: %dx%d at (%d, %d) exceeds %dx%d: %w", sh, sw, top, left, dh, dw, tensor.ErrOutOfRange)
	}

	elem := dst.DType().Size()
	d, s := dst.Data(), src.Data()
	row := sw * elem
	for p := 0; p < dn*dc; p++ {
		for y := 0; y < sh; y++ {
			so := ((p*sh + y) * sw) * elem
			do := ((p*dh+top+y)*dw + left) * elem
			copy(d[do:do+row], s[so:so+row])
		}
	}
	return nil
}

func normalizeDim(op string, dim, ndim int) (int, error) {
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		return 0, fmt.Errorf("%s: dimension out of range for %dD tensor: %w", op, ndim, tensor.ErrOutOfRange)
	}
	return dim, nil
}

// splitAt returns the element counts before and after dim.
func splitAt(shape tensor.Shape, dim int) (outer, inner int) {
	outer, inner = 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	return outer, inner
}
