package cpu

import (
	"github.com/born-ml/cugan/internal/tensor"
)

// computeBroadcastStridesForShape computes strides for broadcasting inShape to outShape.
// Dimensions of size 1, and dimensions missing on the left, get stride 0.
func computeBroadcastStridesForShape(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	offset := outDim - len(inShape)
	orig := inShape.ComputeStrides()

	strides := make([]int, outDim)
	for i := offset; i < outDim; i++ {
		if inShape[i-offset] != 1 {
			strides[i] = orig[i-offset]
		}
	}
	return strides
}

// computeFlatIndex maps a flat output index to the flat index of a broadcast input.
func computeFlatIndex(outIdx int, outStrides, inStrides []int) int {
	flatIdx := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		flatIdx += coord * inStrides[i]
	}
	return flatIdx
}
