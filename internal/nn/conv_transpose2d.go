package nn

import (
	"fmt"

	"github.com/born-ml/cugan/internal/tensor"
	"github.com/born-ml/cugan/internal/weights"
)

// ConvTranspose2D is a 2D transposed convolution layer with bias.
//
// Input shape:  [batch, in_channels, height, width]
// Weight shape: [in_channels, out_channels, kernel, kernel] (PyTorch layout)
// Bias shape:   [out_channels]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Where:
//
//	out_h = (height - 1)*stride - 2*padding + kernel
type ConvTranspose2D struct {
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	padding     int

	weight *Parameter
	bias   *Parameter

	backend tensor.Backend
}

// LoadConvTranspose2D builds a ConvTranspose2D from the "weight" and "bias" entries of scope.
func LoadConvTranspose2D(scope weights.Scope, inChannels, outChannels, kernel, stride, padding int, backend tensor.Backend) (*ConvTranspose2D, error) {
	if inChannels <= 0 || outChannels <= 0 || kernel <= 0 || stride <= 0 || padding < 0 {
		return nil, fmt.Errorf("conv_transpose2d %s: invalid config in=%d out=%d k=%d s=%d p=%d",
			scope.Prefix(), inChannels, outChannels, kernel, stride, padding)
	}

	w, err := scope.Load("weight", tensor.Shape{inChannels, outChannels, kernel, kernel})
	if err != nil {
		return nil, fmt.Errorf("conv_transpose2d: %w", err)
	}
	b, err := scope.Load("bias", tensor.Shape{outChannels})
	if err != nil {
		return nil, fmt.Errorf("conv_transpose2d: %w", err)
	}

	return &ConvTranspose2D{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernel,
		stride:      stride,
		padding:     padding,
		weight:      NewParameter(scope.Name("weight"), w),
		bias:        NewParameter(scope.Name("bias"), b),
		backend:     backend,
	}, nil
}

// Forward performs the forward pass.
func (c *ConvTranspose2D) Forward(input *tensor.RawTensor) (*tensor.RawTensor, error) {
	if s := input.Shape(); len(s) != 4 || s[1] != c.inChannels {
		return nil, &tensor.ShapeError{
			Op:     c.weight.Name(),
			Shapes: []tensor.Shape{s},
			Detail: fmt.Sprintf("expected [N, %d, H, W]", c.inChannels),
		}
	}
	return c.backend.ConvTranspose2D(input, c.weight.Tensor(), c.bias.Tensor(), c.stride, c.padding)
}

// Parameters returns the weight and bias.
func (c *ConvTranspose2D) Parameters() []*Parameter {
	return []*Parameter{c.weight, c.bias}
}

// String returns a string representation of the layer.
func (c *ConvTranspose2D) String() string {
	return fmt.Sprintf("ConvTranspose2D(in_channels=%d, out_channels=%d, kernel_size=%d, stride=%d, padding=%d)",
		c.inChannels, c.outChannels, c.kernelSize, c.stride, c.padding)
}

// OutChannels returns the number of output channels.
func (c *ConvTranspose2D) OutChannels() int {
	return c.outChannels
}

// ComputeOutputSize computes output spatial dimensions for given input size.
func (c *ConvTranspose2D) ComputeOutputSize(inputH, inputW int) [2]int {
	outH := (inputH-1)*c.stride - 2*c.padding + c.kernelSize
	outW := (inputW-1)*c.stride - 2*c.padding + c.kernelSize
	return [2]int{outH, outW}
}
