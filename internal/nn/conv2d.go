package nn

import (
	"fmt"

	"github.com/born-ml/cugan/internal/tensor"
	"github.com/born-ml/cugan/internal/weights"
)

// Conv2D is a 2D convolutional layer with bias.
//
// Performs convolution: output = Conv2D(input, weight) + bias
//
// Input shape:  [batch, in_channels, height, width]
// Weight shape: [out_channels, in_channels, kernel, kernel]
// Bias shape:   [out_channels]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Where:
//
//	out_h = (height + 2*padding - kernel) / stride + 1
//	out_w = (width + 2*padding - kernel) / stride + 1
//
// Example:
//
//	// unet1.conv1.conv.0: 3 -> 32 channels, 3x3 valid conv
//	conv, err := nn.LoadConv2D(scope.Child("conv.0"), 3, 32, 3, 1, 0, backend)
type Conv2D struct {
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	padding     int

	weight *Parameter // [out_channels, in_channels, kernel, kernel]
	bias   *Parameter // [out_channels]

	backend tensor.Backend
}

// LoadConv2D builds a Conv2D from the "weight" and "bias" entries of scope.
//
// Parameters:
//   - scope: Checkpoint scope holding weight and bias
//   - inChannels, outChannels: Channel counts
//   - kernel: Square kernel size
//   - stride: Stride for convolution (1 or 2 here)
//   - padding: Zero padding (0 for the valid convolutions of this model)
//   - backend: Backend for computation
func LoadConv2D(scope weights.Scope, inChannels, outChannels, kernel, stride, padding int, backend tensor.Backend) (*Conv2D, error) {
	if inChannels <= 0 || outChannels <= 0 || kernel <= 0 || stride <= 0 || padding < 0 {
		return nil, fmt.Errorf("conv2d %s: invalid config in=%d out=%d k=%d s=%d p=%d",
			scope.Prefix(), inChannels, outChannels, kernel, stride, padding)
	}

	w, err := scope.Load("weight", tensor.Shape{outChannels, inChannels, kernel, kernel})
	if err != nil {
		return nil, fmt.Errorf("conv2d: %w", err)
	}
	b, err := scope.Load("bias", tensor.Shape{outChannels})
	if err != nil {
		return nil, fmt.Errorf("conv2d: %w", err)
	}

	return &Conv2D{
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
//
// Input: [batch, in_channels, height, width]
// Output: [batch, out_channels, out_h, out_w].
func (c *Conv2D) Forward(input *tensor.RawTensor) (*tensor.RawTensor, error) {
	if s := input.Shape(); len(s) != 4 || s[1] != c.inChannels {
		return nil, &tensor.ShapeError{
			Op:     c.weight.Name(),
			Shapes: []tensor.Shape{s},
			Detail: fmt.Sprintf("expected [N, %d, H, W]", c.inChannels),
		}
	}
	return c.backend.Conv2D(input, c.weight.Tensor(), c.bias.Tensor(), c.stride, c.padding)
}

// Parameters returns the weight and bias.
func (c *Conv2D) Parameters() []*Parameter {
	return []*Parameter{c.weight, c.bias}
}

// String returns a string representation of the layer.
func (c *Conv2D) String() string {
	return fmt.Sprintf("Conv2D(in_channels=%d, out_channels=%d, kernel_size=%d, stride=%d, padding=%d)",
		c.inChannels, c.outChannels, c.kernelSize, c.stride, c.padding)
}

// OutChannels returns the number of output channels.
func (c *Conv2D) OutChannels() int {
	return c.outChannels
}

// InChannels returns the number of input channels.
func (c *Conv2D) InChannels() int {
	return c.inChannels
}

// ComputeOutputSize computes output spatial dimensions for given input size.
//
// Returns: [out_height, out_width].
func (c *Conv2D) ComputeOutputSize(inputH, inputW int) [2]int {
	outH := (inputH+2*c.padding-c.kernelSize)/c.stride + 1
	outW := (inputW+2*c.padding-c.kernelSize)/c.stride + 1
	return [2]int{outH, outW}
}
