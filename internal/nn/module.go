// Package nn implements the inference layers the CUGAN networks are built from.
//
// This package provides:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named weight tensors loaded from a checkpoint
//   - Conv2D, ConvTranspose2D: convolution layers with bias
//   - Activations: LeakyReLU, ReLU, Sigmoid
//   - Sequential: Container for stacking layers
//
// Layers hold immutable weights and are safe for concurrent Forward calls.
package nn

import (
	"github.com/born-ml/cugan/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all loaded parameters
//
// Modules can be composed to build larger blocks:
//
//	excite := nn.NewSequential(conv1, nn.NewReLU(backend), conv2, nn.NewSigmoid(backend))
type Module interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.RawTensor) (*tensor.RawTensor, error)

	// Parameters returns all parameters of this module, including nested ones.
	Parameters() []*Parameter
}
