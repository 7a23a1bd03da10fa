package model

import (
	"fmt"

	"github.com/born-ml/cugan/internal/nn"
	"github.com/born-ml/cugan/internal/tensor"
	"github.com/born-ml/cugan/internal/weights"
)

// SEBlock is a squeeze-and-excite gate.
//
// It scales every channel of x by sigmoid(conv2(relu(conv1(mean_hw(x))))),
// where conv1 reduces C to C/8 channels and conv2 restores C. Both are 1x1
// convolutions with bias.
type SEBlock struct {
	channels int
	excite   *nn.Sequential
	backend  tensor.Backend
}

// LoadSEBlock loads the conv1 and conv2 entries of scope.
func LoadSEBlock(scope weights.Scope, channels int, backend tensor.Backend) (*SEBlock, error) {
	reduced := channels / seReduction
	if reduced == 0 {
		return nil, fmt.Errorf("se block %s: %d channels cannot be reduced by %d", scope.Prefix(), channels, seReduction)
	}
	conv1, err := nn.LoadConv2D(scope.Child("conv1"), channels, reduced, 1, 1, 0, backend)
	if err != nil {
		return nil, err
	}
	conv2, err := nn.LoadConv2D(scope.Child("conv2"), reduced, channels, 1, 1, 0, backend)
	if err != nil {
		return nil, err
	}
	return &SEBlock{
		channels: channels,
		excite:   nn.NewSequential(conv1, nn.NewReLU(backend), conv2, nn.NewSigmoid(backend)),
		backend:  backend,
	}, nil
}

// Channels returns the number of gated channels.
func (s *SEBlock) Channels() int {
	return s.channels
}

// Forward gates x with its own spatial mean.
func (s *SEBlock) Forward(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	mean, err := s.backend.MeanHW(x)
	if err != nil {
		return nil, err
	}
	return s.ForwardMean(x, mean)
}

// ForwardMean gates x with an externally supplied mean of shape [N, C, 1, 1].
func (s *SEBlock) ForwardMean(x, mean *tensor.RawTensor) (*tensor.RawTensor, error) {
	_, c, h, w, err := mean.Shape().Dims4()
	if err != nil {
		return nil, err
	}
	if c != s.channels || h != 1 || w != 1 {
		return nil, &tensor.ShapeError{
			Op:     "se_block",
			Shapes: []tensor.Shape{mean.Shape()},
			Detail: fmt.Sprintf("expected mean [N, %d, 1, 1]", s.channels),
		}
	}
	gate, err := s.excite.Forward(mean)
	if err != nil {
		return nil, err
	}
	return s.backend.Mul(x, gate)
}

// Parameters returns the excitation weights.
func (s *SEBlock) Parameters() []*nn.Parameter {
	return s.excite.Parameters()
}
