package model

import (
	"github.com/born-ml/cugan/internal/nn"
	"github.com/born-ml/cugan/internal/tensor"
	"github.com/born-ml/cugan/internal/weights"
)

// HeadKind selects the output layer of a stage.
type HeadKind int

const (
	// HeadConv is a valid 3x3 convolution (stage B).
	HeadConv HeadKind = iota
	// HeadDeconv is a transposed convolution that upsamples by the scale factor (stage A).
	HeadDeconv
)

// Head is the conv_bottom layer of a stage.
type Head struct {
	kind   HeadKind
	conv   *nn.Conv2D
	deconv *nn.ConvTranspose2D
}

func loadConvHead(scope weights.Scope, in, out int, backend tensor.Backend) (*Head, error) {
	conv, err := nn.LoadConv2D(scope, in, out, 3, 1, 0, backend)
	if err != nil {
		return nil, err
	}
	return &Head{kind: HeadConv, conv: conv}, nil
}

func loadDeconvHead(scope weights.Scope, in, out int, p ScaleParams, backend tensor.Backend) (*Head, error) {
	deconv, err := nn.LoadConvTranspose2D(scope, in, out, p.headKernel, p.headStride, p.headPadding, backend)
	if err != nil {
		return nil, err
	}
	return &Head{kind: HeadDeconv, deconv: deconv}, nil
}

// Kind returns the head variant.
func (h *Head) Kind() HeadKind {
	return h.kind
}

// Forward applies the head.
func (h *Head) Forward(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	if h.kind == HeadDeconv {
		return h.deconv.Forward(x)
	}
	return h.conv.Forward(x)
}

// Parameters returns the head weights.
func (h *Head) Parameters() []*nn.Parameter {
	if h.kind == HeadDeconv {
		return h.deconv.Parameters()
	}
	return h.conv.Parameters()
}
