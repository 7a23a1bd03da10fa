package model

import (
	"log/slog"

	"github.com/born-ml/cugan/internal/nn"
	"github.com/born-ml/cugan/internal/tensor"
	"github.com/born-ml/cugan/internal/weights"
)

// Gating reports whether a UNetConv ends in an SE gate.
type Gating int

const (
	Ungated Gating = iota
	Gated
)

func (g Gating) String() string {
	if g == Gated {
		return "gated"
	}
	return "ungated"
}

// UNetConv is two valid 3x3 convolutions, each followed by LeakyReLU(0.1),
// optionally followed by an SE gate. It trims 2 px per side.
type UNetConv struct {
	conv *nn.Sequential
	se   *SEBlock
}

// LoadUNetConv loads conv.0, conv.2 and, when wantSE is set and the
// checkpoint carries one, seblock.
func LoadUNetConv(scope weights.Scope, in, mid, out int, wantSE bool, backend tensor.Backend) (*UNetConv, error) {
	c0, err := nn.LoadConv2D(scope.Child("conv.0"), in, mid, 3, 1, 0, backend)
	if err != nil {
		return nil, err
	}
	c2, err := nn.LoadConv2D(scope.Child("conv.2"), mid, out, 3, 1, 0, backend)
	if err != nil {
		return nil, err
	}
	u := &UNetConv{
		conv: nn.NewSequential(
			c0, nn.NewLeakyReLU(nn.LeakySlope, backend),
			c2, nn.NewLeakyReLU(nn.LeakySlope, backend),
		),
	}

	if !wantSE {
		return u, nil
	}
	se := scope.Child("seblock")
	if !se.Has("conv1.weight") {
		slog.Warn("checkpoint has no SE block; tiled inference will be unavailable", "block", scope.Prefix())
		return u, nil
	}
	if u.se, err = LoadSEBlock(se, out, backend); err != nil {
		return nil, err
	}
	return u, nil
}

// Gating reports whether the block carries an SE gate.
func (u *UNetConv) Gating() Gating {
	if u.se != nil {
		return Gated
	}
	return Ungated
}

// SE returns the block's gate. It fails with ErrMissingSEBlock when ungated.
func (u *UNetConv) SE() (*SEBlock, error) {
	if u.se == nil {
		return nil, ErrMissingSEBlock
	}
	return u.se, nil
}

// Conv runs the two convolutions without the gate.
func (u *UNetConv) Conv(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return u.conv.Forward(x)
}

// Forward runs the convolutions and, when present, the gate.
func (u *UNetConv) Forward(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	y, err := u.conv.Forward(x)
	if err != nil {
		return nil, err
	}
	return u.gate(y)
}

// gate applies the SE gate with the local mean, or returns x when ungated.
func (u *UNetConv) gate(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	if u.se == nil {
		return x, nil
	}
	return u.se.Forward(x)
}

// Parameters returns convolution and gate weights.
func (u *UNetConv) Parameters() []*nn.Parameter {
	params := u.conv.Parameters()
	if u.se != nil {
		params = append(params, u.se.Parameters()...)
	}
	return params
}
