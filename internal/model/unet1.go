package model

import (
	"github.com/born-ml/cugan/internal/nn"
	"github.com/born-ml/cugan/internal/pad"
	"github.com/born-ml/cugan/internal/tensor"
	"github.com/born-ml/cugan/internal/weights"
)

// unet1SkipCrop trims the conv1 skip to the size of the upsampled branch.
const unet1SkipCrop = 4

// UNet1 is stage A: a one-level UNet ending in an upsampling head.
//
// For a window of n pixels it returns (n-36)*2+40 pixels at scale 2 and
// (n-28)*3+40 at scale 3, i.e. the interior upscaled plus 20 px of border.
type UNet1 struct {
	conv1     *UNetConv
	conv1Down *nn.Conv2D
	conv2     *UNetConv
	conv2Up   *nn.ConvTranspose2D
	conv3     *nn.Conv2D
	bottom    *Head

	backend tensor.Backend
}

func loadUNet1(scope weights.Scope, in, out int, arch Arch, p ScaleParams, b tensor.Backend) (*UNet1, error) {
	w := arch.width()
	u := &UNet1{backend: b}
	var err error
	if u.conv1, err = LoadUNetConv(scope.Child("conv1"), in, w/2, w, false, b); err != nil {
		return nil, err
	}
	if u.conv1Down, err = nn.LoadConv2D(scope.Child("conv1_down"), w, w, 2, 2, 0, b); err != nil {
		return nil, err
	}
	if u.conv2, err = LoadUNetConv(scope.Child("conv2"), w, 2*w, w, true, b); err != nil {
		return nil, err
	}
	if u.conv2Up, err = nn.LoadConvTranspose2D(scope.Child("conv2_up"), w, w, 2, 2, 0, b); err != nil {
		return nil, err
	}
	if u.conv3, err = nn.LoadConv2D(scope.Child("conv3"), w, w, 3, 1, 0, b); err != nil {
		return nil, err
	}
	if u.bottom, err = loadDeconvHead(scope.Child("conv_bottom"), w, out, p, b); err != nil {
		return nil, err
	}
	return u, nil
}

// Forward runs the stage with every gate using its local mean.
func (u *UNet1) Forward(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	skip, pre, err := u.ForwardA(x)
	if err != nil {
		return nil, err
	}
	gated, err := u.conv2.gate(pre)
	if err != nil {
		return nil, err
	}
	return u.ForwardB(skip, gated)
}

// ForwardA runs up to the conv2 gate. It returns the cropped conv1 skip and
// the ungated conv2 output.
func (u *UNet1) ForwardA(x *tensor.RawTensor) (skip, pre *tensor.RawTensor, err error) {
	x1, err := u.conv1.Forward(x)
	if err != nil {
		return nil, nil, err
	}
	x2, err := u.conv1Down.Forward(x1)
	if err != nil {
		return nil, nil, err
	}
	if x2, err = u.backend.LeakyReLU(x2, nn.LeakySlope); err != nil {
		return nil, nil, err
	}
	if skip, err = pad.Crop2D(u.backend, x1, pad.Uniform(unet1SkipCrop)); err != nil {
		return nil, nil, err
	}
	if pre, err = u.conv2.Conv(x2); err != nil {
		return nil, nil, err
	}
	return skip, pre, nil
}

// ForwardB resumes from the gated conv2 output.
func (u *UNet1) ForwardB(skip, gated *tensor.RawTensor) (*tensor.RawTensor, error) {
	x2, err := u.conv2Up.Forward(gated)
	if err != nil {
		return nil, err
	}
	if x2, err = u.backend.LeakyReLU(x2, nn.LeakySlope); err != nil {
		return nil, err
	}
	x3, err := u.backend.Add(skip, x2)
	if err != nil {
		return nil, err
	}
	if x3, err = u.conv3.Forward(x3); err != nil {
		return nil, err
	}
	if x3, err = u.backend.LeakyReLU(x3, nn.LeakySlope); err != nil {
		return nil, err
	}
	return u.bottom.Forward(x3)
}

// Parameters returns all stage weights.
func (u *UNet1) Parameters() []*nn.Parameter {
	var params []*nn.Parameter
	params = append(params, u.conv1.Parameters()...)
	params = append(params, u.conv1Down.Parameters()...)
	params = append(params, u.conv2.Parameters()...)
	params = append(params, u.conv2Up.Parameters()...)
	params = append(params, u.conv3.Parameters()...)
	return append(params, u.bottom.Parameters()...)
}
