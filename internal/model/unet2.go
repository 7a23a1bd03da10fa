package model

import (
	"github.com/born-ml/cugan/internal/nn"
	"github.com/born-ml/cugan/internal/pad"
	"github.com/born-ml/cugan/internal/tensor"
	"github.com/born-ml/cugan/internal/weights"
)

// Skip crops of stage B.
const (
	unet2SkipCrop1 = 16
	unet2SkipCrop2 = 4
)

// UNet2 is stage B: a two-level UNet refining the stage A output at the
// target resolution. It trims 20 px per side.
type UNet2 struct {
	conv1     *UNetConv
	conv1Down *nn.Conv2D
	conv2     *UNetConv
	conv2Down *nn.Conv2D
	conv3     *UNetConv
	conv3Up   *nn.ConvTranspose2D
	conv4     *UNetConv
	conv4Up   *nn.ConvTranspose2D
	conv5     *nn.Conv2D
	bottom    *Head

	backend tensor.Backend
}

func loadUNet2(scope weights.Scope, in, out int, arch Arch, b tensor.Backend) (*UNet2, error) {
	w := arch.width()
	u := &UNet2{backend: b}
	var err error
	if u.conv1, err = LoadUNetConv(scope.Child("conv1"), in, w/2, w, false, b); err != nil {
		return nil, err
	}
	if u.conv1Down, err = nn.LoadConv2D(scope.Child("conv1_down"), w, w, 2, 2, 0, b); err != nil {
		return nil, err
	}
	if u.conv2, err = LoadUNetConv(scope.Child("conv2"), w, w, 2*w, true, b); err != nil {
		return nil, err
	}
	if u.conv2Down, err = nn.LoadConv2D(scope.Child("conv2_down"), 2*w, 2*w, 2, 2, 0, b); err != nil {
		return nil, err
	}
	if u.conv3, err = LoadUNetConv(scope.Child("conv3"), 2*w, 4*w, 2*w, true, b); err != nil {
		return nil, err
	}
	if u.conv3Up, err = nn.LoadConvTranspose2D(scope.Child("conv3_up"), 2*w, 2*w, 2, 2, 0, b); err != nil {
		return nil, err
	}
	if u.conv4, err = LoadUNetConv(scope.Child("conv4"), 2*w, w, w, true, b); err != nil {
		return nil, err
	}
	if u.conv4Up, err = nn.LoadConvTranspose2D(scope.Child("conv4_up"), w, w, 2, 2, 0, b); err != nil {
		return nil, err
	}
	if u.conv5, err = nn.LoadConv2D(scope.Child("conv5"), w, w, 3, 1, 0, b); err != nil {
		return nil, err
	}
	if u.bottom, err = loadConvHead(scope.Child("conv_bottom"), w, out, b); err != nil {
		return nil, err
	}
	return u, nil
}

// Forward runs the stage with every gate using its local mean. The conv4
// features are scaled by alpha before their gate; alpha 1 leaves them as is.
func (u *UNet2) Forward(x *tensor.RawTensor, alpha float32) (*tensor.RawTensor, error) {
	x1, x2, err := u.ForwardA(x)
	if err != nil {
		return nil, err
	}
	if x2, err = u.conv2.gate(x2); err != nil {
		return nil, err
	}
	x2, x3, err := u.ForwardB(x2)
	if err != nil {
		return nil, err
	}
	if x3, err = u.conv3.gate(x3); err != nil {
		return nil, err
	}
	x4, err := u.ForwardC(x2, x3)
	if err != nil {
		return nil, err
	}
	if x4, err = ScaleAlpha(u.backend, x4, alpha); err != nil {
		return nil, err
	}
	if x4, err = u.conv4.gate(x4); err != nil {
		return nil, err
	}
	return u.ForwardD(x1, x4)
}

// ForwardA runs up to the conv2 gate. It returns the cropped conv1 skip and
// the ungated conv2 output.
func (u *UNet2) ForwardA(x *tensor.RawTensor) (skip, pre *tensor.RawTensor, err error) {
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
	if skip, err = pad.Crop2D(u.backend, x1, pad.Uniform(unet2SkipCrop1)); err != nil {
		return nil, nil, err
	}
	if pre, err = u.conv2.Conv(x2); err != nil {
		return nil, nil, err
	}
	return skip, pre, nil
}

// ForwardB resumes from the gated conv2 output and runs up to the conv3
// gate. It returns the cropped conv2 skip and the ungated conv3 output.
func (u *UNet2) ForwardB(gated *tensor.RawTensor) (skip, pre *tensor.RawTensor, err error) {
	x3, err := u.conv2Down.Forward(gated)
	if err != nil {
		return nil, nil, err
	}
	if x3, err = u.backend.LeakyReLU(x3, nn.LeakySlope); err != nil {
		return nil, nil, err
	}
	if skip, err = pad.Crop2D(u.backend, gated, pad.Uniform(unet2SkipCrop2)); err != nil {
		return nil, nil, err
	}
	if pre, err = u.conv3.Conv(x3); err != nil {
		return nil, nil, err
	}
	return skip, pre, nil
}

// ForwardC resumes from the gated conv3 output and returns the ungated
// conv4 output.
func (u *UNet2) ForwardC(skip, gated *tensor.RawTensor) (*tensor.RawTensor, error) {
	x3, err := u.conv3Up.Forward(gated)
	if err != nil {
		return nil, err
	}
	if x3, err = u.backend.LeakyReLU(x3, nn.LeakySlope); err != nil {
		return nil, err
	}
	x4, err := u.backend.Add(skip, x3)
	if err != nil {
		return nil, err
	}
	return u.conv4.Conv(x4)
}

// ForwardD resumes from the gated conv4 output and returns the stage output.
func (u *UNet2) ForwardD(skip, gated *tensor.RawTensor) (*tensor.RawTensor, error) {
	x4, err := u.conv4Up.Forward(gated)
	if err != nil {
		return nil, err
	}
	if x4, err = u.backend.LeakyReLU(x4, nn.LeakySlope); err != nil {
		return nil, err
	}
	x5, err := u.backend.Add(skip, x4)
	if err != nil {
		return nil, err
	}
	if x5, err = u.conv5.Forward(x5); err != nil {
		return nil, err
	}
	if x5, err = u.backend.LeakyReLU(x5, nn.LeakySlope); err != nil {
		return nil, err
	}
	return u.bottom.Forward(x5)
}

// Parameters returns all stage weights.
func (u *UNet2) Parameters() []*nn.Parameter {
	var params []*nn.Parameter
	params = append(params, u.conv1.Parameters()...)
	params = append(params, u.conv1Down.Parameters()...)
	params = append(params, u.conv2.Parameters()...)
	params = append(params, u.conv2Down.Parameters()...)
	params = append(params, u.conv3.Parameters()...)
	params = append(params, u.conv3Up.Parameters()...)
	params = append(params, u.conv4.Parameters()...)
	params = append(params, u.conv4Up.Parameters()...)
	params = append(params, u.conv5.Parameters()...)
	return append(params, u.bottom.Parameters()...)
}
