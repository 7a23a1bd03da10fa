package model

import (
	"github.com/born-ml/cugan/internal/tensor"
)

// Affine constants mapping pixel values to the network's working range.
const (
	pixelMax    = 255
	affineScale = 0.7
	affineShift = 0.15
)

// Normalize maps pixels in [0, 255] to v/255*0.7 + 0.15.
func Normalize(b tensor.Backend, x *tensor.RawTensor) (*tensor.RawTensor, error) {
	y, err := b.MulScalar(x, affineScale/pixelMax)
	if err != nil {
		return nil, err
	}
	return b.AddScalar(y, affineShift)
}

// Denormalize maps network output back to pixels: (v-0.15)*255/0.7,
// rounded and clamped to [0, 255].
func Denormalize(b tensor.Backend, x *tensor.RawTensor) (*tensor.RawTensor, error) {
	y, err := b.AddScalar(x, -affineShift)
	if err != nil {
		return nil, err
	}
	if y, err = b.MulScalar(y, pixelMax/affineScale); err != nil {
		return nil, err
	}
	if y, err = b.Round(y); err != nil {
		return nil, err
	}
	return b.Clamp(y, 0, pixelMax)
}

// ScaleAlpha multiplies the conv4 features of stage B by alpha, the
// denoise/sharpen strength. Alpha 1 returns x unchanged.
func ScaleAlpha(b tensor.Backend, x *tensor.RawTensor, alpha float32) (*tensor.RawTensor, error) {
	if alpha == 1 {
		return x, nil
	}
	return b.MulScalar(x, alpha)
}
