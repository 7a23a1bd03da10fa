package model

import (
	"fmt"

	"github.com/born-ml/cugan/internal/weights"
)

// StageACrop is the border trimmed from the stage A output before it is
// added to the stage B output (stage B consumes 20 px per side).
const StageACrop = 20

// ScaleParams are the fixed geometry constants of one upscaling factor.
type ScaleParams struct {
	Factor int // Output pixels per input pixel along each axis.
	Margin int // Context pixels consumed per side.
	Align  int // Interior sizes must be multiples of Align.

	headKernel, headStride, headPadding int
}

// ParamsFor returns the geometry of a supported scale.
func ParamsFor(scale int) (ScaleParams, error) {
	switch scale {
	case 2:
		return ScaleParams{Factor: 2, Margin: 18, Align: 2, headKernel: 4, headStride: 2, headPadding: 3}, nil
	case 3:
		return ScaleParams{Factor: 3, Margin: 14, Align: 4, headKernel: 5, headStride: 3, headPadding: 2}, nil
	default:
		return ScaleParams{}, fmt.Errorf("%w: %d (want 2 or 3)", ErrUnsupportedScale, scale)
	}
}

// Window returns the input window size for an interior of n pixels.
func (p ScaleParams) Window(n int) int {
	return n + 2*p.Margin
}

// AlignUp rounds n up to a multiple of Align.
func (p ScaleParams) AlignUp(n int) int {
	return (n + p.Align - 1) / p.Align * p.Align
}

// DetectScale infers the scale of a checkpoint from its stage A head kernel.
func DetectScale(m weights.Map) (int, error) {
	const name = "unet1.conv_bottom.weight"
	w, ok := m[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", weights.ErrNotFound, name)
	}
	if s := w.Shape(); len(s) == 4 {
		for _, scale := range []int{2, 3} {
			p, _ := ParamsFor(scale)
			if s[2] == p.headKernel && s[3] == p.headKernel {
				return scale, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %s is %v", ErrUnsupportedScale, name, w.Shape())
}
