package cpu

import (
	"fmt"

	"github.com/born-ml/cugan/internal/parallel"
	"github.com/born-ml/cugan/internal/tensor"
)

// MeanHW averages every [H, W] plane: [N, C, H, W] -> [N, C, 1, 1].
// Sums accumulate in float64.
func (cpu *CPUBackend) MeanHW(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := requireFloat32("mean_hw", x); err != nil {
		return nil, err
	}
	n, c, h, w, err := x.Shape().Dims4()
	if err != nil {
		return nil, fmt.Errorf("mean_hw: %w", err)
	}

	result, err := tensor.NewRaw(tensor.Shape{n, c, 1, 1}, tensor.Float32, cpu.device)
	if err != nil {
		return nil, fmt.Errorf("mean_hw: %w", err)
	}
	src, dst := x.AsFloat32(), result.AsFloat32()
	plane := h * w

	parallel.For(n*c, func(p int) {
		var sum float64
		for _, v := range src[p*plane : (p+1)*plane] {
			sum += float64(v)
		}
		dst[p] = float32(sum / float64(plane))
	}, cpu.par)

	return result, nil
}
