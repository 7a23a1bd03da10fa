package cpu

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/cugan/internal/tensor"
)

func randTensor(t *testing.T, seed uint64, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 0x5eed))
	x, err := tensor.Zeros(shape)
	require.NoError(t, err)
	for i := range x.AsFloat32() {
		x.AsFloat32()[i] = rng.Float32()*2 - 1
	}
	return x
}

func fromSlice(t *testing.T, shape tensor.Shape, data ...float32) *tensor.RawTensor {
	t.Helper()
	x, err := tensor.FromFloat32(shape, data)
	require.NoError(t, err)
	return x
}

func assertClose(t *testing.T, want, got []float32, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		d := float64(want[i] - got[i])
		if d > tol || d < -tol {
			t.Fatalf("element %d: want %v, got %v (tol %v)", i, want[i], got[i], tol)
		}
	}
}

// naiveConv2D is a direct 7-loop convolution used as ground truth.
func naiveConv2D(in, w, b *tensor.RawTensor, stride, pad int) []float32 {
	N, C, H, W := in.Shape()[0], in.Shape()[1], in.Shape()[2], in.Shape()[3]
	CO, KH, KW := w.Shape()[0], w.Shape()[2], w.Shape()[3]
	HO := (H+2*pad-KH)/stride + 1
	WO := (W+2*pad-KW)/stride + 1
	x, k := in.AsFloat32(), w.AsFloat32()
	out := make([]float32, N*CO*HO*WO)
	for n := 0; n < N; n++ {
		for co := 0; co < CO; co++ {
			for oh := 0; oh < HO; oh++ {
				for ow := 0; ow < WO; ow++ {
					var sum float64
					if b != nil {
						sum = float64(b.AsFloat32()[co])
					}
					for c := 0; c < C; c++ {
						for kh := 0; kh < KH; kh++ {
							for kw := 0; kw < KW; kw++ {
								h, ww := oh*stride-pad+kh, ow*stride-pad+kw
								if h < 0 || h >= H || ww < 0 || ww >= W {
									continue
								}
								sum += float64(x[((n*C+c)*H+h)*W+ww]) * float64(k[((co*C+c)*KH+kh)*KW+kw])
							}
						}
					}
					out[((n*CO+co)*HO+oh)*WO+ow] = float32(sum)
				}
			}
		}
	}
	return out
}

// naiveConvTranspose2D scatters every input sample through the kernel.
func naiveConvTranspose2D(in, w, b *tensor.RawTensor, stride, pad int) []float32 {
	N, C, H, W := in.Shape()[0], in.Shape()[1], in.Shape()[2], in.Shape()[3]
	CO, KH, KW := w.Shape()[1], w.Shape()[2], w.Shape()[3]
	HO := (H-1)*stride - 2*pad + KH
	WO := (W-1)*stride - 2*pad + KW
	x, k := in.AsFloat32(), w.AsFloat32()
	acc := make([]float64, N*CO*HO*WO)
	for n := 0; n < N; n++ {
		for c := 0; c < C; c++ {
			for ih := 0; ih < H; ih++ {
				for iw := 0; iw < W; iw++ {
					v := float64(x[((n*C+c)*H+ih)*W+iw])
					for co := 0; co < CO; co++ {
						for kh := 0; kh < KH; kh++ {
							for kw := 0; kw < KW; kw++ {
								oh, ow := ih*stride-pad+kh, iw*stride-pad+kw
								if oh < 0 || oh >= HO || ow < 0 || ow >= WO {
									continue
								}
								acc[((n*CO+co)*HO+oh)*WO+ow] += v * float64(k[((c*CO+co)*KH+kh)*KW+kw])
							}
						}
					}
				}
			}
		}
	}
	out := make([]float32, len(acc))
	for i := range acc {
		if b != nil {
			acc[i] += float64(b.AsFloat32()[(i/(HO*WO))%CO])
		}
		out[i] = float32(acc[i])
	}
	return out
}
