package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/cugan/internal/parallel"
	"github.com/born-ml/cugan/internal/tensor"
)

// ConvTranspose2D performs a 2D transposed convolution (fractionally strided conv).
//
// Input shape: [batch, in_channels, height, width]
// Weight shape: [in_channels, out_channels, kernel_h, kernel_w]
// Bias shape: [out_channels] (optional)
// Output shape: [batch, out_channels, (H-1)*stride - 2*padding + K_h, ...]
//
// Algorithm: GEMM + col2im
//  1. GEMM: weight^T [C_out*K_h*K_w, C_in] @ input [C_in, H*W] -> columns
//  2. col2im: scatter-add every column entry to its output position,
//     dropping the positions cut off by padding
func (cpu *CPUBackend) ConvTranspose2D(input, weight, bias *tensor.RawTensor, stride, padding int) (*tensor.RawTensor, error) {
	if err := requireFloat32("conv_transpose2d", input, weight); err != nil {
		return nil, err
	}
	N, CIn, H, W, err := input.Shape().Dims4()
	if err != nil {
		return nil, fmt.Errorf("conv_transpose2d: input: %w", err)
	}
	CInK, COut, KH, KW, err := weight.Shape().Dims4()
	if err != nil {
		return nil, fmt.Errorf("conv_transpose2d: weight: %w", err)
	}
	if CIn != CInK {
		return nil, &tensor.ShapeError{
			Op:     "conv_transpose2d",
			Shapes: []tensor.Shape{input.Shape(), weight.Shape()},
			Detail: fmt.Sprintf("input channels %d != weight channels %d", CIn, CInK),
		}
	}
	if err := checkBias("conv_transpose2d", bias, COut); err != nil {
		return nil, err
	}
	if stride <= 0 || padding < 0 {
		return nil, fmt.Errorf("conv_transpose2d: invalid stride %d / padding %d", stride, padding)
	}

	HOut := (H-1)*stride - 2*padding + KH
	WOut := (W-1)*stride - 2*padding + KW
	if HOut <= 0 || WOut <= 0 {
		return nil, &tensor.ShapeError{
			Op:     "conv_transpose2d",
			Shapes: []tensor.Shape{input.Shape(), weight.Shape()},
			Detail: fmt.Sprintf("padding %d removes the whole output", padding),
		}
	}

	output, err := tensor.NewRaw(tensor.Shape{N, COut, HOut, WOut}, tensor.Float32, cpu.device)
	if err != nil {
		return nil, fmt.Errorf("conv_transpose2d: failed to create output tensor: %w", err)
	}

	inData, outData := input.AsFloat32(), output.AsFloat32()
	kk := COut * KH * KW
	hw := H * W
	ohw := HOut * WOut
	w := blas32.General{Rows: CIn, Cols: kk, Stride: kk, Data: weight.AsFloat32()}
	col := make([]float32, kk*hw)

	for n := 0; n < N; n++ {
		blas32.Gemm(blas.Trans, blas.NoTrans, 1, w,
			blas32.General{Rows: CIn, Cols: hw, Stride: hw, Data: inData[n*CIn*hw : (n+1)*CIn*hw]},
			0, blas32.General{Rows: kk, Cols: hw, Stride: hw, Data: col})

		dst := outData[n*COut*ohw : (n+1)*COut*ohw]
		fillBias(dst, bias, COut, ohw)

		// Each output channel is written by exactly one goroutine.
		parallel.For(COut, func(co int) {
			plane := dst[co*ohw : (co+1)*ohw]
			for kh := 0; kh < KH; kh++ {
				for kw := 0; kw < KW; kw++ {
					row := col[((co*KH+kh)*KW+kw)*hw:][:hw]
					for ih := 0; ih < H; ih++ {
						oh := ih*stride - padding + kh
						if oh < 0 || oh >= HOut {
							continue
						}
						line := plane[oh*WOut : (oh+1)*WOut]
						src := row[ih*W : (ih+1)*W]
						for iw, v := range src {
							ow := iw*stride - padding + kw
							if ow >= 0 && ow < WOut {
								line[ow] += v
							}
						}
					}
				}
			}
		}, cpu.par)
	}

	return output, nil
}
