package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/cugan/internal/parallel"
	"github.com/born-ml/cugan/internal/tensor"
)

// maxColElems bounds the im2col buffer; larger outputs are processed in row bands.
var maxColElems = 1 << 22

// Conv2D performs 2D convolution using the im2col algorithm.
//
// Input shape: [batch, in_channels, height, width]
// Weight shape: [out_channels, in_channels, kernel_h, kernel_w]
// Bias shape: [out_channels] (optional)
// Output shape: [batch, out_channels, out_h, out_w]
//
// Algorithm: Im2col
//  1. Transform input patches into columns: [C_in*K_h*K_w, out_h*out_w]
//  2. GEMM: weight [C_out, C_in*K_h*K_w] @ columns -> [C_out, out_h*out_w]
//
// The GEMM result is already in NCHW order, so no rearrangement is needed.
// When the column buffer would exceed maxColElems the output is produced in
// bands of rows, each writing a strided sub-matrix of the output.
//
// Reference: "High Performance Convolutional Neural Networks for Document Processing"
// (Chellapilla et al., 2006).
func (cpu *CPUBackend) Conv2D(input, weight, bias *tensor.RawTensor, stride, padding int) (*tensor.RawTensor, error) {
	if err := requireFloat32("conv2d", input, weight); err != nil {
		return nil, err
	}
	N, CIn, H, W, err := input.Shape().Dims4()
	if err != nil {
		return nil, fmt.Errorf("conv2d: input: %w", err)
	}
	COut, CInK, KH, KW, err := weight.Shape().Dims4()
	if err != nil {
		return nil, fmt.Errorf("conv2d: weight: %w", err)
	}
	if CIn != CInK {
		return nil, &tensor.ShapeError{
			Op:     "conv2d",
			Shapes: []tensor.Shape{input.Shape(), weight.Shape()},
			Detail: fmt.Sprintf("input channels %d != weight channels %d", CIn, CInK),
		}
	}
	if err := checkBias("conv2d", bias, COut); err != nil {
		return nil, err
	}
	if stride <= 0 || padding < 0 {
		return nil, fmt.Errorf("conv2d: invalid stride %d / padding %d", stride, padding)
	}

	// out_h = (H + 2*padding - KH) / stride + 1
	HOut := (H+2*padding-KH)/stride + 1
	WOut := (W+2*padding-KW)/stride + 1
	if H+2*padding < KH || W+2*padding < KW || HOut <= 0 || WOut <= 0 {
		return nil, &tensor.ShapeError{
			Op:     "conv2d",
			Shapes: []tensor.Shape{input.Shape(), weight.Shape()},
			Detail: fmt.Sprintf("input smaller than kernel (padding %d)", padding),
		}
	}

	output, err := tensor.NewRaw(tensor.Shape{N, COut, HOut, WOut}, tensor.Float32, cpu.device)
	if err != nil {
		return nil, fmt.Errorf("conv2d: failed to create output tensor: %w", err)
	}

	inData, outData := input.AsFloat32(), output.AsFloat32()
	k := CIn * KH * KW
	hw := HOut * WOut
	w := blas32.General{Rows: COut, Cols: k, Stride: k, Data: weight.AsFloat32()}
	pointwise := KH == 1 && KW == 1 && stride == 1 && padding == 0

	bandRows := max(1, min(HOut, maxColElems/max(1, k*WOut)))
	var col []float32
	if !pointwise {
		col = make([]float32, k*bandRows*WOut)
	}

	for n := 0; n < N; n++ {
		src := inData[n*CIn*H*W : (n+1)*CIn*H*W]
		dst := outData[n*COut*hw : (n+1)*COut*hw]
		beta := fillBias(dst, bias, COut, hw)

		if pointwise {
			// 1x1 kernel: the input planes are already the column matrix.
			blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, w,
				blas32.General{Rows: k, Cols: hw, Stride: hw, Data: src},
				beta, blas32.General{Rows: COut, Cols: hw, Stride: hw, Data: dst})
			continue
		}

		for oh0 := 0; oh0 < HOut; oh0 += bandRows {
			oh1 := min(oh0+bandRows, HOut)
			cols := (oh1 - oh0) * WOut
			cpu.im2col(col[:k*cols], src, CIn, H, W, KH, KW, WOut, oh0, oh1, stride, padding)
			blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, w,
				blas32.General{Rows: k, Cols: cols, Stride: cols, Data: col},
				beta, blas32.General{Rows: COut, Cols: cols, Stride: hw, Data: dst[oh0*WOut:]})
		}
	}

	return output, nil
}

// im2col transforms output rows [oh0, oh1) of one image into a column matrix.
//
// Input: [C, H, W]
// Output: col [C * K_h * K_w, (oh1-oh0) * W_out]
//
// Row (c, kh, kw) of col holds the input sample each output position sees
// through kernel tap (kh, kw) of channel c, or zero in the padding.
func (cpu *CPUBackend) im2col(col, src []float32, C, H, W, KH, KW, WOut, oh0, oh1, stride, padding int) {
	cols := (oh1 - oh0) * WOut
	parallel.For(C, func(c int) {
		plane := src[c*H*W : (c+1)*H*W]
		for kh := 0; kh < KH; kh++ {
			for kw := 0; kw < KW; kw++ {
				row := col[((c*KH+kh)*KW+kw)*cols:][:cols]
				idx := 0
				for oh := oh0; oh < oh1; oh++ {
					h := oh*stride - padding + kh
					if h < 0 || h >= H {
						clear(row[idx : idx+WOut])
						idx += WOut
						continue
					}
					line := plane[h*W : (h+1)*W]
					for ow := 0; ow < WOut; ow++ {
						x := ow*stride - padding + kw
						if x >= 0 && x < W {
							row[idx] = line[x]
						} else {
							row[idx] = 0
						}
						idx++
					}
				}
			}
		}
	}, cpu.par)
}

func checkBias(op string, bias *tensor.RawTensor, cout int) error {
	if bias == nil {
		return nil
	}
	if err := requireFloat32(op, bias); err != nil {
		return err
	}
	if bias.NumElements() != cout {
		return &tensor.ShapeError{
			Op:     op,
			Shapes: []tensor.Shape{bias.Shape(), {cout}},
			Detail: "bias must have one element per output channel",
		}
	}
	return nil
}

// fillBias writes bias[c] across row c of dst and returns the GEMM beta to use.
func fillBias(dst []float32, bias *tensor.RawTensor, rows, cols int) float32 {
	if bias == nil {
		return 0
	}
	b := bias.AsFloat32()
	for c := 0; c < rows; c++ {
		row := dst[c*cols : (c+1)*cols]
		for i := range row {
			row[i] = b[c]
		}
	}
	return 1
}
