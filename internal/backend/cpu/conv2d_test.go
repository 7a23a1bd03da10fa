package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cugan/internal/tensor"
)

// TestConv2D_BasicForward tests basic Conv2D forward pass.
func TestConv2D_BasicForward(t *testing.T) {
	backend := New()

	// Input: [1, 1, 3, 3] - single channel 3x3 image
	// 1 2 3
	// 4 5 6
	// 7 8 9
	input := fromSlice(t, tensor.Shape{1, 1, 3, 3}, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	// Kernel: [1, 1, 2, 2] - diagonal
	// 1 0
	// 0 1
	kernel := fromSlice(t, tensor.Shape{1, 1, 2, 2}, 1, 0, 0, 1)

	output, err := backend.Conv2D(input, kernel, nil, 1, 0)
	require.NoError(t, err)

	// out_h = (3 + 2*0 - 2) / 1 + 1 = 2
	expectedShape := tensor.Shape{1, 1, 2, 2}
	if !output.Shape().Equal(expectedShape) {
		t.Fatalf("Expected shape %v, got %v", expectedShape, output.Shape())
	}

	// Diagonal sums: 1+5, 2+6, 4+8, 5+9
	expected := []float32{6, 8, 12, 14}
	outputData := output.AsFloat32()
	for i, exp := range expected {
		if outputData[i] != exp {
			t.Errorf("Output[%d]: expected %.1f, got %.1f", i, exp, outputData[i])
		}
	}
}

// TestConv2D_WithPadding tests Conv2D with zero padding.
func TestConv2D_WithPadding(t *testing.T) {
	backend := New()

	ones := make([]float32, 9)
	for i := range ones {
		ones[i] = 1
	}
	input := fromSlice(t, tensor.Shape{1, 1, 3, 3}, ones...)
	kernel := fromSlice(t, tensor.Shape{1, 1, 3, 3}, ones...)

	output, err := backend.Conv2D(input, kernel, nil, 1, 1)
	require.NoError(t, err)

	// All ones: each output counts the valid samples in its window.
	expected := []float32{
		4, 6, 4, // top row
		6, 9, 6, // middle row
		4, 6, 4, // bottom row
	}
	assert.Equal(t, tensor.Shape{1, 1, 3, 3}, output.Shape())
	assert.Equal(t, expected, output.AsFloat32())
}

func TestConv2D_Bias(t *testing.T) {
	backend := New()

	input := fromSlice(t, tensor.Shape{1, 1, 2, 2}, 1, 2, 3, 4)
	kernel := fromSlice(t, tensor.Shape{2, 1, 1, 1}, 1, -1)
	bias := fromSlice(t, tensor.Shape{2}, 10, 20)

	output, err := backend.Conv2D(input, kernel, bias, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float32{11, 12, 13, 14, 19, 18, 17, 16}, output.AsFloat32())
}

func TestConv2D_MatchesNaive(t *testing.T) {
	tests := []struct {
		name            string
		in, w           tensor.Shape
		stride, padding int
	}{
		{"3x3 same", tensor.Shape{1, 4, 9, 7}, tensor.Shape{6, 4, 3, 3}, 1, 0},
		{"3x3 pad1", tensor.Shape{2, 3, 6, 6}, tensor.Shape{5, 3, 3, 3}, 1, 1},
		{"2x2 stride2", tensor.Shape{1, 8, 10, 12}, tensor.Shape{8, 8, 2, 2}, 2, 0},
		{"1x1", tensor.Shape{1, 16, 5, 5}, tensor.Shape{2, 16, 1, 1}, 1, 0},
	}

	backend := New(WithWorkers(4))
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := randTensor(t, uint64(i), tt.in)
			w := randTensor(t, uint64(i)+100, tt.w)
			b := randTensor(t, uint64(i)+200, tensor.Shape{tt.w[0]})

			got, err := backend.Conv2D(in, w, b, tt.stride, tt.padding)
			require.NoError(t, err)
			assertClose(t, naiveConv2D(in, w, b, tt.stride, tt.padding), got.AsFloat32(), 1e-4)
		})
	}
}

func TestConv2D_RowBands(t *testing.T) {
	saved := maxColElems
	maxColElems = 64 // force one output row per band
	defer func() { maxColElems = saved }()

	backend := New()
	in := randTensor(t, 7, tensor.Shape{2, 3, 8, 5})
	w := randTensor(t, 8, tensor.Shape{4, 3, 3, 3})

	got, err := backend.Conv2D(in, w, nil, 1, 0)
	require.NoError(t, err)
	assertClose(t, naiveConv2D(in, w, nil, 1, 0), got.AsFloat32(), 1e-4)
}

func TestConv2D_Errors(t *testing.T) {
	backend := New()
	in := randTensor(t, 1, tensor.Shape{1, 3, 4, 4})

	_, err := backend.Conv2D(in, randTensor(t, 2, tensor.Shape{2, 4, 3, 3}), nil, 1, 0)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch, "channel mismatch")

	_, err = backend.Conv2D(in, randTensor(t, 2, tensor.Shape{2, 3, 5, 5}), nil, 1, 0)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch, "kernel larger than input")

	_, err = backend.Conv2D(in, randTensor(t, 2, tensor.Shape{2, 3, 3, 3}), randTensor(t, 3, tensor.Shape{3}), 1, 0)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch, "bias length")

	_, err = backend.Conv2D(randTensor(t, 1, tensor.Shape{3, 4, 4}), randTensor(t, 2, tensor.Shape{2, 3, 3, 3}), nil, 1, 0)
	assert.ErrorIs(t, err, tensor.ErrInvalidShape, "3D input")
}
