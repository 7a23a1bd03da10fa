package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cugan/internal/tensor"
)

func TestConvTranspose2D_Stride2Kernel2(t *testing.T) {
	backend := New()

	// Every input sample expands into a 2x2 block scaled by the kernel.
	input := fromSlice(t, tensor.Shape{1, 1, 2, 2}, 1, 2, 3, 4)
	kernel := fromSlice(t, tensor.Shape{1, 1, 2, 2}, 1, 10, 100, 1000)

	out, err := backend.ConvTranspose2D(input, kernel, nil, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1, 4, 4}, out.Shape())
	assert.Equal(t, []float32{
		1, 10, 2, 20,
		100, 1000, 200, 2000,
		3, 30, 4, 40,
		300, 3000, 400, 4000,
	}, out.AsFloat32())
}

func TestConvTranspose2D_MatchesNaive(t *testing.T) {
	tests := []struct {
		name            string
		in, w           tensor.Shape
		stride, padding int
		wantHW          int
	}{
		{"x2 head", tensor.Shape{1, 4, 6, 6}, tensor.Shape{4, 3, 4, 4}, 2, 3, 8},
		{"x3 head", tensor.Shape{1, 4, 5, 5}, tensor.Shape{4, 3, 5, 5}, 3, 2, 13},
		{"upsample", tensor.Shape{2, 6, 3, 4}, tensor.Shape{6, 6, 2, 2}, 2, 0, 6},
	}

	backend := New(WithWorkers(3))
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := randTensor(t, uint64(i)+10, tt.in)
			w := randTensor(t, uint64(i)+20, tt.w)
			b := randTensor(t, uint64(i)+30, tensor.Shape{tt.w[1]})

			got, err := backend.ConvTranspose2D(in, w, b, tt.stride, tt.padding)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHW, got.Shape()[2])
			assertClose(t, naiveConvTranspose2D(in, w, b, tt.stride, tt.padding), got.AsFloat32(), 1e-4)
		})
	}
}

func TestConvTranspose2D_Errors(t *testing.T) {
	backend := New()
	in := randTensor(t, 1, tensor.Shape{1, 2, 1, 1})

	_, err := backend.ConvTranspose2D(in, randTensor(t, 2, tensor.Shape{3, 2, 2, 2}), nil, 2, 0)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

	// (1-1)*2 - 2*3 + 4 < 0
	_, err = backend.ConvTranspose2D(in, randTensor(t, 2, tensor.Shape{2, 2, 4, 4}), nil, 2, 3)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}
