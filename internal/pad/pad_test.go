package pad

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cugan/internal/backend/cpu"
	"github.com/born-ml/cugan/internal/tensor"
)

func TestIndices(t *testing.T) {
	tests := []struct {
		name    string
		n, l, r int
		want    []int
	}{
		{"no edge repeat", 4, 2, 2, []int{2, 1, 0, 1, 2, 3, 2, 1}},
		{"zero margin", 3, 0, 0, []int{0, 1, 2}},
		{"margin equals axis-1", 3, 2, 2, []int{2, 1, 0, 1, 2, 1, 0}},
		{"margin wider than axis", 3, 5, 0, []int{1, 0, 1, 2, 1, 0, 1, 2}},
		{"single sample", 1, 2, 1, []int{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Indices(tt.n, tt.l, tt.r)); diff != "" {
				t.Errorf("Indices(%d, %d, %d) mismatch (-want +got):\n%s", tt.n, tt.l, tt.r, diff)
			}
		})
	}
}

func TestReflectWidth(t *testing.T) {
	b := cpu.New()
	x, err := tensor.FromFloat32(tensor.Shape{1, 1, 1, 4}, []float32{1, 2, 3, 4})
	require.NoError(t, err)

	got, err := Reflect(b, x, DimW, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1, 1, 7}, got.Shape())
	assert.Equal(t, []float32{3, 2, 1, 2, 3, 4, 3}, got.AsFloat32())
}

func TestRoundTrip(t *testing.T) {
	b := cpu.New()
	data := make([]float32, 1*2*5*6)
	for i := range data {
		data[i] = float32(i) * 0.5
	}
	x, err := tensor.FromFloat32(tensor.Shape{1, 2, 5, 6}, data)
	require.NoError(t, err)

	for _, m := range []Margins{Uniform(1), Uniform(18), {Top: 0, Bottom: 3, Left: 7, Right: 2}} {
		padded, err := Reflect2D(b, x, m)
		require.NoError(t, err)
		assert.Equal(t, tensor.Shape{1, 2, 5 + m.Top + m.Bottom, 6 + m.Left + m.Right}, padded.Shape())

		back, err := Crop2D(b, padded, m)
		require.NoError(t, err)
		if diff := cmp.Diff(x.AsFloat32(), back.AsFloat32()); diff != "" {
			t.Errorf("round trip %+v mismatch (-want +got):\n%s", m, diff)
		}
	}
}

func TestCropErrors(t *testing.T) {
	b := cpu.New()
	x, err := tensor.Zeros(tensor.Shape{1, 1, 4, 4})
	require.NoError(t, err)

	_, err = Crop(b, x, DimH, 2, 2)
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)

	_, err = Crop(b, x, 5, 0, 0)
	assert.ErrorIs(t, err, tensor.ErrOutOfRange)

	_, err = Reflect(b, x, DimW, -1, 0)
	assert.Error(t, err)
}
