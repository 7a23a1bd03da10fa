package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cugan/internal/tensor"
)

func TestMeanHW(t *testing.T) {
	backend := New()

	// Two channels of a 2x3 plane.
	x := fromSlice(t, tensor.Shape{1, 2, 2, 3},
		1, 2, 3, 4, 5, 6,
		-1, -1, -1, -1, -1, 5)

	result, err := backend.MeanHW(x)
	require.NoError(t, err)
	if !result.Shape().Equal(tensor.Shape{1, 2, 1, 1}) {
		t.Errorf("Expected shape [1, 2, 1, 1], got %v", result.Shape())
	}
	assert.InDelta(t, 3.5, result.AsFloat32()[0], 1e-6)
	assert.InDelta(t, 0, result.AsFloat32()[1], 1e-6)
}

func TestMeanHW_Batch(t *testing.T) {
	backend := New(WithWorkers(4))
	x := randTensor(t, 11, tensor.Shape{3, 5, 7, 9})

	result, err := backend.MeanHW(x)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{3, 5, 1, 1}, result.Shape())

	data := x.AsFloat32()
	for p := 0; p < 15; p++ {
		var sum float64
		for _, v := range data[p*63 : (p+1)*63] {
			sum += float64(v)
		}
		assert.InDelta(t, sum/63, result.AsFloat32()[p], 1e-6)
	}
}

func TestMeanHW_RequiresNCHW(t *testing.T) {
	_, err := New().MeanHW(fromSlice(t, tensor.Shape{2, 2}, 1, 2, 3, 4))
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)
}
