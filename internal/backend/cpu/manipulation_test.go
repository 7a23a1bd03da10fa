package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cugan/internal/tensor"
)

func grid(t *testing.T, h, w int) *tensor.RawTensor {
	t.Helper()
	data := make([]float32, h*w)
	for i := range data {
		data[i] = float32(i)
	}
	return fromSlice(t, tensor.Shape{1, 1, h, w}, data...)
}

func TestNarrow(t *testing.T) {
	backend := New()
	x := grid(t, 3, 4)

	rows, err := backend.Narrow(x, 2, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1, 2, 4}, rows.Shape())
	assert.Equal(t, []float32{4, 5, 6, 7, 8, 9, 10, 11}, rows.AsFloat32())

	cols, err := backend.Narrow(x, -1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 5, 6, 9, 10}, cols.AsFloat32())

	same, err := backend.Narrow(x, 3, 0, 4)
	require.NoError(t, err)
	assert.Same(t, x, same)

	_, err = backend.Narrow(x, 3, 3, 2)
	assert.ErrorIs(t, err, tensor.ErrOutOfRange)
	_, err = backend.Narrow(x, 4, 0, 1)
	assert.ErrorIs(t, err, tensor.ErrOutOfRange)
}

func TestIndexSelect(t *testing.T) {
	backend := New()
	x := grid(t, 2, 3)

	got, err := backend.IndexSelect(x, 3, []int{1, 0, 1, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1, 2, 5}, got.Shape())
	assert.Equal(t, []float32{1, 0, 1, 2, 1, 4, 3, 4, 5, 4}, got.AsFloat32())

	_, err = backend.IndexSelect(x, 3, []int{3})
	assert.ErrorIs(t, err, tensor.ErrOutOfRange)
}

func TestIndexSelectUint8(t *testing.T) {
	backend := New()
	x, err := tensor.NewRaw(tensor.Shape{3, 2}, tensor.Uint8, tensor.CPU)
	require.NoError(t, err)
	copy(x.AsUint8(), []uint8{1, 2, 3, 4, 5, 6})

	got, err := backend.IndexSelect(x, 0, []int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []uint8{5, 6, 1, 2}, got.AsUint8())
}

func TestCat(t *testing.T) {
	backend := New()
	a := fromSlice(t, tensor.Shape{2, 2}, 1, 2, 3, 4)
	b := fromSlice(t, tensor.Shape{2, 1}, 9, 8)

	got, err := backend.Cat([]*tensor.RawTensor{a, b}, 1)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, got.Shape())
	assert.Equal(t, []float32{1, 2, 9, 3, 4, 8}, got.AsFloat32())

	got, err = backend.Cat([]*tensor.RawTensor{a, a}, 0)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4, 1, 2, 3, 4}, got.AsFloat32())

	_, err = backend.Cat([]*tensor.RawTensor{a, b}, 0)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
	_, err = backend.Cat(nil, 0)
	assert.Error(t, err)
}

func TestPaste(t *testing.T) {
	backend := New()
	dst, err := tensor.Zeros(tensor.Shape{1, 2, 3, 4})
	require.NoError(t, err)
	src := fromSlice(t, tensor.Shape{1, 2, 2, 2}, 1, 2, 3, 4, 5, 6, 7, 8)

	require.NoError(t, backend.Paste(dst, src, 1, 2))
	assert.Equal(t, []float32{
		0, 0, 0, 0,
		0, 0, 1, 2,
		0, 0, 3, 4,

		0, 0, 0, 0,
		0, 0, 5, 6,
		0, 0, 7, 8,
	}, dst.AsFloat32())

	assert.ErrorIs(t, backend.Paste(dst, src, 2, 0), tensor.ErrOutOfRange)
	assert.ErrorIs(t, backend.Paste(dst, grid(t, 1, 1), 0, 0), tensor.ErrShapeMismatch)
}
