package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RawTensor Tests

func TestNewRawZeroed(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	require.NoError(t, err)

	data := raw.AsFloat32()
	require.Len(t, data, 6)
	for i, v := range data {
		if v != 0 {
			t.Errorf("data[%d] = %v, want 0", i, v)
		}
	}
	assert.Equal(t, 24, raw.ByteSize())
	assert.Equal(t, []int{3, 1}, raw.Strides())
}

func TestNewRawInvalidShape(t *testing.T) {
	_, err := NewRaw(Shape{2, -1}, Float32, CPU)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestRawTensorAsUint8(t *testing.T) {
	raw, _ := NewRaw(Shape{4, 4}, Uint8, CPU)
	data := raw.AsUint8()

	if len(data) != 16 {
		t.Errorf("AsUint8 length = %d, want 16", len(data))
	}

	// Modify and verify zero-copy
	data[0] = 255
	if raw.AsUint8()[0] != 255 {
		t.Error("AsUint8 should return zero-copy slice")
	}
}

func TestRawTensorWrongDTypePanics(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Uint8, CPU)
	assert.Panics(t, func() { raw.AsFloat32() })
}

func TestFromFloat32(t *testing.T) {
	src := []float32{1, 2, 3, 4}
	raw, err := FromFloat32(Shape{1, 1, 2, 2}, src)
	require.NoError(t, err)

	src[0] = 100
	assert.Equal(t, []float32{1, 2, 3, 4}, raw.AsFloat32(), "FromFloat32 must copy its input")

	_, err = FromFloat32(Shape{2, 2}, []float32{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestRawTensorClone(t *testing.T) {
	raw, _ := FromFloat32(Shape{2}, []float32{1, 2})
	clone := raw.Clone()
	clone.AsFloat32()[0] = 9

	assert.InDelta(t, 1, raw.AsFloat32()[0], 0)
	assertEqualShape(t, raw.Shape(), clone.Shape(), "Clone")
}

func TestRawTensorReshape(t *testing.T) {
	raw, _ := FromFloat32(Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	r, err := raw.Reshape(Shape{3, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, r.Strides())

	// Shares the buffer.
	r.AsFloat32()[5] = 60
	assert.InDelta(t, 60, raw.AsFloat32()[5], 0)

	_, err = raw.Reshape(Shape{4})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestDeviceString(t *testing.T) {
	assert.Equal(t, "CPU", CPU.String())
	assert.Equal(t, "Unknown", Device(7).String())
	assert.Equal(t, "RawTensor([1 2], float32, CPU)", mustZeros(t, Shape{1, 2}).String())
}

func mustZeros(t *testing.T, s Shape) *RawTensor {
	t.Helper()
	r, err := Zeros(s)
	require.NoError(t, err)
	return r
}
