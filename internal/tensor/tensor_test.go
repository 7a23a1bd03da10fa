package tensor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers

func assertEqualShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

// DType Tests

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Uint8, 1},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestDataTypeString(t *testing.T) {
	tests := []struct {
		dtype DataType
		str   string
	}{
		{Float32, "float32"},
		{Uint8, "uint8"},
		{DataType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.dtype.String(); got != tt.str {
			t.Errorf("%d.String() = %q, want %q", tt.dtype, got, tt.str)
		}
	}
}

// Shape Tests

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{1, 3, 4, 4}, 48},
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("%v.NumElements() = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShapeValidate(t *testing.T) {
	require.NoError(t, Shape{1, 3, 2, 2}.Validate())

	err := Shape{1, 0, 2}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidShape))
}

func TestShapeComputeStrides(t *testing.T) {
	got := Shape{2, 3, 4, 5}.ComputeStrides()
	assert.Equal(t, []int{60, 20, 5, 1}, got)
	assert.Empty(t, Shape{}.ComputeStrides())
}

func TestShapeDims4(t *testing.T) {
	n, c, h, w, err := Shape{1, 3, 7, 9}.Dims4()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 7, 9}, []int{n, c, h, w})

	_, _, _, _, err = Shape{3, 7, 9}.Dims4()
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Shape
		want      Shape
		broadcast bool
		wantErr   bool
	}{
		{"same", Shape{1, 3, 8, 8}, Shape{1, 3, 8, 8}, Shape{1, 3, 8, 8}, false, false},
		{"channel gate", Shape{1, 64, 1, 1}, Shape{1, 64, 20, 20}, Shape{1, 64, 20, 20}, true, false},
		{"rank extend", Shape{8}, Shape{2, 4, 8}, Shape{2, 4, 8}, true, false},
		{"incompatible", Shape{1, 3, 8, 8}, Shape{1, 3, 6, 6}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, bc, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				var se *ShapeError
				require.ErrorAs(t, err, &se)
				assert.ErrorIs(t, err, ErrShapeMismatch)
				return
			}
			require.NoError(t, err)
			assertEqualShape(t, tt.want, got, "BroadcastShapes")
			assert.Equal(t, tt.broadcast, bc)
		})
	}
}

func TestShapeErrorMessage(t *testing.T) {
	err := &ShapeError{Op: "add", Shapes: []Shape{{1, 2}, {1, 3}}, Detail: "dimension 1"}
	assert.Equal(t, "add: shape mismatch [1 2] vs [1 3]: dimension 1", err.Error())
}
