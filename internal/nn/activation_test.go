package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cugan/internal/backend/cpu"
	"github.com/born-ml/cugan/internal/tensor"
	"github.com/born-ml/cugan/internal/weights"
)

func TestActivations(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromFloat32(tensor.Shape{1, 1, 1, 3}, []float32{-1, 0, 2})
	require.NoError(t, err)

	leaky, err := NewLeakyReLU(LeakySlope, backend).Forward(x)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{-0.1, 0, 2}, leaky.AsFloat32(), 1e-7)

	relu, err := NewReLU(backend).Forward(x)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 2}, relu.AsFloat32())

	sig, err := NewSigmoid(backend).Forward(x)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, sig.AsFloat32()[1], 1e-7)

	assert.Nil(t, NewReLU(backend).Parameters())
}

func TestSequential(t *testing.T) {
	backend := cpu.New()
	scope := weights.Root(weights.NewRandom(4))

	c0, err := LoadConv2D(scope.Child("conv.0"), 3, 4, 3, 1, 0, backend)
	require.NoError(t, err)
	c2, err := LoadConv2D(scope.Child("conv.2"), 4, 5, 3, 1, 0, backend)
	require.NoError(t, err)

	seq := NewSequential(c0, NewLeakyReLU(LeakySlope, backend), c2, NewLeakyReLU(LeakySlope, backend))
	assert.Equal(t, 4, seq.Len())
	assert.Len(t, seq.Parameters(), 4)

	x, err := tensor.Zeros(tensor.Shape{1, 3, 9, 9})
	require.NoError(t, err)
	out, err := seq.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 5, 5, 5}, out.Shape())

	// Errors stop the chain.
	_, err = seq.Forward(mustZeros(t, tensor.Shape{1, 2, 9, 9}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}
