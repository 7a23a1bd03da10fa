package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cugan/internal/backend/cpu"
	"github.com/born-ml/cugan/internal/tensor"
	"github.com/born-ml/cugan/internal/weights"
)

// TestConv2D_Load tests Conv2D construction from a checkpoint scope.
func TestConv2D_Load(t *testing.T) {
	backend := cpu.New()
	src := weights.NewRandom(1)

	conv, err := LoadConv2D(weights.Root(src).Child("unet1.conv1.conv.0"), 3, 32, 3, 1, 0, backend)
	require.NoError(t, err)

	if conv.InChannels() != 3 {
		t.Errorf("Expected in_channels=3, got %d", conv.InChannels())
	}
	if conv.OutChannels() != 32 {
		t.Errorf("Expected out_channels=32, got %d", conv.OutChannels())
	}

	params := conv.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, "unet1.conv1.conv.0.weight", params[0].Name())
	assert.Equal(t, tensor.Shape{32, 3, 3, 3}, params[0].Tensor().Shape())
	assert.Equal(t, "unet1.conv1.conv.0.bias", params[1].Name())
	assert.Equal(t, 32*3*3*3+32, CountElements(params))
	assert.Equal(t, "Conv2D(in_channels=3, out_channels=32, kernel_size=3, stride=1, padding=0)", conv.String())
}

// TestConv2D_ForwardShape tests forward pass output shape.
func TestConv2D_ForwardShape(t *testing.T) {
	backend := cpu.New()
	src := weights.NewRandom(2)

	down, err := LoadConv2D(weights.Root(src).Child("conv1_down"), 4, 4, 2, 2, 0, backend)
	require.NoError(t, err)

	input, err := tensor.Zeros(tensor.Shape{1, 4, 10, 12})
	require.NoError(t, err)

	out, err := down.Forward(input)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 4, 5, 6}, out.Shape())
	assert.Equal(t, [2]int{5, 6}, down.ComputeOutputSize(10, 12))

	_, err = down.Forward(mustZeros(t, tensor.Shape{1, 3, 10, 12}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestConv2D_LoadErrors(t *testing.T) {
	backend := cpu.New()
	m := weights.Map{
		"c.weight": mustZeros(t, tensor.Shape{2, 1, 3, 3}),
		"c.bias":   mustZeros(t, tensor.Shape{2}),
	}

	_, err := LoadConv2D(weights.Root(m).Child("c"), 1, 2, 3, 1, 0, backend)
	require.NoError(t, err)

	_, err = LoadConv2D(weights.Root(m).Child("c"), 1, 4, 3, 1, 0, backend)
	assert.ErrorIs(t, err, weights.ErrShapeMismatch)

	_, err = LoadConv2D(weights.Root(m).Child("d"), 1, 2, 3, 1, 0, backend)
	assert.ErrorIs(t, err, weights.ErrNotFound)

	_, err = LoadConv2D(weights.Root(m).Child("c"), 0, 2, 3, 1, 0, backend)
	assert.Error(t, err)
}

func TestConvTranspose2D_Forward(t *testing.T) {
	backend := cpu.New()
	src := weights.NewRandom(3)

	up, err := LoadConvTranspose2D(weights.Root(src).Child("conv_bottom"), 8, 3, 4, 2, 3, backend)
	require.NoError(t, err)
	assert.Equal(t, 3, up.OutChannels())
	assert.Equal(t, [2]int{12, 16}, up.ComputeOutputSize(8, 10))

	out, err := up.Forward(mustZeros(t, tensor.Shape{1, 8, 8, 10}))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 3, 12, 16}, out.Shape())

	// Zero input leaves only the bias.
	bias := up.Parameters()[1].Tensor().AsFloat32()
	assert.InDelta(t, bias[2], out.AsFloat32()[2*12*16+5], 1e-7)
}

func mustZeros(t *testing.T, s tensor.Shape) *tensor.RawTensor {
	t.Helper()
	x, err := tensor.Zeros(s)
	require.NoError(t, err)
	return x
}
