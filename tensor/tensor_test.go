// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/cugan/backend/cpu"
	"github.com/born-ml/cugan/tensor"
)

func TestPublicAPI(t *testing.T) {
	var b tensor.Backend = cpu.New()
	assert.Equal(t, tensor.CPU, b.Device())

	x, err := tensor.FromFloat32(tensor.Shape{1, 1, 2, 2}, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, tensor.Float32, x.DType())

	mean, err := b.MeanHW(x)
	require.NoError(t, err)
	assert.Equal(t, []float32{2.5}, mean.AsFloat32())

	y, err := tensor.Zeros(tensor.Shape{1, 1, 3, 3})
	require.NoError(t, err)
	_, err = b.Add(x, y)
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)
	var se *tensor.ShapeError
	assert.True(t, errors.As(err, &se))

	_, err = tensor.Zeros(tensor.Shape{0, 2})
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)
}
