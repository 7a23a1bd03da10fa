// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/cugan/internal/tensor"

// RawTensor is a dense row-major tensor.
type RawTensor = tensor.RawTensor

// Shape is a tensor's dimensions.
type Shape = tensor.Shape

// DataType is a tensor element type.
type DataType = tensor.DataType

// Supported element types.
const (
	Float32 = tensor.Float32
	Uint8   = tensor.Uint8
)

// ShapeError reports operands with incompatible shapes.
type ShapeError = tensor.ShapeError

// Errors.
var (
	ErrInvalidShape  = tensor.ErrInvalidShape
	ErrShapeMismatch = tensor.ErrShapeMismatch
	ErrDType         = tensor.ErrDType
	ErrOutOfRange    = tensor.ErrOutOfRange
)

// Zeros allocates a zero-filled float32 tensor.
func Zeros(shape Shape) (*RawTensor, error) {
	return tensor.Zeros(shape)
}

// FromFloat32 creates a float32 tensor holding a copy of data.
func FromFloat32(shape Shape, data []float32) (*RawTensor, error) {
	return tensor.FromFloat32(shape, data)
}
