// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the dense NCHW tensors and the compute backend
// interface the cugan network runs on.
//
// Tensors are plain row-major buffers with a shape and a dtype. They carry
// no graph or gradient state; every operation is a method on a Backend and
// returns a fresh tensor:
//
//	b := cpu.New()
//	x, err := tensor.FromFloat32(tensor.Shape{1, 3, 2, 2}, pixels)
//	if err != nil {
//	    return err
//	}
//	y, err := b.MulScalar(x, 0.5)
//
// Errors from backends wrap ErrShapeMismatch, ErrInvalidShape, ErrDType or
// ErrOutOfRange and can be tested with errors.Is. Shape errors are
// *ShapeError values naming the operation and operand shapes.
package tensor
