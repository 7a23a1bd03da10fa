// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for the cugan network.
//
// # Overview
//
// The backend implements every tensor.Backend operation on float32 NCHW
// tensors:
//   - Convolutions as im2col + GEMM (gonum blas32), banded so the column
//     buffer stays bounded on large feature maps
//   - Transposed convolutions as GEMM + col2im
//   - NumPy-style broadcasting for Add and Mul
//
// # Basic Usage
//
//	b := cpu.New()
//	y, err := b.Conv2D(x, weight, bias, 1, 0)
//
// # Thread Safety
//
// Operations never mutate their inputs, so one backend may serve concurrent
// calls. Each operation fans out over at most WithWorkers goroutines.
package cpu
