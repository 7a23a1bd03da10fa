// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/cugan/internal/tensor"

// Backend defines the operations a compute backend provides.
//
// Implementations:
//   - backend/cpu: im2col + BLAS GEMM, parallel over channels
//
// Example:
//
//	import (
//	    "github.com/born-ml/cugan/backend/cpu"
//	    "github.com/born-ml/cugan/tensor"
//	)
//
//	var b tensor.Backend = cpu.New()
//	y, err := b.Conv2D(x, weight, bias, 1, 0)
type Backend = tensor.Backend

// Device represents a compute device.
type Device = tensor.Device

// CPU is the host device.
const CPU = tensor.CPU
