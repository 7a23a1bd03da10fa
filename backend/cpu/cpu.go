// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/cugan/internal/backend/cpu"
	"github.com/born-ml/cugan/tensor"
)

// Backend is the CPU backend.
type Backend = internalcpu.CPUBackend

// Option configures a Backend.
type Option = internalcpu.Option

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a CPU backend. By default it uses one worker per CPU.
//
// Example:
//
//	b := cpu.New(cpu.WithWorkers(4))
func New(opts ...Option) *Backend {
	return internalcpu.New(opts...)
}

// WithWorkers caps the goroutines a single operation fans out to. n <= 0
// uses every CPU; 1 runs sequentially.
func WithWorkers(n int) Option {
	return internalcpu.WithWorkers(n)
}
