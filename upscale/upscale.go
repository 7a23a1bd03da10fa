// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package upscale is the public entry point for Real-CUGAN 2x/3x image
// super-resolution.
//
// Whole-image inference needs memory proportional to the image. Setting
// Config.TileSize runs the network tile by tile instead: five sweeps over
// the tiles reconcile the global averages the network's SE gates need, so
// the result matches whole-image inference while peak memory depends only
// on the tile size.
//
// Example:
//
//	up, err := upscale.New(upscale.Config{
//	    Scale:    2,
//	    TileSize: 256,
//	    Cache:    true,
//	    Model:    "models/pro-no-denoise-up2x.pth",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := up.Image(img)
package upscale

import (
	"github.com/born-ml/cugan/internal/backend/cpu"
	"github.com/born-ml/cugan/internal/upscale"
	"github.com/born-ml/cugan/loader"
	"github.com/born-ml/cugan/tensor"
)

// Config is the inference configuration.
type Config = upscale.Config

// Upscaler holds a loaded network. It is safe for concurrent use.
type Upscaler = upscale.Upscaler

// Option customizes an Upscaler.
type Option = upscale.Option

// ErrInvalidConfig wraps every configuration rejection.
var ErrInvalidConfig = upscale.ErrInvalidConfig

// New validates cfg and loads cfg.Model.
func New(cfg Config, opts ...Option) (*Upscaler, error) {
	return upscale.New(cfg, opts...)
}

// NewFromMap builds an Upscaler from an already loaded checkpoint.
func NewFromMap(m loader.Map, cfg Config, opts ...Option) (*Upscaler, error) {
	return upscale.NewFromSource(m, cfg, opts...)
}

// WithBackend sets the compute backend.
func WithBackend(b tensor.Backend) Option {
	return upscale.WithBackend(b)
}

// WithWorkers runs on a CPU backend with at most n goroutines per
// operation.
func WithWorkers(n int) Option {
	return upscale.WithBackend(cpu.New(cpu.WithWorkers(n)))
}
