// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loader reads and writes cugan checkpoints.
//
// Checkpoints are flat maps from dotted parameter names, such as
// "unet2.conv3.seblock.conv1.weight", to float32 tensors. Two formats are
// supported:
//   - .safetensors (F32, F16 and BF16 payloads)
//   - .pth / .pt PyTorch state dicts (the published Real-CUGAN models)
//
// Example usage:
//
//	m, err := loader.Open("models/pro-no-denoise-up2x.pth")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	scale, err := loader.DetectScale(m)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = loader.WriteSafeTensors("up2x.safetensors", m, nil)
package loader

import (
	"github.com/born-ml/cugan/internal/model"
	"github.com/born-ml/cugan/internal/weights"
)

// Format is a checkpoint file format.
type Format = weights.Format

// Supported formats.
const (
	FormatUnknown     = weights.FormatUnknown
	FormatSafeTensors = weights.FormatSafeTensors
	FormatPyTorch     = weights.FormatPyTorch
)

// Map is an in-memory checkpoint.
type Map = weights.Map

// Errors.
var (
	ErrNotFound      = weights.ErrNotFound
	ErrShapeMismatch = weights.ErrShapeMismatch
	ErrFormat        = weights.ErrFormat
)

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) Format {
	return weights.DetectFormat(path)
}

// Open reads a checkpoint, choosing the format by extension.
func Open(path string) (Map, error) {
	return weights.Open(path)
}

// WriteSafeTensors writes m as F32 safetensors with optional metadata.
func WriteSafeTensors(path string, m Map, metadata map[string]string) error {
	return weights.WriteSafeTensors(path, m, metadata)
}

// DetectScale returns the upscaling factor (2 or 3) a checkpoint was
// trained for.
func DetectScale(m Map) (int, error) {
	return model.DetectScale(m)
}
