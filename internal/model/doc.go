// Package model implements the two-stage CUGAN super-resolution network.
//
// The network is a coarse UNet (stage A, UNet1) whose upscaled output is
// refined by a second UNet (stage B, UNet2). Both are built from UNetConv
// blocks, some of which end in a squeeze-and-excite (SE) gate that scales
// every channel by a function of its spatial mean.
//
// Besides the end-to-end Forward, each stage exposes partial forwards that
// stop in front of every SE gate and resume from an externally gated tensor:
//
//	UNet1: ForwardA -> [SE 1] -> ForwardB
//	UNet2: ForwardA -> [SE 2] -> ForwardB -> [SE 3] -> ForwardC -> alpha -> [SE 4] -> ForwardD
//
// Forward is composed from the same partial forwards, so running them by
// hand with locally computed means reproduces Forward exactly. The tiled
// engine runs them with means reconciled over the whole image instead.
//
// All convolutions are valid (unpadded); every stage consumes a fixed border
// of context and skip connections are cropped to match.
package model
