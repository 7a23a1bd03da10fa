package model

// DefaultWidth is the base channel width of the published checkpoints.
const DefaultWidth = 64

// seReduction is the channel reduction inside every SE gate.
const seReduction = 8

// Arch sets the channel width of the fixed topology. With Width w the stages
// use w/2, w, 2w and 4w channels; the published models have w = 64.
type Arch struct {
	Width int
}

func (a Arch) width() int {
	if a.Width <= 0 {
		return DefaultWidth
	}
	return a.Width
}
