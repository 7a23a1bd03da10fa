package model

import (
	"fmt"

	"github.com/born-ml/cugan/internal/nn"
	"github.com/born-ml/cugan/internal/pad"
	"github.com/born-ml/cugan/internal/tensor"
	"github.com/born-ml/cugan/internal/weights"
)

// Config selects the network variant.
type Config struct {
	Scale int // 2 or 3
	Arch  Arch

	// Channels is the image channel count; 0 means 3 (RGB).
	Channels int
}

// Network is the complete two-stage upscaler:
//
//	out = unet2(unet1(x)) + crop20(unet1(x))
//
// Its weights are immutable after New, so one Network may serve concurrent
// calls.
type Network struct {
	params ScaleParams
	unet1  *UNet1
	unet2  *UNet2

	backend tensor.Backend
}

// New builds a network from the "unet1" and "unet2" scopes of src.
func New(src weights.Source, cfg Config, b tensor.Backend) (*Network, error) {
	p, err := ParamsFor(cfg.Scale)
	if err != nil {
		return nil, err
	}
	ch := cfg.Channels
	if ch <= 0 {
		ch = 3
	}

	root := weights.Root(src)
	u1, err := loadUNet1(root.Child("unet1"), ch, ch, cfg.Arch, p, b)
	if err != nil {
		return nil, fmt.Errorf("load unet1: %w", err)
	}
	u2, err := loadUNet2(root.Child("unet2"), ch, ch, cfg.Arch, b)
	if err != nil {
		return nil, fmt.Errorf("load unet2: %w", err)
	}
	return &Network{params: p, unet1: u1, unet2: u2, backend: b}, nil
}

// Params returns the geometry of the network's scale.
func (n *Network) Params() ScaleParams {
	return n.params
}

// Backend returns the backend the network computes on.
func (n *Network) Backend() tensor.Backend {
	return n.backend
}

// UNet1 returns stage A.
func (n *Network) UNet1() *UNet1 {
	return n.unet1
}

// UNet2 returns stage B.
func (n *Network) UNet2() *UNet2 {
	return n.unet2
}

// Gates returns the four SE gates in evaluation order: stage A conv2, then
// stage B conv2, conv3 and conv4.
func (n *Network) Gates() ([4]*SEBlock, error) {
	var gates [4]*SEBlock
	blocks := []struct {
		name string
		conv *UNetConv
	}{
		{"unet1.conv2", n.unet1.conv2},
		{"unet2.conv2", n.unet2.conv2},
		{"unet2.conv3", n.unet2.conv3},
		{"unet2.conv4", n.unet2.conv4},
	}
	for i, blk := range blocks {
		se, err := blk.conv.SE()
		if err != nil {
			return gates, fmt.Errorf("%w: %s", err, blk.name)
		}
		gates[i] = se
	}
	return gates, nil
}

// Forward runs both stages on a padded window and returns the
// normalized-range prediction. A window of interior n plus Margin per side
// yields n*Factor pixels per axis.
func (n *Network) Forward(x *tensor.RawTensor, alpha float32) (*tensor.RawTensor, error) {
	a, err := n.unet1.Forward(x)
	if err != nil {
		return nil, err
	}
	refined, err := n.unet2.Forward(a, alpha)
	if err != nil {
		return nil, err
	}
	return n.Merge(a, refined)
}

// Merge adds the stage A output, cropped to the stage B output, to the
// stage B output.
func (n *Network) Merge(stageA, stageB *tensor.RawTensor) (*tensor.RawTensor, error) {
	skip, err := pad.Crop2D(n.backend, stageA, pad.Uniform(StageACrop))
	if err != nil {
		return nil, err
	}
	return n.backend.Add(stageB, skip)
}

// Parameters returns every network weight.
func (n *Network) Parameters() []*nn.Parameter {
	return append(n.unet1.Parameters(), n.unet2.Parameters()...)
}
