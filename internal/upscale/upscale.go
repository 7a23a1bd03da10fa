// Package upscale runs the complete super-resolution pipeline: normalize,
// reflect-pad, whole-image or tiled inference, crop and denormalize.
package upscale

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/born-ml/cugan/internal/backend/cpu"
	"github.com/born-ml/cugan/internal/imageio"
	"github.com/born-ml/cugan/internal/model"
	"github.com/born-ml/cugan/internal/pad"
	"github.com/born-ml/cugan/internal/tensor"
	"github.com/born-ml/cugan/internal/tile"
	"github.com/born-ml/cugan/internal/weights"
)

// Option customizes an Upscaler.
type Option func(*options)

type options struct {
	backend tensor.Backend
	arch    model.Arch
}

// WithBackend sets the compute backend. The default is a CPU backend using
// every core.
func WithBackend(b tensor.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithArch overrides the channel width.
func WithArch(a model.Arch) Option {
	return func(o *options) { o.arch = a }
}

// Upscaler holds a loaded network. It is safe for concurrent use.
type Upscaler struct {
	cfg     Config
	net     *model.Network
	engine  *tile.Engine
	backend tensor.Backend
}

// New validates cfg and loads cfg.Model. A zero Scale is detected from
// the model.
func New(cfg Config, opts ...Option) (*Upscaler, error) {
	if cfg.Scale != 0 {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	start := time.Now()
	src, err := weights.Open(cfg.Model)
	if err != nil {
		return nil, err
	}
	if cfg.Scale == 0 {
		if cfg.Scale, err = model.DetectScale(src); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Model, err)
		}
		slog.Debug("detected scale", "scale", cfg.Scale)
	}
	u, err := NewFromSource(src, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Model, err)
	}
	slog.Info("model loaded", "path", cfg.Model, "scale", cfg.Scale, "elapsed", time.Since(start))
	return u, nil
}

// NewFromSource validates cfg and builds the network from src, ignoring
// cfg.Model.
func NewFromSource(src weights.Source, cfg Config, opts ...Option) (*Upscaler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.backend == nil {
		o.backend = cpu.New()
	}

	net, err := model.New(src, model.Config{Scale: cfg.Scale, Arch: o.arch}, o.backend)
	if err != nil {
		return nil, err
	}
	u := &Upscaler{cfg: cfg, net: net, backend: o.backend}
	if cfg.TileSize > 0 {
		if u.engine, err = tile.NewEngine(net, tile.Options{Cache: cfg.Cache, Alpha: cfg.alpha()}); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Config returns the configuration.
func (u *Upscaler) Config() Config {
	return u.cfg
}

// Tensor upscales a [1, 3, H, W] tensor of pixel values in [0, 255] and
// returns [1, 3, H*Scale, W*Scale] rounded pixel values.
func (u *Upscaler) Tensor(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	n, _, h, w, err := x.Shape().Dims4()
	if err != nil {
		return nil, err
	}
	if n != 1 {
		return nil, fmt.Errorf("%w: batch %d, want 1", tensor.ErrShapeMismatch, n)
	}

	p := u.net.Params()
	g := tile.Whole(h, w, p)
	if u.engine != nil {
		if g, err = tile.Plan(h, w, u.cfg.TileSize, p); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	norm, err := model.Normalize(u.backend, x)
	if err != nil {
		return nil, err
	}
	padded, err := pad.Reflect2D(u.backend, norm, g.Padding(h, w))
	if err != nil {
		return nil, err
	}

	var out *tensor.RawTensor
	if u.engine != nil {
		slog.Debug("tiled inference", "grid", g.String(), "cache", u.cfg.Cache)
		if out, err = u.engine.Run(padded, g); err != nil {
			return nil, err
		}
	} else {
		if out, err = u.net.Forward(padded, u.cfg.alpha()); err != nil {
			return nil, err
		}
		if out, err = model.Denormalize(u.backend, out); err != nil {
			return nil, err
		}
	}

	out, err = pad.Crop2D(u.backend, out, pad.Margins{
		Bottom: (g.Height() - h) * p.Factor,
		Right:  (g.Width() - w) * p.Factor,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("upscaled", "from", fmt.Sprintf("%dx%d", w, h), "to", fmt.Sprintf("%dx%d", w*p.Factor, h*p.Factor),
		"tiles", g.Len(), "elapsed", time.Since(start))
	return out, nil
}

// Image upscales an image. Alpha is discarded.
func (u *Upscaler) Image(img image.Image) (*image.NRGBA, error) {
	x, err := imageio.ToTensor(img)
	if err != nil {
		return nil, err
	}
	out, err := u.Tensor(x)
	if err != nil {
		return nil, err
	}
	return imageio.FromTensor(out)
}
