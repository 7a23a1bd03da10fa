package tile

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/born-ml/cugan/internal/model"
	"github.com/born-ml/cugan/internal/tensor"
)

// numGates is the number of SE gates reconciled across tiles.
const numGates = 4

// Options configures an Engine.
type Options struct {
	// Cache keeps each tile's intermediate tensors between passes instead
	// of recomputing them from the input window. The output is identical
	// either way.
	Cache bool

	// Alpha scales the stage B conv4 features; 0 means 1.
	Alpha float32
}

// Stats holds the reconciled spatial mean of each SE gate input, [1, C, 1, 1].
type Stats [numGates]*tensor.RawTensor

// Engine runs a Network tile by tile.
//
// SE gates need the spatial mean of a whole feature map, which no single
// tile has. The engine therefore sweeps the grid five times. Pass k (k < 4)
// advances every tile to the input of gate k and averages the per-tile
// means of that input; the next pass gates with the average. Pass 5
// finishes each tile and pastes it into the output.
//
// An Engine is immutable; concurrent Run calls are safe.
type Engine struct {
	net     *model.Network
	gates   [numGates]*model.SEBlock
	backend tensor.Backend
	opts    Options

	// finish maps a finished tile to output pixels.
	finish func(tensor.Backend, *tensor.RawTensor) (*tensor.RawTensor, error)
}

// NewEngine checks that net has every SE gate the sweep reconciles.
func NewEngine(net *model.Network, opts Options) (*Engine, error) {
	gates, err := net.Gates()
	if err != nil {
		return nil, fmt.Errorf("tiled inference: %w", err)
	}
	if opts.Alpha == 0 {
		opts.Alpha = 1
	}
	return &Engine{
		net:     net,
		gates:   gates,
		backend: net.Backend(),
		opts:    opts,
		finish:  model.Denormalize,
	}, nil
}

// Run upscales a padded input laid out by g (see Grid.Padding) and returns
// pixels of shape g.OutputShape. The padding overhang is left for the
// caller to crop.
func (e *Engine) Run(x *tensor.RawTensor, g Grid) (*tensor.RawTensor, error) {
	out, _, err := e.run(x, g)
	return out, err
}

func (e *Engine) run(x *tensor.RawTensor, g Grid) (*tensor.RawTensor, Stats, error) {
	var stats Stats
	if g.Scale != e.net.Params().Factor || g.Margin != e.net.Params().Margin {
		return nil, stats, fmt.Errorf("%w: grid is for scale %d, network is %d",
			ErrInvalidTileSize, g.Scale, e.net.Params().Factor)
	}
	s := x.Shape()
	_, c, _, _, err := s.Dims4()
	if err != nil {
		return nil, stats, err
	}
	if want := g.InputShape(c); !s.Equal(want) {
		return nil, stats, &tensor.ShapeError{
			Op:     "tile.run",
			Shapes: []tensor.Shape{s, want},
			Detail: fmt.Sprintf("input does not match grid %v", g),
		}
	}

	sw := &sweep{grid: g, tiles: g.Tiles(), input: x}
	if e.opts.Cache {
		sw.cache = make([][]*tensor.RawTensor, g.Len())
	}

	for k := range numGates {
		sum, err := e.accumulate(sw, k, stats)
		if err != nil {
			return nil, stats, err
		}
		if stats[k], err = e.backend.DivScalar(sum, float32(g.Len())); err != nil {
			return nil, stats, err
		}
	}

	out, err := tensor.Zeros(g.OutputShape(c))
	if err != nil {
		return nil, stats, err
	}
	if err := e.paste(sw, stats, out); err != nil {
		return nil, stats, err
	}
	return out, stats, nil
}

// sweep is the per-call state of one Run.
type sweep struct {
	grid  Grid
	tiles []Tile
	input *tensor.RawTensor
	cache [][]*tensor.RawTensor
}

// accumulate runs pass k over every tile and returns the sum of the tiles'
// local means of the gate k input.
func (e *Engine) accumulate(sw *sweep, k int, stats Stats) (*tensor.RawTensor, error) {
	start := time.Now()
	var sum *tensor.RawTensor
	for _, t := range sw.tiles {
		slog.Debug("tile", "pass", k+1, "index", t.Index, "row", t.Row, "col", t.Col)

		feats, err := e.advance(sw, t, k, stats)
		if err != nil {
			return nil, fmt.Errorf("pass %d tile %d: %w", k+1, t.Index, err)
		}
		mean, err := e.backend.MeanHW(feats[len(feats)-1])
		if err != nil {
			return nil, err
		}
		if sum == nil {
			sum = mean
		} else if sum, err = e.backend.Add(sum, mean); err != nil {
			return nil, err
		}
		if sw.cache != nil {
			sw.cache[t.Index] = feats
		}
	}
	slog.Info("pass finished", "pass", k+1, "tiles", len(sw.tiles), "elapsed", time.Since(start))
	return sum, nil
}

// paste finishes every tile and writes it into out.
func (e *Engine) paste(sw *sweep, stats Stats, out *tensor.RawTensor) error {
	start := time.Now()
	for _, t := range sw.tiles {
		slog.Debug("tile", "pass", numGates+1, "index", t.Index, "row", t.Row, "col", t.Col)

		feats, err := e.advance(sw, t, numGates, stats)
		if err != nil {
			return fmt.Errorf("pass %d tile %d: %w", numGates+1, t.Index, err)
		}
		if sw.cache != nil {
			sw.cache[t.Index] = nil
		}
		pixels, err := e.finish(e.backend, feats[0])
		if err != nil {
			return err
		}
		scale := sw.grid.Scale
		if err := e.backend.Paste(out, pixels, t.Top*scale, t.Left*scale); err != nil {
			return err
		}
	}
	slog.Info("pass finished", "pass", numGates+1, "tiles", len(sw.tiles), "elapsed", time.Since(start))
	return nil
}

// advance brings tile t to the end of stage k. It resumes from the cached
// end of stage k-1 when available and replays from the input window
// otherwise.
func (e *Engine) advance(sw *sweep, t Tile, k int, stats Stats) ([]*tensor.RawTensor, error) {
	from := 0
	var feats []*tensor.RawTensor
	if k > 0 && sw.cache != nil && sw.cache[t.Index] != nil {
		from, feats = k, sw.cache[t.Index]
	} else {
		win, err := e.window(sw, t)
		if err != nil {
			return nil, err
		}
		feats = []*tensor.RawTensor{win}
	}
	for j := from; j <= k; j++ {
		var err error
		if feats, err = e.stage(j, feats, stats); err != nil {
			return nil, err
		}
	}
	return feats, nil
}

// window slices tile t plus its margin from the padded input.
func (e *Engine) window(sw *sweep, t Tile) (*tensor.RawTensor, error) {
	g := sw.grid
	x, err := e.backend.Narrow(sw.input, 2, t.Top, g.TileH+2*g.Margin)
	if err != nil {
		return nil, err
	}
	return e.backend.Narrow(x, 3, t.Left, g.TileW+2*g.Margin)
}

// stage runs one step of the decomposition. Stages 0-3 end at an SE gate
// input, which is the last tensor returned; stage 4 returns the finished
// tile alone.
//
//	0: [window]                      -> [skipA, pre1]
//	1: [skipA, pre1]                 -> [outA, skipB1, pre2]
//	2: [outA, skipB1, pre2]          -> [outA, skipB1, skipB2, pre3]
//	3: [outA, skipB1, skipB2, pre3]  -> [outA, skipB1, pre4]
//	4: [outA, skipB1, pre4]          -> [out]
func (e *Engine) stage(k int, in []*tensor.RawTensor, stats Stats) ([]*tensor.RawTensor, error) {
	u1, u2 := e.net.UNet1(), e.net.UNet2()

	if k == 0 {
		skip, pre, err := u1.ForwardA(in[0])
		if err != nil {
			return nil, err
		}
		return []*tensor.RawTensor{skip, pre}, nil
	}

	last := len(in) - 1
	gated, err := e.gates[k-1].ForwardMean(in[last], stats[k-1])
	if err != nil {
		return nil, err
	}

	switch k {
	case 1:
		outA, err := u1.ForwardB(in[0], gated)
		if err != nil {
			return nil, err
		}
		skip, pre, err := u2.ForwardA(outA)
		if err != nil {
			return nil, err
		}
		return []*tensor.RawTensor{outA, skip, pre}, nil
	case 2:
		skip, pre, err := u2.ForwardB(gated)
		if err != nil {
			return nil, err
		}
		return []*tensor.RawTensor{in[0], in[1], skip, pre}, nil
	case 3:
		pre, err := u2.ForwardC(in[2], gated)
		if err != nil {
			return nil, err
		}
		if pre, err = model.ScaleAlpha(e.backend, pre, e.opts.Alpha); err != nil {
			return nil, err
		}
		return []*tensor.RawTensor{in[0], in[1], pre}, nil
	default:
		outB, err := u2.ForwardD(in[1], gated)
		if err != nil {
			return nil, err
		}
		out, err := e.net.Merge(in[0], outB)
		if err != nil {
			return nil, err
		}
		return []*tensor.RawTensor{out}, nil
	}
}
