package tile

import (
	"errors"
	"fmt"

	"github.com/born-ml/cugan/internal/model"
	"github.com/born-ml/cugan/internal/pad"
	"github.com/born-ml/cugan/internal/tensor"
)

// ErrInvalidTileSize is returned for a tile size that is not a positive
// multiple of the scale's alignment.
var ErrInvalidTileSize = errors.New("invalid tile size")

// Tile is one cell of a Grid. Top and Left locate both the tile's interior in
// the padded image and its window in the padded input, which is offset by
// the margin.
type Tile struct {
	Index    int
	Row, Col int
	Top      int
	Left     int
}

// Grid partitions a padded image into equal tiles.
type Grid struct {
	Scale  int
	Margin int

	Rows, Cols   int
	TileH, TileW int
}

// Plan lays out tiles of tileSize over an h x w image.
//
// An axis that fits in one tile collapses to a single tile spanning the
// aligned axis, the same padding the whole-image path uses, so an oversized
// tile reproduces whole-image inference.
func Plan(h, w, tileSize int, p model.ScaleParams) (Grid, error) {
	if tileSize <= 0 || tileSize%p.Align != 0 {
		return Grid{}, fmt.Errorf("%w: %d is not a positive multiple of %d for scale %d",
			ErrInvalidTileSize, tileSize, p.Align, p.Factor)
	}
	if h <= 0 || w <= 0 {
		return Grid{}, fmt.Errorf("%w: image is %dx%d", tensor.ErrInvalidShape, h, w)
	}
	g := Grid{Scale: p.Factor, Margin: p.Margin}
	g.Rows, g.TileH = split(h, tileSize, p)
	g.Cols, g.TileW = split(w, tileSize, p)
	return g, nil
}

// Whole is the single-tile grid of whole-image inference.
func Whole(h, w int, p model.ScaleParams) Grid {
	return Grid{
		Scale:  p.Factor,
		Margin: p.Margin,
		Rows:   1,
		Cols:   1,
		TileH:  p.AlignUp(h),
		TileW:  p.AlignUp(w),
	}
}

func split(n, tileSize int, p model.ScaleParams) (count, extent int) {
	if aligned := p.AlignUp(n); tileSize >= aligned {
		return 1, aligned
	}
	return (n + tileSize - 1) / tileSize, tileSize
}

// Len returns the number of tiles.
func (g Grid) Len() int {
	return g.Rows * g.Cols
}

// Height returns the padded interior height.
func (g Grid) Height() int {
	return g.Rows * g.TileH
}

// Width returns the padded interior width.
func (g Grid) Width() int {
	return g.Cols * g.TileW
}

// Tiles lists the tiles in row-major order.
func (g Grid) Tiles() []Tile {
	tiles := make([]Tile, 0, g.Len())
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			tiles = append(tiles, Tile{
				Index: len(tiles),
				Row:   r,
				Col:   c,
				Top:   r * g.TileH,
				Left:  c * g.TileW,
			})
		}
	}
	return tiles
}

// Padding returns the reflect margins that turn an h x w image into the
// grid's input: Margin on every side plus the overhang to the padded
// interior on the bottom and right.
func (g Grid) Padding(h, w int) pad.Margins {
	return pad.Margins{
		Top:    g.Margin,
		Bottom: g.Margin + g.Height() - h,
		Left:   g.Margin,
		Right:  g.Margin + g.Width() - w,
	}
}

// InputShape returns the padded input shape for c channels.
func (g Grid) InputShape(c int) tensor.Shape {
	return tensor.Shape{1, c, g.Height() + 2*g.Margin, g.Width() + 2*g.Margin}
}

// OutputShape returns the upscaled shape for c channels.
func (g Grid) OutputShape(c int) tensor.Shape {
	return tensor.Shape{1, c, g.Height() * g.Scale, g.Width() * g.Scale}
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d tiles of %dx%d", g.Rows, g.Cols, g.TileH, g.TileW)
}
