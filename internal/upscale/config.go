package upscale

import (
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/cugan/internal/model"
	"github.com/born-ml/cugan/internal/tile"
)

// ErrInvalidConfig wraps every configuration rejection.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the inference configuration.
type Config struct {
	// Scale is 2 or 3. New accepts 0 and detects it from the model.
	Scale int

	// TileSize enables tiled inference with tiles of TileSize pixels; 0
	// runs the whole image at once. It must be a multiple of 2 for scale 2
	// and of 4 for scale 3.
	TileSize int

	// Cache keeps tile activations between passes.
	Cache bool

	// Alpha is the denoise/sharpen strength; 0 means 1.
	Alpha float32

	// Model is the weight file (.pth or .safetensors).
	Model string
}

// Validate checks the configuration before any weights are loaded.
func (c Config) Validate() error {
	p, err := model.ParamsFor(c.Scale)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.TileSize < 0 || (c.TileSize > 0 && c.TileSize%p.Align != 0) {
		return fmt.Errorf("%w: %w: %d is not a multiple of %d", ErrInvalidConfig, tile.ErrInvalidTileSize, c.TileSize, p.Align)
	}
	if a := float64(c.Alpha); a < 0 || math.IsNaN(a) || math.IsInf(a, 0) {
		return fmt.Errorf("%w: alpha %v must be finite and not negative", ErrInvalidConfig, c.Alpha)
	}
	return nil
}

func (c Config) alpha() float32 {
	if c.Alpha == 0 {
		return 1
	}
	return c.Alpha
}
