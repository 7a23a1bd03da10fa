package weights

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format represents a weight file format.
type Format int

// Supported weight formats.
const (
	FormatUnknown Format = iota
	FormatSafeTensors
	FormatPyTorch
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatSafeTensors:
		return "SafeTensors"
	case FormatPyTorch:
		return "PyTorch"
	default:
		return "Unknown"
	}
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".safetensors":
		return FormatSafeTensors
	case ".pth", ".pt":
		return FormatPyTorch
	default:
		return FormatUnknown
	}
}

// Open reads every tensor of a weight file into memory.
func Open(path string) (Map, error) {
	switch DetectFormat(path) {
	case FormatSafeTensors:
		return ReadSafeTensors(path)
	case FormatPyTorch:
		return ReadPyTorch(path)
	default:
		return nil, fmt.Errorf("%w: %s (want .safetensors or .pth)", ErrFormat, path)
	}
}
