package model

import "errors"

// Configuration errors.
var (
	// ErrMissingSEBlock indicates a checkpoint lacking an SE gate that tiled inference needs.
	ErrMissingSEBlock = errors.New("missing SE block")

	// ErrUnsupportedScale indicates a scale other than 2 or 3.
	ErrUnsupportedScale = errors.New("unsupported scale")
)
