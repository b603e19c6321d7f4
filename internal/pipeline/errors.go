package pipeline

import (
	"github.com/ironsheep/pixelgrid/internal/detection"
	"github.com/ironsheep/pixelgrid/internal/imaging"
	"github.com/ironsheep/pixelgrid/internal/sampling"
)

// Error kinds returned by the pipeline. All of them abort the run; test for
// them with errors.Is.
var (
	ErrEmptyContent     = detection.ErrEmptyContent
	ErrGridOverflow     = sampling.ErrGridOverflow
	ErrInvalidParameter = sampling.ErrInvalidParameter
	ErrDecode           = imaging.ErrDecode
	ErrWrite            = imaging.ErrWrite
)
