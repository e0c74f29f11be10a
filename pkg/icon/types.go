package icon

import (
	"errors"
	"image/color"
)

// DefaultFilename is the output name template; {size} is replaced by the side length.
const DefaultFilename = "icon-{size}.png"

// Transparent is the default fill for padding added by MakeSquare.
var Transparent = color.NRGBA{0, 0, 0, 0}

// Error taxonomy. Every error returned by this package wraps exactly one of these.
var (
	ErrNotFound    = errors.New("not found")
	ErrDecode      = errors.New("decode error")
	ErrIO          = errors.New("io error")
	ErrInvalidSize = errors.New("invalid size")
	ErrTooLarge    = errors.New("image too large")
)

// Options contains the rendering parameters shared by the CLI and the server
type Options struct {
	Fill     color.Color
	Filter   Filter
	Filename string
}

// DefaultOptions returns the options matching the classic favicon script output
func DefaultOptions() Options {
	return Options{
		Fill:     Transparent,
		Filter:   Lanczos,
		Filename: DefaultFilename,
	}
}
