package icon

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// MaxSize is the largest side length Resize accepts
const MaxSize = 16384

// Load reads the image at path and converts it to a non-premultiplied RGBA buffer.
// The file must exist; a missing file fails with ErrNotFound before it is opened.
func Load(path string) (*image.NRGBA, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: source image %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: stat %s: %w", ErrIO, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: source image %s is a directory", ErrIO, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	defer file.Close()

	img, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Decode decodes any registered image format into an NRGBA buffer.
// Sources without transparency come out fully opaque; existing alpha is kept as is.
func Decode(r io.Reader) (*image.NRGBA, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return imaging.Clone(img), nil
}

// DecodeBounded decodes an image of at most maxPixels pixels. The dimensions are
// read from the header first, so oversized images fail with ErrTooLarge before
// any pixel buffer is allocated. r is read fully into memory; bound it first.
func DecodeBounded(r io.Reader, maxPixels int) (*image.NRGBA, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read image: %w", ErrIO, err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, maxPixels)
	}

	return Decode(bytes.NewReader(data))
}

// MakeSquare pads img to a square canvas of side max(width, height) filled with fill,
// pasting the original at ((side-w)/2, (side-h)/2). Square inputs are returned as is
// and must be treated as read-only by the caller. Source pixels are copied verbatim.
func MakeSquare(img *image.NRGBA, fill color.Color) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == h {
		return img
	}
	if fill == nil {
		fill = Transparent
	}

	side := max(w, h)
	canvas := imaging.New(side, side, fill)
	return imaging.Paste(canvas, img, image.Pt((side-w)/2, (side-h)/2))
}

// Resize scales img to size x size with the given filter.
// Resizing to the current dimensions returns an exact copy.
func Resize(img image.Image, size int, filter Filter) (*image.NRGBA, error) {
	if size <= 0 || size > MaxSize {
		return nil, fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidSize, size, MaxSize)
	}
	return imaging.Resize(img, size, size, filter.resample()), nil
}

// WritePNG encodes img as PNG into path, replacing any existing file.
// The file handle is released on every return path.
//
// Fully opaque images are stored as 8-bit RGB, without an alpha channel;
// decoders still report every pixel as opaque. Images with any transparency
// are stored as 8-bit RGBA.
func WritePNG(path string, img image.Image) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrIO, path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", ErrIO, path, cerr)
		}
	}()

	if err := imaging.Encode(file, img, imaging.PNG); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	return nil
}

// EncodePNG encodes img as PNG in memory
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: encode png: %w", ErrIO, err)
	}
	return buf.Bytes(), nil
}

// Render squares img with opts.Fill and resizes it to size
func Render(img *image.NRGBA, size int, opts Options) (*image.NRGBA, error) {
	return Resize(MakeSquare(img, opts.Fill), size, opts.Filter)
}

// BuildFilename replaces the {size} token of a filename template
func BuildFilename(template string, size int) string {
	if template == "" {
		template = DefaultFilename
	}
	return strings.ReplaceAll(template, "{size}", strconv.Itoa(size))
}
