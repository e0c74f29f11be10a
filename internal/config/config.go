package config

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/kiesman99/favi/pkg/icon"
)

// Config keys
const (
	KeySource    = "source"
	KeyOutputDir = "output_dir"
	KeySizes     = "sizes"
	KeyFill      = "fill"
	KeyFilter    = "filter"
	KeyFilename  = "filename"
)

// Defaults reproduce the original favicon script
const (
	DefaultSource    = "CMX METALS - NEW LOGO.png"
	DefaultOutputDir = "output_icons"
	DefaultFill      = "#00000000"
)

// DefaultSizes are the square side lengths emitted when none are configured
var DefaultSizes = []int{16, 32, 80, 128, 256}

// Config is the immutable run configuration
type Config struct {
	source    string
	outputDir string
	sizes     []int
	fill      color.NRGBA
	filter    icon.Filter
	filename  string
}

// SetDefaults registers the default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySource, DefaultSource)
	v.SetDefault(KeyOutputDir, DefaultOutputDir)
	v.SetDefault(KeySizes, DefaultSizes)
	v.SetDefault(KeyFill, DefaultFill)
	v.SetDefault(KeyFilter, string(icon.Lanczos))
	v.SetDefault(KeyFilename, icon.DefaultFilename)
}

// Load builds a Config from v. Sizes must be a list of integers; non-positive
// values are passed through for the resize step to reject.
func Load(v *viper.Viper) (*Config, error) {
	sizes, err := parseSizes(v.Get(KeySizes))
	if err != nil {
		return nil, err
	}

	fill, err := icon.ParseColor(v.GetString(KeyFill))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyFill, err)
	}

	filter, err := icon.ParseFilter(v.GetString(KeyFilter))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyFilter, err)
	}

	filename := v.GetString(KeyFilename)
	if !strings.Contains(filename, "{size}") {
		return nil, fmt.Errorf("invalid %s %q: must contain {size}", KeyFilename, filename)
	}

	return &Config{
		source:    v.GetString(KeySource),
		outputDir: v.GetString(KeyOutputDir),
		sizes:     sizes,
		fill:      fill,
		filter:    filter,
		filename:  filename,
	}, nil
}

// New returns a Config with the given paths and sizes and default rendering options
func New(source, outputDir string, sizes []int) *Config {
	return &Config{
		source:    source,
		outputDir: outputDir,
		sizes:     append([]int(nil), sizes...),
		fill:      icon.Transparent,
		filter:    icon.Lanczos,
		filename:  icon.DefaultFilename,
	}
}

// Source returns the path of the logo to read
func (c *Config) Source() string { return c.source }

// OutputDir returns the directory icons are written to
func (c *Config) OutputDir() string { return c.outputDir }

// Sizes returns a copy of the configured sizes, in order
func (c *Config) Sizes() []int { return append([]int(nil), c.sizes...) }

// Options returns the rendering options derived from the config
func (c *Config) Options() icon.Options {
	return icon.Options{
		Fill:     c.fill,
		Filter:   c.filter,
		Filename: c.filename,
	}
}

// parseSizes converts the raw sizes value into ints without silently dropping
// or truncating entries.
func parseSizes(raw interface{}) ([]int, error) {
	if ints, ok := raw.([]int); ok {
		return append([]int(nil), ints...), nil
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list of integers, got %v", icon.ErrInvalidSize, KeySizes, raw)
	}

	sizes := make([]int, 0, len(items))
	for i, item := range items {
		switch n := item.(type) {
		case bool, nil:
			return nil, fmt.Errorf("%w: %s[%d] = %v is not an integer", icon.ErrInvalidSize, KeySizes, i, item)
		case float32:
			if float64(n) != math.Trunc(float64(n)) {
				return nil, fmt.Errorf("%w: %s[%d] = %v is not an integer", icon.ErrInvalidSize, KeySizes, i, item)
			}
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("%w: %s[%d] = %v is not an integer", icon.ErrInvalidSize, KeySizes, i, item)
			}
		}

		size, err := cast.ToIntE(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %w", icon.ErrInvalidSize, KeySizes, i, err)
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}
