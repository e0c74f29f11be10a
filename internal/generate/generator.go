package generate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kiesman99/favi/internal/config"
	"github.com/kiesman99/favi/pkg/icon"
)

// Generator handles the load, square, resize and write sequence for one source logo
type Generator struct {
	cfg *config.Config
	out io.Writer
}

// NewGenerator creates a generator writing progress notices to out
func NewGenerator(cfg *config.Config, out io.Writer) *Generator {
	if out == nil {
		out = io.Discard
	}
	return &Generator{
		cfg: cfg,
		out: out,
	}
}

// Run executes the pipeline once. It stops at the first failure and leaves
// files written before it in place.
func (g *Generator) Run() ([]string, error) {
	opts := g.cfg.Options()

	img, err := icon.Load(g.cfg.Source())
	if err != nil {
		return nil, err
	}
	square := icon.MakeSquare(img, opts.Fill)

	outputDir := g.cfg.OutputDir()
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create output directory %s: %w", icon.ErrIO, outputDir, err)
	}

	var written []string
	for _, size := range g.cfg.Sizes() {
		resized, err := icon.Resize(square, size, opts.Filter)
		if err != nil {
			return written, err
		}

		path := filepath.Join(outputDir, icon.BuildFilename(opts.Filename, size))
		if err := icon.WritePNG(path, resized); err != nil {
			return written, err
		}
		written = append(written, path)
		fmt.Fprintf(g.out, "Saved %dx%d icon: %s\n", size, size, path)
	}

	fmt.Fprintln(g.out, "Done!")
	return written, nil
}
