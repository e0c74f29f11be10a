package generate

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kiesman99/favi/internal/config"
	"github.com/kiesman99/favi/pkg/icon"
)

func writeSource(t *testing.T, dir string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, "logo.png")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create source: %v", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		t.Fatalf("Failed to encode source: %v", err)
	}
	return path
}

func decodeFile(t *testing.T, path string) image.Image {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("%s is not a valid png: %v", path, err)
	}
	return img
}

func opaqueRect(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{200, uint8(x), uint8(y), 255})
		}
	}
	return img
}

func TestRun_WideLogo(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, opaqueRect(300, 150))
	outDir := filepath.Join(dir, "out", "icons")

	var out bytes.Buffer
	written, err := NewGenerator(config.New(source, outDir, []int{16, 32}), &out).Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("Expected 2 files, got %v", written)
	}

	for _, size := range []int{16, 32} {
		path := filepath.Join(outDir, icon.BuildFilename("", size))
		img := decodeFile(t, path)
		if img.Bounds().Dx() != size || img.Bounds().Dy() != size {
			t.Errorf("%s: expected %dx%d, got %v", path, size, size, img.Bounds())
		}

		// top and bottom bands come from transparent padding
		if _, _, _, a := img.At(size/2, 0).RGBA(); a != 0 {
			t.Errorf("%s: expected transparent top edge, got alpha %d", path, a)
		}
		if _, _, _, a := img.At(size/2, size-1).RGBA(); a != 0 {
			t.Errorf("%s: expected transparent bottom edge, got alpha %d", path, a)
		}
		if _, _, _, a := img.At(size/2, size/2).RGBA(); a != 0xffff {
			t.Errorf("%s: expected opaque center, got alpha %d", path, a)
		}
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 notice lines, got %q", out.String())
	}
	if !strings.Contains(lines[0], "icon-16.png") || !strings.Contains(lines[1], "icon-32.png") {
		t.Errorf("Expected per-file notices in size order, got %q", lines)
	}
	if lines[2] != "Done!" {
		t.Errorf("Expected final Done! line, got %q", lines[2])
	}
}

func TestRun_SquareSourcePassesThrough(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 256, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			src.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 90, uint8(x ^ y)})
		}
	}
	source := writeSource(t, dir, src)
	outDir := filepath.Join(dir, "out")

	if _, err := NewGenerator(config.New(source, outDir, []int{256}), nil).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	img := decodeFile(t, filepath.Join(outDir, "icon-256.png"))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if want := src.NRGBAAt(x, y); got != want {
				t.Fatalf("Pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, opaqueRect(40, 25))
	outDir := filepath.Join(dir, "out")
	cfg := config.New(source, outDir, []int{16, 24})

	read := func() [][]byte {
		var all [][]byte
		for _, size := range cfg.Sizes() {
			data, err := os.ReadFile(filepath.Join(outDir, icon.BuildFilename("", size)))
			if err != nil {
				t.Fatalf("Failed to read output: %v", err)
			}
			all = append(all, data)
		}
		return all
	}

	if _, err := NewGenerator(cfg, nil).Run(); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	first := read()
	if _, err := NewGenerator(cfg, nil).Run(); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	second := read()

	for i := range first {
		if !bytes.Equal(first[i], second[i]) {
			t.Errorf("Output %d differs between runs", i)
		}
	}
}

func TestRun_MissingSource(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	var out bytes.Buffer
	_, err := NewGenerator(config.New(filepath.Join(dir, "missing.png"), outDir, []int{16}), &out).Run()
	if !errors.Is(err, icon.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("Expected output directory not to be created, stat returned %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no notices, got %q", out.String())
	}
}

func TestRun_InvalidSizeStopsRun(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, opaqueRect(10, 10))
	outDir := filepath.Join(dir, "out")

	var out bytes.Buffer
	written, err := NewGenerator(config.New(source, outDir, []int{16, 0, 32}), &out).Run()
	if !errors.Is(err, icon.ErrInvalidSize) {
		t.Fatalf("Expected ErrInvalidSize, got %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("Expected only the first file to be written, got %v", written)
	}
	if _, err := os.Stat(filepath.Join(outDir, "icon-16.png")); err != nil {
		t.Errorf("Expected icon-16.png to remain: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "icon-32.png")); !os.IsNotExist(err) {
		t.Errorf("Expected icon-32.png not to be written")
	}
	if strings.Contains(out.String(), "Done!") {
		t.Errorf("Expected no completion notice after failure")
	}
}

func TestRun_OutputDirIsFile(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, opaqueRect(8, 8))
	blocker := filepath.Join(dir, "out")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create blocker: %v", err)
	}

	_, err := NewGenerator(config.New(source, blocker, []int{16}), nil).Run()
	if !errors.Is(err, icon.ErrIO) {
		t.Fatalf("Expected ErrIO, got %v", err)
	}
}

func TestRun_DuplicateSizes(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, opaqueRect(12, 6))
	outDir := filepath.Join(dir, "out")

	written, err := NewGenerator(config.New(source, outDir, []int{16, 16}), nil).Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(written) != 2 || written[0] != written[1] {
		t.Errorf("Expected the same file written twice, got %v", written)
	}
}
