package main

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/page-describer/internal/config"
	"github.com/menta2k/page-describer/pkg/ocr"
	"github.com/menta2k/page-describer/pkg/types"
)

// trackExtractor swaps openExtractor for one that records whether its
// closer ran
func trackExtractor(t *testing.T) *bool {
	t.Helper()
	closed := false
	orig := openExtractor
	openExtractor = func(config.OCRConfig) (ocr.Extractor, func(), error) {
		return ocr.NewStaticExtractor(types.OCRResult{}), func() { closed = true }, nil
	}
	t.Cleanup(func() { openExtractor = orig })
	return &closed
}

func writeScreenshot(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 300, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 300; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create screenshot: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode screenshot: %v", err)
	}
}

func TestRunClosesOCROnError(t *testing.T) {
	closed := trackExtractor(t)

	cfg := config.Default()
	cfg.Output.OutputDir = t.TempDir()

	err := run(context.Background(), cfg, runOptions{in: filepath.Join(t.TempDir(), "missing.png")})
	if err == nil {
		t.Fatal("Expected error for a missing screenshot")
	}

	if !*closed {
		t.Error("Expected OCR engine to be closed after a failed run")
	}
}

func TestRunSavesDescription(t *testing.T) {
	closed := trackExtractor(t)

	dir := t.TempDir()
	shot := filepath.Join(dir, "page.png")
	writeScreenshot(t, shot)

	cfg := config.Default()
	cfg.Output.OutputDir = filepath.Join(dir, "out")
	cfg.Output.IncludeTimestamp = false

	if err := run(context.Background(), cfg, runOptions{in: shot, title: "Acme"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	entries, err := os.ReadDir(cfg.Output.OutputDir)
	if err != nil {
		t.Fatalf("Failed to read output dir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected markdown and JSON outputs, got %d files", len(entries))
	}

	if !*closed {
		t.Error("Expected OCR engine to be closed after a successful run")
	}
}

func TestRunRejectsBadHTMLPath(t *testing.T) {
	closed := trackExtractor(t)

	cfg := config.Default()
	err := run(context.Background(), cfg, runOptions{in: "page.png", htmlPath: filepath.Join(t.TempDir(), "missing.html")})
	if err == nil {
		t.Fatal("Expected error for a missing HTML file")
	}

	if *closed {
		t.Error("OCR engine should not be opened before page info is read")
	}
}
