package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/page-describer/pkg/types"
)

func TestLoadResultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocr.json")
	content := `{
  "full_text": "Welcome Sign up",
  "text_blocks": [
    {"text": "Welcome", "bounding_box": [{"x": 10, "y": 10}, {"x": 80, "y": 10}, {"x": 80, "y": 30}, {"x": 10, "y": 30}]},
    {"text": "Sign", "bounding_box": [{"x": 510, "y": 210}, {"x": 550, "y": 210}, {"x": 550, "y": 240}, {"x": 510, "y": 240}]}
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	extractor, err := LoadResultFile(path)
	if err != nil {
		t.Fatalf("LoadResultFile failed: %v", err)
	}

	result, err := extractor.Extract(context.Background(), nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if result.FullText != "Welcome Sign up" {
		t.Errorf("Expected full text 'Welcome Sign up', got %q", result.FullText)
	}

	if len(result.TextBlocks) != 2 {
		t.Fatalf("Expected 2 text blocks, got %d", len(result.TextBlocks))
	}

	if got := result.TextBlocks[1].BoundingBox.TopLeft(); got.X != 510 || got.Y != 210 {
		t.Errorf("Expected top-left (510,210), got (%v,%v)", got.X, got.Y)
	}
}

func TestLoadResultFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadResultFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected an error for a missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{not json"), 0644)
	if _, err := LoadResultFile(bad); err == nil {
		t.Error("Expected an error for malformed JSON")
	}
}

func TestStaticExtractorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStaticExtractor(types.OCRResult{FullText: "x"}).Extract(ctx, nil)
	if !errors.Is(err, ErrOCRFailed) {
		t.Errorf("Expected ErrOCRFailed, got %v", err)
	}
}
