// Package ocr defines the text-extraction collaborator and a file-backed
// implementation for pre-computed results.
package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/menta2k/page-describer/pkg/types"
)

// ErrOCRFailed wraps every failure reported by an Extractor
var ErrOCRFailed = errors.New("ocr failed")

// Extractor turns encoded image bytes into full text and word boxes
type Extractor interface {
	Extract(ctx context.Context, imageData []byte) (types.OCRResult, error)
}

// StaticExtractor returns the same result for every image
type StaticExtractor struct {
	Result types.OCRResult
}

// NewStaticExtractor wraps a fixed result
func NewStaticExtractor(result types.OCRResult) *StaticExtractor {
	return &StaticExtractor{Result: result}
}

// Extract returns the fixed result, or the context error if ctx is done
func (s *StaticExtractor) Extract(ctx context.Context, _ []byte) (types.OCRResult, error) {
	if err := ctx.Err(); err != nil {
		return types.OCRResult{}, fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}
	return s.Result, nil
}

// LoadResultFile reads an OCR result saved as JSON
// ({"full_text": ..., "text_blocks": [{"text": ..., "bounding_box": [...]}]})
func LoadResultFile(path string) (*StaticExtractor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read OCR result: %w", err)
	}

	var result types.OCRResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse OCR result %s: %w", path, err)
	}

	return NewStaticExtractor(result), nil
}
