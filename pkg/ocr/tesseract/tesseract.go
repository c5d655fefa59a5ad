// Package tesseract provides an ocr.Extractor backed by the Tesseract engine.
//
// It requires Tesseract and Leptonica to be installed on the system. On
// Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
package tesseract

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/menta2k/page-describer/pkg/ocr"
	"github.com/menta2k/page-describer/pkg/types"
)

// Extractor reads word-level text boxes with Tesseract.
// A gosseract client is not safe for concurrent use, so calls are serialized.
type Extractor struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New creates an extractor for the given language ("eng" when empty).
// The extractor should be closed when no longer needed.
func New(language string) (*Extractor, error) {
	if language == "" {
		language = "eng"
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	return &Extractor{client: client}, nil
}

// Close releases OCR resources
func (e *Extractor) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Extract returns the page text and one block per recognized word
func (e *Extractor) Extract(ctx context.Context, imageData []byte) (types.OCRResult, error) {
	if err := ctx.Err(); err != nil {
		return types.OCRResult{}, fmt.Errorf("%w: %v", ocr.ErrOCRFailed, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return types.OCRResult{}, fmt.Errorf("%w: failed to set PSM: %v", ocr.ErrOCRFailed, err)
	}

	if err := e.client.SetImageFromBytes(imageData); err != nil {
		return types.OCRResult{}, fmt.Errorf("%w: failed to set image: %v", ocr.ErrOCRFailed, err)
	}

	text, err := e.client.Text()
	if err != nil {
		return types.OCRResult{}, fmt.Errorf("%w: %v", ocr.ErrOCRFailed, err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return types.OCRResult{}, fmt.Errorf("%w: failed to get boxes: %v", ocr.ErrOCRFailed, err)
	}

	result := types.OCRResult{
		FullText:   strings.TrimSpace(text),
		TextBlocks: make([]types.TextBlock, 0, len(boxes)),
	}
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		result.TextBlocks = append(result.TextBlocks, types.TextBlockFromRect(word, box.Box))
	}

	return result, nil
}

var _ ocr.Extractor = (*Extractor)(nil)
