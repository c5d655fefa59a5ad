// Package analyzer runs screenshot-level analysis: palette extraction, UI
// element detection and layout classification.
package analyzer

import (
	"fmt"
	"image"

	"github.com/menta2k/page-describer/pkg/layout"
	"github.com/menta2k/page-describer/pkg/palette"
	"github.com/menta2k/page-describer/pkg/types"
	"github.com/menta2k/page-describer/pkg/vision"
)

// ScreenshotAnalyzer analyzes a rendered page screenshot
type ScreenshotAnalyzer struct {
	config   Config
	detector vision.Detector
	palette  *palette.Extractor
}

// Config holds configuration for the screenshot analyzer
type Config struct {
	MinImageSize int
	// MergeThreshold folds palette swatches closer than this CIEDE2000
	// distance into one; 0 keeps the raw palette
	MergeThreshold float64
}

// New creates a new ScreenshotAnalyzer with default configuration
func New() *ScreenshotAnalyzer {
	return NewWithConfig(Config{MinImageSize: 1})
}

// NewWithConfig creates a new ScreenshotAnalyzer with custom configuration
func NewWithConfig(config Config) *ScreenshotAnalyzer {
	return &ScreenshotAnalyzer{
		config:   config,
		detector: vision.NewSimulatedDetector(),
		palette:  palette.New(),
	}
}

// SetDetector replaces the UI element detector
func (a *ScreenshotAnalyzer) SetDetector(detector vision.Detector) {
	a.detector = detector
}

// SetPalette replaces the palette extractor
func (a *ScreenshotAnalyzer) SetPalette(extractor *palette.Extractor) {
	a.palette = extractor
}

// Analyze extracts the palette, detects UI elements and classifies the
// layout. A detector failure is returned as an error rather than as an
// empty element list.
func (a *ScreenshotAnalyzer) Analyze(img image.Image) (types.UIAnalysis, error) {
	if err := a.ValidateImage(img); err != nil {
		return types.UIAnalysis{}, err
	}

	elements, err := a.detector.Detect(img)
	if err != nil {
		return types.UIAnalysis{}, fmt.Errorf("ui element detection failed: %w", err)
	}

	info := a.GetImageInfo(img)

	swatches := a.palette.Extract(img)
	if a.config.MergeThreshold > 0 {
		swatches = palette.Merge(swatches, a.config.MergeThreshold)
	}

	return types.UIAnalysis{
		Elements:      elements,
		ColorPalette:  swatches,
		LayoutPattern: string(layout.ClassifyPattern(elements)),
		ImageDimensions: types.ImageDimensions{
			Width:  info.Width,
			Height: info.Height,
		},
	}, nil
}

// GetImageInfo returns basic information about an image
func (a *ScreenshotAnalyzer) GetImageInfo(img image.Image) ImageInfo {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	aspect := 0.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}

	return ImageInfo{
		Width:       width,
		Height:      height,
		AspectRatio: aspect,
		Area:        width * height,
	}
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width       int
	Height      int
	AspectRatio float64
	Area        int
}

// ValidateImage checks if an image meets minimum requirements
func (a *ScreenshotAnalyzer) ValidateImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	bounds := img.Bounds()
	if bounds.Dx() < a.config.MinImageSize || bounds.Dy() < a.config.MinImageSize {
		return fmt.Errorf("image too small: %dx%d (minimum: %d)",
			bounds.Dx(), bounds.Dy(), a.config.MinImageSize)
	}
	return nil
}
