// Package pagedescriber turns a rendered webpage screenshot into a
// structured and a prose description of its design.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		pagedescriber "github.com/menta2k/page-describer"
//		"github.com/menta2k/page-describer/pkg/types"
//	)
//
//	func main() {
//		d := pagedescriber.New()
//
//		img, data, err := d.LoadImage("screenshot.png")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		report, err := d.AnalyzePage(context.Background(), img, data, types.PageInfo{Title: "Home"})
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Println(report.Description.Text)
//	}
//
// The pipeline has two collaborator stages that run concurrently, followed
// by a pure description stage:
//
// 1. Analyzer (pkg/analyzer): palette extraction (pkg/palette), UI element
// detection (pkg/vision) and layout classification (pkg/layout)
// 2. OCR (pkg/ocr): full text and word boxes
// 3. Describer (pkg/describer): positions, text association (pkg/spatial),
// color and metadata summaries, JSON and markdown rendering
//
// A failing collaborator aborts the run; the describer is never fed
// placeholder data.
package pagedescriber

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/menta2k/page-describer/pkg/analyzer"
	"github.com/menta2k/page-describer/pkg/describer"
	"github.com/menta2k/page-describer/pkg/ocr"
	"github.com/menta2k/page-describer/pkg/palette"
	"github.com/menta2k/page-describer/pkg/processing"
	"github.com/menta2k/page-describer/pkg/types"
	"github.com/menta2k/page-describer/pkg/vision"
)

// Version of the page describer library
const Version = "1.0.0"

// Config groups the settings of the analysis stage
type Config struct {
	Analyzer analyzer.Config
	Palette  palette.Config
	Detector string
}

// DefaultConfig returns the default analysis settings
func DefaultConfig() Config {
	return Config{
		Analyzer: analyzer.Config{MinImageSize: 1},
		Palette: palette.Config{
			NumColors:  palette.DefaultNumColors,
			SampleSize: palette.DefaultSampleSize,
		},
		Detector: "simulated",
	}
}

// Describer runs the whole screenshot-to-description pipeline
type Describer struct {
	analyzer  *analyzer.ScreenshotAnalyzer
	ocr       ocr.Extractor
	processor *processing.Processor
	logger    *slog.Logger
}

// Report holds every intermediate result of a run
type Report struct {
	Analysis    types.UIAnalysis  `json:"ui_analysis"`
	OCR         types.OCRResult   `json:"ocr_results"`
	Page        types.PageInfo    `json:"page_info"`
	Description *describer.Result `json:"-"`
}

// New creates a Describer with the simulated detector and no OCR
func New() *Describer {
	d, _ := NewWithConfig(DefaultConfig())
	return d
}

// NewWithConfig creates a Describer with custom analysis settings
func NewWithConfig(cfg Config) (*Describer, error) {
	detector, err := vision.NewDetector(cfg.Detector)
	if err != nil {
		return nil, err
	}

	a := analyzer.NewWithConfig(cfg.Analyzer)
	a.SetDetector(detector)
	a.SetPalette(palette.NewWithConfig(cfg.Palette))

	return &Describer{
		analyzer:  a,
		ocr:       ocr.NewStaticExtractor(types.OCRResult{}),
		processor: processing.NewProcessor(),
		logger:    slog.Default(),
	}, nil
}

// SetOCR replaces the text extractor
func (d *Describer) SetOCR(extractor ocr.Extractor) {
	d.ocr = extractor
}

// SetDetector replaces the UI element detector
func (d *Describer) SetDetector(detector vision.Detector) {
	d.analyzer.SetDetector(detector)
}

// SetLogger replaces the logger used for pipeline progress
func (d *Describer) SetLogger(logger *slog.Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// LoadImage loads a screenshot from a file path or an http(s) URL and
// returns it with its encoded bytes
func (d *Describer) LoadImage(source string) (image.Image, []byte, error) {
	return d.processor.LoadImageSmart(source)
}

// AnalyzePage analyzes the screenshot and extracts its text concurrently,
// then generates the description. imgBytes is the encoded screenshot handed
// to OCR; when nil the image is encoded as PNG. Zero page dimensions are
// filled from the screenshot.
func (d *Describer) AnalyzePage(ctx context.Context, img image.Image, imgBytes []byte, info types.PageInfo) (*Report, error) {
	if err := d.analyzer.ValidateImage(img); err != nil {
		return nil, fmt.Errorf("image validation failed: %w", err)
	}

	if imgBytes == nil {
		encoded, err := d.processor.EncodeImage(img, "png", 0, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to encode screenshot: %w", err)
		}
		imgBytes = encoded
	}

	report := &Report{Page: info}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		analysis, err := d.analyzer.Analyze(img)
		if err != nil {
			return fmt.Errorf("screenshot analysis failed: %w", err)
		}
		report.Analysis = analysis
		d.logger.Info("Analyzed screenshot",
			"elements", len(analysis.Elements),
			"colors", len(analysis.ColorPalette),
			"layout", analysis.LayoutPattern)
		return nil
	})
	g.Go(func() error {
		result, err := d.ocr.Extract(gctx, imgBytes)
		if err != nil {
			return fmt.Errorf("text extraction failed: %w", err)
		}
		report.OCR = result
		d.logger.Info("Extracted text", "text_blocks", len(result.TextBlocks))
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if report.Page.Dimensions.Width == 0 && report.Page.Dimensions.Height == 0 {
		report.Page.Dimensions = report.Analysis.ImageDimensions
	}

	result, err := describer.Generate(report.Analysis, report.OCR, report.Page)
	if err != nil {
		return nil, fmt.Errorf("description failed: %w", err)
	}
	report.Description = result

	d.logger.Debug("Generated description",
		"title", result.Structured.PageTitle,
		"chars", len(result.Text))

	return report, nil
}

// DescribeSource loads a screenshot and analyzes it
func (d *Describer) DescribeSource(ctx context.Context, source string, info types.PageInfo) (*Report, error) {
	img, data, err := d.LoadImage(source)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	return d.AnalyzePage(ctx, img, data, info)
}

// DebugOverlay draws the detected elements and OCR word boxes of a report
// onto a copy of the screenshot
func (d *Describer) DebugOverlay(img image.Image, report *Report) image.Image {
	return d.processor.CreateDebugOverlay(img, report.Analysis.Elements, report.OCR.TextBlocks)
}

// SaveImage saves an image in png, jpg or webp format
func (d *Describer) SaveImage(img image.Image, path, format string, quality int) error {
	return d.processor.SaveImage(img, path, format, quality, false)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
