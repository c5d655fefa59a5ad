// Package vision defines the pluggable UI element detector and the built-in
// detectors.
package vision

import (
	"errors"
	"fmt"
	"image"

	"github.com/menta2k/page-describer/pkg/types"
)

// ErrUnknownDetector is returned by NewDetector for unregistered variants
var ErrUnknownDetector = errors.New("unknown detector variant")

// Detector finds UI elements in a page screenshot. Implementations return
// elements in detection order; that order is preserved downstream.
type Detector interface {
	Detect(img image.Image) ([]types.UIElement, error)
}

// NewDetector creates a detector based on the specified variant
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case "simulated", "":
		return NewSimulatedDetector(), nil
	case "none":
		return NoopDetector{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDetector, variant)
	}
}

// NoopDetector reports no elements
type NoopDetector struct{}

// Detect implements Detector
func (NoopDetector) Detect(image.Image) ([]types.UIElement, error) {
	return []types.UIElement{}, nil
}

// SimulatedDetector places a fixed set of elements relative to the image
// size: header, navigation bar, header button, search box, hero image, text
// field and footer. It is a stand-in until a trained model is plugged in.
type SimulatedDetector struct{}

// NewSimulatedDetector creates a new SimulatedDetector
func NewSimulatedDetector() *SimulatedDetector {
	return &SimulatedDetector{}
}

// Detect implements Detector
func (d *SimulatedDetector) Detect(img image.Image) ([]types.UIElement, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	bounds := img.Bounds()
	return simulatedElements(bounds.Dx(), bounds.Dy()), nil
}

func simulatedElements(width, height int) []types.UIElement {
	box := func(x0, y0, x1, y1 int) types.BoundingBox {
		return types.NewRectBox(float64(x0), float64(y0), float64(x1), float64(y1))
	}

	return []types.UIElement{
		{Type: types.Header, BoundingBox: box(0, 0, width, 100), Confidence: 0.95},
		{Type: types.NavigationBar, BoundingBox: box(0, 100, width, 150), Confidence: 0.92},
		{Type: types.Button, BoundingBox: box(width-120, 20, width-20, 60), Confidence: 0.88},
		{Type: types.SearchBox, BoundingBox: box(width/2-150, 20, width/2+150, 60), Confidence: 0.85},
		{Type: types.Image, BoundingBox: box(50, 200, width-50, 500), Confidence: 0.96},
		{Type: types.TextField, BoundingBox: box(width/4, 550, width*3/4, 650), Confidence: 0.87},
		{Type: types.Footer, BoundingBox: box(0, height-100, width, height), Confidence: 0.94},
	}
}
