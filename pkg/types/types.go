// Package types holds the data model shared by the analysis, detection, OCR
// and description packages.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Point is a single vertex of a bounding box, in image pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UnmarshalJSON accepts either {"x": X, "y": Y} or a bare [X, Y] pair, the
// vertex form most OCR services emit
func (p *Point) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var pair []float64
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("point: expected 2 coordinates, got %d", len(pair))
		}
		p.X, p.Y = pair[0], pair[1]
		return nil
	}

	type plain Point
	return json.Unmarshal(data, (*plain)(p))
}

// BoundingBox is a four-point polygon. Only point 0 (top-left) and point 2
// (bottom-right) are used; the shape is always treated as an axis-aligned
// rectangle.
type BoundingBox []Point

// NewRectBox builds a four-point box from its corners, ordered clockwise
// starting at the top-left
func NewRectBox(x0, y0, x1, y1 float64) BoundingBox {
	return BoundingBox{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

// Valid reports whether the box has the four points needed to read its corners
func (b BoundingBox) Valid() bool {
	return len(b) >= 4
}

// TopLeft returns point 0. The box must be valid.
func (b BoundingBox) TopLeft() Point {
	return b[0]
}

// BottomRight returns point 2. The box must be valid.
func (b BoundingBox) BottomRight() Point {
	return b[2]
}

// Width returns the horizontal extent of the rectangle
func (b BoundingBox) Width() float64 {
	return b[2].X - b[0].X
}

// Height returns the vertical extent of the rectangle
func (b BoundingBox) Height() float64 {
	return b[2].Y - b[0].Y
}

// Contains reports whether other lies fully inside b, edges inclusive.
// Invalid boxes never contain or are contained.
func (b BoundingBox) Contains(other BoundingBox) bool {
	if !b.Valid() || !other.Valid() {
		return false
	}
	outerTL, outerBR := b.TopLeft(), b.BottomRight()
	innerTL, innerBR := other.TopLeft(), other.BottomRight()
	return innerTL.X >= outerTL.X && innerBR.X <= outerBR.X &&
		innerTL.Y >= outerTL.Y && innerBR.Y <= outerBR.Y
}

// ElementType is the kind of a detected UI element
type ElementType string

// Element kinds a detector may report
const (
	Button        ElementType = "button"
	TextField     ElementType = "text_field"
	Checkbox      ElementType = "checkbox"
	RadioButton   ElementType = "radio_button"
	Dropdown      ElementType = "dropdown"
	Image         ElementType = "image"
	NavigationBar ElementType = "navigation_bar"
	Footer        ElementType = "footer"
	Header        ElementType = "header"
	Menu          ElementType = "menu"
	SearchBox     ElementType = "search_box"
	Card          ElementType = "card"
	Form          ElementType = "form"

	// Unknown is used for placeholder entries, never by detectors
	Unknown ElementType = "unknown"
)

// ElementTypes returns every kind a detector may report
func ElementTypes() []ElementType {
	return []ElementType{
		Button, TextField, Checkbox, RadioButton, Dropdown, Image,
		NavigationBar, Footer, Header, Menu, SearchBox, Card, Form,
	}
}

// Valid reports whether t is one of the detector kinds
func (t ElementType) Valid() bool {
	for _, known := range ElementTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Title renders the type as a heading, e.g. "navigation_bar" -> "Navigation Bar"
func (t ElementType) Title() string {
	return cases.Title(language.Und).String(strings.ReplaceAll(string(t), "_", " "))
}

// UIElement is a detected element. Values are treated as immutable once
// received from a detector.
type UIElement struct {
	Type        ElementType `json:"type"`
	BoundingBox BoundingBox `json:"bounding_box"`
	Confidence  float64     `json:"confidence"`
}

// TextBlock is a run of OCR text and where it was found
type TextBlock struct {
	Text        string      `json:"text"`
	BoundingBox BoundingBox `json:"bounding_box"`
}

// OCRResult is everything the OCR collaborator extracted from one screenshot
type OCRResult struct {
	FullText   string      `json:"full_text"`
	TextBlocks []TextBlock `json:"text_blocks"`
}

// ColorSwatch is one dominant color and its share of the returned palette
type ColorSwatch struct {
	Hex        string  `json:"hex"`
	RGB        [3]int  `json:"rgb"`
	Percentage float64 `json:"percentage"`
}

// ImageDimensions is the screenshot size in pixels
type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// UIAnalysis is the output of screenshot analysis
type UIAnalysis struct {
	Elements        []UIElement     `json:"ui_elements"`
	ColorPalette    []ColorSwatch   `json:"color_palette"`
	LayoutPattern   string          `json:"layout_pattern"`
	ImageDimensions ImageDimensions `json:"image_dimensions"`
}

// PageInfo is what the renderer knows about the page apart from its pixels
type PageInfo struct {
	URL        string            `json:"url,omitempty"`
	Title      string            `json:"page_title"`
	Metadata   map[string]string `json:"page_metadata"`
	Dimensions ImageDimensions   `json:"page_dimensions"`
}

// TextBlockFromRect converts an engine rectangle (exclusive max corner, as
// image.Rectangle) into a four-point text block
func TextBlockFromRect(text string, r image.Rectangle) TextBlock {
	return TextBlock{
		Text:        text,
		BoundingBox: NewRectBox(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y)),
	}
}
