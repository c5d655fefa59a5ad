// Package describer turns screenshot analysis, OCR text and page info into a
// structured description of the page layout, a prose report and its JSON
// serialization.
//
// Everything here is a pure function of its inputs: empty or malformed input
// produces sentinel text rather than an error.
package describer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/menta2k/page-describer/pkg/layout"
	"github.com/menta2k/page-describer/pkg/types"
)

// StructuredDescription is the machine-oriented description of one page.
// Field order is the canonical serialization order.
type StructuredDescription struct {
	PageTitle     string               `json:"page_title"`
	LayoutPattern string               `json:"layout_pattern"`
	ColorPalette  ColorSummary         `json:"color_palette"`
	Elements      []ElementDescription `json:"ui_elements"`
	Metadata      MetadataSummary      `json:"metadata"`
}

// ColorSummary describes the dominant colors
type ColorSummary struct {
	PrimaryColors []ColorEntry `json:"primary_colors,omitempty"`
	Description   string       `json:"description"`
}

// ColorEntry is a swatch with its percentage rounded to two decimals
type ColorEntry struct {
	Hex        string  `json:"hex"`
	Percentage float64 `json:"percentage"`
}

// SizePercentage is an element's extent relative to the page
type SizePercentage struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ElementDescription describes one detected element. Position, size and text
// are absent only on the placeholder used when nothing was detected.
type ElementDescription struct {
	Type           types.ElementType `json:"type"`
	Position       *layout.Position  `json:"position,omitempty"`
	SizePercentage *SizePercentage   `json:"size_percentage,omitempty"`
	TextContent    *string           `json:"text_content,omitempty"`
	Description    string            `json:"description"`
}

// MetadataSummary holds the relevant meta tags of the page
type MetadataSummary struct {
	Tags        map[string]string `json:"tags,omitempty"`
	Description string            `json:"description"`
}

// Result bundles the three renderings of a page description
type Result struct {
	Structured StructuredDescription `json:"structured_description"`
	Text       string                `json:"textual_description"`
	JSON       string                `json:"json_output"`
}

// Generate builds the structured description, renders it as prose and
// serializes it. The only error is a failure to encode JSON.
func Generate(analysis types.UIAnalysis, ocr types.OCRResult, info types.PageInfo) (*Result, error) {
	structured := Describe(analysis, ocr, info)

	js, err := Marshal(structured)
	if err != nil {
		return nil, err
	}

	return &Result{
		Structured: structured,
		Text:       RenderText(structured),
		JSON:       js,
	}, nil
}

// Describe builds the structured description for one page
func Describe(analysis types.UIAnalysis, ocr types.OCRResult, info types.PageInfo) StructuredDescription {
	pattern := analysis.LayoutPattern
	if pattern == "" {
		pattern = "unknown"
	}

	return StructuredDescription{
		PageTitle:     info.Title,
		LayoutPattern: pattern,
		ColorPalette:  DescribeColors(analysis.ColorPalette),
		Elements:      DescribeElements(analysis.Elements, ocr.TextBlocks, analysis.ImageDimensions),
		Metadata:      DescribeMetadata(info.Metadata),
	}
}

// Marshal serializes a description with two-space indentation and the
// struct's field order. HTML characters are left unescaped.
func Marshal(d StructuredDescription) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return "", fmt.Errorf("failed to marshal description: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
