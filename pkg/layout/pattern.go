// Package layout classifies the overall page arrangement and the coarse
// position of individual elements.
package layout

import (
	"math"

	"github.com/menta2k/page-describer/pkg/types"
)

// Pattern is the coarse layout family of a page
type Pattern string

// Layout families, in the order they are tested
const (
	SingleColumn   Pattern = "single-column"
	MultiColumn    Pattern = "multi-column"
	StandardLayout Pattern = "standard-layout"
	ComplexLayout  Pattern = "complex-layout"
)

// ColumnTolerance is the pixel distance within which left edges share a column
const ColumnTolerance = 20.0

// ClassifyPattern labels the layout of a page from its detected elements.
//
// Left edges are grouped greedily in input order: an edge joins the set if
// it is within ColumnTolerance of a value already kept, otherwise it is kept
// as a new column. The result therefore depends on element order.
func ClassifyPattern(elements []types.UIElement) Pattern {
	columns := CountColumns(elements, ColumnTolerance)
	n := len(elements)

	switch {
	case columns <= 2 && n > 3:
		return SingleColumn
	case columns <= 4 && n > 5:
		return MultiColumn
	}

	var header, footer, nav bool
	for _, e := range elements {
		switch e.Type {
		case types.Header:
			header = true
		case types.Footer:
			footer = true
		case types.NavigationBar:
			nav = true
		}
	}
	if header && footer && nav {
		return StandardLayout
	}

	return ComplexLayout
}

// CountColumns returns the number of distinct left edges after greedy
// grouping. Elements without a usable box are ignored.
func CountColumns(elements []types.UIElement, tolerance float64) int {
	var kept []float64
	for _, e := range elements {
		if !e.BoundingBox.Valid() {
			continue
		}
		x := e.BoundingBox.TopLeft().X

		found := false
		for _, k := range kept {
			if math.Abs(x-k) < tolerance {
				found = true
				break
			}
		}
		if !found {
			kept = append(kept, x)
		}
	}
	return len(kept)
}
