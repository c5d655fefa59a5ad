// Package spatial associates OCR text with the UI elements that enclose it.
package spatial

import (
	"strings"

	"github.com/menta2k/page-describer/pkg/types"
)

// BlocksInBox returns the text blocks lying fully inside box, in input order.
// Partially overlapping blocks and blocks with malformed boxes are excluded.
func BlocksInBox(box types.BoundingBox, blocks []types.TextBlock) []types.TextBlock {
	if !box.Valid() {
		return nil
	}

	var contained []types.TextBlock
	for _, block := range blocks {
		if box.Contains(block.BoundingBox) {
			contained = append(contained, block)
		}
	}
	return contained
}

// TextInBox joins the text of every block fully inside box with single spaces
func TextInBox(box types.BoundingBox, blocks []types.TextBlock) string {
	contained := BlocksInBox(box, blocks)
	if len(contained) == 0 {
		return ""
	}

	parts := make([]string, len(contained))
	for i, block := range contained {
		parts[i] = block.Text
	}
	return strings.Join(parts, " ")
}
