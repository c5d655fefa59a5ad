package describer

import (
	"fmt"

	"github.com/menta2k/page-describer/pkg/layout"
	"github.com/menta2k/page-describer/pkg/spatial"
	"github.com/menta2k/page-describer/pkg/types"
)

const (
	maxTextLength = 100
	truncatedText = 97
)

// NoElementsDetected describes the placeholder entry used when the detector
// reported nothing
const NoElementsDetected = "No UI elements detected"

// DescribeElements describes every element with a usable box, in detection
// order. Elements with fewer than four points are skipped.
func DescribeElements(elements []types.UIElement, blocks []types.TextBlock, dims types.ImageDimensions) []ElementDescription {
	if len(elements) == 0 {
		return []ElementDescription{{Type: types.Unknown, Description: NoElementsDetected}}
	}

	described := make([]ElementDescription, 0, len(elements))
	for _, e := range elements {
		if !e.BoundingBox.Valid() {
			continue
		}
		described = append(described, DescribeElement(e, blocks, dims))
	}
	return described
}

// DescribeElement locates one element on the page and collects its text.
// The element's box must be valid.
func DescribeElement(e types.UIElement, blocks []types.TextBlock, dims types.ImageDimensions) ElementDescription {
	left, top, right, bottom := layout.RelativeBox(e.BoundingBox, dims)
	position := layout.ClassifyPosition(left, top, right, bottom)
	text := spatial.TextInBox(e.BoundingBox, blocks)

	return ElementDescription{
		Type:     e.Type,
		Position: &position,
		SizePercentage: &SizePercentage{
			Width:  round((right-left)*100, 1),
			Height: round((bottom-top)*100, 1),
		},
		TextContent: &text,
		Description: ElementSentence(e.Type, position, text),
	}
}

// ElementSentence renders the one-line description of an element, quoting
// its text when there is any
func ElementSentence(typ types.ElementType, position layout.Position, text string) string {
	sentence := fmt.Sprintf("A %s in the %s of the page", typ, position.Description)
	if text == "" {
		return sentence
	}
	return fmt.Sprintf("%s containing: '%s'", sentence, Truncate(text))
}

// Truncate shortens text longer than 100 characters to 97 plus an ellipsis
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxTextLength {
		return text
	}
	return string(runes[:truncatedText]) + "..."
}
