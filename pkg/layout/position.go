package layout

import "github.com/menta2k/page-describer/pkg/types"

const (
	lowerThird = 0.33
	upperThird = 0.66
)

// Position is a cell of the 3x3 page grid
type Position struct {
	Horizontal string `json:"horizontal"`
	Vertical   string `json:"vertical"`
	// Description is "<vertical> <horizontal>", e.g. "top center"
	Description string `json:"description"`
}

// ClassifyPosition maps a box given in relative [0,1] coordinates to a grid
// cell using its center. Both thirds boundaries fall in the middle cell.
func ClassifyPosition(left, top, right, bottom float64) Position {
	cx := (left + right) / 2
	cy := (top + bottom) / 2

	h := "center"
	switch {
	case cx < lowerThird:
		h = "left"
	case cx > upperThird:
		h = "right"
	}

	v := "middle"
	switch {
	case cy < lowerThird:
		v = "top"
	case cy > upperThird:
		v = "bottom"
	}

	return Position{Horizontal: h, Vertical: v, Description: v + " " + h}
}

// RelativeBox converts a pixel box to relative coordinates. A zero image
// dimension yields 0 for the coordinates along that axis.
func RelativeBox(box types.BoundingBox, dims types.ImageDimensions) (left, top, right, bottom float64) {
	tl, br := box.TopLeft(), box.BottomRight()
	if dims.Width != 0 {
		w := float64(dims.Width)
		left, right = tl.X/w, br.X/w
	}
	if dims.Height != 0 {
		h := float64(dims.Height)
		top, bottom = tl.Y/h, br.Y/h
	}
	return left, top, right, bottom
}
