package types

import (
	"encoding/json"
	"image"
	"testing"
)

func TestNewRectBox(t *testing.T) {
	box := NewRectBox(10, 20, 110, 70)

	if !box.Valid() {
		t.Fatal("Expected box to be valid")
	}

	if tl := box.TopLeft(); tl.X != 10 || tl.Y != 20 {
		t.Errorf("Expected top-left (10,20), got (%v,%v)", tl.X, tl.Y)
	}

	if br := box.BottomRight(); br.X != 110 || br.Y != 70 {
		t.Errorf("Expected bottom-right (110,70), got (%v,%v)", br.X, br.Y)
	}

	if box.Width() != 100 {
		t.Errorf("Expected width 100, got %v", box.Width())
	}

	if box.Height() != 50 {
		t.Errorf("Expected height 50, got %v", box.Height())
	}
}

func TestBoundingBoxValid(t *testing.T) {
	if (BoundingBox{}).Valid() {
		t.Error("Empty box should be invalid")
	}

	if (BoundingBox{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}).Valid() {
		t.Error("Three-point box should be invalid")
	}
}

func TestBoundingBoxUsesOnlyCorners(t *testing.T) {
	// Points 1 and 3 are deliberately nonsense; only 0 and 2 matter
	box := BoundingBox{{X: 0, Y: 0}, {X: -500, Y: 900}, {X: 100, Y: 100}, {X: 7, Y: -3}}

	inner := NewRectBox(10, 10, 90, 90)
	if !box.Contains(inner) {
		t.Error("Expected inner box to be contained")
	}
}

func TestBoundingBoxContains(t *testing.T) {
	outer := NewRectBox(0, 0, 100, 100)

	tests := []struct {
		name     string
		inner    BoundingBox
		expected bool
	}{
		{"fully inside", NewRectBox(10, 10, 90, 90), true},
		{"same box", NewRectBox(0, 0, 100, 100), true},
		{"overhangs right", NewRectBox(50, 10, 101, 90), false},
		{"overhangs top", NewRectBox(10, -1, 90, 90), false},
		{"outside", NewRectBox(110, 10, 200, 90), false},
		{"malformed", BoundingBox{{X: 10, Y: 10}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.inner); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestElementTypeTitle(t *testing.T) {
	tests := map[ElementType]string{
		Button:        "Button",
		NavigationBar: "Navigation Bar",
		TextField:     "Text Field",
		RadioButton:   "Radio Button",
		Unknown:       "Unknown",
	}

	for typ, expected := range tests {
		if got := typ.Title(); got != expected {
			t.Errorf("Expected %q for %s, got %q", expected, typ, got)
		}
	}
}

func TestElementTypeValid(t *testing.T) {
	if len(ElementTypes()) != 13 {
		t.Errorf("Expected 13 element types, got %d", len(ElementTypes()))
	}

	for _, typ := range ElementTypes() {
		if !typ.Valid() {
			t.Errorf("Expected %s to be valid", typ)
		}
	}

	if Unknown.Valid() {
		t.Error("Unknown should not be a detector type")
	}

	if ElementType("carousel").Valid() {
		t.Error("carousel should not be valid")
	}
}

func TestTextBlockFromRect(t *testing.T) {
	block := TextBlockFromRect("Welcome", image.Rect(5, 6, 50, 30))

	if block.Text != "Welcome" {
		t.Errorf("Expected text Welcome, got %q", block.Text)
	}

	if len(block.BoundingBox) != 4 {
		t.Fatalf("Expected 4 points, got %d", len(block.BoundingBox))
	}

	if br := block.BoundingBox.BottomRight(); br.X != 50 || br.Y != 30 {
		t.Errorf("Expected bottom-right (50,30), got (%v,%v)", br.X, br.Y)
	}
}

func TestPointUnmarshalJSON(t *testing.T) {
	var block TextBlock
	data := `{"text": "Go", "bounding_box": [[1, 2], {"x": 3, "y": 2}, [3, 4], {"x": 1, "y": 4}]}`
	if err := json.Unmarshal([]byte(data), &block); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if tl := block.BoundingBox.TopLeft(); tl.X != 1 || tl.Y != 2 {
		t.Errorf("Expected top-left (1,2), got (%v,%v)", tl.X, tl.Y)
	}

	if br := block.BoundingBox.BottomRight(); br.X != 3 || br.Y != 4 {
		t.Errorf("Expected bottom-right (3,4), got (%v,%v)", br.X, br.Y)
	}

	var p Point
	if err := json.Unmarshal([]byte(`[1, 2, 3]`), &p); err == nil {
		t.Error("Expected an error for a three-element vertex")
	}
}
