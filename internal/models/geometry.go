package models

// Position is an absolute offset, in pixels, within the template canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is an element bounding box, in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Clamp returns a copy with negative coordinates raised to zero.
func (p Position) Clamp() Position {
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	return p
}

// Clamp returns a copy with negative dimensions raised to zero.
func (s Size) Clamp() Size {
	if s.Width < 0 {
		s.Width = 0
	}
	if s.Height < 0 {
		s.Height = 0
	}
	return s
}

// Offset returns the position shifted by (dx, dy).
func (p Position) Offset(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Canvas is the fixed logical drawing area of a template. Element positions
// are absolute offsets within it; they are not validated against its bounds.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultCanvas matches the editor's drawing area.
var DefaultCanvas = Canvas{Width: 800, Height: 600}
