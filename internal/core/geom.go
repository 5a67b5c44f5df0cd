// Package core provides the screen buffer, colors, actions and geometry the
// hosts share. It has no external dependencies (especially no Bubble Tea) so
// renderers stay pure and testable.
package core

// Rect is an axis-aligned area of the screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Centered returns a w×h rectangle centered inside r. The result may extend
// past r when it is larger.
func (r Rect) Centered(w, h int) Rect {
	return Rect{X: r.X + (r.W-w)/2, Y: r.Y + (r.H-h)/2, W: w, H: h}
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Viewport maps an N×N grid onto the screen. Each grid cell is CellW columns
// wide and one row tall. Grid row 0 is drawn at the bottom so that the
// default gravity, toward row 0, points down on screen.
type Viewport struct {
	X, Y  int // Screen position of the top-left corner
	N     int // Grid side
	CellW int // Columns per cell
}

// NewViewport centers an n×n grid inside area.
func NewViewport(area Rect, n, cellW int) Viewport {
	if cellW < 1 {
		cellW = 1
	}
	r := area.Centered(n*cellW, n)
	return Viewport{X: r.X, Y: r.Y, N: n, CellW: cellW}
}

// Bounds returns the screen area the grid occupies.
func (v Viewport) Bounds() Rect {
	return Rect{X: v.X, Y: v.Y, W: v.N * v.CellW, H: v.N}
}

// ScreenPos returns the screen position of the left column of cell (i, j).
func (v Viewport) ScreenPos(i, j int) (x, y int) {
	return v.X + j*v.CellW, v.Y + v.N - 1 - i
}

// CellAt returns the grid cell under screen position (x, y).
func (v Viewport) CellAt(x, y int) (i, j int, ok bool) {
	if !v.Bounds().Contains(x, y) {
		return 0, 0, false
	}
	return v.N - 1 - (y - v.Y), (x - v.X) / v.CellW, true
}
