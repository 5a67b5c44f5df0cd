// Package input translates host events (pointer touches, key actions and
// tilt samples) into simulation mutations.
//
// Gravity events use a world frame: X grows to the right, Y grows up. Grid
// row 0 sits at the bottom of that frame, so world (X, Y) maps to the grid
// vector (I: Y, J: X) and straight down (0, -1) is liquid.DefaultGravity.
package input

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-liquid/internal/core"
	"github.com/vovakirdan/tui-liquid/internal/liquid"
)

// RotationStep is the angle one rotate key press turns gravity by.
const RotationStep = 15.0

// Event is a host-originated change to the simulation.
type Event interface {
	fmt.Stringer
	isEvent()
}

// AddFluid fills one cell with a full unit of liquid.
type AddFluid struct {
	I, J int
}

// Stroke fills every cell on the straight segment between two cells, as a
// pointer dragged across the grid does.
type Stroke struct {
	FromI, FromJ int
	ToI, ToJ     int
}

// SetGravity replaces gravity with the world-frame direction (X, Y).
type SetGravity struct {
	X, Y float64
}

// RotateGravity turns the current gravity counter-clockwise by Degrees.
type RotateGravity struct {
	Degrees float64
}

func (AddFluid) isEvent() {}
func (Stroke) isEvent() {}
func (SetGravity) isEvent() {}
func (RotateGravity) isEvent() {}

func (e AddFluid) String() string { return fmt.Sprintf("add-fluid(%d,%d)", e.I, e.J) }

func (e Stroke) String() string {
	return fmt.Sprintf("stroke(%d,%d->%d,%d)", e.FromI, e.FromJ, e.ToI, e.ToJ)
}

func (e SetGravity) String() string { return fmt.Sprintf("set-gravity(%.3f,%.3f)", e.X, e.Y) }

func (e RotateGravity) String() string { return fmt.Sprintf("rotate-gravity(%+.1f°)", e.Degrees) }

// Vector returns the direction as a grid vector.
func (e SetGravity) Vector() liquid.Vector { return liquid.Vector{I: e.Y, J: e.X} }

// GravityFromVector converts a grid vector to a world-frame event.
func GravityFromVector(v liquid.Vector) SetGravity {
	return SetGravity{X: v.J, Y: v.I}
}

// Heading returns the direction of v in degrees, 0 for straight down and
// increasing counter-clockwise, in [0, 360). A zero vector has heading 0.
func Heading(v liquid.Vector) float64 {
	if v.IsZero() {
		return 0
	}
	deg := math.Atan2(v.J, -v.I) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// FromAction returns the gravity event bound to a key action.
func FromAction(a core.Action) (Event, bool) {
	switch a {
	case core.ActionGravityDown:
		return SetGravity{X: 0, Y: -1}, true
	case core.ActionGravityUp:
		return SetGravity{X: 0, Y: 1}, true
	case core.ActionGravityLeft:
		return SetGravity{X: -1, Y: 0}, true
	case core.ActionGravityRight:
		return SetGravity{X: 1, Y: 0}, true
	case core.ActionRotateLeft:
		return RotateGravity{Degrees: RotationStep}, true
	case core.ActionRotateRight:
		return RotateGravity{Degrees: -RotationStep}, true
	default:
		return nil, false
	}
}

// line returns the cells of the segment (i0, j0)-(i1, j1), both ends
// included, using Bresenham's algorithm.
func line(i0, j0, i1, j1 int) [][2]int {
	di := abs(i1 - i0)
	dj := -abs(j1 - j0)
	si, sj := sign(i1-i0), sign(j1-j0)
	errAcc := di + dj

	cells := make([][2]int, 0, max(di, -dj)+1)
	for {
		cells = append(cells, [2]int{i0, j0})
		if i0 == i1 && j0 == j1 {
			return cells
		}
		e2 := 2 * errAcc
		if e2 >= dj {
			errAcc += dj
			i0 += si
		}
		if e2 <= di {
			errAcc += di
			j0 += sj
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
