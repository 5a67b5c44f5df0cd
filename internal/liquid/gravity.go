package liquid

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector is a direction in grid-index units. I grows with the row index,
// J with the column index. It need not be unit length.
type Vector struct {
	I float64
	J float64
}

// DefaultGravity points toward row 0.
var DefaultGravity = Vector{I: -1, J: 0}

// IsZero reports whether the vector has no usable direction.
func (v Vector) IsZero() bool {
	l := math.Hypot(v.I, v.J)
	return l == 0 || math.IsNaN(l) || math.IsInf(l, 0)
}

// Normalized returns v scaled to unit length, or the zero vector.
func (v Vector) Normalized() Vector {
	if v.IsZero() {
		return Vector{}
	}
	l := math.Hypot(v.I, v.J)
	return Vector{I: v.I / l, J: v.J / l}
}

// Rotated returns v rotated by the given angle in degrees, in the same sense
// as the diagonal derivation (from +J toward +I).
func (v Vector) Rotated(degrees float64) Vector {
	r := mgl64.Rotate2D(mgl64.DegToRad(degrees)).Mul2x1(mgl64.Vec2{v.J, v.I})
	return Vector{I: r[1], J: r[0]}
}

// Direction is a gravity-relative flow direction.
type Direction uint8

const (
	Down Direction = iota
	Up
	Left
	Right
	DownLeft
	DownRight
	UpLeft
	UpRight

	numDirections
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Down:
		return "Down"
	case Up:
		return "Up"
	case Left:
		return "Left"
	case Right:
		return "Right"
	case DownLeft:
		return "DownLeft"
	case DownRight:
		return "DownRight"
	case UpLeft:
		return "UpLeft"
	case UpRight:
		return "UpRight"
	default:
		return "Unknown"
	}
}

// IsDiagonal reports whether d exists only in the Diagonal variant.
func (d Direction) IsDiagonal() bool {
	return d >= DownLeft && d < numDirections
}

// Directions lists the directions a variant uses.
func Directions(v Variant) []Direction {
	if v == Cardinal {
		return []Direction{Down, Up, Left, Right}
	}
	return []Direction{Down, Up, Left, Right, DownLeft, DownRight, UpLeft, UpRight}
}

// Offset is an integer step (ΔI, ΔJ) with components in {-1, 0, 1}.
type Offset struct {
	DI int
	DJ int
}

// IsZero reports whether the offset points at the cell itself.
func (o Offset) IsZero() bool {
	return o.DI == 0 && o.DJ == 0
}

// String returns a string representation of the offset.
func (o Offset) String() string {
	return fmt.Sprintf("(%d,%d)", o.DI, o.DJ)
}

// diagonalRefs are the eight reference directions, 45° apart, as (dx, dy)
// with dx along J and dy along I.
var diagonalRefs = [8]mgl64.Vec2{
	{-1.2, 0},
	{-0.6, 0.6},
	{0, 1.2},
	{0.6, 0.6},
	{1.2, 0},
	{-0.6, -0.6},
	{0, -1.2},
	{0.6, -0.6},
}

func roundOffset(v Vector) Offset {
	return Offset{
		DI: int(math.RoundToEven(v.I)),
		DJ: int(math.RoundToEven(v.J)),
	}
}

// quarterTurns returns the vector as seen for Down, Up, Left and Right.
func quarterTurns(v Vector) (down, up, left, right Vector) {
	down = v
	up = Vector{I: -v.I, J: -v.J}
	left = Vector{I: -v.J, J: v.I}
	right = Vector{I: v.J, J: -v.I}
	return down, up, left, right
}

// nearestDiagonalRef returns the reference direction closest in angle to v.
// Ties go to the earlier reference.
func nearestDiagonalRef(v Vector) mgl64.Vec2 {
	heading := math.Atan2(v.I, v.J)
	best := diagonalRefs[0]
	bestAngle := math.Inf(1)
	for _, ref := range diagonalRefs {
		angle := math.Abs(math.Atan2(ref[1], ref[0]) - heading)
		if angle > math.Pi {
			angle = 2*math.Pi - angle
		}
		if angle < bestAngle {
			best, bestAngle = ref, angle
		}
	}
	return best
}

// Resolve maps gravity g and direction d to the neighbour step. Cardinal
// directions rotate g by multiples of 90°. Diagonals first snap g to the
// nearest of eight reference directions, rotate that by 45° and then apply
// the same quarter turns. It returns false when g has no direction.
func Resolve(g Vector, d Direction) (Offset, bool) {
	if g.IsZero() || d >= numDirections {
		return Offset{}, false
	}
	g = g.Normalized()

	if !d.IsDiagonal() {
		down, up, left, right := quarterTurns(g)
		switch d {
		case Down:
			return roundOffset(down), true
		case Up:
			return roundOffset(up), true
		case Left:
			return roundOffset(left), true
		default:
			return roundOffset(right), true
		}
	}

	ref := nearestDiagonalRef(g)
	r := mgl64.Rotate2D(mgl64.DegToRad(45)).Mul2x1(ref)
	downRight := Vector{I: r[1], J: r[0]}
	_, upLeft, downLeft, upRight := quarterTurns(downRight)
	switch d {
	case DownRight:
		return roundOffset(downRight), true
	case UpLeft:
		return roundOffset(upLeft), true
	case DownLeft:
		return roundOffset(downLeft), true
	default:
		return roundOffset(upRight), true
	}
}

// Table is an immutable direction → offset lookup for one gravity value.
type Table struct {
	gravity Vector
	variant Variant
	neutral bool
	offsets [numDirections]Offset
}

// NewTable computes the full lookup for gravity g. A zero vector yields a
// neutral table whose offsets are all (0,0).
func NewTable(g Vector, variant Variant) *Table {
	t := &Table{gravity: g, variant: variant}
	if g.IsZero() {
		t.neutral = true
		return t
	}
	for _, d := range Directions(variant) {
		t.offsets[d], _ = Resolve(g, d)
	}
	return t
}

// Gravity returns the vector the table was built from.
func (t *Table) Gravity() Vector { return t.gravity }

// Neutral reports whether the table was built from a zero vector.
func (t *Table) Neutral() bool { return t.neutral }

// Variant returns the variant the table was built for.
func (t *Table) Variant() Variant { return t.variant }

// Lookup returns the offset for d. ok is false for directions outside the
// table's variant.
func (t *Table) Lookup(d Direction) (off Offset, ok bool) {
	if d >= numDirections || (t.variant == Cardinal && d.IsDiagonal()) {
		return Offset{}, false
	}
	return t.offsets[d], true
}

// GravityModel owns the current offset table. SetGravity may run on any
// goroutine; the table is replaced as a whole so readers see either the old
// or the new one.
type GravityModel struct {
	variant Variant
	table   atomic.Pointer[Table]
}

// NewGravityModel creates a model with no gravity set.
func NewGravityModel(variant Variant) *GravityModel {
	return &GravityModel{variant: variant}
}

// Variant returns the model's direction set.
func (m *GravityModel) Variant() Variant {
	return m.variant
}

// SetGravity stores g and rebuilds the offset table.
func (m *GravityModel) SetGravity(g Vector) {
	m.table.Store(NewTable(g, m.variant))
}

// Gravity returns the last vector set, and false if none was.
func (m *GravityModel) Gravity() (Vector, bool) {
	t := m.table.Load()
	if t == nil {
		return Vector{}, false
	}
	return t.gravity, true
}

// Table returns the current table, or nil before the first SetGravity.
func (m *GravityModel) Table() *Table {
	return m.table.Load()
}

// OffsetFor returns the current offset for d.
func (m *GravityModel) OffsetFor(d Direction) (Offset, error) {
	t := m.table.Load()
	if t == nil {
		return Offset{}, fmt.Errorf("%w: %s requested before gravity was set", ErrUnknownDirection, d)
	}
	off, ok := t.Lookup(d)
	if !ok {
		return Offset{}, fmt.Errorf("%w: %s in %s variant", ErrUnknownDirection, d, m.variant)
	}
	return off, nil
}
