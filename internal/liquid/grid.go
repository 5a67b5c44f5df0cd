// Package liquid implements a mass-transfer cellular automaton that moves
// liquid between the cells of a square grid along an arbitrary gravity vector.
// It has no UI dependencies; hosts inject events and read masses back.
package liquid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Border marks a cell outside the liquid domain. It never changes after the
// grid is built and no mass ever flows into it.
const Border = -1.0

// Layout describes how a circular container is carved out of a square grid.
type Layout struct {
	RingFraction float64 // Share of the radius reserved as rim
	PoolFraction float64 // Share of the inner radius pre-filled, 0 for none
	PoolMass     float64 // Mass of every pre-filled cell
}

// DefaultLayout returns the container used by the interactive app.
func DefaultLayout() Layout {
	return Layout{
		RingFraction: 0.095,
		PoolFraction: 0.55,
		PoolMass:     1.0,
	}
}

// Grid holds cell masses in two same-shaped buffers. Reads during a tick come
// from cur, writes go to next. Outside of a tick both hold the same values.
type Grid struct {
	n    int
	cur  *mat.Dense
	next *mat.Dense
}

// NewGrid creates an open n×n grid with every cell dry.
func NewGrid(n int) (*Grid, error) {
	return NewGridWithBorders(n, nil)
}

// NewGridWithBorders creates an n×n grid where isBorder marks wall cells.
// A nil isBorder means no walls.
func NewGridWithBorders(n int, isBorder func(i, j int) bool) (*Grid, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}
	g := &Grid{
		n:    n,
		cur:  mat.NewDense(n, n, nil),
		next: mat.NewDense(n, n, nil),
	}
	if isBorder != nil {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if isBorder(i, j) {
					g.cur.Set(i, j, Border)
				}
			}
		}
	}
	g.Snapshot()
	return g, nil
}

// NewCircularGrid creates an n×n grid whose liquid domain is the disk
// inscribed in the square minus a rim, optionally with a standing pool.
func NewCircularGrid(n int, layout Layout) (*Grid, error) {
	maxDistance := float64(n) / 2 * (1 - layout.RingFraction)
	poolDistance := maxDistance * layout.PoolFraction

	g, err := NewGridWithBorders(n, func(i, j int) bool {
		return cellDistance(n, i, j) >= maxDistance
	})
	if err != nil {
		return nil, err
	}

	if layout.PoolFraction > 0 && layout.PoolMass > 0 {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if g.cur.At(i, j) != Border && cellDistance(n, i, j) <= poolDistance {
					g.cur.Set(i, j, layout.PoolMass)
				}
			}
		}
		g.Snapshot()
	}
	return g, nil
}

// cellDistance returns the distance from the grid centre to the centre of
// cell (i, j), in cell units.
func cellDistance(n, i, j int) float64 {
	half := float64(n) / 2
	x := float64(j) + 0.5 - half
	y := float64(i) + 0.5 - half
	return math.Hypot(x, y)
}

// Size returns the grid side N.
func (g *Grid) Size() int {
	return g.n
}

// InBounds reports whether (i, j) lies inside the grid.
func (g *Grid) InBounds(i, j int) bool {
	return i >= 0 && i < g.n && j >= 0 && j < g.n
}

func (g *Grid) check(i, j int) error {
	if !g.InBounds(i, j) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d grid", ErrOutOfBounds, i, j, g.n, g.n)
	}
	return nil
}

// At returns the stored value of cell (i, j); border cells return Border.
func (g *Grid) At(i, j int) (float64, error) {
	if err := g.check(i, j); err != nil {
		return 0, err
	}
	return g.cur.At(i, j), nil
}

// IsBorder reports whether cell (i, j) is a wall.
func (g *Grid) IsBorder(i, j int) (bool, error) {
	if err := g.check(i, j); err != nil {
		return false, err
	}
	return g.cur.At(i, j) == Border, nil
}

// AddMass adds amount to cell (i, j) in both buffers, clamping the result at 0.
func (g *Grid) AddMass(i, j int, amount float64) error {
	if !finite(amount) {
		return fmt.Errorf("%w: %v at (%d,%d)", ErrInvalidMass, amount, i, j)
	}
	m, err := g.At(i, j)
	if err != nil {
		return err
	}
	if m == Border {
		return fmt.Errorf("%w: (%d,%d)", ErrBorderCell, i, j)
	}
	sum := m + amount
	if !finite(sum) {
		return fmt.Errorf("%w: %v overflows at (%d,%d)", ErrInvalidMass, amount, i, j)
	}
	g.put(i, j, math.Max(0, sum))
	return nil
}

// SetMass overwrites the mass of cell (i, j) in both buffers.
func (g *Grid) SetMass(i, j int, mass float64) error {
	if !finite(mass) {
		return fmt.Errorf("%w: %v at (%d,%d)", ErrInvalidMass, mass, i, j)
	}
	m, err := g.At(i, j)
	if err != nil {
		return err
	}
	if m == Border {
		return fmt.Errorf("%w: (%d,%d)", ErrBorderCell, i, j)
	}
	g.put(i, j, math.Max(0, mass))
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (g *Grid) put(i, j int, mass float64) {
	g.cur.Set(i, j, mass)
	g.next.Set(i, j, mass)
}

// Snapshot copies the current buffer into the shadow buffer.
func (g *Grid) Snapshot() {
	g.next.Copy(g.cur)
}

// Swap exchanges the current and shadow buffers.
func (g *Grid) Swap() {
	g.cur, g.next = g.next, g.cur
}

// TotalMass sums the mass of every non-border cell.
func (g *Grid) TotalMass() float64 {
	var total float64
	for _, m := range g.cur.RawMatrix().Data {
		if m != Border {
			total += m
		}
	}
	return total
}

// Masses returns a row-major copy of the current buffer.
func (g *Grid) Masses() []float64 {
	out := make([]float64, g.n*g.n)
	copy(out, g.cur.RawMatrix().Data)
	return out
}

// Load replaces all masses from a row-major slice produced by Masses.
// Border cells must line up with the grid's own borders.
func (g *Grid) Load(masses []float64) error {
	if len(masses) != g.n*g.n {
		return fmt.Errorf("%w: %d values for %dx%d grid", ErrLayoutMismatch, len(masses), g.n, g.n)
	}
	cur := g.cur.RawMatrix().Data
	for k, m := range masses {
		if (m == Border) != (cur[k] == Border) {
			return fmt.Errorf("%w: border differs at (%d,%d)", ErrLayoutMismatch, k/g.n, k%g.n)
		}
		if m != Border && (m < 0 || !finite(m)) {
			return fmt.Errorf("%w: invalid mass %v at (%d,%d)", ErrLayoutMismatch, m, k/g.n, k%g.n)
		}
	}
	copy(cur, masses)
	g.Snapshot()
	return nil
}

// current and shadow expose the raw row-major buffers to the solver.
func (g *Grid) current() []float64 { return g.cur.RawMatrix().Data }
func (g *Grid) shadow() []float64  { return g.next.RawMatrix().Data }
