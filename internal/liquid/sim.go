package liquid

import (
	"fmt"
	"sync"
)

// Simulation ties a grid, a gravity model and the flow parameters together
// and advances them one tick at a time. Grid access is serialised so hosts
// may inject fluid from another goroutine; gravity changes never block a tick.
type Simulation struct {
	mu      sync.Mutex
	params  Params
	grid    *Grid
	gravity *GravityModel
	tick    uint64
	last    Stats
}

// New creates a simulation over grid. A nil grid creates an open, dry grid of
// params.Size. Gravity starts at DefaultGravity.
func New(params Params, grid *Grid) (*Simulation, error) {
	if grid != nil {
		params.Size = grid.Size()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if grid == nil {
		var err error
		if grid, err = NewGrid(params.Size); err != nil {
			return nil, err
		}
	}

	s := &Simulation{
		params:  params,
		grid:    grid,
		gravity: NewGravityModel(params.Variant),
	}
	s.gravity.SetGravity(DefaultGravity)
	return s, nil
}

// Params returns the simulation's tunables.
func (s *Simulation) Params() Params {
	return s.params
}

// Size returns the grid side N.
func (s *Simulation) Size() int {
	return s.grid.Size()
}

// Tick returns the number of completed steps.
func (s *Simulation) Tick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// LastStats returns the statistics of the most recent step.
func (s *Simulation) LastStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Step advances the simulation by one tick: snapshot current into shadow,
// solve every cell against one gravity table, then swap the buffers.
func (s *Simulation) Step() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.gravity.Table()
	s.grid.Snapshot()
	stats := Solve(s.params, s.grid, table)
	s.grid.Swap()

	s.tick++
	s.last = stats
	return stats
}

// StepN runs n ticks and returns the summed statistics.
func (s *Simulation) StepN(n int) Stats {
	var total Stats
	for range n {
		st := s.Step()
		total.Active += st.Active
		total.Moved += st.Moved
		total.Forfeited += st.Forfeited
	}
	return total
}

// SetGravity replaces the gravity vector. The next tick sees the new table
// in full.
func (s *Simulation) SetGravity(v Vector) {
	s.gravity.SetGravity(v)
}

// Gravity returns the current gravity vector.
func (s *Simulation) Gravity() Vector {
	v, _ := s.gravity.Gravity()
	return v
}

// OffsetFor returns the current neighbour offset for d.
func (s *Simulation) OffsetFor(d Direction) (Offset, error) {
	return s.gravity.OffsetFor(d)
}

// AddFluid fills cell (i, j) up to one full unit of mass. Cells already
// holding more keep their mass.
func (s *Simulation) AddFluid(i, j int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.grid.At(i, j)
	if err != nil {
		return err
	}
	if m == Border {
		return fmt.Errorf("%w: (%d,%d)", ErrBorderCell, i, j)
	}
	if m >= s.params.MaxMass {
		return nil
	}
	return s.grid.SetMass(i, j, s.params.MaxMass)
}

// AddMass adds amount to cell (i, j); negative amounts drain it down to 0.
func (s *Simulation) AddMass(i, j int, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.AddMass(i, j, amount)
}

// MassAt returns the stored value of cell (i, j). Border cells report Border.
func (s *Simulation) MassAt(i, j int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.At(i, j)
}

// IsBorder reports whether cell (i, j) is a wall.
func (s *Simulation) IsBorder(i, j int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.IsBorder(i, j)
}

// TotalMass sums the mass of every non-border cell.
func (s *Simulation) TotalMass() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.TotalMass()
}

// Masses returns a row-major copy of the grid, border cells included.
func (s *Simulation) Masses() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Masses()
}

// Restore loads masses saved by Masses and sets the tick counter.
func (s *Simulation) Restore(masses []float64, tick uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.grid.Load(masses); err != nil {
		return err
	}
	s.tick = tick
	return nil
}
