package liquid

import "math"

// StableState returns the mass the lower of two vertically adjacent cells
// holds once total is shared between them. Up to MaxMass everything sits in
// the lower cell; beyond that the lower cell is compressed by MaxCompress per
// full cell above it.
func (p Params) StableState(total float64) float64 {
	switch {
	case total <= p.MaxMass:
		return total
	case total < 2*p.MaxMass+p.MaxCompress:
		return (p.MaxMass*p.MaxMass + total*p.MaxCompress) / (p.MaxMass + p.MaxCompress)
	default:
		return (total + p.MaxCompress) / 2
	}
}

// Stats summarises one tick of the solver.
type Stats struct {
	Active    int     // Cells that held enough mass to be processed
	Moved     float64 // Total mass transferred between cells
	Forfeited int     // Directions skipped because the neighbour was a wall or off-grid
}

// solver carries the per-tick state of Solve.
type solver struct {
	p     Params
	n     int
	cur   []float64
	next  []float64
	table *Table
	stats Stats
}

// Solve computes one tick of flow. It reads masses from the grid's current
// buffer and accumulates the result in the shadow buffer, which must hold a
// copy of current on entry. Cells are visited in row-major order.
func Solve(p Params, g *Grid, table *Table) Stats {
	s := solver{
		p:     p,
		n:     g.Size(),
		cur:   g.current(),
		next:  g.shadow(),
		table: table,
	}
	if table == nil || table.Neutral() {
		return s.stats
	}
	for i := 0; i < s.n; i++ {
		for j := 0; j < s.n; j++ {
			s.cell(i, j)
		}
	}
	return s.stats
}

// target returns the index of the neighbour of (i, j) along d. ok is false
// when the direction has no usable neighbour: not in the variant, pointing at
// the cell itself, or off the grid.
func (s *solver) target(i, j int, d Direction) (k int, ok bool) {
	off, ok := s.table.Lookup(d)
	if !ok || off.IsZero() {
		return 0, false
	}
	ni, nj := i+off.DI, j+off.DJ
	if ni < 0 || ni >= s.n || nj < 0 || nj >= s.n {
		s.stats.Forfeited++
		return 0, false
	}
	return ni*s.n + nj, true
}

// open reports whether liquid may enter cell k.
func (s *solver) open(k int) bool {
	if s.cur[k] == Border {
		s.stats.Forfeited++
		return false
	}
	return true
}

// limit smooths large flows and caps the result to [0, min(MaxSpeed, available)].
func (s *solver) limit(flow, available float64) float64 {
	if flow > s.p.MinFlow {
		flow *= 0.5
	}
	return math.Max(0, math.Min(flow, math.Min(s.p.MaxSpeed, available)))
}

func (s *solver) move(from, to int, flow float64) {
	if flow <= 0 {
		return
	}
	s.next[from] -= flow
	s.next[to] += flow
	s.stats.Moved += flow
}

func (s *solver) cell(i, j int) {
	self := i*s.n + j
	mass := s.cur[self]
	if mass == Border || mass <= s.p.MinMass {
		return
	}
	s.stats.Active++
	remaining := mass

	down, hasDown := s.target(i, j, Down)
	if hasDown && s.open(down) {
		below := s.cur[down]
		flow := s.limit(s.p.StableState(remaining+below)-below, remaining)
		s.move(self, down, flow)
		remaining -= flow
	}
	if remaining <= 0 {
		return
	}

	if s.table.Variant() == Diagonal && hasDown {
		for _, d := range [2]Direction{DownLeft, DownRight} {
			k, ok := s.target(i, j, d)
			if !ok || k == down || !s.open(k) {
				continue
			}
			diag := s.cur[k]
			half := remaining / 2
			flow := s.limit(s.p.StableState(half+diag)-diag, half)
			s.move(self, k, flow)
			remaining -= flow
		}
	}

	for _, d := range [2]Direction{Left, Right} {
		if remaining <= 0 {
			return
		}
		k, ok := s.target(i, j, d)
		if !ok || !s.open(k) {
			continue
		}
		flow := s.limit((mass-s.cur[k])/4, remaining)
		s.move(self, k, flow)
		remaining -= flow
	}
	if remaining <= 0 {
		return
	}

	up, ok := s.target(i, j, Up)
	if ok && s.open(up) {
		above := s.cur[up]
		flow := s.limit(remaining-s.p.StableState(remaining+above), remaining)
		s.move(self, up, flow)
	}
}
