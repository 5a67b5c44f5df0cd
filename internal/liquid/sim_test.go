package liquid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero size", func(p *Params) { p.Size = 0 }},
		{"zero max mass", func(p *Params) { p.MaxMass = 0 }},
		{"negative compress", func(p *Params) { p.MaxCompress = -1 }},
		{"negative min mass", func(p *Params) { p.MinMass = -1 }},
		{"negative min flow", func(p *Params) { p.MinFlow = -0.1 }},
		{"zero max speed", func(p *Params) { p.MaxSpeed = 0 }},
		{"bad variant", func(p *Params) { p.Variant = Variant(9) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)
			_, err := New(p, nil)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestNewTakesSizeFromGrid(t *testing.T) {
	grid, err := NewGrid(7)
	require.NoError(t, err)

	s, err := New(DefaultParams(), grid)
	require.NoError(t, err)
	assert.Equal(t, 7, s.Size())
	assert.Equal(t, 7, s.Params().Size)
	assert.Equal(t, DefaultGravity, s.Gravity())
}

func TestSimulationAddFluid(t *testing.T) {
	grid, err := NewGridWithBorders(4, func(i, j int) bool { return i == 3 })
	require.NoError(t, err)
	s := newTestSim(t, DefaultParams(), grid)

	require.NoError(t, s.AddFluid(1, 1))
	assert.Equal(t, 1.0, massAt(t, s, 1, 1))

	// Overfull cells keep their mass.
	require.NoError(t, s.AddMass(2, 2, 1.5))
	require.NoError(t, s.AddFluid(2, 2))
	assert.Equal(t, 1.5, massAt(t, s, 2, 2))

	assert.ErrorIs(t, s.AddFluid(3, 0), ErrBorderCell)
	assert.ErrorIs(t, s.AddFluid(4, 0), ErrOutOfBounds)
	assert.ErrorIs(t, s.AddFluid(0, -1), ErrOutOfBounds)
}

func TestSimulationTickAndStats(t *testing.T) {
	p := DefaultParams()
	p.Size = 4
	s := newTestSim(t, p, nil)
	require.NoError(t, s.AddFluid(3, 1))

	st := s.StepN(3)
	assert.Equal(t, uint64(3), s.Tick())
	assert.Positive(t, st.Active)
	assert.LessOrEqual(t, s.LastStats().Active, st.Active)
}

func TestSimulationRestore(t *testing.T) {
	grid, err := NewCircularGrid(20, DefaultLayout())
	require.NoError(t, err)
	s := newTestSim(t, DefaultParams(), grid)
	s.StepN(10)
	saved := s.Masses()
	tick := s.Tick()

	s.StepN(10)
	require.NoError(t, s.Restore(saved, tick))
	assert.Equal(t, saved, s.Masses())
	assert.Equal(t, tick, s.Tick())

	assert.ErrorIs(t, s.Restore(saved[:5], 0), ErrLayoutMismatch)
}

func TestSimulationConcurrentGravity(t *testing.T) {
	grid, err := NewCircularGrid(24, DefaultLayout())
	require.NoError(t, err)
	s := newTestSim(t, DefaultParams(), grid)
	total := s.TotalMass()

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(2)
	go func() {
		defer wg.Done()
		angle := 0.0
		for {
			select {
			case <-done:
				return
			default:
				angle += 7
				s.SetGravity(DefaultGravity.Rotated(angle))
			}
		}
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				_ = s.AddMass(12, 12, 0)
				_ = s.TotalMass()
			}
		}
	}()

	s.StepN(200)
	close(done)
	wg.Wait()

	assert.InDelta(t, total, s.TotalMass(), 1e-9)
}
