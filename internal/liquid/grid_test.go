package liquid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridInvalidSize(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := NewGrid(n)
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
}

func TestGridBounds(t *testing.T) {
	g, err := NewGrid(4)
	require.NoError(t, err)

	tests := []struct {
		name string
		i, j int
		ok   bool
	}{
		{"origin", 0, 0, true},
		{"far corner", 3, 3, true},
		{"negative row", -1, 0, false},
		{"row past end", 4, 0, false},
		{"column past end", 0, 4, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, g.InBounds(tc.i, tc.j))
			_, err := g.At(tc.i, tc.j)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrOutOfBounds)
			}
		})
	}
}

func TestGridAddMassClampsAtZero(t *testing.T) {
	g, err := NewGrid(3)
	require.NoError(t, err)

	require.NoError(t, g.AddMass(1, 1, 0.4))
	require.NoError(t, g.AddMass(1, 1, -1))

	m, err := g.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m)
	assert.Equal(t, 0.0, g.next.At(1, 1))
}

func TestGridRejectsNonFiniteMass(t *testing.T) {
	g, err := NewGrid(3)
	require.NoError(t, err)
	require.NoError(t, g.SetMass(1, 1, 0.5))

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.ErrorIs(t, g.AddMass(1, 1, v), ErrInvalidMass, "AddMass(%v)", v)
		assert.ErrorIs(t, g.SetMass(1, 1, v), ErrInvalidMass, "SetMass(%v)", v)
	}
	require.NoError(t, g.SetMass(1, 2, math.MaxFloat64))
	assert.ErrorIs(t, g.AddMass(1, 2, math.MaxFloat64), ErrInvalidMass)

	m, err := g.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.5, m)
}

func TestGridNonFiniteMassDoesNotSpread(t *testing.T) {
	g, err := NewGrid(5)
	require.NoError(t, err)
	s, err := New(DefaultParams(), g)
	require.NoError(t, err)
	s.SetGravity(Vector{I: 1, J: 0})

	assert.ErrorIs(t, s.AddMass(2, 2, math.NaN()), ErrInvalidMass)
	assert.ErrorIs(t, s.AddMass(2, 3, math.Inf(1)), ErrInvalidMass)
	require.NoError(t, s.AddFluid(2, 2))

	s.StepN(3)
	for k, m := range s.Masses() {
		assert.False(t, math.IsNaN(m) || math.IsInf(m, 0), "cell %d = %v", k, m)
	}
	assert.InDelta(t, 1.0, s.TotalMass(), 1e-12)
}

func TestGridBorderCellsRejectWrites(t *testing.T) {
	g, err := NewGridWithBorders(3, func(i, j int) bool { return i == 0 })
	require.NoError(t, err)

	assert.ErrorIs(t, g.AddMass(0, 1, 1), ErrBorderCell)
	assert.ErrorIs(t, g.SetMass(0, 2, 1), ErrBorderCell)

	border, err := g.IsBorder(0, 1)
	require.NoError(t, err)
	assert.True(t, border)

	m, _ := g.At(0, 1)
	assert.Equal(t, Border, m)
}

func TestGridSnapshotAndSwap(t *testing.T) {
	g, err := NewGrid(2)
	require.NoError(t, err)
	require.NoError(t, g.SetMass(0, 0, 0.75))

	cur, next := g.cur, g.next
	g.next.Set(1, 1, 0.5)
	g.Swap()

	assert.Same(t, next, g.cur)
	assert.Same(t, cur, g.next)
	m, _ := g.At(1, 1)
	assert.Equal(t, 0.5, m)

	g.Snapshot()
	assert.Equal(t, g.current(), g.shadow())
}

func TestCircularGrid(t *testing.T) {
	const n = 40
	g, err := NewCircularGrid(n, DefaultLayout())
	require.NoError(t, err)

	corners := [][2]int{{0, 0}, {0, n - 1}, {n - 1, 0}, {n - 1, n - 1}}
	for _, c := range corners {
		border, _ := g.IsBorder(c[0], c[1])
		assert.True(t, border, "corner %v", c)
	}

	centre, _ := g.At(n/2, n/2)
	assert.Equal(t, 1.0, centre)

	// A cell just inside the rim is liquid domain but outside the pool.
	maxDistance := float64(n) / 2 * (1 - DefaultLayout().RingFraction)
	var dry int
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d := cellDistance(n, i, j)
			m, _ := g.At(i, j)
			switch {
			case d >= maxDistance:
				assert.Equal(t, Border, m)
			case d > maxDistance*DefaultLayout().PoolFraction:
				assert.Equal(t, 0.0, m)
				dry++
			default:
				assert.Equal(t, 1.0, m)
			}
			// Mirror symmetry across both axes.
			mirror, _ := g.At(n-1-i, n-1-j)
			assert.Equal(t, m, mirror)
		}
	}
	assert.Positive(t, dry)
	assert.Equal(t, g.current(), g.shadow())
}

func TestCircularGridWithoutPool(t *testing.T) {
	layout := DefaultLayout()
	layout.PoolFraction = 0
	g, err := NewCircularGrid(20, layout)
	require.NoError(t, err)
	assert.Equal(t, 0.0, g.TotalMass())
}

func TestGridTotalMassSkipsBorder(t *testing.T) {
	g, err := NewGridWithBorders(3, func(i, j int) bool { return j == 0 })
	require.NoError(t, err)
	require.NoError(t, g.SetMass(1, 1, 0.5))
	require.NoError(t, g.SetMass(2, 2, 0.25))

	assert.InDelta(t, 0.75, g.TotalMass(), 1e-12)
}

func TestGridLoad(t *testing.T) {
	g, err := NewCircularGrid(16, DefaultLayout())
	require.NoError(t, err)

	masses := g.Masses()
	for k := range masses {
		if masses[k] != Border {
			masses[k] = 0.3
		}
	}
	require.NoError(t, g.Load(masses))
	assert.Equal(t, masses, g.Masses())
	assert.Equal(t, g.current(), g.shadow())

	t.Run("wrong length", func(t *testing.T) {
		assert.ErrorIs(t, g.Load(masses[:10]), ErrLayoutMismatch)
	})

	t.Run("border moved", func(t *testing.T) {
		bad := append([]float64(nil), masses...)
		bad[0] = 0
		assert.ErrorIs(t, g.Load(bad), ErrLayoutMismatch)
	})

	t.Run("invalid mass", func(t *testing.T) {
		centre := 8*16 + 8
		for _, v := range []float64{-0.5, math.NaN()} {
			bad := append([]float64(nil), masses...)
			bad[centre] = v
			assert.ErrorIs(t, g.Load(bad), ErrLayoutMismatch)
		}
	})
}
