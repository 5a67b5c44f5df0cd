package liquid

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaultGravity(t *testing.T) {
	tests := []struct {
		dir  Direction
		want Offset
	}{
		{Down, Offset{-1, 0}},
		{Up, Offset{1, 0}},
		{Left, Offset{0, -1}},
		{Right, Offset{0, 1}},
		{DownLeft, Offset{-1, -1}},
		{DownRight, Offset{-1, 1}},
		{UpLeft, Offset{1, -1}},
		{UpRight, Offset{1, 1}},
	}

	for _, tc := range tests {
		t.Run(tc.dir.String(), func(t *testing.T) {
			got, ok := Resolve(Vector{I: -1, J: 0}, tc.dir)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveTowardRows(t *testing.T) {
	g := Vector{I: 1, J: 0}
	want := map[Direction]Offset{
		Down:      {1, 0},
		Up:        {-1, 0},
		Left:      {0, 1},
		Right:     {0, -1},
		DownLeft:  {1, 1},
		DownRight: {1, -1},
		UpLeft:    {-1, 1},
		UpRight:   {-1, -1},
	}
	for d, off := range want {
		got, ok := Resolve(g, d)
		require.True(t, ok)
		assert.Equal(t, off, got, d.String())
	}

	// Each diagonal lies between its two cardinals.
	sum := func(a, b Direction) Offset {
		return Offset{DI: want[a].DI + want[b].DI, DJ: want[a].DJ + want[b].DJ}
	}
	assert.Equal(t, sum(Down, Left), want[DownLeft])
	assert.Equal(t, sum(Down, Right), want[DownRight])
	assert.Equal(t, sum(Up, Left), want[UpLeft])
	assert.Equal(t, sum(Up, Right), want[UpRight])
}

func TestResolveLengthDoesNotMatter(t *testing.T) {
	for _, d := range Directions(Diagonal) {
		short, _ := Resolve(Vector{I: -0.3, J: 0.2}, d)
		long, _ := Resolve(Vector{I: -30, J: 20}, d)
		assert.Equal(t, long, short, d.String())
	}
}

func TestResolveAllAngles(t *testing.T) {
	for deg := 0.0; deg < 360; deg += 5 {
		rad := deg * math.Pi / 180
		g := Vector{I: math.Cos(rad), J: math.Sin(rad)}

		offsets := make(map[Direction]Offset)
		for _, d := range Directions(Diagonal) {
			off, ok := Resolve(g, d)
			require.True(t, ok)
			assert.False(t, off.IsZero(), "deg=%v dir=%v", deg, d)
			assert.LessOrEqual(t, abs(off.DI), 1)
			assert.LessOrEqual(t, abs(off.DJ), 1)
			offsets[d] = off
		}

		dot := func(o Offset) float64 { return float64(o.DI)*g.I + float64(o.DJ)*g.J }
		assert.Positive(t, dot(offsets[Down]), "deg=%v", deg)
		assert.Positive(t, dot(offsets[DownLeft]), "deg=%v", deg)
		assert.Positive(t, dot(offsets[DownRight]), "deg=%v", deg)
		assert.Equal(t, Offset{-offsets[Down].DI, -offsets[Down].DJ}, offsets[Up])
		assert.Equal(t, Offset{-offsets[DownRight].DI, -offsets[DownRight].DJ}, offsets[UpLeft])
	}
}

func TestResolveDiagonalGravity(t *testing.T) {
	g := Vector{I: -1, J: 1}
	down, _ := Resolve(g, Down)
	left, _ := Resolve(g, Left)
	right, _ := Resolve(g, Right)
	downRight, _ := Resolve(g, DownRight)
	downLeft, _ := Resolve(g, DownLeft)

	assert.Equal(t, Offset{-1, 1}, down)
	assert.Equal(t, Offset{-1, -1}, left)
	assert.Equal(t, Offset{1, 1}, right)
	assert.Equal(t, Offset{0, 1}, downRight)
	assert.Equal(t, Offset{-1, 0}, downLeft)
}

func TestResolveZeroVector(t *testing.T) {
	for _, g := range []Vector{{}, {I: math.NaN()}, {J: math.Inf(1)}} {
		_, ok := Resolve(g, Down)
		assert.False(t, ok)
	}
}

func TestRoundOffsetHalfToEven(t *testing.T) {
	tests := []struct {
		in   Vector
		want Offset
	}{
		{Vector{0.5, -0.5}, Offset{0, 0}},
		{Vector{0.51, -0.51}, Offset{1, -1}},
		{Vector{0.49, 0.7}, Offset{0, 1}},
		{Vector{-1, 1}, Offset{-1, 1}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, roundOffset(tc.in), "%v", tc.in)
	}
}

func TestVectorRotated(t *testing.T) {
	v := Vector{I: -1, J: 0}.Rotated(90)
	assert.InDelta(t, 0, v.I, 1e-12)
	assert.InDelta(t, 1, v.J, 1e-12)

	v = Vector{I: -1, J: 0}.Rotated(-90)
	assert.InDelta(t, -1, v.J, 1e-12)
}

func TestGravityModelBeforeSet(t *testing.T) {
	m := NewGravityModel(Diagonal)

	_, err := m.OffsetFor(Down)
	require.ErrorIs(t, err, ErrUnknownDirection)
	assert.Nil(t, m.Table())

	_, ok := m.Gravity()
	assert.False(t, ok)

	m.SetGravity(DefaultGravity)
	off, err := m.OffsetFor(Down)
	require.NoError(t, err)
	assert.Equal(t, Offset{-1, 0}, off)
}

func TestGravityModelCardinalVariant(t *testing.T) {
	m := NewGravityModel(Cardinal)
	m.SetGravity(DefaultGravity)

	_, err := m.OffsetFor(DownLeft)
	assert.ErrorIs(t, err, ErrUnknownDirection)

	off, err := m.OffsetFor(Right)
	require.NoError(t, err)
	assert.Equal(t, Offset{0, 1}, off)
}

func TestGravityModelZeroVectorIsNeutral(t *testing.T) {
	m := NewGravityModel(Diagonal)
	m.SetGravity(DefaultGravity)
	m.SetGravity(Vector{})

	require.True(t, m.Table().Neutral())
	for _, d := range Directions(Diagonal) {
		off, err := m.OffsetFor(d)
		require.NoError(t, err)
		assert.True(t, off.IsZero())
	}
}

func TestGravityModelSwapIsAtomic(t *testing.T) {
	m := NewGravityModel(Diagonal)
	m.SetGravity(DefaultGravity)

	gravities := []Vector{{I: -1}, {I: 1}, {J: 1}, {J: -1}, {I: -1, J: 1}}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for k := 0; k < 2000; k++ {
			m.SetGravity(gravities[k%len(gravities)])
		}
	}()

	for k := 0; k < 2000; k++ {
		table := m.Table()
		for _, d := range Directions(Diagonal) {
			want, _ := Resolve(table.Gravity(), d)
			got, _ := table.Lookup(d)
			if want != got {
				t.Fatalf("table for %v has %v=%v, want %v", table.Gravity(), d, got, want)
			}
		}
	}
	wg.Wait()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
