package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-liquid/internal/config"
	"github.com/vovakirdan/tui-liquid/internal/input"
	"github.com/vovakirdan/tui-liquid/internal/liquid"
	"github.com/vovakirdan/tui-liquid/internal/scenario"
	"github.com/vovakirdan/tui-liquid/internal/storage"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Engine.Size = 12
	cfg.Tilt.Mode = config.TiltFixed
	return cfg
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "liquid.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestModel(t *testing.T, id string, store *storage.Store) Model {
	t.Helper()
	sc, err := scenario.Create(id)
	require.NoError(t, err)
	cfg := testConfig()
	m, err := NewModel(sc, Options{
		Config:  cfg,
		Runtime: RuntimeFor(cfg, 80, 30),
		Store:   store,
		Logger:  log.New(io.Discard),
	})
	require.NoError(t, err)
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// press queues a key and lets the next tick apply it.
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	m, _ = update(t, m, msg)
	m, _ = update(t, m, TickMsg{})
	return m
}

func TestModelTicksAdvance(t *testing.T) {
	m := newTestModel(t, "droplet", nil)
	require.Equal(t, uint64(0), m.Simulation().Tick())

	m, cmd := update(t, m, TickMsg{})
	assert.NotNil(t, cmd)
	assert.Equal(t, uint64(1), m.Simulation().Tick())
}

func TestModelPauseAndStep(t *testing.T) {
	m := newTestModel(t, "droplet", nil)

	m = press(t, m, runes("p"))
	assert.True(t, m.Status().Paused)
	assert.Equal(t, uint64(0), m.Simulation().Tick())

	m, _ = update(t, m, TickMsg{})
	assert.Equal(t, uint64(0), m.Simulation().Tick())

	m = press(t, m, runes("."))
	assert.Equal(t, uint64(1), m.Simulation().Tick())

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.Status().Paused)
	assert.Equal(t, uint64(2), m.Simulation().Tick())
}

func TestModelMousePourAndDrag(t *testing.T) {
	m := newTestModel(t, "droplet", nil)
	before := m.Simulation().TotalMass()

	x, y := m.viewport.ScreenPos(2, 2)
	m, _ = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	mass, err := m.Simulation().MassAt(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, mass)
	assert.True(t, m.dragging)

	x, y = m.viewport.ScreenPos(2, 5)
	m, _ = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	for j := 3; j <= 5; j++ {
		mass, err := m.Simulation().MassAt(2, j)
		require.NoError(t, err)
		assert.Equal(t, 1.0, mass, "column %d", j)
	}
	assert.InDelta(t, before+4, m.Simulation().TotalMass(), 1e-12)

	m, _ = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease})
	assert.False(t, m.dragging)

	// Motion without a held button pours nothing.
	x, y = m.viewport.ScreenPos(4, 4)
	m, _ = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	assert.InDelta(t, before+4, m.Simulation().TotalMass(), 1e-12)
}

func TestModelMouseOutsideGrid(t *testing.T) {
	m := newTestModel(t, "droplet", nil)
	before := m.Simulation().TotalMass()

	m, _ = update(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.False(t, m.dragging)
	assert.Equal(t, before, m.Simulation().TotalMass())
}

func TestModelGravityKeys(t *testing.T) {
	m := newTestModel(t, "droplet", nil)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.InDelta(t, 90, m.Status().Gravity, 1e-9)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, liquid.DefaultGravity, m.Simulation().Gravity())

	m = press(t, m, runes("["))
	assert.InDelta(t, input.RotationStep, m.Status().Gravity, 1e-9)

	m = press(t, m, runes("]"))
	m = press(t, m, runes("]"))
	assert.InDelta(t, 360-input.RotationStep, m.Status().Gravity, 1e-9)
}

func TestModelResetRecordsRun(t *testing.T) {
	store := openStore(t)
	m := newTestModel(t, "droplet", store)

	for range 3 {
		m, _ = update(t, m, TickMsg{})
	}
	m = press(t, m, runes("r"))

	// Reset runs before the tick's own step.
	assert.Equal(t, uint64(1), m.Simulation().Tick())
	assert.Equal(t, "reset", m.Status().Message)

	runs, err := store.RecentRuns("droplet", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, uint64(3), runs[0].Ticks)
	assert.InDelta(t, 0, runs[0].Drift(), 1e-9)
}

func TestModelSaveSnapshot(t *testing.T) {
	store := openStore(t)
	m := newTestModel(t, "droplet", store)

	m = press(t, m, runes("s"))
	assert.True(t, strings.HasPrefix(m.Status().Message, "saved droplet-"))

	snaps, err := store.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "droplet", snaps[0].Scenario)
	assert.Equal(t, 12, snaps[0].Size)
}

func TestModelSaveWithoutStore(t *testing.T) {
	m := newTestModel(t, "droplet", nil)
	m = press(t, m, runes("s"))
	assert.Equal(t, "no database", m.Status().Message)
}

func TestModelMessageExpires(t *testing.T) {
	m := newTestModel(t, "droplet", nil)
	m = press(t, m, runes("s"))
	require.NotEmpty(t, m.Status().Message)

	for range 2 * m.rt.TickRate {
		m, _ = update(t, m, TickMsg{})
	}
	assert.Empty(t, m.Status().Message)
}

func TestModelQuitSavesRun(t *testing.T) {
	store := openStore(t)
	m := newTestModel(t, "droplet", store)
	m, _ = update(t, m, TickMsg{})
	m, _ = update(t, m, TickMsg{})

	m, cmd := update(t, m, runes("q"))
	assert.NotNil(t, cmd)
	assert.True(t, m.IsQuitting())
	assert.Empty(t, m.View())

	runs, err := store.RecentRuns("", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, uint64(2), runs[0].Ticks)
}

func TestModelQuitWithoutTicksSavesNothing(t *testing.T) {
	store := openStore(t)
	m := newTestModel(t, "droplet", store)

	_, _ = update(t, m, runes("q"))

	runs, err := store.RecentRuns("", 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestModelBack(t *testing.T) {
	m := newTestModel(t, "droplet", nil)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.BackToMenu())
	assert.NotNil(t, cmd, "standalone back ends the program")

	m = newTestModel(t, "droplet", nil)
	m.embedded = true
	m, cmd = update(t, m, runes("b"))
	assert.True(t, m.BackToMenu())
	assert.Nil(t, cmd)

	// Ticks after leaving do not advance the simulation.
	m, cmd = update(t, m, TickMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, uint64(0), m.Simulation().Tick())
}

func TestModelTiltToggle(t *testing.T) {
	m := newTestModel(t, "droplet", nil)
	t.Cleanup(func() { m.stopTiltFeed() })

	m = press(t, m, runes("t"))
	assert.True(t, m.Status().Tilting)
	assert.Equal(t, "tilt on", m.Status().Message)

	m = press(t, m, runes("t"))
	assert.False(t, m.Status().Tilting)
	assert.Equal(t, liquid.DefaultGravity, m.Simulation().Gravity())
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, "droplet", nil)
	m, _ = update(t, m, TickMsg{})

	view := m.View()
	assert.Contains(t, view, "Droplet")
	assert.Contains(t, view, "tick 1")
	assert.Contains(t, view, "quit")
}

func TestModelHelpToggleShrinksScreen(t *testing.T) {
	m := newTestModel(t, "droplet", nil)
	short := m.screen.Height()

	m, _ = update(t, m, runes("?"))
	assert.Less(t, m.screen.Height(), short)
	assert.True(t, m.help.ShowAll)
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t, "droplet", nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.screen.Width())
	b := m.viewport.Bounds()
	assert.Equal(t, (120-b.W)/2, b.X)
}

func TestModelRestoresSnapshot(t *testing.T) {
	cfg := testConfig()
	source, err := scenario.Build("droplet", cfg)
	require.NoError(t, err)
	source.StepN(7)
	snap := storage.Capture("mid-fall", "droplet", source)

	sc, err := scenario.Create("droplet")
	require.NoError(t, err)
	m, err := NewModel(sc, Options{
		Config:   cfg,
		Runtime:  RuntimeFor(cfg, 80, 30),
		Logger:   log.New(io.Discard),
		Snapshot: &snap,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), m.Simulation().Tick())
	assert.Equal(t, source.Masses(), m.Simulation().Masses())
}

func TestModelSnapshotSizeMismatch(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.Size = 20
	source, err := scenario.Build("droplet", cfg)
	require.NoError(t, err)
	snap := storage.Capture("big", "droplet", source)

	sc, err := scenario.Create("droplet")
	require.NoError(t, err)
	_, err = NewModel(sc, Options{Config: testConfig(), Runtime: RuntimeFor(cfg, 80, 30), Snapshot: &snap})
	assert.ErrorIs(t, err, liquid.ErrLayoutMismatch)
}
