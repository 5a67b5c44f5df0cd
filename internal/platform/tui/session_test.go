package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-liquid/internal/core"
	"github.com/vovakirdan/tui-liquid/internal/storage"
)

func newSession(t *testing.T, store *storage.Store) SessionModel {
	t.Helper()
	cfg := testConfig()
	return NewSessionModel(cfg, RuntimeFor(cfg, 100, 30), store, log.New(io.Discard))
}

func step(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	require.True(t, ok)
	return sm, cmd
}

func TestMenuNavigation(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig())
	require.NotEmpty(t, m.items)
	assert.Equal(t, "dam", m.items[0].ScenarioID)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(MenuModel)
	assert.Equal(t, 0, m.cursor, "cursor stays at the top")

	next, _ = m.Update(runes("j"))
	m = next.(MenuModel)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	require.NotNil(t, m.Selected())
	assert.Equal(t, "droplet", m.Selected().ScenarioID)
	assert.NotNil(t, cmd)
}

func TestMenuActions(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want MenuAction
	}{
		{"quit", runes("q"), MenuActionQuit},
		{"up", runes("k"), MenuActionUp},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{"select", tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{"history", tea.KeyMsg{Type: tea.KeyTab}, MenuActionHistory},
		{"back", tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{"other", runes("x"), MenuActionNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapKeyToMenuAction(tc.msg))
		})
	}
}

func TestMenuView(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig())
	view := m.View()
	assert.Contains(t, view, "L I Q U I D")
	assert.Contains(t, view, "Dam Break")
	assert.Contains(t, view, "Pool")
}

func TestSessionMenuToSimulationAndBack(t *testing.T) {
	m := newSession(t, nil)

	m, _ = step(t, m, runes("j"))
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, viewSimulation, m.view)
	require.NotNil(t, m.sim)
	assert.True(t, m.sim.embedded)
	assert.NotNil(t, cmd, "simulation starts its tick loop")
	assert.Contains(t, m.View(), "Droplet")

	m, _ = step(t, m, TickMsg{})
	assert.Equal(t, uint64(1), m.sim.Simulation().Tick())

	m, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, viewMenu, m.view)
	assert.Nil(t, m.sim)
	assert.Nil(t, cmd)
	assert.False(t, m.quitting)
	assert.Contains(t, m.View(), "Pick a container")
}

func TestSessionHistory(t *testing.T) {
	store := openStore(t)
	_, err := store.SaveRun(storage.Run{Scenario: "droplet", Ticks: 42, StartMass: 1, EndMass: 1})
	require.NoError(t, err)

	m := newSession(t, store)
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, viewHistory, m.view)
	assert.Contains(t, m.View(), "RUNS")
	assert.Contains(t, m.View(), "42")

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, viewMenu, m.view)
	assert.False(t, m.quitting)
}

func TestSessionQuit(t *testing.T) {
	m := newSession(t, nil)
	m, cmd := step(t, m, runes("q"))
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestSessionQuitFromSimulation(t *testing.T) {
	store := openStore(t)
	m := newSession(t, store)
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = step(t, m, TickMsg{})

	m, cmd := step(t, m, runes("q"))
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)

	runs, err := store.RecentRuns("dam", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSessionResizeCarriesIntoSimulation(t *testing.T) {
	m := newSession(t, nil)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, m.sim)
	assert.Equal(t, 120, m.sim.screen.Width())
}
