package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-liquid/internal/config"
	"github.com/vovakirdan/tui-liquid/internal/core"
	"github.com/vovakirdan/tui-liquid/internal/input"
	"github.com/vovakirdan/tui-liquid/internal/liquid"
	"github.com/vovakirdan/tui-liquid/internal/render"
	"github.com/vovakirdan/tui-liquid/internal/scenario"
	"github.com/vovakirdan/tui-liquid/internal/storage"
)

// hudRows is the height of the status line plus the shade legend.
const hudRows = 2

// Options configures a simulation view.
type Options struct {
	Config   config.Config
	Runtime  core.RuntimeConfig
	Store    *storage.Store    // nil disables run history and snapshots
	Logger   *log.Logger       // nil uses log.Default()
	Snapshot *storage.Snapshot // Restored after the scenario is built
}

// RuntimeFor derives the view settings for a w by h terminal from cfg.
func RuntimeFor(cfg config.Config, w, h int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:   w,
		ScreenH:   h,
		TickRate:  cfg.Engine.TickRate,
		CellWidth: cfg.Render.CellWidth,
		ShowHUD:   cfg.Render.ShowHUD,
	}
}

// Model is the Bubble Tea model for one running simulation.
type Model struct {
	scenario scenario.Scenario
	sim      *liquid.Simulation
	adapter  *input.Adapter
	tilt     *input.Tilt
	stopTilt func()

	cfg    config.Config
	rt     core.RuntimeConfig
	screen *core.Screen
	styles ColorStyles
	keys   KeyMap
	help   help.Model
	frame  core.InputFrame
	store  *storage.Store
	logger *log.Logger

	viewport     core.Viewport
	dragging     bool
	dragI, dragJ int

	paused     bool
	message    string
	messageTTL int

	started   time.Time
	startTick uint64
	startMass float64

	embedded   bool // Hosted by a SessionModel; Back returns to its menu
	backToMenu bool
	quitting   bool
}

// NewModel builds sc and wraps it in a Bubble Tea model.
func NewModel(sc scenario.Scenario, opts Options) (Model, error) {
	sim, err := sc.Build(opts.Config)
	if err != nil {
		return Model{}, fmt.Errorf("building %s: %w", sc.ID(), err)
	}
	if opts.Snapshot != nil {
		if err := opts.Snapshot.Apply(sim); err != nil {
			return Model{}, fmt.Errorf("restoring %s: %w", opts.Snapshot.Name, err)
		}
	}

	palette, err := render.NewPalette(opts.Config.Render)
	if err != nil {
		return Model{}, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	// The tilt key always sways, even when the configured start mode is fixed.
	tiltCfg := opts.Config.Tilt
	tiltCfg.Mode = config.TiltSway

	h := help.New()
	h.Width = opts.Runtime.ScreenW

	m := Model{
		scenario: sc,
		sim:      sim,
		adapter:  input.NewAdapter(sim, logger),
		tilt:     input.NewTilt(tiltCfg),
		cfg:      opts.Config,
		rt:       opts.Runtime,
		styles:   NewColorStyles(palette),
		keys:     DefaultKeyMap(),
		help:     h,
		frame:    core.NewInputFrame(),
		store:    opts.Store,
		logger:   logger,
	}
	m.screen = core.NewScreen(m.rt.ScreenW, m.screenRows())
	m.layout()
	m.beginRun()

	if opts.Config.Tilt.Mode == config.TiltSway {
		m.stopTilt = input.Feed(context.Background(), m.tilt, m.adapter)
	}

	logger.Info("simulation started", "scenario", sc.ID(), "size", sim.Size(), "mass", m.startMass)
	return m, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.rt.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input. Actions are queued and applied on
// the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.screen.Resize(m.rt.ScreenW, m.screenRows())
		m.layout()
		return m, nil
	case msg.String() == "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	switch {
	case isQuit:
		m.shutdown()
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		m.shutdown()
		m.backToMenu = true
		if !m.embedded {
			return m, tea.Quit
		}
		return m, nil
	}

	m.frame.Set(action)
	return m, nil
}

// handleMouse adds fluid under the pointer. Dragging paints a stroke
// between consecutive pointer cells so fast motion leaves no gaps.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		i, j, ok := m.viewport.CellAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.apply(input.AddFluid{I: i, J: j})
		m.dragging, m.dragI, m.dragJ = true, i, j

	case tea.MouseActionMotion:
		if !m.dragging {
			return m, nil
		}
		i, j, ok := m.viewport.CellAt(msg.X, msg.Y)
		if !ok || (i == m.dragI && j == m.dragJ) {
			return m, nil
		}
		m.apply(input.Stroke{FromI: m.dragI, FromJ: m.dragJ, ToI: i, ToJ: j})
		m.dragI, m.dragJ = i, j

	case tea.MouseActionRelease:
		m.dragging = false
	}

	return m, nil
}

// handleResize processes window resize events. The simulation keeps its
// state; only the viewport moves.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.rt.ScreenW = msg.Width
	m.rt.ScreenH = msg.Height
	m.help.Width = msg.Width
	m.screen.Resize(msg.Width, m.screenRows())
	m.layout()
	return m, nil
}

// handleTick applies queued actions and advances the simulation.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	for _, a := range m.frame.Actions() {
		switch a {
		case core.ActionPause:
			m.paused = !m.paused
		case core.ActionStep:
			if m.paused {
				m.sim.Step()
			}
		case core.ActionReset:
			m.reset()
		case core.ActionSave:
			m.saveSnapshot()
		case core.ActionToggleTilt:
			m.toggleTilt()
		default:
			if ev, ok := input.FromAction(a); ok {
				m.apply(ev)
			}
		}
	}
	m.frame.Clear()

	if !m.paused {
		m.sim.Step()
	}

	if m.messageTTL > 0 {
		m.messageTTL--
		if m.messageTTL == 0 {
			m.message = ""
		}
	}

	return m, tickCmd(m.rt.TickRate)
}

func (m *Model) apply(ev input.Event) {
	err := m.adapter.Apply(ev)
	if err != nil && !errors.Is(err, liquid.ErrBorderCell) {
		m.logger.Debug("event rejected", "event", ev.String(), "error", err)
	}
}

// notify shows msg in the HUD for about two seconds.
func (m *Model) notify(msg string) {
	m.message = msg
	m.messageTTL = 2 * max(m.rt.TickRate, 1)
}

func (m *Model) toggleTilt() {
	if m.stopTilt != nil {
		m.stopTilt()
		m.stopTilt = nil
		m.apply(input.SetGravity{X: 0, Y: -1})
		m.notify("tilt off")
		return
	}
	m.stopTilt = input.Feed(context.Background(), m.tilt, m.adapter)
	m.notify("tilt on")
}

// reset records the current run and rebuilds the scenario from scratch.
func (m *Model) reset() {
	tilting := m.stopTilt != nil
	m.stopTiltFeed()
	m.finishRun()

	sim, err := m.scenario.Build(m.cfg)
	if err != nil {
		m.logger.Error("reset failed", "scenario", m.scenario.ID(), "error", err)
		m.notify("reset failed")
		return
	}
	m.sim = sim
	m.adapter = input.NewAdapter(sim, m.logger)
	m.paused = false
	m.layout()
	m.beginRun()

	if tilting {
		m.stopTilt = input.Feed(context.Background(), m.tilt, m.adapter)
	}
	m.notify("reset")
}

func (m *Model) saveSnapshot() {
	if m.store == nil {
		m.notify("no database")
		return
	}
	name := fmt.Sprintf("%s-%s", m.scenario.ID(), time.Now().Format("20060102-150405"))
	if _, err := m.store.SaveSnapshot(storage.Capture(name, m.scenario.ID(), m.sim)); err != nil {
		m.logger.Error("snapshot failed", "name", name, "error", err)
		m.notify("snapshot failed")
		return
	}
	m.logger.Info("snapshot saved", "name", name, "tick", m.sim.Tick())
	m.notify("saved " + name)
}

// saveScreenshot writes the grid as plain text under the data directory.
func (m *Model) saveScreenshot() {
	base, err := config.DataDir()
	if err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return
	}
	dir := filepath.Join(base, "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("%s_%s.txt", m.scenario.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(render.ASCII(m.sim)+"\n"), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "path", path, "error", err)
		return
	}
	m.notify("screenshot " + filename)
}

func (m *Model) beginRun() {
	m.started = time.Now()
	m.startTick = m.sim.Tick()
	m.startMass = m.sim.TotalMass()
}

// finishRun stores the run since the last beginRun, if it advanced.
func (m *Model) finishRun() {
	ticks := m.sim.Tick() - m.startTick
	if m.store == nil || ticks == 0 {
		return
	}
	run := storage.Run{
		Scenario:  m.scenario.ID(),
		Ticks:     ticks,
		StartMass: m.startMass,
		EndMass:   m.sim.TotalMass(),
		Duration:  time.Since(m.started),
	}
	if _, err := m.store.SaveRun(run); err != nil {
		m.logger.Error("could not save run", "error", err)
		return
	}
	m.logger.Info("run saved", "scenario", run.Scenario, "ticks", run.Ticks, "drift", run.Drift())
	m.startTick = m.sim.Tick()
}

func (m *Model) stopTiltFeed() {
	if m.stopTilt != nil {
		m.stopTilt()
		m.stopTilt = nil
	}
}

// shutdown stops background work and records the run.
func (m *Model) shutdown() {
	m.stopTiltFeed()
	m.finishRun()
}

// screenRows is the screen height left after the help view.
func (m Model) screenRows() int {
	helpRows := 1
	if m.help.ShowAll {
		for _, col := range m.keys.FullHelp() {
			helpRows = max(helpRows, len(col))
		}
	}
	return max(m.rt.ScreenH-helpRows, 1)
}

// layout centers the grid in the space above the HUD.
func (m *Model) layout() {
	rows := m.screen.Height()
	if m.rt.ShowHUD {
		rows -= hudRows
	}
	m.viewport = core.NewViewport(core.NewRect(0, 0, m.screen.Width(), max(rows, 1)), m.sim.Size(), m.rt.CellWidth)
}

// Status summarises the simulation for the HUD.
func (m Model) Status() core.Status {
	return core.Status{
		Scenario: m.scenario.Title(),
		Tick:     m.sim.Tick(),
		Mass:     m.sim.TotalMass(),
		Gravity:  input.Heading(m.sim.Gravity()),
		Paused:   m.paused,
		Tilting:  m.stopTilt != nil,
		Message:  m.message,
	}
}

// View renders the grid, the HUD and the help line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	render.Draw(m.sim, m.screen, m.viewport)
	if m.rt.ShowHUD {
		hudY := min(m.viewport.Bounds().Bottom(), m.screen.Height()-hudRows)
		render.DrawHUD(m.screen, hudY, m.Status())
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen, m.styles) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Simulation returns the running simulation.
func (m Model) Simulation() *liquid.Simulation {
	return m.sim
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for sc.
func Run(sc scenario.Scenario, opts Options) error {
	model, err := NewModel(sc, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Click and drag to pour
	)

	final, err := p.Run()
	if m, ok := final.(Model); ok && !m.quitting && !m.backToMenu {
		// Interrupted outside the key handler.
		m.shutdown()
	}
	return err
}
