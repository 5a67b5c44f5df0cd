package input

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-liquid/internal/liquid"
)

// Target is the part of the simulation the adapter drives.
// *liquid.Simulation implements it.
type Target interface {
	Size() int
	AddFluid(i, j int) error
	SetGravity(v liquid.Vector)
	Gravity() liquid.Vector
}

// Adapter applies host events to a Target.
type Adapter struct {
	target Target
	logger *log.Logger
}

// NewAdapter creates an adapter for target. A nil logger uses log.Default().
func NewAdapter(target Target, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.Default()
	}
	return &Adapter{target: target, logger: logger}
}

// Apply performs one event. Touches on wall cells report liquid.ErrBorderCell;
// strokes skip walls silently and paint nothing unless both endpoints are
// on the grid.
func (a *Adapter) Apply(ev Event) error {
	switch e := ev.(type) {
	case AddFluid:
		return a.target.AddFluid(e.I, e.J)

	case Stroke:
		n := a.target.Size()
		for _, p := range [2][2]int{{e.FromI, e.FromJ}, {e.ToI, e.ToJ}} {
			if p[0] < 0 || p[0] >= n || p[1] < 0 || p[1] >= n {
				return fmt.Errorf("input: stroke endpoint (%d,%d): %w", p[0], p[1], liquid.ErrOutOfBounds)
			}
		}
		for _, c := range line(e.FromI, e.FromJ, e.ToI, e.ToJ) {
			err := a.target.AddFluid(c[0], c[1])
			if err != nil && !errors.Is(err, liquid.ErrBorderCell) {
				return err
			}
		}
		return nil

	case SetGravity:
		a.target.SetGravity(e.Vector())
		a.logger.Debug("gravity set", "x", e.X, "y", e.Y)
		return nil

	case RotateGravity:
		g := a.target.Gravity()
		if g.IsZero() {
			g = liquid.DefaultGravity
		}
		g = g.Rotated(e.Degrees)
		a.target.SetGravity(g)
		a.logger.Debug("gravity rotated", "degrees", e.Degrees, "heading", Heading(g))
		return nil

	default:
		return fmt.Errorf("input: unsupported event %T", ev)
	}
}

// Run applies events from ch until ctx is done or ch is closed. Failed
// events are logged and skipped.
func (a *Adapter) Run(ctx context.Context, ch <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := a.Apply(ev); err != nil {
				a.logger.Warn("event dropped", "event", ev.String(), "error", err)
			}
		}
	}
}
