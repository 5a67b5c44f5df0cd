package render

import (
	"fmt"

	"github.com/mazznoer/colorgrad"

	"github.com/vovakirdan/tui-liquid/internal/config"
	"github.com/vovakirdan/tui-liquid/internal/core"
)

const (
	hudColor    = "#a5adce"
	accentColor = "#e5c890"
)

// Palette resolves color slots to hex colors. The liquid bands are sampled
// from a gradient through the configured stops, shallow at 0 and deep at 1.
type Palette struct {
	grad   colorgrad.Gradient
	colors [core.NumColors]string
}

// NewPalette builds a palette from the render section of the configuration.
func NewPalette(cfg config.RenderConfig) (*Palette, error) {
	grad, err := colorgrad.NewGradient().
		HtmlColors(cfg.Palette...).
		Domain(0, 1).
		Build()
	if err != nil {
		return nil, fmt.Errorf("render: palette: %w", err)
	}

	p := &Palette{grad: grad}
	p.colors[core.ColorWall] = cfg.Wall
	p.colors[core.ColorShallow] = p.At(0)
	p.colors[core.ColorMedium] = p.At(0.5)
	p.colors[core.ColorDeep] = p.At(1)
	p.colors[core.ColorPressure] = cfg.Pressure
	p.colors[core.ColorHUD] = hudColor
	p.colors[core.ColorAccent] = accentColor
	return p, nil
}

// DefaultPalette returns the palette of the built-in configuration.
func DefaultPalette() *Palette {
	p, err := NewPalette(config.Default().Render)
	if err != nil {
		panic(err)
	}
	return p
}

// Hex returns the color of slot c, or "" for the terminal default.
func (p *Palette) Hex(c core.Color) string {
	if c >= core.NumColors {
		return ""
	}
	return p.colors[c]
}

// At samples the liquid gradient at t, clamped to [0, 1].
func (p *Palette) At(t float64) string {
	return p.grad.At(core.ClampF(t, 0, 1)).Hex()
}
