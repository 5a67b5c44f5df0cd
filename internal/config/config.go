// Package config provides YAML-based configuration loading for the liquid
// simulator: engine tunables, container layout, rendering and tilt input.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-liquid/internal/liquid"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Config is the root of liquid.yaml.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Layout LayoutConfig `yaml:"layout"`
	Render RenderConfig `yaml:"render"`
	Tilt   TiltConfig   `yaml:"tilt"`
}

// EngineConfig holds the flow model tunables.
type EngineConfig struct {
	Size        int     `yaml:"size"`
	MaxMass     float64 `yaml:"max_mass"`
	MaxCompress float64 `yaml:"max_compress"`
	MinMass     float64 `yaml:"min_mass"`
	MinFlow     float64 `yaml:"min_flow"`
	MaxSpeed    float64 `yaml:"max_speed"`
	Variant     string  `yaml:"variant"`   // "diagonal" or "cardinal"
	TickRate    int     `yaml:"tick_rate"` // Interactive ticks per second
}

// LayoutConfig describes the circular container.
type LayoutConfig struct {
	RingFraction float64 `yaml:"ring_fraction"`
	PoolFraction float64 `yaml:"pool_fraction"`
	PoolMass     float64 `yaml:"pool_mass"`
}

// RenderConfig controls how masses are drawn.
type RenderConfig struct {
	CellWidth int      `yaml:"cell_width"` // Terminal columns per grid cell
	ShowHUD   bool     `yaml:"show_hud"`
	Palette   []string `yaml:"palette"`  // Gradient stops, nearly dry to full
	Pressure  string   `yaml:"pressure"` // Color of compressed cells
	Wall      string   `yaml:"wall"`
}

// TiltConfig controls the tilt sampler.
type TiltConfig struct {
	Mode          string  `yaml:"mode"`      // "fixed" or "sway"
	Amplitude     float64 `yaml:"amplitude"` // Degrees either side of straight down
	PeriodSeconds float64 `yaml:"period_seconds"`
	SampleHz      int     `yaml:"sample_hz"`
}

// Period returns the sway period as a duration.
func (t TiltConfig) Period() time.Duration {
	return time.Duration(t.PeriodSeconds * float64(time.Second))
}

// Params converts the engine section to solver parameters.
func (c Config) Params() (liquid.Params, error) {
	variant, ok := liquid.ParseVariant(c.Engine.Variant)
	if !ok {
		return liquid.Params{}, fmt.Errorf("%w: engine.variant %q", ErrInvalid, c.Engine.Variant)
	}
	p := liquid.Params{
		Size:        c.Engine.Size,
		MaxMass:     c.Engine.MaxMass,
		MaxCompress: c.Engine.MaxCompress,
		MinMass:     c.Engine.MinMass,
		MinFlow:     c.Engine.MinFlow,
		MaxSpeed:    c.Engine.MaxSpeed,
		Variant:     variant,
	}
	if err := p.Validate(); err != nil {
		return liquid.Params{}, fmt.Errorf("config: engine: %w", err)
	}
	return p, nil
}

// LiquidLayout converts the layout section.
func (c Config) LiquidLayout() liquid.Layout {
	return liquid.Layout{
		RingFraction: c.Layout.RingFraction,
		PoolFraction: c.Layout.PoolFraction,
		PoolMass:     c.Layout.PoolMass,
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := c.Params(); err != nil {
		return err
	}
	switch {
	case c.Engine.TickRate < 1:
		return fmt.Errorf("%w: engine.tick_rate %d", ErrInvalid, c.Engine.TickRate)
	case c.Layout.RingFraction < 0 || c.Layout.RingFraction >= 1:
		return fmt.Errorf("%w: layout.ring_fraction %v", ErrInvalid, c.Layout.RingFraction)
	case c.Layout.PoolFraction < 0 || c.Layout.PoolFraction > 1:
		return fmt.Errorf("%w: layout.pool_fraction %v", ErrInvalid, c.Layout.PoolFraction)
	case c.Layout.PoolMass < 0:
		return fmt.Errorf("%w: layout.pool_mass %v", ErrInvalid, c.Layout.PoolMass)
	case c.Render.CellWidth < 1 || c.Render.CellWidth > 2:
		return fmt.Errorf("%w: render.cell_width %d", ErrInvalid, c.Render.CellWidth)
	case len(c.Render.Palette) == 0:
		return fmt.Errorf("%w: render.palette is empty", ErrInvalid)
	case c.Tilt.Mode != TiltFixed && c.Tilt.Mode != TiltSway:
		return fmt.Errorf("%w: tilt.mode %q", ErrInvalid, c.Tilt.Mode)
	case c.Tilt.Mode == TiltSway && (c.Tilt.PeriodSeconds <= 0 || c.Tilt.SampleHz < 1):
		return fmt.Errorf("%w: tilt sway needs a positive period and sample rate", ErrInvalid)
	}
	return nil
}

// Tilt modes.
const (
	TiltFixed = "fixed"
	TiltSway  = "sway"
)
