// Package render turns simulation state into screen cells: a mass is
// classified into a shade band, each band has a glyph and a palette slot.
package render

import (
	"github.com/vovakirdan/tui-liquid/internal/core"
	"github.com/vovakirdan/tui-liquid/internal/liquid"
)

// Band thresholds, as fractions of a full cell.
const (
	MediumAt = 0.7
	DeepAt   = 0.9
)

// Glyphs, lightest first.
const (
	GlyphDry      = ' '
	GlyphShallow  = '░'
	GlyphMedium   = '▒'
	GlyphDeep     = '▓'
	GlyphPressure = '█'
	GlyphWall     = '█'
)

// Shade classifies a stored cell value. Border cells map to the wall slot,
// dry cells to ColorDefault, and anything above maxMass to the pressure
// slot.
func Shade(mass, maxMass float64) (core.Color, rune) {
	switch {
	case mass == liquid.Border:
		return core.ColorWall, GlyphWall
	case mass <= 0:
		return core.ColorDefault, GlyphDry
	case mass > maxMass:
		return core.ColorPressure, GlyphPressure
	case mass >= DeepAt*maxMass:
		return core.ColorDeep, GlyphDeep
	case mass >= MediumAt*maxMass:
		return core.ColorMedium, GlyphMedium
	default:
		return core.ColorShallow, GlyphShallow
	}
}

// asciiGlyph is the plain-text counterpart of Shade for logs and pipes.
func asciiGlyph(mass, maxMass float64) byte {
	c, _ := Shade(mass, maxMass)
	switch c {
	case core.ColorWall:
		return '#'
	case core.ColorShallow:
		return '.'
	case core.ColorMedium:
		return 'o'
	case core.ColorDeep:
		return 'O'
	case core.ColorPressure:
		return '@'
	default:
		return ' '
	}
}
