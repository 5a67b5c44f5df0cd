package render

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-liquid/internal/core"
	"github.com/vovakirdan/tui-liquid/internal/liquid"
)

// Source is the read side of a simulation the renderer needs.
// *liquid.Simulation implements it.
type Source interface {
	Size() int
	Params() liquid.Params
	Masses() []float64
}

// Draw paints every cell of src into dst through vp. Grid row 0 lands on
// the bottom screen row of the viewport.
func Draw(src Source, dst *core.Screen, vp core.Viewport) {
	n := src.Size()
	maxMass := src.Params().MaxMass
	masses := src.Masses()

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c, r := Shade(masses[i*n+j], maxMass)
			x, y := vp.ScreenPos(i, j)
			for dx := 0; dx < vp.CellW; dx++ {
				dst.SetCell(x+dx, y, r, c)
			}
		}
	}
}

// HUDText formats the status line.
func HUDText(st core.Status) string {
	var sb strings.Builder
	if st.Scenario != "" {
		sb.WriteString(st.Scenario)
		sb.WriteString("  ")
	}
	fmt.Fprintf(&sb, "tick %d  mass %.2f  gravity %3.0f°", st.Tick, st.Mass, st.Gravity)
	if st.Paused {
		sb.WriteString("  [paused]")
	}
	if st.Tilting {
		sb.WriteString("  [tilt]")
	}
	if st.Message != "" {
		sb.WriteString("  ")
		sb.WriteString(st.Message)
	}
	return sb.String()
}

// DrawHUD writes the status line centered on row y, followed by a legend of
// the shade bands when there is room.
func DrawHUD(dst *core.Screen, y int, st core.Status) {
	text := HUDText(st)
	dst.DrawTextCentered(y, text, core.ColorHUD)

	legend := []struct {
		r rune
		c core.Color
	}{
		{GlyphShallow, core.ColorShallow},
		{GlyphMedium, core.ColorMedium},
		{GlyphDeep, core.ColorDeep},
		{GlyphPressure, core.ColorPressure},
	}
	if y+1 >= dst.Height() {
		return
	}
	x := (dst.Width() - len(legend)*2) / 2
	for k, l := range legend {
		dst.SetCell(x+2*k, y+1, l.r, l.c)
		dst.SetCell(x+2*k+1, y+1, l.r, l.c)
	}
}

// ASCII renders src as plain text, top row first, one character per cell.
func ASCII(src Source) string {
	n := src.Size()
	maxMass := src.Params().MaxMass
	masses := src.Masses()

	var sb strings.Builder
	sb.Grow(n * (n + 1))
	for i := n - 1; i >= 0; i-- {
		for j := 0; j < n; j++ {
			sb.WriteByte(asciiGlyph(masses[i*n+j], maxMass))
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
