package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-liquid/internal/core"
	"github.com/vovakirdan/tui-liquid/internal/render"
)

// ColorStyles maps core.Color slots to lipgloss styles.
type ColorStyles map[core.Color]lipgloss.Style

// NewColorStyles resolves every slot of p to a foreground style. Slots
// without a color render in the terminal default.
func NewColorStyles(p *render.Palette) ColorStyles {
	styles := make(ColorStyles, core.NumColors)
	for c := core.Color(0); c < core.NumColors; c++ {
		style := lipgloss.NewStyle()
		if hex := p.Hex(c); hex != "" {
			style = style.Foreground(lipgloss.Color(hex))
		}
		styles[c] = style
	}
	styles[core.ColorAccent] = styles[core.ColorAccent].Bold(true)
	return styles
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen, styles ColorStyles) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := styles[startColor]
			if !ok {
				style = styles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
