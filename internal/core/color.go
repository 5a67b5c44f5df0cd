package core

// Color is a logical color slot of a screen cell. The platform resolves
// slots to terminal colors through the active palette.
type Color uint8

const (
	ColorDefault  Color = iota
	ColorWall           // Container rim
	ColorShallow        // Mass in (0, 0.7)
	ColorMedium         // Mass in [0.7, 0.9)
	ColorDeep           // Mass in [0.9, MaxMass]
	ColorPressure       // Mass above MaxMass
	ColorHUD            // Status line text
	ColorAccent         // Highlights: cursor, selected menu entry

	NumColors
)

// String returns the palette key of the color.
func (c Color) String() string {
	switch c {
	case ColorDefault:
		return "default"
	case ColorWall:
		return "wall"
	case ColorShallow:
		return "shallow"
	case ColorMedium:
		return "medium"
	case ColorDeep:
		return "deep"
	case ColorPressure:
		return "pressure"
	case ColorHUD:
		return "hud"
	case ColorAccent:
		return "accent"
	default:
		return "unknown"
	}
}
