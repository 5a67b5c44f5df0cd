package liquid

import "fmt"

// Variant selects which flow directions the solver uses.
type Variant uint8

const (
	// Diagonal uses all eight directions.
	Diagonal Variant = iota
	// Cardinal uses Down, Up, Left and Right only.
	Cardinal
)

// String returns the config name of the variant.
func (v Variant) String() string {
	switch v {
	case Diagonal:
		return "diagonal"
	case Cardinal:
		return "cardinal"
	default:
		return "unknown"
	}
}

// ParseVariant converts a config name to a Variant.
func ParseVariant(s string) (Variant, bool) {
	switch s {
	case "diagonal", "":
		return Diagonal, true
	case "cardinal":
		return Cardinal, true
	default:
		return Diagonal, false
	}
}

// Params holds the tunables of the flow model.
type Params struct {
	Size        int     // Grid side N
	MaxMass     float64 // Mass of a full, uncompressed cell
	MaxCompress float64 // Extra mass a cell may hold per cell above it
	MinMass     float64 // Cells at or below this mass are skipped
	MinFlow     float64 // Flows above this are halved
	MaxSpeed    float64 // Per-direction cap on mass moved in one tick
	Variant     Variant
}

// DefaultParams returns the canonical rule set.
func DefaultParams() Params {
	return Params{
		Size:        80,
		MaxMass:     1.0,
		MaxCompress: 0.02,
		MinMass:     0.0001,
		MinFlow:     0.95,
		MaxSpeed:    50,
		Variant:     Diagonal,
	}
}

// Validate reports whether the parameters describe a usable model.
func (p Params) Validate() error {
	switch {
	case p.Size < 1:
		return fmt.Errorf("%w: size %d", ErrInvalidParams, p.Size)
	case p.MaxMass <= 0:
		return fmt.Errorf("%w: max mass %v", ErrInvalidParams, p.MaxMass)
	case p.MaxCompress < 0:
		return fmt.Errorf("%w: max compress %v", ErrInvalidParams, p.MaxCompress)
	case p.MinMass < 0:
		return fmt.Errorf("%w: min mass %v", ErrInvalidParams, p.MinMass)
	case p.MinFlow < 0:
		return fmt.Errorf("%w: min flow %v", ErrInvalidParams, p.MinFlow)
	case p.MaxSpeed <= 0:
		return fmt.Errorf("%w: max speed %v", ErrInvalidParams, p.MaxSpeed)
	case p.Variant != Diagonal && p.Variant != Cardinal:
		return fmt.Errorf("%w: variant %d", ErrInvalidParams, p.Variant)
	}
	return nil
}
