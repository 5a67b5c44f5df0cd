package core

// RuntimeConfig is what a host passes to the view at start-up.
type RuntimeConfig struct {
	ScreenW   int  // Screen width in characters
	ScreenH   int  // Screen height in characters
	TickRate  int  // Simulation ticks per second
	CellWidth int  // Terminal columns per grid cell
	ShowHUD   bool // Draw the status line under the container
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:   80,
		ScreenH:   24,
		TickRate:  30,
		CellWidth: 2,
		ShowHUD:   true,
	}
}

// Status summarises the simulation for the HUD.
type Status struct {
	Scenario string
	Tick     uint64
	Mass     float64 // Total mass of non-border cells
	Gravity  float64 // Gravity heading in degrees, 0 = toward row 0
	Paused   bool
	Tilting  bool
	Message  string // One-shot notice, e.g. "snapshot saved"
}
