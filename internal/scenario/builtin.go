package scenario

import (
	"github.com/vovakirdan/tui-liquid/internal/config"
	"github.com/vovakirdan/tui-liquid/internal/liquid"
)

func init() {
	Register("pool", func() Scenario { return pool{} })
	Register("empty", func() Scenario { return empty{} })
	Register("droplet", func() Scenario { return droplet{} })
	Register("dam", func() Scenario { return dam{} })
}

// pool is the circular container with a standing pool filling the lower
// part of the inner disk.
type pool struct{}

func (pool) ID() string    { return "pool" }
func (pool) Title() string { return "Pool" }

func (pool) Build(cfg config.Config) (*liquid.Simulation, error) {
	grid, err := liquid.NewCircularGrid(cfg.Engine.Size, cfg.LiquidLayout())
	if err != nil {
		return nil, err
	}
	return newSimulation(cfg, grid)
}

// empty is the circular container with no liquid.
type empty struct{}

func (empty) ID() string    { return "empty" }
func (empty) Title() string { return "Empty Bowl" }

func (empty) Build(cfg config.Config) (*liquid.Simulation, error) {
	layout := cfg.LiquidLayout()
	layout.PoolFraction = 0
	grid, err := liquid.NewCircularGrid(cfg.Engine.Size, layout)
	if err != nil {
		return nil, err
	}
	return newSimulation(cfg, grid)
}

// droplet is an open grid holding a single full cell high above the floor.
type droplet struct{}

func (droplet) ID() string    { return "droplet" }
func (droplet) Title() string { return "Droplet" }

func (droplet) Build(cfg config.Config) (*liquid.Simulation, error) {
	n := cfg.Engine.Size
	grid, err := liquid.NewGrid(n)
	if err != nil {
		return nil, err
	}
	if err := grid.SetMass(n*3/4, n/2, cfg.Engine.MaxMass); err != nil {
		return nil, err
	}
	return newSimulation(cfg, grid)
}

// dam is an open grid with its left half full, released at tick 0.
type dam struct{}

func (dam) ID() string    { return "dam" }
func (dam) Title() string { return "Dam Break" }

func (dam) Build(cfg config.Config) (*liquid.Simulation, error) {
	n := cfg.Engine.Size
	grid, err := liquid.NewGrid(n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n/2; j++ {
			if err := grid.SetMass(i, j, cfg.Engine.MaxMass); err != nil {
				return nil, err
			}
		}
	}
	return newSimulation(cfg, grid)
}

func newSimulation(cfg config.Config, grid *liquid.Grid) (*liquid.Simulation, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	return liquid.New(params, grid)
}
