package scenario

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-liquid/internal/config"
	"github.com/vovakirdan/tui-liquid/internal/liquid"
)

// ErrInvalidFile is returned for scenario files that parse but describe an
// unusable grid.
var ErrInvalidFile = errors.New("scenario: invalid file")

// Shapes a scenario file may ask for.
const (
	ShapeOpen   = "open"
	ShapeCircle = "circle"
)

// Map runes. The first map line is the top row of the grid.
const (
	mapWall  = '#'
	mapWater = '~'
	mapDry   = '.'
	mapSpace = ' '
)

// YAMLScenario represents the YAML structure of a scenario file.
type YAMLScenario struct {
	ID      string      `yaml:"id"`
	Title   string      `yaml:"title"`
	Size    int         `yaml:"size,omitempty"`
	Shape   string      `yaml:"shape,omitempty"`
	Layout  *YAMLLayout `yaml:"layout,omitempty"`
	Gravity *YAMLVector `yaml:"gravity,omitempty"`
	Map     []string    `yaml:"map,omitempty"`
	Walls   []YAMLRect  `yaml:"walls,omitempty"`
	Fill    []YAMLRect  `yaml:"fill,omitempty"`
}

// YAMLLayout overrides parts of the configured circular layout.
type YAMLLayout struct {
	RingFraction *float64 `yaml:"ring_fraction,omitempty"`
	PoolFraction *float64 `yaml:"pool_fraction,omitempty"`
	PoolMass     *float64 `yaml:"pool_mass,omitempty"`
}

// YAMLVector is a gravity direction in screen terms: x right, y up.
type YAMLVector struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// YAMLRect is a block of cells starting at row I, column J (row 0 is the
// bottom). H and W default to 1; Mass defaults to one full unit.
type YAMLRect struct {
	I    int     `yaml:"i"`
	J    int     `yaml:"j"`
	H    int     `yaml:"h,omitempty"`
	W    int     `yaml:"w,omitempty"`
	Mass float64 `yaml:"mass,omitempty"`
}

func (r YAMLRect) size() (h, w int) {
	h, w = r.H, r.W
	if h == 0 {
		h = 1
	}
	if w == 0 {
		w = 1
	}
	return h, w
}

func (r YAMLRect) contains(i, j int) bool {
	h, w := r.size()
	return i >= r.I && i < r.I+h && j >= r.J && j < r.J+w
}

// ParseYAML parses and checks a scenario file.
func ParseYAML(data []byte) (YAMLScenario, error) {
	var ys YAMLScenario
	if err := yaml.Unmarshal(data, &ys); err != nil {
		return YAMLScenario{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if ys.Shape == "" {
		ys.Shape = ShapeOpen
	}
	if err := ys.validate(); err != nil {
		return YAMLScenario{}, err
	}
	return ys, nil
}

func (ys YAMLScenario) validate() error {
	switch {
	case ys.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidFile)
	case ys.Size < 0:
		return fmt.Errorf("%w: size %d", ErrInvalidFile, ys.Size)
	case ys.Shape != ShapeOpen && ys.Shape != ShapeCircle:
		return fmt.Errorf("%w: shape %q", ErrInvalidFile, ys.Shape)
	case ys.Shape == ShapeCircle && (len(ys.Map) > 0 || len(ys.Walls) > 0):
		return fmt.Errorf("%w: map and walls need shape %q", ErrInvalidFile, ShapeOpen)
	}

	if len(ys.Map) > 0 {
		n := len(ys.Map)
		if ys.Size != 0 && ys.Size != n {
			return fmt.Errorf("%w: size %d but map has %d rows", ErrInvalidFile, ys.Size, n)
		}
		for k, row := range ys.Map {
			if utf8.RuneCountInString(row) != n {
				return fmt.Errorf("%w: map row %d has %d cells, want %d", ErrInvalidFile, k, utf8.RuneCountInString(row), n)
			}
			for _, r := range row {
				switch r {
				case mapWall, mapWater, mapDry, mapSpace:
				default:
					return fmt.Errorf("%w: map row %d: unknown cell %q", ErrInvalidFile, k, r)
				}
			}
		}
	}

	for _, r := range append(append([]YAMLRect(nil), ys.Walls...), ys.Fill...) {
		if r.H < 0 || r.W < 0 || r.Mass < 0 {
			return fmt.Errorf("%w: rect %+v", ErrInvalidFile, r)
		}
	}
	return nil
}

// File is a scenario loaded from disk.
type File struct {
	Def  YAMLScenario
	Path string
}

// ID returns the scenario id declared in the file.
func (f *File) ID() string { return f.Def.ID }

// Title returns the declared title, falling back to the ID.
func (f *File) Title() string {
	if f.Def.Title == "" {
		return f.Def.ID
	}
	return f.Def.Title
}

// Build lays out the grid the file describes.
func (f *File) Build(cfg config.Config) (*liquid.Simulation, error) {
	def := f.Def
	n := cfg.Engine.Size
	switch {
	case len(def.Map) > 0:
		n = len(def.Map)
	case def.Size > 0:
		n = def.Size
	}

	var (
		grid *liquid.Grid
		err  error
	)
	if def.Shape == ShapeCircle {
		grid, err = liquid.NewCircularGrid(n, def.layout(cfg))
	} else {
		grid, err = liquid.NewGridWithBorders(n, func(i, j int) bool {
			if def.mapCell(n, i, j) == mapWall {
				return true
			}
			for _, w := range def.Walls {
				if w.contains(i, j) {
					return true
				}
			}
			return false
		})
	}
	if err != nil {
		return nil, err
	}

	full := cfg.Engine.MaxMass
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if def.mapCell(n, i, j) == mapWater {
				if err := grid.SetMass(i, j, full); err != nil {
					return nil, err
				}
			}
		}
	}
	for _, r := range def.Fill {
		if err := fillRect(grid, r, full); err != nil {
			return nil, fmt.Errorf("%s: fill %+v: %w", def.ID, r, err)
		}
	}

	sim, err := newSimulation(cfg, grid)
	if err != nil {
		return nil, err
	}
	if def.Gravity != nil {
		sim.SetGravity(liquid.Vector{I: def.Gravity.Y, J: def.Gravity.X})
	}
	return sim, nil
}

func (ys YAMLScenario) layout(cfg config.Config) liquid.Layout {
	layout := cfg.LiquidLayout()
	if ys.Layout == nil {
		return layout
	}
	if ys.Layout.RingFraction != nil {
		layout.RingFraction = *ys.Layout.RingFraction
	}
	if ys.Layout.PoolFraction != nil {
		layout.PoolFraction = *ys.Layout.PoolFraction
	}
	if ys.Layout.PoolMass != nil {
		layout.PoolMass = *ys.Layout.PoolMass
	}
	return layout
}

// mapCell returns the map rune drawn at grid cell (i, j), or mapDry when the
// file has no map.
func (ys YAMLScenario) mapCell(n, i, j int) rune {
	if len(ys.Map) == 0 {
		return mapDry
	}
	row := []rune(ys.Map[n-1-i])
	return row[j]
}

// fillRect sets every open cell of r to its mass. Walls inside the rect are
// left alone; cells outside the grid are an error.
func fillRect(grid *liquid.Grid, r YAMLRect, full float64) error {
	mass := r.Mass
	if mass == 0 {
		mass = full
	}
	h, w := r.size()
	for i := r.I; i < r.I+h; i++ {
		for j := r.J; j < r.J+w; j++ {
			err := grid.SetMass(i, j, mass)
			if err != nil && !errors.Is(err, liquid.ErrBorderCell) {
				return err
			}
		}
	}
	return nil
}
