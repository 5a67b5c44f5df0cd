// Package scenario provides a global registry of named initial states.
// Built-in scenarios register themselves in init(); scenario files found on
// disk are added with RegisterDir. Hosts build simulations by ID without
// knowing how a particular container is laid out.
package scenario

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-liquid/internal/config"
	"github.com/vovakirdan/tui-liquid/internal/liquid"
)

// ErrUnknown is returned by Create for an unregistered ID.
var ErrUnknown = errors.New("scenario: unknown scenario")

// ErrDuplicate is returned by Add when the ID is already registered.
var ErrDuplicate = errors.New("scenario: already registered")

// Scenario builds a ready-to-step simulation.
type Scenario interface {
	// ID returns a unique identifier (e.g., "pool", "dam").
	// Used for CLI arguments and run history.
	ID() string

	// Title returns a human-readable name for menus.
	Title() string

	// Build creates the grid, applies the initial gravity and returns the
	// simulation. cfg supplies the engine tunables and the default size.
	Build(cfg config.Config) (*liquid.Simulation, error)
}

// Info contains metadata about a registered scenario.
type Info struct {
	ID    string
	Title string
}

// Factory creates a new instance of a scenario.
type Factory func() Scenario

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a scenario factory to the registry.
// Panics if a scenario with the same ID is already registered.
func Register(id string, f Factory) {
	if err := Add(id, f); err != nil {
		panic(err.Error())
	}
}

// Add is Register for scenarios discovered at runtime: duplicates are
// reported instead of panicking.
func Add(id string, f Factory) error {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicate, id)
	}

	factories[id] = f
	titles[id] = f().Title()
	return nil
}

// List returns information about all registered scenarios, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for id := range factories {
		result = append(result, Info{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a scenario by its ID.
func Create(id string) (Scenario, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, id)
	}

	return f(), nil
}

// Exists checks if a scenario with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Build creates and builds the scenario id in one call.
func Build(id string, cfg config.Config) (*liquid.Simulation, error) {
	s, err := Create(id)
	if err != nil {
		return nil, err
	}
	return s.Build(cfg)
}
