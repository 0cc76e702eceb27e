// Package registry provides a global registry of frame synchronizer
// strategies. Strategies register themselves in init() functions, allowing
// the CLI to list and select them by name without hardcoded dependencies.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/spritemover/internal/hw"
)

// Synchronizer blocks the frame loop until vertical blank begins.
type Synchronizer interface {
	// Name returns the strategy identifier (e.g., "busy", "interrupt").
	Name() string

	// WaitForVBlank returns once per frame, at the start of the next
	// vblank period. It only fails when ctx is done.
	WaitForVBlank(ctx context.Context) error

	// Close releases anything the strategy installed (interrupt handlers).
	Close() error
}

// Hardware is what a strategy may attach to.
type Hardware struct {
	Flag hw.VBlankFlag
	IRQ  hw.InterruptController
}

// StrategyInfo contains metadata about a registered strategy.
type StrategyInfo struct {
	ID    string
	Title string
}

// Factory creates a synchronizer bound to the given hardware.
type Factory func(h Hardware) (Synchronizer, error)

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a strategy factory to the registry.
// Typically called from an init() function.
// Panics if a strategy with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: strategy %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns information about all registered strategies, sorted by ID.
func List() []StrategyInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]StrategyInfo, 0, len(factories))
	for id := range factories {
		result = append(result, StrategyInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a strategy by its ID.
// Returns an error if the ID is not registered or the factory fails.
func Create(id string, h Hardware) (Synchronizer, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown sync strategy %q", id)
	}

	s, err := f(h)
	if err != nil {
		return nil, fmt.Errorf("registry: cannot create %q: %w", id, err)
	}
	return s, nil
}

// Exists checks if a strategy with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
