// Package registry keeps the playable modes. Game packages register their
// factories in init() so the front ends can list and create them by id.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/skyhop/internal/core"
)

// Game is what a front end drives: fixed ticks in, a cell buffer out.
// Implementations hold pure logic with no terminal or network code.
type Game interface {
	// ID is the unique mode id, used by the CLI and as the score key.
	ID() string

	// Title is the display name.
	Title() string

	// Reset starts over with the given screen size and seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances one tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a pre-cleared screen.
	Render(dst *core.Screen)

	State() core.GameState
}

// GameInfo describes a registered mode.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a fresh game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a factory under id. Registering an id twice panics.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
	titles[id] = title
}

// List returns the registered modes sorted by id.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates the mode with the given id.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
