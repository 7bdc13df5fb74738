// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Live rounds are kept here; finished rounds are also written to SQLite by
// the HTTP layer, but in-progress state is lost when the process restarts.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each *game.Game guards its own state, so callers mutate it outside the
//     store lock.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/robalobadob/wordduel/apps/go-server/internal/game"
)

// ErrNotFound is returned by Get for unknown game IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for live rounds.
type Store interface {
	// Save persists or replaces a round.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a round by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Len reports how many rounds are held.
	Len() int
}

// NewID returns a fresh round identifier.
func NewID() string {
	return uuid.NewString()
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Game)}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	id := g.ID()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[id] = g
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
