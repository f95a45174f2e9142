// internal/store/memory.go
//
// In-memory store of live games.
// Games keep timers running, so the store is also where idle sessions are
// found and handed back for closing.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID, each owned by one player.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Lookups by a player who does not own the game report ErrNotFound.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/colormatch/internal/game"
)

// ErrNotFound is returned for unknown game IDs and for games owned by
// another player.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for live games.
type Store interface {
	// Save persists or replaces a game for its owner.
	Save(ctx context.Context, playerID string, g *game.Game) error

	// Get retrieves a game by ID and marks it as recently used.
	Get(ctx context.Context, playerID, id string) (*game.Game, error)

	// Delete forgets a game and returns it so the caller can close it.
	Delete(ctx context.Context, playerID, id string) (*game.Game, error)

	// SweepIdle removes and returns every game unused since before.
	SweepIdle(ctx context.Context, before time.Time) []*game.Game
}

type entry struct {
	game  *game.Game
	owner string
	seen  time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex      // guards games map
	games map[string]*entry // keyed by Game.ID
	now   func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock is NewMemoryStore with a custom time source.
func NewMemoryStoreWithClock(now func() time.Time) Store {
	return &memory{games: make(map[string]*entry), now: now}
}

func (m *memory) Save(ctx context.Context, playerID string, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = &entry{game: g, owner: playerID, seen: m.now()}
	return nil
}

func (m *memory) Get(ctx context.Context, playerID, id string) (*game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.games[id]
	if !ok || e.owner != playerID {
		return nil, ErrNotFound
	}
	e.seen = m.now()
	return e.game, nil
}

func (m *memory) Delete(ctx context.Context, playerID, id string) (*game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.games[id]
	if !ok || e.owner != playerID {
		return nil, ErrNotFound
	}
	delete(m.games, id)
	return e.game, nil
}

func (m *memory) SweepIdle(ctx context.Context, before time.Time) []*game.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*game.Game
	for id, e := range m.games {
		if e.seen.Before(before) {
			out = append(out, e.game)
			delete(m.games, id)
		}
	}
	return out
}
