// internal/store/memory.go
//
// In-memory session registry.
// Each session owns exactly one *game.Game; nothing but the read-only
// vocabulary is shared between sessions.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex; Get takes the write lock to refresh the idle timer.
//   - Sessions idle for longer than the TTL are evicted lazily.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/game"
)

// ErrNotFound is returned by Get for unknown or expired sessions.
var ErrNotFound = errors.New("game not found")

// Store defines the session registry used by the HTTP layer.
type Store interface {
	// Save adds or refreshes a game.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID and refreshes its idle timer.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Delete removes a game. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Len returns the number of live sessions.
	Len() int
}

type entry struct {
	g        *game.Game
	lastSeen time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex
	games map[string]*entry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore constructs an in-memory Store. A ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) Store {
	return newMemory(ttl, time.Now)
}

func newMemory(ttl time.Duration, now func() time.Time) *memory {
	return &memory{games: make(map[string]*entry), ttl: ttl, now: now}
}

// Save adds or updates the game in the map and sweeps expired sessions.
func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	m.games[g.ID] = &entry{g: g, lastSeen: now}
	return nil
}

// Get looks up a game by ID.
func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := m.now()
	if m.expired(e, now) {
		delete(m.games, id)
		return nil, ErrNotFound
	}
	e.lastSeen = now
	return e.g, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

func (m *memory) expired(e *entry, now time.Time) bool {
	return m.ttl > 0 && now.Sub(e.lastSeen) > m.ttl
}

// sweep drops expired sessions. Caller holds m.mu.
func (m *memory) sweep(now time.Time) {
	for id, e := range m.games {
		if m.expired(e, now) {
			delete(m.games, id)
			log.Debug().Str("gameId", id).Msg("session expired")
		}
	}
}
