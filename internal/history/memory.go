// internal/history/memory.go
//
// In-memory session history.
// Records finished sessions handed over by the engine and serves them back
// as a per-player list (most recent first) and a per-mode leaderboard.
//
// Characteristics:
//   - Append-only; the oldest entries are dropped past the configured limit.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colormatch/internal/game"
)

// DefaultLimit bounds the history when no limit is configured.
const DefaultLimit = 500

// Entry is one finished session.
type Entry struct {
	ID          string    `json:"id"`
	PlayerID    string    `json:"playerId"`
	GameID      string    `json:"gameId"`
	Mode        string    `json:"mode"`
	Daily       bool      `json:"daily,omitempty"`
	Score       int       `json:"score"`
	TimeSeconds int       `json:"timeSeconds"`
	Timestamp   time.Time `json:"timestamp"`
}

// Memory is the in-memory history store.
type Memory struct {
	mu      sync.RWMutex
	entries []Entry // oldest first
	limit   int
}

// NewMemory creates a history keeping at most limit entries.
func NewMemory(limit int) *Memory {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Memory{limit: limit}
}

// Append stores e, assigning an id if it has none.
func (m *Memory) Append(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	if over := len(m.entries) - m.limit; over > 0 {
		m.entries = append([]Entry(nil), m.entries[over:]...)
	}
	return nil
}

// Recent returns a player's entries, most recent first. An empty mode
// matches every mode; limit <= 0 means 20.
func (m *Memory) Recent(ctx context.Context, playerID, mode string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := m.entries[i]
		if e.PlayerID != playerID || (mode != "" && e.Mode != mode) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Leaderboard returns the best entries for a mode.
//
// - Ordered by score DESC, then time ASC, then timestamp ASC.
// - Default limit is 20 if not specified.
func (m *Memory) Leaderboard(ctx context.Context, mode string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	m.mu.RLock()
	var out []Entry
	for _, e := range m.entries {
		if e.Mode == mode {
			out = append(out, e)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.TimeSeconds != b.TimeSeconds {
			return a.TimeSeconds < b.TimeSeconds
		}
		return a.Timestamp.Before(b.Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len reports how many entries are held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Recorder returns a game.Recorder that files results under the given
// player and game.
func (m *Memory) Recorder(playerID, gameID string, daily bool) game.Recorder {
	return game.RecorderFunc(func(r game.Result) {
		e := Entry{
			PlayerID:    playerID,
			GameID:      gameID,
			Mode:        r.Mode,
			Daily:       daily,
			Score:       r.Score,
			TimeSeconds: r.TimeSeconds,
			Timestamp:   r.Timestamp,
		}
		if err := m.Append(context.Background(), e); err != nil {
			log.Error().Err(err).Str("gameId", gameID).Msg("append history")
			return
		}
		log.Info().
			Str("player", playerID).
			Str("gameId", gameID).
			Str("mode", r.Mode).
			Int("score", r.Score).
			Int("seconds", r.TimeSeconds).
			Msg("session won")
	})
}
