package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/colormatch/internal/game"
	"github.com/robalobadob/colormatch/internal/schedule"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newGame(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.New(game.Difficulty{
		Mode:               "easy",
		PairCount:          2,
		MatchScoreDelta:    10,
		MismatchScoreDelta: -2,
	}, schedule.NewManual())
	require.NoError(t, err)
	return g
}

func TestSaveGetOwner(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	g := newGame(t)

	require.NoError(t, s.Save(ctx, "alice", g))

	got, err := s.Get(ctx, "alice", g.ID)
	require.NoError(t, err)
	assert.Same(t, g, got)

	_, err = s.Get(ctx, "bob", g.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(ctx, "alice", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	g := newGame(t)
	require.NoError(t, s.Save(ctx, "alice", g))

	_, err := s.Delete(ctx, "bob", g.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.Delete(ctx, "alice", g.ID)
	require.NoError(t, err)
	assert.Same(t, g, got)

	_, err = s.Get(ctx, "alice", g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweepIdle(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
	s := NewMemoryStoreWithClock(clock.now)

	idle, active := newGame(t), newGame(t)
	require.NoError(t, s.Save(ctx, "alice", idle))
	require.NoError(t, s.Save(ctx, "alice", active))

	clock.t = clock.t.Add(20 * time.Minute)
	_, err := s.Get(ctx, "alice", active.ID)
	require.NoError(t, err)

	clock.t = clock.t.Add(20 * time.Minute)
	swept := s.SweepIdle(ctx, clock.t.Add(-30*time.Minute))
	require.Len(t, swept, 1)
	assert.Same(t, idle, swept[0])

	_, err = s.Get(ctx, "alice", idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "alice", active.ID)
	assert.NoError(t, err)
}
