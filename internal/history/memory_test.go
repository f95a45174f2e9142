package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/colormatch/internal/game"
)

var t0 = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func at(min int) time.Time { return t0.Add(time.Duration(min) * time.Minute) }

func TestRecentMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	require.NoError(t, m.Append(ctx, Entry{PlayerID: "p1", Mode: "easy", Score: 10, Timestamp: at(1)}))
	require.NoError(t, m.Append(ctx, Entry{PlayerID: "p2", Mode: "easy", Score: 20, Timestamp: at(2)}))
	require.NoError(t, m.Append(ctx, Entry{PlayerID: "p1", Mode: "medium", Score: 30, Timestamp: at(3)}))
	require.NoError(t, m.Append(ctx, Entry{PlayerID: "p1", Mode: "easy", Score: 40, Timestamp: at(4)}))

	got, err := m.Recent(ctx, "p1", "", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{40, 30, 10}, scores(got))
	for _, e := range got {
		assert.NotEmpty(t, e.ID)
	}

	got, err = m.Recent(ctx, "p1", "easy", 1)
	require.NoError(t, err)
	assert.Equal(t, []int{40}, scores(got))

	got, err = m.Recent(ctx, "nobody", "", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLeaderboardOrdering(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	entries := []Entry{
		{ID: "slow", Mode: "easy", Score: 70, TimeSeconds: 90, Timestamp: at(1)},
		{ID: "fast", Mode: "easy", Score: 70, TimeSeconds: 40, Timestamp: at(2)},
		{ID: "best", Mode: "easy", Score: 80, TimeSeconds: 120, Timestamp: at(3)},
		{ID: "fast-late", Mode: "easy", Score: 70, TimeSeconds: 40, Timestamp: at(4)},
		{ID: "other-mode", Mode: "medium", Score: 500, TimeSeconds: 1, Timestamp: at(5)},
	}
	for _, e := range entries {
		require.NoError(t, m.Append(ctx, e))
	}

	got, err := m.Leaderboard(ctx, "easy", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"best", "fast", "fast-late", "slow"}, ids(got))

	got, err = m.Leaderboard(ctx, "easy", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"best", "fast"}, ids(got))
}

func TestLimitDropsOldest(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(3)
	for i := 1; i <= 5; i++ {
		require.NoError(t, m.Append(ctx, Entry{PlayerID: "p", Mode: "easy", Score: i, Timestamp: at(i)}))
	}

	assert.Equal(t, 3, m.Len())
	got, err := m.Recent(ctx, "p", "", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 4, 3}, scores(got))
}

func TestRecorderAppends(t *testing.T) {
	m := NewMemory(0)
	rec := m.Recorder("p1", "g1", true)

	rec.Record(game.Result{Mode: "hard", Score: 55, TimeSeconds: 61, Timestamp: at(0)})

	got, err := m.Recent(context.Background(), "p1", "hard", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	e := got[0]
	assert.Equal(t, "g1", e.GameID)
	assert.True(t, e.Daily)
	assert.Equal(t, 55, e.Score)
	assert.Equal(t, 61, e.TimeSeconds)
	assert.Equal(t, at(0), e.Timestamp)
}

func scores(es []Entry) []int {
	out := make([]int, len(es))
	for i, e := range es {
		out[i] = e.Score
	}
	return out
}

func ids(es []Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}
