package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/colormatch/internal/config"
	"github.com/robalobadob/colormatch/internal/game"
	"github.com/robalobadob/colormatch/internal/history"
	"github.com/robalobadob/colormatch/internal/schedule"
)

const cliModes = `
modes:
  - mode: quick
    pair_count: 2
    columns: 2
    match_score: 10
    mismatch_score: -2
    mismatch_hide_delay_seconds: 0
    hint_reveal_seconds: 1
  - mode: odd
    pair_count: 1
    free_tile: true
    columns: 3
    match_score: 1
    mismatch_score: 0
`

func scripted(t *testing.T, deck game.DeckFunc, input string) (string, *history.Memory, *game.Game) {
	t.Helper()
	modes, err := config.ParseDifficulties([]byte(cliModes))
	require.NoError(t, err)
	d, _ := modes.Get("quick")

	hist := history.NewMemory(0)
	g, err := game.New(d, schedule.NewManual(),
		game.WithDeck(deck),
		game.WithRecorder(hist.Recorder(LocalPlayer, "g1", false)),
	)
	require.NoError(t, err)

	var out bytes.Buffer
	PlayGame(strings.NewReader(input), &out, g, modes, hist)
	return out.String(), hist, g
}

func TestPlayGameWin(t *testing.T) {
	out, hist, g := scripted(t, game.FixedDeck([]int{0, 1, 0, 1}), "0\n2\n1\n3\nq\n")

	assert.Contains(t, out, "=== Color Match ===")
	assert.Contains(t, out, "You won! Score 20")
	assert.Contains(t, out, "History:")
	assert.Contains(t, out, "Quit.")
	assert.Equal(t, game.OutcomeWon, g.Snapshot().Outcome)

	entries, err := hist.Recent(context.Background(), LocalPlayer, "", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 20, entries[0].Score)
}

func TestPlayGameMismatchAndErrors(t *testing.T) {
	out, _, g := scripted(t, game.FixedDeck([]int{0, 1, 1, 0}), "0\n1\nfoo\n9\n")

	assert.Contains(t, out, "Invalid input.")
	assert.Contains(t, out, "Cannot flip that tile now.")
	assert.NotContains(t, out, "You won!")

	s := g.Snapshot()
	assert.Equal(t, -2, s.Score)
	assert.Equal(t, game.PhaseIdle, s.Phase)
	assert.Equal(t, game.TileFaceDown, s.Tiles[0].State)
}

func TestPlayGameHintAndRestart(t *testing.T) {
	out, _, g := scripted(t, game.SeededDeck(3), "h\nh\nr odd\nr nightmare\nq\n")

	assert.Contains(t, out, "Hint not available.")
	assert.Contains(t, out, `Unknown mode "nightmare".`)
	assert.Contains(t, out, "  ** ")

	s := g.Snapshot()
	assert.Equal(t, "odd", s.Mode)
	assert.Len(t, s.Tiles, 3)
	assert.False(t, s.HintUsed)
}

func TestRender(t *testing.T) {
	slot := 1
	s := game.Snapshot{
		Columns: 2,
		Tiles: []game.TileView{
			{Index: 0, State: game.TileFaceDown},
			{Index: 1, State: game.TileRevealed, Slot: &slot},
			{Index: 2, State: game.TileMatched, Slot: &slot},
		},
	}
	assert.Equal(t, " [ 0]   B \n ( B)\n", Render(s))
}

func TestColorLabel(t *testing.T) {
	assert.Equal(t, "A", ColorLabel(0))
	assert.Equal(t, "Z", ColorLabel(25))
	assert.Equal(t, "AA", ColorLabel(26))
	assert.Equal(t, "AZ", ColorLabel(51))
	assert.Equal(t, "BA", ColorLabel(52))
}

func TestSeededGamesShareLayout(t *testing.T) {
	modes, err := config.LoadDifficulties("")
	require.NoError(t, err)
	d, _ := modes.Get("easy")

	layout := func() []int {
		g, err := NewGame(d, schedule.NewManual(), history.NewMemory(0), 42, true)
		require.NoError(t, err)
		require.True(t, g.Hint())
		var out []int
		for _, tile := range g.Snapshot().Tiles {
			out = append(out, *tile.Slot)
		}
		return out
	}
	assert.Equal(t, layout(), layout())
}
