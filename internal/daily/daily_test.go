package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/robalobadob/colormatch/internal/game"
)

func TestDateKeyUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2026, 1, 11, 5, 0, 0, 0, loc)
	assert.Equal(t, "2026-01-10", DateKey(local))
}

func TestSeedStableWithinDay(t *testing.T) {
	morning := time.Date(2026, 1, 10, 1, 0, 0, 0, time.UTC)
	night := time.Date(2026, 1, 10, 23, 59, 0, 0, time.UTC)
	tomorrow := morning.Add(24 * time.Hour)

	assert.Equal(t, Seed(morning, "salt", "easy"), Seed(night, "salt", "easy"))
	assert.NotEqual(t, Seed(morning, "salt", "easy"), Seed(tomorrow, "salt", "easy"))
	assert.NotEqual(t, Seed(morning, "salt", "easy"), Seed(morning, "salt", "medium"))
	assert.NotEqual(t, Seed(morning, "salt", "easy"), Seed(morning, "pepper", "easy"))
}

func TestSeedGivesSameBoard(t *testing.T) {
	day := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	a := game.SeededDeck(Seed(day, "salt", "easy"))(8, false)
	b := game.SeededDeck(Seed(day.Add(time.Hour), "salt", "easy"))(8, false)
	assert.Equal(t, a, b)
}
