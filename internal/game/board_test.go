package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoardColorOfFaceDown(t *testing.T) {
	b := NewBoard([]int{0, 1, 0, 1}, 2)

	_, ok := b.ColorOf(0)
	assert.False(t, ok, "face-down tile must not expose its color")

	b.Reveal(0)
	slot, ok := b.ColorOf(0)
	assert.True(t, ok)
	assert.Equal(t, 0, slot)

	_, ok = b.ColorOf(-1)
	assert.False(t, ok)
	_, ok = b.ColorOf(4)
	assert.False(t, ok)
}

func TestBoardFlagsIdempotent(t *testing.T) {
	once := NewBoard([]int{0, 1, 0, 1}, 2)
	twice := NewBoard([]int{0, 1, 0, 1}, 2)

	once.Reveal(1)
	once.MarkMatched(2)

	twice.Reveal(1)
	twice.Reveal(1)
	twice.MarkMatched(2)
	twice.MarkMatched(2)

	assert.Equal(t, once, twice)

	twice.Hide(3)
	twice.Hide(3)
	assert.False(t, twice.IsRevealed(3))
}

func TestBoardOutOfRangeIgnored(t *testing.T) {
	b := NewBoard([]int{0, 0}, 1)
	before := NewBoard([]int{0, 0}, 1)

	b.Reveal(5)
	b.MarkMatched(-1)
	b.Hide(2)
	assert.Equal(t, before, b)
}

func TestBoardFreeTilePrematched(t *testing.T) {
	b := NewBoard([]int{0, 1, 0}, 1)

	assert.True(t, b.IsFree(1))
	assert.True(t, b.IsMatched(1))
	assert.False(t, b.IsFree(0))
	assert.Equal(t, 1, b.PairsLeft())
	assert.False(t, b.IsFullyMatched())

	b.MarkMatched(0)
	b.MarkMatched(2)
	assert.True(t, b.IsFullyMatched(), "free tile never blocks completion")
	assert.Zero(t, b.PairsLeft())
}

func TestBoardFullyMatchedNeedsBothOccurrences(t *testing.T) {
	b := NewBoard([]int{0, 1, 1, 0}, 2)

	b.MarkMatched(0)
	b.MarkMatched(1)
	b.MarkMatched(2)
	assert.False(t, b.IsFullyMatched(), "slot 0 has one occurrence unmatched")

	b.MarkMatched(3)
	assert.True(t, b.IsFullyMatched())
}

func TestBoardSettled(t *testing.T) {
	b := NewBoard([]int{0, 0}, 1)
	assert.True(t, b.settled())

	b.Reveal(0)
	assert.False(t, b.settled())

	b.MarkMatched(0)
	assert.False(t, b.settled(), "matched but still flagged revealed")

	b.Hide(0)
	assert.True(t, b.settled())
	assert.True(t, b.IsMatched(0))
}
