package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// DeckFunc builds the slot layout for a new board: ids 0..pairCount-1 twice
// each and, with a free tile, id pairCount once.
type DeckFunc func(pairCount int, hasFreeTile bool) []int

// NewDeck lays out the pairs and applies a uniform shuffle drawn from rng.
func NewDeck(rng *rand.Rand, pairCount int, hasFreeTile bool) []int {
	slots := orderedDeck(pairCount, hasFreeTile)
	// rand.Shuffle is Fisher-Yates: every permutation equally likely.
	rng.Shuffle(len(slots), func(i, j int) {
		slots[i], slots[j] = slots[j], slots[i]
	})
	return slots
}

func orderedDeck(pairCount int, hasFreeTile bool) []int {
	n := 2 * pairCount
	if hasFreeTile {
		n++
	}
	slots := make([]int, 0, n)
	for id := 0; id < pairCount; id++ {
		slots = append(slots, id, id)
	}
	if hasFreeTile {
		slots = append(slots, pairCount)
	}
	return slots
}

// RandomDeck shuffles with its own generator seeded from crypto/rand.
// The returned func is not safe for concurrent use; the engine only calls it
// under its own lock.
func RandomDeck() DeckFunc {
	rng := rand.New(rand.NewSource(randomSeed()))
	return func(pairCount int, hasFreeTile bool) []int {
		return NewDeck(rng, pairCount, hasFreeTile)
	}
}

// SeededDeck produces the same layout for the same seed on every call,
// so a restart of a seeded game replays the same board.
func SeededDeck(seed int64) DeckFunc {
	return func(pairCount int, hasFreeTile bool) []int {
		return NewDeck(rand.New(rand.NewSource(seed)), pairCount, hasFreeTile)
	}
}

// FixedDeck always returns a copy of slots.
func FixedDeck(slots []int) DeckFunc {
	return func(int, bool) []int {
		return append([]int(nil), slots...)
	}
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
