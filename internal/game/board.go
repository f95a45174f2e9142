package game

// Board is the tile state store: the slot assignment of every position plus
// the revealed and matched flags. All flag mutations are idempotent.
type Board struct {
	slots    []int
	freeSlot int
	revealed []bool
	matched  []bool
}

// NewBoard wraps a slot layout. Any tile carrying freeSlot (the pair count)
// starts matched.
func NewBoard(slots []int, pairCount int) *Board {
	b := &Board{
		slots:    append([]int(nil), slots...),
		freeSlot: pairCount,
		revealed: make([]bool, len(slots)),
		matched:  make([]bool, len(slots)),
	}
	for i, s := range b.slots {
		if s == pairCount {
			b.matched[i] = true
		}
	}
	return b
}

// Size returns the number of tiles.
func (b *Board) Size() int { return len(b.slots) }

// Valid reports whether i addresses a tile.
func (b *Board) Valid(i int) bool { return i >= 0 && i < len(b.slots) }

// ColorOf returns the slot id of a face-up tile. ok is false for face-down
// or out-of-range tiles.
func (b *Board) ColorOf(i int) (slot int, ok bool) {
	if !b.Valid(i) || !(b.revealed[i] || b.matched[i]) {
		return 0, false
	}
	return b.slots[i], true
}

func (b *Board) Reveal(i int) {
	if b.Valid(i) {
		b.revealed[i] = true
	}
}

func (b *Board) Hide(i int) {
	if b.Valid(i) {
		b.revealed[i] = false
	}
}

func (b *Board) MarkMatched(i int) {
	if b.Valid(i) {
		b.matched[i] = true
	}
}

func (b *Board) IsRevealed(i int) bool { return b.Valid(i) && b.revealed[i] }

func (b *Board) IsMatched(i int) bool { return b.Valid(i) && b.matched[i] }

// IsFree reports whether i is the unpaired free tile.
func (b *Board) IsFree(i int) bool { return b.Valid(i) && b.slots[i] == b.freeSlot }

// IsFullyMatched is true once every tile is matched. The free tile starts
// matched so it never holds this back.
func (b *Board) IsFullyMatched() bool {
	for _, m := range b.matched {
		if !m {
			return false
		}
	}
	return true
}

// PairsLeft counts unresolved pairs.
func (b *Board) PairsLeft() int {
	n := 0
	for _, m := range b.matched {
		if !m {
			n++
		}
	}
	return n / 2
}

// settled reports that no tile is pending face-up outside of a match.
func (b *Board) settled() bool {
	for _, r := range b.revealed {
		if r {
			return false
		}
	}
	return true
}
