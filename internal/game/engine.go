// internal/game/engine.go
//
// Match engine for a single color-matching session.
// Responsibilities:
//   - Build the board for a Difficulty through the deck generator.
//   - Run the turn state machine: idle → one_selected → evaluating → idle.
//   - Apply score deltas and count elapsed seconds with a scheduled tick.
//   - Detect the win once and hand the result to the Recorder.
//   - Offer one timed hint per session.
//
// Notes:
//   - Every scheduled callback carries the generation it was created in.
//     Restart and Close advance the generation, so a late callback is a no-op.
//   - One mutex serializes inbound events and timer callbacks.
//   - Rejected input (busy, matched, already revealed, out of range) is
//     ignored rather than reported as an error.
package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrClosed is returned by Restart after Close.
var ErrClosed = errors.New("game closed")

const noTile = -1

// Game holds one live Board/Turn/Session triple.
type Game struct {
	ID string

	mu    sync.Mutex
	sched Scheduler
	rec   Recorder
	deck  DeckFunc
	now   func() time.Time

	diff    Difficulty
	gen     uint64
	closed  bool
	board   *Board
	turn    turn
	session session
	peeking bool // hint active

	externalTick bool

	cancelSettle func()
	cancelHint   func()
	cancelTick   func()
}

type turn struct {
	first  int
	second int
	busy   bool // a pair is pending settle
}

func (t turn) phase() Phase {
	switch {
	case t.busy:
		return PhaseEvaluating
	case t.first != noTile:
		return PhaseOneSelected
	}
	return PhaseIdle
}

type session struct {
	score    int
	elapsed  int
	hintUsed bool
	outcome  Outcome
}

// Option customizes a Game at construction.
type Option func(*Game)

// WithRecorder sets where won sessions are reported.
func WithRecorder(r Recorder) Option {
	return func(g *Game) { g.rec = r }
}

// WithDeck replaces the random deck generator.
func WithDeck(d DeckFunc) Option {
	return func(g *Game) { g.deck = d }
}

// WithClock sets the timestamp source for results.
func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

// WithID sets the game id; New otherwise assigns a uuid.
func WithID(id string) Option {
	return func(g *Game) { g.ID = id }
}

// WithExternalTick leaves the session clock to the host, which calls Tick
// once per second. No tick timer is scheduled.
func WithExternalTick() Option {
	return func(g *Game) { g.externalTick = true }
}

// New validates d, lays out a board and starts the session clock.
func New(d Difficulty, sched Scheduler, opts ...Option) (*Game, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	g := &Game{
		ID:    uuid.NewString(),
		sched: sched,
		rec:   RecorderFunc(func(Result) {}),
		deck:  RandomDeck(),
		now:   time.Now,
	}
	for _, o := range opts {
		o(g)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	slots, err := layout(g.deck, d)
	if err != nil {
		return nil, err
	}
	g.setup(d, slots)
	return g, nil
}

// layout draws a deck for d and checks it: every pair id twice, the free id
// (pairCount) once when the mode has a free tile, nothing else.
func layout(deck DeckFunc, d Difficulty) ([]int, error) {
	slots := deck(d.PairCount, d.HasFreeTile)
	if len(slots) != d.Size() {
		return nil, fmt.Errorf("%w: %s: deck has %d tiles, want %d", ErrInvalidDifficulty, d.Mode, len(slots), d.Size())
	}
	counts := make([]int, d.PairCount+1)
	for _, id := range slots {
		if id < 0 || id > d.PairCount || (id == d.PairCount && !d.HasFreeTile) {
			return nil, fmt.Errorf("%w: %s: deck has slot id %d", ErrInvalidDifficulty, d.Mode, id)
		}
		counts[id]++
	}
	for id := 0; id < d.PairCount; id++ {
		if counts[id] != 2 {
			return nil, fmt.Errorf("%w: %s: slot id %d appears %d times", ErrInvalidDifficulty, d.Mode, id, counts[id])
		}
	}
	return slots, nil
}

func (g *Game) setup(d Difficulty, slots []int) {
	g.gen++
	g.diff = d
	g.board = NewBoard(slots, d.PairCount)
	g.turn = turn{first: noTile, second: noTile}
	g.session = session{outcome: OutcomeOngoing}
	g.peeking = false

	if g.externalTick {
		return
	}
	gen := g.gen
	g.cancelTick = g.sched.Every(TickInterval, func() { g.tick(gen) })
}

// Select is the "tile selected" event. It reports whether the input was taken.
func (g *Game) Select(index int) bool {
	g.mu.Lock()
	accepted, res := g.selectLocked(index)
	g.mu.Unlock()

	g.emit(res)
	return accepted
}

func (g *Game) selectLocked(i int) (bool, *Result) {
	if g.closed || g.busy() || g.session.outcome != OutcomeOngoing {
		return false, nil
	}
	if !g.board.Valid(i) || g.board.IsMatched(i) || g.board.IsRevealed(i) {
		return false, nil
	}

	g.board.Reveal(i)
	if g.turn.first == noTile {
		g.turn.first = i
		return true, nil
	}
	g.turn.second = i
	g.turn.busy = true
	return true, g.evaluate()
}

// evaluate decides the pending pair. A match settles at once; a mismatch
// settles after the mode's hide delay.
func (g *Game) evaluate() *Result {
	first, second := g.turn.first, g.turn.second
	a, _ := g.board.ColorOf(first)
	b, _ := g.board.ColorOf(second)

	if a == b && !g.board.IsFree(first) {
		g.board.MarkMatched(first)
		g.board.MarkMatched(second)
		g.session.score += g.diff.MatchScoreDelta
		res := g.checkWin()
		g.settle()
		return res
	}

	g.session.score += g.diff.MismatchScoreDelta
	delay := g.diff.hideDelay()
	if delay <= 0 {
		g.settle()
		return nil
	}
	gen := g.gen
	g.cancelSettle = g.sched.After(delay, func() { g.settleFrom(gen) })
	return nil
}

// settle hides the pending pair (matched tiles stay face-up through their
// matched flag) and returns the turn to idle.
func (g *Game) settle() {
	g.board.Hide(g.turn.first)
	g.board.Hide(g.turn.second)
	g.turn = turn{first: noTile, second: noTile}
	g.cancelSettle = nil
}

func (g *Game) settleFrom(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.gen || !g.turn.busy {
		return
	}
	g.settle()
}

// checkWin moves the session to won at most once, stopping the clock.
func (g *Game) checkWin() *Result {
	if g.session.outcome == OutcomeWon || !g.board.IsFullyMatched() {
		return nil
	}
	g.session.outcome = OutcomeWon
	stop(&g.cancelTick)
	return &Result{
		Mode:        g.diff.Mode,
		Score:       g.session.score,
		TimeSeconds: g.session.elapsed,
		Timestamp:   g.now().UTC(),
	}
}

func (g *Game) emit(res *Result) {
	if res != nil {
		g.rec.Record(*res)
	}
}

// Hint shows every unmatched tile for the mode's reveal time. It is accepted
// once per session, only while no tile is selected, and blocks selection
// while it lasts.
func (g *Game) Hint() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	d := g.diff.hintDuration()
	if g.closed || d <= 0 || g.session.hintUsed || g.session.outcome != OutcomeOngoing {
		return false
	}
	if g.turn.phase() != PhaseIdle || !g.board.settled() {
		return false
	}
	g.session.hintUsed = true
	g.peeking = true
	gen := g.gen
	g.cancelHint = g.sched.After(d, func() { g.endHint(gen) })
	return true
}

func (g *Game) endHint(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.gen {
		return
	}
	g.peeking = false
	g.cancelHint = nil
}

// Tick advances the session clock by one second. It only counts for games
// built WithExternalTick; otherwise the internal timer owns the clock and
// Tick is ignored.
func (g *Game) Tick() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.externalTick {
		return
	}
	g.advanceClock()
}

func (g *Game) tick(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.gen {
		return
	}
	g.advanceClock()
}

func (g *Game) advanceClock() {
	if g.closed || g.session.outcome != OutcomeOngoing {
		return
	}
	g.session.elapsed++
}

// Restart discards the board and starts a new session with d. An invalid d
// is rejected before anything changes.
func (g *Game) Restart(d Difficulty) error {
	return g.RestartWithDeck(d, nil)
}

// RestartWithDeck is Restart with a new deck generator, kept for later
// restarts. A nil deck keeps the current one.
func (g *Game) RestartWithDeck(d Difficulty, deck DeckFunc) error {
	if err := d.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	if deck == nil {
		deck = g.deck
	}
	slots, err := layout(deck, d)
	if err != nil {
		return err
	}
	g.deck = deck
	g.stopTimers()
	g.setup(d, slots)
	return nil
}

// Close cancels all timers. Every later event is ignored.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.stopTimers()
	g.gen++
	g.closed = true
}

func (g *Game) stopTimers() {
	stop(&g.cancelSettle)
	stop(&g.cancelHint)
	stop(&g.cancelTick)
}

func stop(cancel *func()) {
	if *cancel != nil {
		(*cancel)()
		*cancel = nil
	}
}

func (g *Game) busy() bool { return g.turn.busy || g.peeking }

// Difficulty returns the configuration of the current session.
func (g *Game) Difficulty() Difficulty {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.diff
}

// Snapshot returns the state a renderer needs. Face-down tiles carry no slot.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	tiles := make([]TileView, g.board.Size())
	for i := range tiles {
		tv := TileView{Index: i, State: TileFaceDown, Free: g.board.IsFree(i)}
		switch {
		case g.board.IsMatched(i):
			tv.State = TileMatched
		case g.board.IsRevealed(i) || g.peeking:
			tv.State = TileRevealed
		}
		if tv.State != TileFaceDown {
			slot := g.board.slots[i]
			tv.Slot = &slot
		}
		tiles[i] = tv
	}

	return Snapshot{
		Generation:     g.gen,
		Mode:           g.diff.Mode,
		Columns:        g.diff.Columns,
		Tiles:          tiles,
		Score:          g.session.score,
		ElapsedSeconds: g.session.elapsed,
		Outcome:        g.session.outcome,
		Phase:          g.turn.phase(),
		Busy:           g.busy(),
		HintUsed:       g.session.hintUsed,
		HintActive:     g.peeking,
		PairsLeft:      g.board.PairsLeft(),
	}
}
