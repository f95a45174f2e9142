// internal/game/types.go
//
// Core type definitions for the color-matching engine.
// Defines:
//   - Difficulty: per-mode configuration supplied at session start.
//   - Snapshot/TileView: read-only state handed to whatever renders the board.
//   - Result/Recorder: the record emitted once when a session is won.
//   - Scheduler: cancellable timers the engine relies on.

package game

import (
	"errors"
	"fmt"
	"time"
)

// TickInterval is the period of the session clock.
const TickInterval = time.Second

// ErrInvalidDifficulty is returned when a Difficulty cannot build a board.
var ErrInvalidDifficulty = errors.New("invalid difficulty")

// Difficulty configures one mode of play.
type Difficulty struct {
	Mode                     string  `yaml:"mode" json:"mode"`
	PairCount                int     `yaml:"pair_count" json:"pairCount"`
	HasFreeTile              bool    `yaml:"free_tile" json:"hasFreeTile"`
	Columns                  int     `yaml:"columns" json:"columns"`
	MatchScoreDelta          int     `yaml:"match_score" json:"matchScoreDelta"`
	MismatchScoreDelta       int     `yaml:"mismatch_score" json:"mismatchScoreDelta"`
	MismatchHideDelaySeconds float64 `yaml:"mismatch_hide_delay_seconds" json:"mismatchHideDelaySeconds"`
	HintRevealSeconds        float64 `yaml:"hint_reveal_seconds" json:"hintRevealSeconds"` // 0 disables the hint
}

// Validate rejects configurations that cannot produce a playable board.
func (d Difficulty) Validate() error {
	switch {
	case d.Mode == "":
		return fmt.Errorf("%w: empty mode", ErrInvalidDifficulty)
	case d.PairCount < 1:
		return fmt.Errorf("%w: %s: pair count %d < 1", ErrInvalidDifficulty, d.Mode, d.PairCount)
	case d.Columns < 0:
		return fmt.Errorf("%w: %s: negative columns", ErrInvalidDifficulty, d.Mode)
	case d.MatchScoreDelta <= 0:
		return fmt.Errorf("%w: %s: match score must be positive", ErrInvalidDifficulty, d.Mode)
	case d.MismatchScoreDelta > 0:
		return fmt.Errorf("%w: %s: mismatch score must not be positive", ErrInvalidDifficulty, d.Mode)
	case d.MismatchHideDelaySeconds < 0 || d.HintRevealSeconds < 0:
		return fmt.Errorf("%w: %s: negative delay", ErrInvalidDifficulty, d.Mode)
	}
	return nil
}

// Size is the number of tiles on a board of this difficulty.
func (d Difficulty) Size() int {
	n := 2 * d.PairCount
	if d.HasFreeTile {
		n++
	}
	return n
}

func (d Difficulty) hideDelay() time.Duration {
	return seconds(d.MismatchHideDelaySeconds)
}

func (d Difficulty) hintDuration() time.Duration {
	return seconds(d.HintRevealSeconds)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Outcome of a session.
type Outcome string

const (
	OutcomeOngoing Outcome = "ongoing"
	OutcomeWon     Outcome = "won"
)

// Phase is the Turn Controller state.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseOneSelected Phase = "one_selected"
	PhaseEvaluating  Phase = "evaluating"
)

// TileState is what a renderer should draw for a tile.
type TileState string

const (
	TileFaceDown TileState = "face_down"
	TileRevealed TileState = "revealed"
	TileMatched  TileState = "matched"
)

// TileView is the client-facing representation of one tile.
// Slot is only set when the tile is face-up.
type TileView struct {
	Index int       `json:"index"`
	State TileState `json:"state"`
	Slot  *int      `json:"slot,omitempty"`
	Free  bool      `json:"free,omitempty"`
}

// Snapshot is the full outbound state after an event.
type Snapshot struct {
	Generation     uint64     `json:"generation"`
	Mode           string     `json:"mode"`
	Columns        int        `json:"columns"`
	Tiles          []TileView `json:"tiles"`
	Score          int        `json:"score"`
	ElapsedSeconds int        `json:"elapsedSeconds"`
	Outcome        Outcome    `json:"outcome"`
	Phase          Phase      `json:"phase"`
	Busy           bool       `json:"busy"`
	HintUsed       bool       `json:"hintUsed"`
	HintActive     bool       `json:"hintActive"`
	PairsLeft      int        `json:"pairsLeft"`
}

// Result is emitted once per won session.
type Result struct {
	Mode        string    `json:"mode"`
	Score       int       `json:"score"`
	TimeSeconds int       `json:"timeSeconds"`
	Timestamp   time.Time `json:"timestamp"`
}

// Recorder receives finalized sessions. It is called outside the engine lock,
// so implementations may read the game back.
type Recorder interface {
	Record(Result)
}

// RecorderFunc adapts a function to a Recorder.
type RecorderFunc func(Result)

func (f RecorderFunc) Record(r Result) { f(r) }

// Scheduler runs callbacks later. The returned func cancels the callback;
// calling it after the callback ran is harmless.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
	Every(d time.Duration, fn func()) (cancel func())
}
