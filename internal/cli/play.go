package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/robalobadob/colormatch/internal/config"
	"github.com/robalobadob/colormatch/internal/game"
	"github.com/robalobadob/colormatch/internal/history"
)

// LocalPlayer is the history owner for terminal sessions.
const LocalPlayer = "local"

// PlayGame runs the terminal loop for g until q or end of input.
// Commands: <index> selects a tile, h shows the hint, r [mode] restarts.
func PlayGame(r io.Reader, w io.Writer, g *game.Game, modes *config.Difficulties, hist *history.Memory) {
	reader := bufio.NewReader(r)

	fmt.Fprintln(w, "=== Color Match ===")
	fmt.Fprintln(w, "Controls: <index>=flip tile, h=hint, r [mode]=restart, q=quit")
	fmt.Fprintln(w)

	reported := false
	for {
		s := g.Snapshot()
		fmt.Fprint(w, Render(s))
		fmt.Fprintf(w, "Mode: %s  Score: %d  Time: %ds  Pairs left: %d\n", s.Mode, s.Score, s.ElapsedSeconds, s.PairsLeft)

		if s.Outcome == game.OutcomeWon && !reported {
			reported = true
			fmt.Fprintf(w, "You won! Score %d in %ds.\n", s.Score, s.ElapsedSeconds)
			printHistory(w, hist)
		}

		fmt.Fprint(w, "> ")
		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			break
		}

		fields := strings.Fields(strings.ToLower(input))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "q":
			fmt.Fprintln(w, "Quit.")
			return
		case "h":
			if !g.Hint() {
				fmt.Fprintln(w, "Hint not available.")
			}
		case "r":
			mode := s.Mode
			if len(fields) > 1 {
				mode = fields[1]
			}
			d, ok := modes.Get(mode)
			if !ok {
				fmt.Fprintf(w, "Unknown mode %q.\n", mode)
				break
			}
			if err := g.Restart(d); err != nil {
				fmt.Fprintf(w, "Cannot restart: %v\n", err)
				break
			}
			reported = false
		default:
			idx, err := strconv.Atoi(fields[0])
			if err != nil {
				fmt.Fprintln(w, "Invalid input. Use a tile index, h, r or q.")
				break
			}
			if !g.Select(idx) {
				fmt.Fprintln(w, "Cannot flip that tile now.")
			}
		}
		fmt.Fprintln(w)
	}
}

// Render draws the board as a grid. Face-down tiles show their index,
// face-up tiles their color label, matched tiles are bracketed and the
// free tile is marked with stars.
func Render(s game.Snapshot) string {
	cols := s.Columns
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(len(s.Tiles)))))
	}

	var b strings.Builder
	for i, t := range s.Tiles {
		switch {
		case t.Free:
			b.WriteString("  ** ")
		case t.State == game.TileFaceDown:
			fmt.Fprintf(&b, " [%2d]", t.Index)
		case t.State == game.TileMatched:
			fmt.Fprintf(&b, " (%2s)", ColorLabel(*t.Slot))
		default:
			fmt.Fprintf(&b, "  %2s ", ColorLabel(*t.Slot))
		}
		if (i+1)%cols == 0 || i == len(s.Tiles)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ColorLabel names a color slot: A..Z, then AA, AB, ...
func ColorLabel(slot int) string {
	if slot < 26 {
		return string(rune('A' + slot))
	}
	return ColorLabel(slot/26-1) + string(rune('A'+slot%26))
}

func printHistory(w io.Writer, hist *history.Memory) {
	if hist == nil {
		return
	}
	entries, err := hist.Recent(context.Background(), LocalPlayer, "", 0)
	if err != nil || len(entries) == 0 {
		return
	}
	fmt.Fprintln(w, "History:")
	for _, e := range entries {
		fmt.Fprintf(w, "  %s  %-8s score %4d  time %4ds\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Mode, e.Score, e.TimeSeconds)
	}
}
