package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/robalobadob/colormatch/internal/config"
	"github.com/robalobadob/colormatch/internal/game"
	"github.com/robalobadob/colormatch/internal/history"
	"github.com/robalobadob/colormatch/internal/schedule"
)

// PlayOptions holds the flags of the play command.
type PlayOptions struct {
	Mode         string
	Seed         int64
	Difficulties string // preset file; empty means the embedded presets
}

// NewRootCommand creates the terminal play command.
func NewRootCommand() *cobra.Command {
	opts := &PlayOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play color match in the terminal",
		Long:  "Flip tiles two at a time to find every pair of matching colors.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			seeded := cmd.Flags().Changed("seed")
			return runPlay(cmd, opts, seeded)
		},
	}

	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "easy", "difficulty mode")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "fixed board seed (same seed, same layout)")
	cmd.Flags().StringVar(&opts.Difficulties, "difficulties", "", "YAML file with difficulty presets")

	return cmd
}

func runPlay(cmd *cobra.Command, opts *PlayOptions, seeded bool) error {
	modes, err := config.LoadDifficulties(opts.Difficulties)
	if err != nil {
		return err
	}
	d, ok := modes.Get(opts.Mode)
	if !ok {
		return fmt.Errorf("unknown mode %q", opts.Mode)
	}

	sched, err := schedule.New()
	if err != nil {
		return err
	}
	defer func() { _ = sched.Shutdown() }()

	hist := history.NewMemory(0)
	g, err := NewGame(d, sched, hist, opts.Seed, seeded)
	if err != nil {
		return err
	}
	defer g.Close()

	PlayGame(cmd.InOrStdin(), cmd.OutOrStdout(), g, modes, hist)
	return nil
}

// NewGame builds a terminal session recording into hist. A seeded game uses
// the same layout for every run with that seed.
func NewGame(d game.Difficulty, sched game.Scheduler, hist *history.Memory, seed int64, seeded bool) (*game.Game, error) {
	id := uuid.NewString()
	opts := []game.Option{
		game.WithID(id),
		game.WithRecorder(hist.Recorder(LocalPlayer, id, false)),
	}
	if seeded {
		opts = append(opts, game.WithDeck(game.SeededDeck(seed)))
	}
	return game.New(d, sched, opts...)
}
