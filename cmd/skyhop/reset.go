package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyhop/internal/games/skyhop"
)

var (
	flagResetScores bool
	flagResetYes    bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase saved progress",
	Long: `Erase the saved runs, wallet, characters and records of --profile.
With --scores the high score tables of every mode are cleared too.

Examples:
  skyhop reset --yes
  skyhop reset --profile alice --scores --yes`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetScores, "scores", false, "Also clear the high score tables")
	resetCmd.Flags().BoolVar(&flagResetYes, "yes", false, "Confirm the reset")
}

func runReset(_ *cobra.Command, _ []string) error {
	if !flagResetYes {
		return fmt.Errorf("reset erases the progress of %q, pass --yes to confirm", flagProfile)
	}

	e, err := newEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()
	store, err := e.requireStore()
	if err != nil {
		return err
	}

	if err := store.Namespace(flagProfile).Clear(); err != nil {
		return fmt.Errorf("clearing profile: %w", err)
	}
	e.logger.Info("profile cleared", "profile", flagProfile)

	if flagResetScores {
		for _, mode := range skyhop.Modes() {
			if err := store.ClearScores(mode.ID); err != nil {
				return fmt.Errorf("clearing scores of %s: %w", mode.ID, err)
			}
		}
		e.logger.Info("scores cleared")
	}

	fmt.Printf("Progress of %q erased.\n", flagProfile)
	return nil
}
