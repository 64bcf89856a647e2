package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/games/skyhop"
	"github.com/vovakirdan/skyhop/internal/platform/tui"
	"github.com/vovakirdan/skyhop/internal/registry"
)

var flagNewRun bool

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Continue or start a climb",
	Long: `Play a mode directly. The saved run of the mode is continued unless
--new is given, in which case it is banked and a fresh climb starts.
Without an argument the mode follows --difficulty.

Controls:
  Left/A, Right/D, Up/W/Space - Start charging; press again to jump
  Down/S                      - Cancel the charge
  R                           - Rebuild the path (on the checkpoint)
  P                           - Pause
  N                           - End this run and start a new one
  Enter                       - Dismiss a message
  Esc/B                       - Pause; again to leave
  Ctrl+S                      - Save a screenshot
  Q/Ctrl+C                    - Save and quit

Examples:
  skyhop play
  skyhop play skyhop_assisted
  skyhop play --difficulty assisted --new
  skyhop play --seed 42 --live :8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNewRun, "new", false, "Abandon the saved run and start a new climb")
}

func runPlay(_ *cobra.Command, args []string) error {
	e, err := newEnv(true)
	if err != nil {
		return err
	}
	defer e.Close()

	modeID := skyhop.ModeFor(e.cfg.Difficulty.Preset).ID
	if len(args) == 1 {
		modeID, err = resolveMode(args[0])
		if err != nil {
			return err
		}
	}

	e.logger.Info("starting", "mode", modeID, "new", flagNewRun, "db", flagDBPath)
	if err := tui.Run(modeID, e.deps(), runtimeConfig(), !flagNewRun); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// resolveMode accepts a mode id or a difficulty name.
func resolveMode(arg string) (string, error) {
	if registry.Exists(arg) {
		return arg, nil
	}
	if preset, err := config.ParsePreset(arg); err == nil {
		return skyhop.ModeFor(preset).ID, nil
	}
	return "", fmt.Errorf("unknown mode %q, run 'skyhop list' to see the modes", arg)
}
