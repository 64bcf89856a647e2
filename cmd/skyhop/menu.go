package main

import (
	"fmt"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyhop/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Open the main menu",
	Long: `Open the interactive menu: continue a saved climb, start a new one,
buy and equip characters, and browse the high scores.`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	e, err := newEnv(true)
	if err != nil {
		return err
	}
	defer e.Close()

	name := flagProfile
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	if err := tui.RunSession(e.deps(), runtimeConfig(), name); err != nil {
		return fmt.Errorf("running menu: %w", err)
	}
	return nil
}
