package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/registry"
	"github.com/vovakirdan/skyhop/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the playable modes",
	Long:  `Shows every registered mode with its run count and best height. Scores and saved runs are kept per mode.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	e, err := newEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	stats := map[string]*storage.GameStats{}
	if e.store != nil {
		if all, err := e.store.GetAllGamesStats(); err == nil {
			stats = all
		} else {
			e.logger.Warn("could not load stats", "err", err)
		}
	}

	modes := registry.List()
	maxIDLen := 2 // "ID" header
	for _, m := range modes {
		maxIDLen = max(maxIDLen, len(m.ID))
	}

	fmt.Println("Modes:")
	fmt.Println()
	fmt.Printf("  %-*s  %-18s  %6s  %s\n", maxIDLen, "ID", "Title", "Runs", "Best")
	fmt.Printf("  %-*s  %-18s  %6s  %s\n", maxIDLen, "--", "-----", "----", "----")
	for _, m := range modes {
		runs, best := "-", "-"
		if s, ok := stats[m.ID]; ok {
			runs = humanize.Comma(int64(s.GamesCount))
			best = humanize.Comma(int64(s.HighScore)) + "m"
		}
		fmt.Printf("  %-*s  %-18s  %6s  %s\n", maxIDLen, m.ID, m.Title, runs, best)
	}

	names := make([]string, 0, len(config.Presets()))
	for _, p := range config.Presets() {
		names = append(names, string(p))
	}
	fmt.Println()
	fmt.Printf("Difficulties: %s\n", strings.Join(names, ", "))
	fmt.Println("Run 'skyhop play <id>' to climb.")
	return nil
}
