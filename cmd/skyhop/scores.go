package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyhop/internal/platform/tui"
	"github.com/vovakirdan/skyhop/internal/registry"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show the best runs of a mode",
	Long: `Display the highest runs recorded for a mode. Without an argument the
interactive scoreboard opens.

Examples:
  skyhop scores
  skyhop scores skyhop
  skyhop scores assisted --limit 25`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
}

func runScores(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		e, err := newEnv(true)
		if err != nil {
			return err
		}
		defer e.Close()
		rt := runtimeConfig()
		_, err = tui.RunScoreboard(e.store, rt.ScreenW, rt.ScreenH)
		return err
	}

	modeID, err := resolveMode(args[0])
	if err != nil {
		return err
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

	scores, err := store.TopScores(modeID, flagScoresLimit)
	if err != nil {
		return err
	}

	title := modeID
	for _, m := range registry.List() {
		if m.ID == modeID {
			title = m.Title
		}
	}
	fmt.Printf("High Scores - %s\n\n", title)

	if len(scores) == 0 {
		fmt.Println("No climbs recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'skyhop play %s' to set the first height!\n", modeID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-8s  %s\n", "Rank", "Height", "Run", "When")
	fmt.Printf("  %-4s  %-10s  %-8s  %s\n", "----", "------", "---", "----")
	for i, entry := range scores {
		run := entry.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		fmt.Printf("  %-4d  %-10s  %-8s  %s\n", i+1, humanize.Comma(int64(entry.Score))+"m", run, humanize.Time(entry.CreatedAt))
	}

	if stats, err := store.GetGameStats(modeID); err == nil {
		fmt.Println()
		fmt.Printf("Best: %sm over %s runs, average %.0fm, last climbed %s\n",
			humanize.Comma(int64(stats.HighScore)),
			humanize.Comma(int64(stats.GamesCount)),
			stats.AvgScore,
			humanize.Time(stats.LastPlayed))
	}
	return nil
}
