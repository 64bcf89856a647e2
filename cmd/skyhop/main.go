// skyhop is a vertical charge-jump climber for the terminal.
//
// Usage:
//
//	skyhop play [mode]         - Continue or start a climb
//	skyhop menu                - Main menu: continue, new climb, characters, scores
//	skyhop list                - List the playable modes
//	skyhop scores [mode]       - Show the best runs of a mode
//	skyhop characters          - Show the character catalogue and wallet
//	skyhop buy <character>     - Unlock a character with banked drops
//	skyhop equip <character>   - Choose the character for new runs
//	skyhop serve               - Start the SSH server for remote play
//	skyhop reset               - Erase saved progress
//	skyhop config              - Print the effective configuration
//
// Global flags:
//
//	--config <path>       - Game config YAML
//	--difficulty <name>   - assisted or extreme
//	--db <dsn>            - SQLite path or postgres:// DSN (default: ~/.skyhop/skyhop.db)
//	--profile <name>      - Progress namespace (default: local)
//	--fps <rate>          - Tick rate (default: 60)
//	--seed <value>        - RNG seed for reproducible worlds
//	--live <addr>         - Serve the spectator feed on addr
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig     string
	flagDifficulty string
	flagDBPath     string
	flagProfile    string
	flagFPS        int
	flagSeed       int64
	flagLive       string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skyhop",
	Short: "Skyhop - a charge-jump climber in your terminal",
	Long: `Skyhop is a single-screen vertical platformer. Hold a direction to charge
a jump, release to leap, and climb as high as you can. Checkpoints save
your footing; fall below the screen and you land back on the last one.

Terminals report key presses only, so a direction key toggles: press it
once to start charging and again to jump. Down cancels a charge.

Examples:
  skyhop play
  skyhop play --difficulty assisted
  skyhop menu
  skyhop scores skyhop
  skyhop serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: assisted, extreme (default from config)")
	pf.StringVar(&flagDBPath, "db", "~/.skyhop/skyhop.db", "SQLite database path or postgres:// DSN")
	pf.StringVar(&flagProfile, "profile", "local", "Name of the progress namespace")
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagLive, "live", "", "Serve the spectator feed on this address (e.g. :8080)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(charactersCmd)
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(equipCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
}
