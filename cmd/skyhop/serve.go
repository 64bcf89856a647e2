package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyhop/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the skyhop SSH server",
	Long: `Start an SSH server that lets users connect and climb.

Each SSH user gets their own saved runs, wallet and characters; the high
score table is shared. --live also broadcasts every session to the
spectator feed.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.skyhop/host_key

Examples:
  skyhop serve                           # Listen on :23234 with auto-generated key
  skyhop serve --ssh :2222               # Listen on port 2222
  skyhop serve --db postgres://localhost/skyhop?sslmode=disable

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	srvCfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
		Game:        cfg,
	}

	// The live feed only needs a logger; the SSH server owns the database.
	e := &env{cfg: cfg}
	e.logger = newStderrLogger()
	defer e.Close()
	if hub := e.startLive(); hub != nil {
		srvCfg.Effects = hub
	}

	server, err := tui.NewSSHServer(srvCfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting skyhop SSH server on %s\n", srvCfg.Address)
	fmt.Println("Press Ctrl+C to stop")
	return server.ListenAndServe()
}
