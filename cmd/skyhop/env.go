package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
	"github.com/vovakirdan/skyhop/internal/games/skyhop"
	"github.com/vovakirdan/skyhop/internal/platform/live"
	"github.com/vovakirdan/skyhop/internal/platform/tui"
	"github.com/vovakirdan/skyhop/internal/storage"
)

// env holds what every command needs: configuration, logger and storage.
type env struct {
	cfg     config.SkyhopConfig
	logger  *log.Logger
	store   *storage.Store
	logFile *os.File
	cancel  context.CancelFunc
}

// loadConfig reads the game config and applies --difficulty.
func loadConfig() (config.SkyhopConfig, error) {
	cfg, err := config.LoadSkyhop(flagConfig)
	if err != nil {
		return config.SkyhopConfig{}, err
	}
	preset := cfg.Difficulty.Preset
	if flagDifficulty != "" {
		preset = config.DifficultyPreset(flagDifficulty)
	}
	p, err := config.ParsePreset(string(preset))
	if err != nil {
		if flagDifficulty != "" {
			return config.SkyhopConfig{}, err
		}
		p = config.DifficultyExtreme
	}
	config.ApplyPreset(&cfg, p)
	return cfg, nil
}

// newEnv loads config, opens the log and the database. Interactive
// commands log to ~/.skyhop/skyhop.log since the terminal belongs to the UI.
// A database that cannot be opened leaves store nil.
func newEnv(interactive bool) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	e := &env{cfg: cfg}
	var out io.Writer = os.Stderr
	if interactive {
		out = io.Discard
		if f, err := openLogFile(); err == nil {
			e.logFile = f
			out = f
		}
	}
	e.logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "skyhop",
		Level:           level,
	})

	store, err := storage.Open(flagDBPath)
	if err != nil {
		e.logger.Warn("could not open database, progress will not be saved", "db", flagDBPath, "err", err)
		if interactive {
			fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		}
	} else {
		e.store = store
	}
	return e, nil
}

func openLogFile() (*os.File, error) {
	dir := config.HomeDir()
	if dir == "" {
		return nil, fmt.Errorf("no home directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "skyhop.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// requireStore fails commands that only make sense with a database.
func (e *env) requireStore() (*storage.Store, error) {
	if e.store == nil {
		return nil, fmt.Errorf("database %s is not available", flagDBPath)
	}
	return e.store, nil
}

// profile returns the persistence of --profile.
func (e *env) profile() *skyhop.Profile {
	if e.store == nil {
		return skyhop.NewProfile(storage.NewMemory(), e.cfg)
	}
	return skyhop.NewProfile(e.store.Namespace(flagProfile), e.cfg)
}

// deps builds the session dependencies, starting the live feed when
// --live is set.
func (e *env) deps() tui.Deps {
	d := tui.Deps{
		Store:  e.store,
		Config: e.cfg,
		Logger: e.logger,
	}
	if e.store != nil {
		d.Profile = e.store.Namespace(flagProfile)
	} else {
		d.Profile = storage.NewMemory()
	}
	if hub := e.startLive(); hub != nil {
		d.Effects = hub
	}
	return d
}

func (e *env) startLive() *live.Hub {
	if flagLive == "" {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	hub := live.NewHub(e.logger.WithPrefix("live"))
	go func() {
		if err := hub.ListenAndServe(ctx, flagLive); err != nil {
			e.logger.Error("live feed stopped", "address", flagLive, "err", err)
		}
	}()
	return hub
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// Close releases the database, live feed and log file.
func (e *env) Close() {
	if e.cancel != nil {
		e.cancel()
	}
	if e.store != nil {
		e.store.Close()
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
}

func newStderrLogger() *log.Logger {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "skyhop",
		Level:           level,
	})
}
