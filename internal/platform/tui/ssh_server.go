package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
	"github.com/vovakirdan/skyhop/internal/games/skyhop"
	"github.com/vovakirdan/skyhop/internal/games/skyhop/sim"
	"github.com/vovakirdan/skyhop/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.skyhop/host_key.
	HostKeyPath string

	// DBPath is the database file or postgres:// DSN.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of every session.
	TickRate int

	// Game is the climbing configuration shared by all sessions.
	Game config.SkyhopConfig

	// Effects receives the events of every session, may be nil.
	Effects skyhop.Effects
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.skyhop/skyhop.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		Game:        config.DefaultSkyhopConfig(),
	}
}

// SSHServer wraps a Wish SSH server. Every SSH user gets their own
// progress namespace in the shared database.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "skyhop-ssh",
	})

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		// Sessions fall back to in-memory progress.
		logger.Warn("could not open database", "error", err)
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		dir := config.HomeDir()
		if dir == "" {
			return nil, errors.New("tui: cannot get home directory for host key")
		}
		hostKeyPath = filepath.Join(dir, "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	user := sshSession.User()
	var profile sim.Persistence = storage.NewMemory()
	if s.store != nil {
		profile = s.store.Namespace(user)
	}

	deps := Deps{
		Store:   s.store,
		Profile: profile,
		Config:  s.config.Game,
		Effects: s.config.Effects,
		Logger:  s.logger.With("user", user),
	}
	return NewSessionModel(deps, cfg, user), []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until an interrupt.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenScores
	screenCharacters
)

// SessionModel manages the full session flow: menu -> game or shop or
// scores -> menu. It is the top-level model of SSH sessions.
type SessionModel struct {
	deps       Deps
	config     core.RuntimeConfig
	username   string
	sessionID  string
	screen     screen
	menu       MenuModel
	gameModel  *GameModel
	scores     ScoreboardModel
	characters CharactersModel
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(deps Deps, cfg core.RuntimeConfig, username string) SessionModel {
	id := uuid.NewString()
	deps.Logger = deps.logger().With("session", id)
	return SessionModel{
		deps:      deps,
		config:    cfg,
		username:  username,
		sessionID: id,
		menu:      NewMenuModel(deps, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	case screenCharacters:
		return m.updateCharacters(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	switch selected.Kind {
	case MenuScores:
		m.scores = NewScoreboardModel(m.deps.Store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScores
		return m, m.scores.Init()
	case MenuCharacters:
		m.characters = NewCharactersModel(m.deps, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenCharacters
		return m, m.characters.Init()
	}

	gameModel, err := NewGameModel(selected.ModeID, m.deps, m.config, selected.Kind == MenuContinue)
	if err != nil {
		m.deps.logger().Error("could not start game", "mode", selected.ModeID, "err", err)
		return m.toMenu()
	}
	m.gameModel = &gameModel
	m.screen = screenGame
	return m, m.gameModel.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.gameModel.BackToMenu() {
		m.gameModel = nil
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scores = sb
	}
	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateCharacters(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.characters.Update(msg)
	if cm, ok := newModel.(CharactersModel); ok {
		m.characters = cm
	}
	switch {
	case m.characters.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.characters.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

// toMenu rebuilds the menu so saved runs and the wallet are current.
func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.deps, m.config)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
	case screenScores:
		return m.scores.View()
	case screenCharacters:
		return m.characters.View()
	}
	return m.menu.View()
}

// SessionID returns the unique id of the session.
func (m SessionModel) SessionID() string {
	return m.sessionID
}
