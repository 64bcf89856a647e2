package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
	"github.com/vovakirdan/skyhop/internal/games/skyhop"
	"github.com/vovakirdan/skyhop/internal/games/skyhop/sim"
	"github.com/vovakirdan/skyhop/internal/registry"
	"github.com/vovakirdan/skyhop/internal/storage"
)

// Deps is what a session needs from the outside. Any field may be zero.
type Deps struct {
	Store   *storage.Store  // score table
	Profile sim.Persistence // saved runs and player progress
	Config  config.SkyhopConfig
	Effects skyhop.Effects // extra effect sinks, such as the live feed
	Logger  *log.Logger
}

func (d Deps) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}

// createGame builds a registered mode.
func createGame(id string) (*skyhop.Game, error) {
	g, err := registry.Create(id)
	if err != nil {
		return nil, err
	}
	game, ok := g.(*skyhop.Game)
	if !ok {
		return nil, fmt.Errorf("tui: %q is not a skyhop mode", id)
	}
	return game, nil
}

// GameModel drives one mode: ticks, charge input, saving and back-to-menu.
type GameModel struct {
	game      *skyhop.Game
	screen    *core.Screen
	deps      Deps
	logger    *log.Logger
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	input     *chargeInput
	pending   core.InputFrame
	gameState core.GameState

	pausedAt    time.Time
	lastTick    time.Time // wall-clock time of the previous tick
	wasGrounded bool
	quitting    bool
	backToMenu  bool
	standalone  bool // back quits instead of returning to a menu
}

// NewGameModel creates a model for a mode. With resume set the saved run
// is continued when there is one; otherwise a saved run is settled and a
// new climb starts.
func NewGameModel(modeID string, deps Deps, cfg core.RuntimeConfig, resume bool) (GameModel, error) {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	game, err := createGame(modeID)
	if err != nil {
		return GameModel{}, err
	}
	logger := deps.logger()

	game.Configure(deps.Config)
	game.Attach(deps.Profile, deps.Effects, logger)
	game.Reset(cfg)
	switch {
	case resume && game.Continue():
		logger.Info("continuing saved run", "mode", modeID, "height", game.Sim().Best)
	case resume:
		logger.Info("no saved run, starting a new climb", "mode", modeID)
	default:
		game.NewRun()
	}

	return GameModel{
		game:        game,
		screen:      core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		deps:        deps,
		logger:      logger,
		config:      cfg,
		keyMapper:   NewKeyMapper(),
		input:       newChargeInput(),
		pending:     core.NewInputFrame(),
		gameState:   game.State(),
		wasGrounded: game.Sim().Actor.Grounded,
	}, nil
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg, time.Now())
	case tea.WindowSizeMsg:
		// The world has a fixed width, so a resize only rescales the view.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick(time.Time(msg))
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, quit := m.keyMapper.MapKey(msg)
	if quit {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch {
	case IsCharge(action):
		if !m.gameState.Paused {
			m.input.Key(action, now)
		}
	case action == core.ActionDown:
		if !m.gameState.Paused && m.input.Key(action, now) {
			m.input.Abort(m.game.Sim().Actor.Grounded, now)
			m.pending.Set(core.ActionDown)
		}
	case action == core.ActionBack:
		if _, modal := m.game.Modal(); modal {
			m.pending.Set(core.ActionBack)
			break
		}
		if !m.gameState.Paused {
			m.pending.Set(core.ActionPause)
			break
		}
		m.leave()
		m.backToMenu = true
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
	case action == core.ActionRestart:
		m.restart()
	case action != core.ActionNone:
		m.pending.Set(action)
	}
	return m, nil
}

// handleTick runs one simulation step with the input gathered since the
// last tick.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	frameMs := m.config.FrameMs()
	if !m.lastTick.IsZero() {
		frameMs = float64(now.Sub(m.lastTick)) / float64(time.Millisecond)
	}
	m.lastTick = now

	frame := m.pending.Clone()
	m.input.Fill(&frame, now)
	result := m.game.StepFrame(frame, frameMs)
	m.input.EndTick()
	m.pending.Clear()
	m.gameState = result.State

	// Paused time, modals included, must not count as charge.
	switch {
	case m.gameState.Paused && m.pausedAt.IsZero():
		m.pausedAt = now
	case !m.gameState.Paused && !m.pausedAt.IsZero():
		m.input.Compensate(now.Sub(m.pausedAt))
		m.pausedAt = time.Time{}
	}

	grounded := m.game.Sim().Actor.Grounded
	if grounded && !m.wasGrounded {
		m.input.Rearm(now)
	}
	m.wasGrounded = grounded

	return m, tickCmd(m.config.TickRate)
}

// leave saves the run so it can be continued, and records its height.
func (m *GameModel) leave() {
	if err := m.game.Save(); err != nil {
		m.logger.Warn("could not save run", "mode", m.game.ID(), "err", err)
	}
	s := m.game.Sim()
	m.saveScore(s.Best, s.RunID)
}

// restart ends the current run and starts a new one.
func (m *GameModel) restart() {
	res := m.game.EndRun()
	m.saveScore(res.Height, res.RunID)
	m.logger.Info("run ended",
		"mode", res.Mode,
		"character", res.Character,
		"height", res.Height,
		"drops", res.Collected,
		"record", res.Record,
	)
	m.game.NewRun()
	m.input.Reset()
	m.pending.Clear()
	m.pausedAt = time.Time{}
	m.gameState = m.game.State()
	m.wasGrounded = m.game.Sim().Actor.Grounded
}

func (m *GameModel) saveScore(height int, runID string) {
	if m.deps.Store == nil || height <= 0 {
		return
	}
	if _, err := m.deps.Store.SaveScore(m.game.ID(), height, runID); err != nil {
		m.logger.Warn("could not save score", "mode", m.game.ID(), "err", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	dir := config.HomeDir()
	if dir == "" {
		return
	}
	dir = filepath.Join(dir, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "err", err)
		return
	}

	m.screen.Clear()
	m.game.Render(m.screen)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// BackToMenu reports whether the player left for the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting reports whether the player quit.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// Game exposes the running mode.
func (m GameModel) Game() *skyhop.Game {
	return m.game
}

// Run plays a single mode in the local terminal until the player quits.
func Run(modeID string, deps Deps, cfg core.RuntimeConfig, resume bool) error {
	model, err := NewGameModel(modeID, deps, cfg, resume)
	if err != nil {
		return err
	}
	model.standalone = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
