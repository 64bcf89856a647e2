// Package skyhop adapts the climbing simulation to the arcade platform:
// mode registration, persistence of runs and profile progress, effect
// dispatch and terminal rendering.
package skyhop

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
	"github.com/vovakirdan/skyhop/internal/games/skyhop/sim"
	"github.com/vovakirdan/skyhop/internal/registry"
)

// Mode ids registered with the arcade registry.
const (
	ModeExtreme  = "skyhop"
	ModeAssisted = "skyhop_assisted"
)

// Mode is a registered way to play: a difficulty preset under its own id,
// so scores and saved runs are kept apart.
type Mode struct {
	ID     string
	Title  string
	Preset config.DifficultyPreset
}

// Modes lists the playable modes.
func Modes() []Mode {
	return []Mode{
		{ID: ModeExtreme, Title: "Skyhop", Preset: config.DifficultyExtreme},
		{ID: ModeAssisted, Title: "Skyhop (assisted)", Preset: config.DifficultyAssisted},
	}
}

// ModeFor returns the mode of a preset.
func ModeFor(preset config.DifficultyPreset) Mode {
	for _, m := range Modes() {
		if m.Preset == preset {
			return m
		}
	}
	return Modes()[0]
}

func init() {
	for _, m := range Modes() {
		registry.Register(m.ID, m.Title, func() registry.Game {
			return New(m)
		})
	}
}

// RunResult summarizes a finished run.
type RunResult struct {
	RunID     string
	Mode      string
	Character string
	Height    int // best height of the run, meters
	Collected int
	Won       bool
	Record    bool // beat the stored record of the mode
}

// Game runs one climb at a time for a mode.
type Game struct {
	mode Mode
	cfg  config.SkyhopConfig
	rt   core.RuntimeConfig
	seed int64

	sim     *sim.Simulation
	char    config.Character
	input   core.InputFrame
	paused  bool
	ended   bool
	lastRun RunResult

	store   sim.Persistence
	profile *Profile
	effects Effects
	overlay *overlay
	logger  *log.Logger

	sinceSaveMs float64
}

// New creates a game for a mode with the built-in configuration.
func New(mode Mode) *Game {
	g := &Game{
		mode:    mode,
		rt:      core.DefaultConfig(),
		overlay: newOverlay(1),
		logger:  log.New(io.Discard),
	}
	g.Configure(config.DefaultSkyhopConfig())
	g.startRun()
	return g
}

// ID returns the mode id.
func (g *Game) ID() string {
	return g.mode.ID
}

// Title returns the display name of the mode.
func (g *Game) Title() string {
	return g.mode.Title
}

// Mode returns the mode the game was created for.
func (g *Game) Mode() Mode {
	return g.mode
}

// Configure replaces the game configuration. The mode's preset is applied
// on top. Takes effect from the next run.
func (g *Game) Configure(cfg config.SkyhopConfig) {
	config.ApplyPreset(&cfg, g.mode.Preset)
	g.cfg = cfg
	if g.store != nil {
		g.profile = NewProfile(g.store, cfg)
	}
}

// Config returns the active configuration.
func (g *Game) Config() config.SkyhopConfig {
	return g.cfg
}

// Attach wires persistence, external effects and logging. Any of them may
// be nil.
func (g *Game) Attach(store sim.Persistence, effects Effects, logger *log.Logger) {
	g.store = store
	g.profile = nil
	if store != nil {
		g.profile = NewProfile(store, g.cfg)
	}
	g.effects = effects
	if logger != nil {
		g.logger = logger
	}
}

// Profile returns the attached profile, nil without persistence.
func (g *Game) Profile() *Profile {
	return g.profile
}

// Reset starts a fresh run. Storage is not touched; use Continue to resume
// a saved run or NewRun to abandon it.
func (g *Game) Reset(rt core.RuntimeConfig) {
	g.rt = rt
	g.seed = rt.Seed
	g.overlay = newOverlay(rt.Seed)
	g.startRun()
}

func (g *Game) startRun() {
	g.char = g.equipped()
	g.sim = sim.NewSimulation(g.cfg, g.char.Stats, g.seed)
	g.sim.RunID = uuid.NewString()
	g.afterStart()
}

func (g *Game) afterStart() {
	g.overlay.reset()
	g.input = core.NewInputFrame()
	g.paused = false
	g.ended = false
	g.sinceSaveMs = 0
}

func (g *Game) equipped() config.Character {
	if g.profile != nil {
		return g.profile.Equipped()
	}
	return g.cfg.Character("")
}

// SavedRun returns the readable saved run of a mode, if any.
func SavedRun(store sim.Persistence, mode Mode) (sim.RunSnapshot, bool) {
	if store == nil {
		return sim.RunSnapshot{}, false
	}
	snap, err := sim.LoadRun(store, sim.StateKey(string(mode.Preset)))
	return snap, err == nil
}

// HasSave reports whether a saved run exists for the mode.
func (g *Game) HasSave() bool {
	if g.store == nil {
		return false
	}
	blob, ok, err := g.store.LoadState(g.stateKey())
	return err == nil && ok && len(blob) > 0
}

// Continue resumes the saved run of the mode. An unreadable save is
// discarded and reported as missing.
func (g *Game) Continue() bool {
	if g.store == nil {
		return false
	}
	snap, err := sim.LoadRun(g.store, g.stateKey())
	if errors.Is(err, sim.ErrNoSnapshot) {
		return false
	}
	if err != nil {
		g.discardSave(err)
		return false
	}

	char := g.equipped()
	s, err := sim.RestoreSimulation(g.cfg, char.Stats, g.seed, snap)
	if err != nil {
		g.discardSave(err)
		return false
	}
	if s.RunID == "" {
		s.RunID = uuid.NewString()
	}
	g.char = char
	g.sim = s
	g.afterStart()
	return true
}

func (g *Game) discardSave(cause error) {
	g.logger.Warn("discarding saved run", "mode", g.mode.ID, "err", cause)
	if err := g.store.RemoveState(g.stateKey()); err != nil {
		g.logger.Warn("remove saved run", "mode", g.mode.ID, "err", err)
	}
}

// NewRun abandons any saved run, banking its drops, and starts a fresh one.
func (g *Game) NewRun() {
	g.settleSave()
	g.seed++
	g.startRun()
}

func (g *Game) settleSave() {
	if g.store == nil {
		return
	}
	snap, err := sim.LoadRun(g.store, g.stateKey())
	switch {
	case errors.Is(err, sim.ErrNoSnapshot):
		return
	case err == nil && g.profile != nil:
		if err := g.profile.Deposit(snap.CollectedCount); err != nil {
			g.logger.Warn("bank drops of saved run", "err", err)
		}
		if _, err := g.profile.SubmitHeight(g.mode.Preset, snap.Best); err != nil {
			g.logger.Warn("record height of saved run", "err", err)
		}
	}
	if err := g.store.RemoveState(g.stateKey()); err != nil {
		g.logger.Warn("remove saved run", "mode", g.mode.ID, "err", err)
	}
}

// EndRun closes the current run: drops are banked, the record updated and
// the save removed. Calling it again returns the same result.
func (g *Game) EndRun() RunResult {
	if g.ended {
		return g.lastRun
	}
	g.ended = true

	res := RunResult{
		RunID:     g.sim.RunID,
		Mode:      g.mode.ID,
		Character: g.char.ID,
		Height:    g.sim.Best,
		Collected: g.sim.Collected,
		Won:       g.sim.Won,
	}
	if g.profile != nil {
		if err := g.profile.Deposit(res.Collected); err != nil {
			g.logger.Warn("bank drops", "err", err)
		}
		record, err := g.profile.SubmitHeight(g.mode.Preset, res.Height)
		if err != nil {
			g.logger.Warn("record height", "err", err)
		}
		res.Record = record
		if err := g.store.RemoveState(g.stateKey()); err != nil {
			g.logger.Warn("remove saved run", "mode", g.mode.ID, "err", err)
		}
	}
	g.lastRun = res
	return res
}

// Save writes the run snapshot and raises the record if needed.
func (g *Game) Save() error {
	if g.store == nil || g.ended {
		return nil
	}
	snap := g.sim.Snapshot()
	snap.Timestamp = time.Now().Unix()
	if err := sim.SaveRun(g.store, g.stateKey(), snap); err != nil {
		return err
	}
	if g.profile != nil {
		if _, err := g.profile.SubmitHeight(g.mode.Preset, g.sim.Best); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) stateKey() string {
	return sim.StateKey(string(g.mode.Preset))
}

// Step advances the run by one nominal tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	return g.StepFrame(in, g.rt.FrameMs())
}

// StepFrame advances the run by a frame that took frameMs of wall-clock
// time; the simulation clamps it. Pause and open modals freeze the
// simulation; Confirm or Back dismisses a modal.
func (g *Game) StepFrame(in core.InputFrame, frameMs float64) core.StepResult {
	g.input = in

	if _, ok := g.overlay.modal(); ok {
		if in.Has(core.ActionConfirm) || in.Has(core.ActionBack) {
			g.overlay.dismiss()
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused || g.ended {
		return core.StepResult{State: g.State()}
	}

	events := g.sim.Tick(in, frameMs)
	events = g.introducePowerUps(events)
	Dispatch(events, g.sinks(), g.logger)

	g.overlay.update(sim.ClampDelta(frameMs))
	wc := g.cfg.World
	g.overlay.ambient(BiomeAt(g.sim.Height()), g.sim.Camera.Y, wc.Width, wc.ViewHeight)

	g.autosave(sim.ClampDelta(frameMs) * sim.FrameMs)
	return core.StepResult{State: g.State()}
}

// introducePowerUps appends an explanatory modal for the first pickup of
// each power-up kind in the profile.
func (g *Game) introducePowerUps(events []sim.Event) []sim.Event {
	if g.profile == nil {
		return events
	}
	for _, ev := range events {
		if ev.Kind != sim.EventPowerUp {
			continue
		}
		info := ev.PowerUp.Info()
		if g.profile.SeenPowerUp(info.ID) {
			continue
		}
		if err := g.profile.MarkSeen(info.ID); err != nil {
			g.logger.Warn("mark power-up seen", "powerup", info.ID, "err", err)
		}
		events = append(events, sim.Event{Kind: sim.EventModal, Text: info.Name, Body: info.Description})
	}
	return events
}

func (g *Game) sinks() Effects {
	if g.effects == nil {
		return g.overlay
	}
	return MultiEffects{g.overlay, g.effects}
}

func (g *Game) autosave(frameMs float64) {
	if g.store == nil || g.cfg.AutosaveSeconds <= 0 {
		return
	}
	g.sinceSaveMs += frameMs
	if g.sinceSaveMs < g.cfg.AutosaveSeconds*1000 {
		return
	}
	g.sinceSaveMs = 0
	if err := g.Save(); err != nil {
		g.logger.Warn("autosave failed", "mode", g.mode.ID, "err", err)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	_, modal := g.overlay.modal()
	return core.GameState{
		Score:  g.sim.Height(),
		Best:   g.sim.Best,
		Paused: g.paused || modal,
		Won:    g.sim.Won,
	}
}

// Sim exposes the running simulation.
func (g *Game) Sim() *sim.Simulation {
	return g.sim
}

// Character returns the character of the current run.
func (g *Game) Character() config.Character {
	return g.char
}

// Modal returns the modal currently blocking the run.
func (g *Game) Modal() (Modal, bool) {
	return g.overlay.modal()
}
