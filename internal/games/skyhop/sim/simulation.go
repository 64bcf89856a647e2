package sim

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
)

// actorStartLift is how far above the bottom of the view a fresh actor spawns.
const actorStartLift = 300

// Simulation runs one climb: input, actor, camera, world, pickups, falls
// and the derived height, in that order, once per tick.
type Simulation struct {
	Actor  *Actor
	World  *World
	Camera Camera

	Collected int    // currency gathered this run
	Best      int    // best height this run, in meters
	Won       bool   // victory height reached
	RunID     string // assigned by the owner of the run

	cfg        config.SkyhopConfig
	stats      config.Stats
	events     Events
	lastHeight int
}

// NewSimulation starts a fresh run on the ground checkpoint.
func NewSimulation(cfg config.SkyhopConfig, stats config.Stats, seed int64) *Simulation {
	rng := rand.New(rand.NewSource(seed))
	w := NewWorld(cfg, rng, 0)
	a := NewActor(cfg, stats,
		cfg.World.Width/2-cfg.Player.Size/2,
		cfg.World.ViewHeight-actorStartLift)
	s := newSimulation(cfg, stats, w, a)
	s.lastHeight = s.Height()
	s.Best = s.lastHeight
	return s
}

func newSimulation(cfg config.SkyhopConfig, stats config.Stats, w *World, a *Actor) *Simulation {
	return &Simulation{
		Actor:  a,
		World:  w,
		Camera: NewCamera(cfg.World),
		cfg:    cfg,
		stats:  stats,
	}
}

// Config returns the configuration the run was built with.
func (s *Simulation) Config() config.SkyhopConfig {
	return s.cfg
}

// Height returns the current height in meters.
func (s *Simulation) Height() int {
	return HeightMeters(s.cfg.World.ViewHeight, s.Actor.Y, s.Actor.H)
}

// Tick advances the run by one frame of frameMs wall-clock milliseconds and
// returns the events it produced. Bullet time halves the step.
func (s *Simulation) Tick(in core.InputFrame, frameMs float64) []Event {
	dt := ClampDelta(frameMs)
	if s.Actor.BulletTime {
		dt *= bulletTimeScale
	}

	if in.Has(core.ActionRegenerate) && s.OnCheckpoint() {
		s.regenerate()
	}

	s.Actor.Update(in, s.World, dt, &s.events)
	s.followCamera(dt)
	s.World.Update(s.Camera.Y, dt, &s.events)
	s.collect()
	s.checkFall()
	s.trackHeight()

	return s.events.Drain()
}

// OnCheckpoint reports whether the actor stands on the reference
// checkpoint, the only place a manual rebuild is offered.
func (s *Simulation) OnCheckpoint() bool {
	a := s.Actor
	if !a.Grounded {
		return false
	}
	cp := s.World.Checkpoint()
	return math.Abs(a.Y+a.H-cp.Y) < 1 && a.X < cp.X+cp.W && a.X+a.W > cp.X
}

// Regenerate rebuilds the path above the reference checkpoint on request.
func (s *Simulation) Regenerate() []Event {
	s.regenerate()
	return s.events.Drain()
}

func (s *Simulation) regenerate() {
	s.World.Regenerate(s.Camera.Y, &s.events)
	s.events.Sound(SoundRegenerate)
	s.events.Modal("World rebuilt", "The path upward has been renewed.")
}

func (s *Simulation) collect() {
	a := s.Actor
	for _, c := range s.World.Collect(a.Rect()) {
		cx, cy := c.X+c.W/2, c.Y+c.H/2
		if c.Kind == CollectCurrency {
			mult := 1
			if a.HasPowerUp(PowerUpMulti) {
				mult = 2
			}
			amount := max(1, max(a.Combo, 1)*mult)
			s.Collected += amount
			s.events.Collect(amount, cx, cy)
			s.events.Sound(SoundCollect)
			s.events.Particles(cx, cy, core.ColorWater, 6)
			continue
		}

		a.ApplyPowerUp(c.PowerUp, c.PowerUp.Duration(s.cfg.PowerUps))
		s.events.PowerUp(c.PowerUp, cx, cy)
		s.events.Sound(SoundPowerUp)
		s.events.Particles(cx, cy, c.PowerUp.Info().Color, 12)
	}
}

// checkFall recovers an actor that dropped below the view: the shield turns
// the fall into a rescue impulse, otherwise the actor respawns on the
// reference checkpoint and the path is rebuilt once.
func (s *Simulation) checkFall() {
	a := s.Actor
	if a.Y <= s.Camera.Bottom()+s.cfg.World.FallMargin {
		return
	}

	if a.ConsumePowerUp(PowerUpShield) {
		a.Y = s.Camera.Bottom() - a.H
		a.VX = 0
		a.VY = -s.cfg.PowerUps.ShieldRescueVelocity
		a.Grounded = false
		s.events.Sound(SoundShield)
		s.events.FloatingText("SHIELD!", a.X+a.W/2, a.Y, core.ColorCyan)
		s.events.Particles(a.X+a.W/2, a.Y+a.H, core.ColorCyan, 20)
		return
	}

	cp := s.World.Checkpoint()
	a.Respawn(cp.X+cp.W/2-a.W/2, cp.Y-a.H-s.cfg.World.RespawnLift)
	s.Camera.SnapTo(a.Y)
	s.regenerate()
}

// followCamera keeps the reference checkpoint as the lowest line the camera
// will scroll to.
func (s *Simulation) followCamera(dt float64) {
	cp := s.World.Checkpoint()
	s.Camera.SetFloor(cp.Y + cp.H)
	s.Camera.Follow(s.Actor.Y, dt)
}

func (s *Simulation) trackHeight() {
	h := s.Height()
	if h != s.lastHeight {
		s.lastHeight = h
		s.events.Score(h)
	}
	s.Best = max(s.Best, h)

	if !s.Won && h >= s.cfg.VictoryHeight {
		s.Won = true
		s.events.Victory(h)
		s.events.Sound(SoundVictory)
		s.events.Modal("Victory!", "You reached the summit.")
	}
}
