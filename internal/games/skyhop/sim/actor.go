package sim

import (
	"fmt"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
)

// Landing band around a platform top, in pixels.
const (
	landAbove = 5
	landBelow = 10
)

// neverLanded seeds the landing timer so the first landing starts a combo of one.
const neverLanded = 1e9

// Actor is the player-controlled climber.
type Actor struct {
	X, Y   float64
	VX, VY float64
	W, H   float64

	Grounded bool
	Facing   int // -1 left, 1 right
	Surface  SurfaceKind
	Combo    int

	// PowerUps holds the remaining duration in ms of each active power-up.
	PowerUps     map[PowerUpKind]float64
	BulletTime   bool
	BulletTimeMs float64

	sinceLandMs   float64
	hasLanded     bool
	jumpCancelled bool

	stats config.Stats
	cfg   config.SkyhopConfig
}

// NewActor creates an airborne actor at (x, y).
func NewActor(cfg config.SkyhopConfig, stats config.Stats, x, y float64) *Actor {
	return &Actor{
		X:           x,
		Y:           y,
		W:           cfg.Player.Size,
		H:           cfg.Player.Size,
		Facing:      1,
		PowerUps:    make(map[PowerUpKind]float64),
		sinceLandMs: neverLanded,
		stats:       stats,
		cfg:         cfg,
	}
}

// Stats returns the character stats driving the actor.
func (a *Actor) Stats() config.Stats {
	return a.stats
}

// Rect returns the actor bounds.
func (a *Actor) Rect() core.RectF {
	return core.NewRectF(a.X, a.Y, a.W, a.H)
}

// Center returns the centre of the actor.
func (a *Actor) Center() (float64, float64) {
	return a.X + a.W/2, a.Y + a.H/2
}

// HasPowerUp reports whether a power-up is active.
func (a *Actor) HasPowerUp(kind PowerUpKind) bool {
	return a.PowerUps[kind] > 0
}

// ApplyPowerUp activates a power-up for durationMs, replacing any remaining
// time. The time power-up also grants bullet time for its duration.
func (a *Actor) ApplyPowerUp(kind PowerUpKind, durationMs float64) {
	if kind == PowerUpNone || durationMs <= 0 {
		return
	}
	a.PowerUps[kind] = durationMs
	if kind == PowerUpTime {
		a.BulletTime = true
		a.BulletTimeMs = max(a.BulletTimeMs, durationMs)
	}
}

// ConsumePowerUp removes a power-up, reporting whether it was active.
func (a *Actor) ConsumePowerUp(kind PowerUpKind) bool {
	if !a.HasPowerUp(kind) {
		return false
	}
	delete(a.PowerUps, kind)
	return true
}

// GravityMultiplier is the character gravity, reduced by boots.
func (a *Actor) GravityMultiplier() float64 {
	g := a.stats.Gravity
	if a.HasPowerUp(PowerUpBoots) {
		g *= a.cfg.PowerUps.BootsGravity
	}
	return g
}

// CanJump reports whether a release would launch a jump now.
func (a *Actor) CanJump() bool {
	return a.Grounded || a.BulletTime
}

// JumpCancelled reports whether the pending release has been cancelled.
func (a *Actor) JumpCancelled() bool {
	return a.jumpCancelled
}

// Charging returns the direction and hold time of the key currently being
// charged, if a release would launch a jump.
func (a *Actor) Charging(in core.InputFrame) (direction int, heldMs float64, ok bool) {
	if !a.CanJump() || (a.Grounded && a.jumpCancelled) {
		return 0, 0, false
	}
	switch {
	case in.Key(core.ActionLeft).Pressed:
		return -1, in.Key(core.ActionLeft).HeldMs(), true
	case in.Key(core.ActionRight).Pressed:
		return 1, in.Key(core.ActionRight).HeldMs(), true
	case in.Key(core.ActionUp).Pressed:
		return 0, in.Key(core.ActionUp).HeldMs(), true
	}
	return 0, 0, false
}

// released returns the direction key released this tick, straight up first.
func released(in core.InputFrame) (direction int, heldMs float64, ok bool) {
	switch {
	case in.Key(core.ActionUp).JustReleased:
		return 0, in.Key(core.ActionUp).HeldMs(), true
	case in.Key(core.ActionLeft).JustReleased:
		return -1, in.Key(core.ActionLeft).HeldMs(), true
	case in.Key(core.ActionRight).JustReleased:
		return 1, in.Key(core.ActionRight).HeldMs(), true
	}
	return 0, 0, false
}

// Update advances the actor by dt nominal frames: timers, jumping, drift,
// gravity, movement, walls, magnet and landing.
func (a *Actor) Update(in core.InputFrame, world *World, dt float64, ev *Events) {
	ms := msFor(dt)

	if in.Key(core.ActionLeft).Pressed {
		a.Facing = -1
	}
	if in.Key(core.ActionRight).Pressed {
		a.Facing = 1
	}

	a.tickTimers(ms)

	if a.Grounded {
		a.VX = Friction(a.VX, a.Surface, true, a.cfg.Physics)

		if in.Has(core.ActionDown) || in.Key(core.ActionDown).Pressed {
			a.jumpCancelled = true
		}
		if dir, held, ok := released(in); ok {
			if !a.jumpCancelled {
				a.jump(dir, held, ev)
			}
			a.jumpCancelled = false
		}
	} else {
		a.VX = Friction(a.VX, a.Surface, false, a.cfg.Physics)
		if !a.BulletTime {
			if in.Key(core.ActionLeft).Pressed {
				a.VX -= a.cfg.Physics.AirControl * dt
			} else if in.Key(core.ActionRight).Pressed {
				a.VX += a.cfg.Physics.AirControl * dt
			}
		} else if dir, held, ok := released(in); ok {
			// One mid-air re-jump, which ends bullet time early
			a.jump(dir, held, ev)
			a.BulletTime = false
			a.BulletTimeMs = 0
		}
	}

	if a.HasPowerUp(PowerUpJetpack) {
		a.VY = -a.cfg.PowerUps.JetpackVelocity
	} else {
		a.VY = Gravity(a.VY, a.GravityMultiplier(), dt, a.cfg.Physics)
	}
	a.VY = min(a.VY, a.cfg.Physics.TerminalVelocity)

	a.X += a.VX * dt
	a.Y += a.VY * dt
	a.bounceWalls(world.Width())

	if a.HasPowerUp(PowerUpMagnet) {
		cx, cy := a.Center()
		world.Attract(cx, cy, a.cfg.Pickups.MagnetRadius, a.cfg.Pickups.MagnetSpeed*dt)
	}

	a.Grounded = false
	a.land(world, ev)
}

func (a *Actor) tickTimers(ms float64) {
	a.sinceLandMs += ms
	for kind, remaining := range a.PowerUps {
		remaining -= ms
		if remaining <= 0 {
			delete(a.PowerUps, kind)
			continue
		}
		a.PowerUps[kind] = remaining
	}
	if a.BulletTime {
		a.BulletTimeMs -= ms
		if a.BulletTimeMs <= 0 {
			a.BulletTime = false
			a.BulletTimeMs = 0
		}
	}
}

func (a *Actor) bounceWalls(width float64) {
	if a.X < 0 {
		a.X = 0
		a.VX *= -a.cfg.Physics.WallBounce
	}
	if a.X+a.W > width {
		a.X = width - a.W
		a.VX *= -a.cfg.Physics.WallBounce
	}
}

func (a *Actor) jump(direction int, heldMs float64, ev *Events) {
	power := ChargeToPower(heldMs, a.stats.ChargeSpeed, a.cfg.Player.MinJumpPower, a.stats.JumpForce, a.cfg.Player.MaxCharge)
	a.VX, a.VY = ResolveJump(direction, power, a.stats, a.cfg.Player)
	if direction != 0 {
		a.Facing = direction
	}
	a.Grounded = false
	a.hasLanded = false

	ev.Particles(a.X+a.W/2, a.Y+a.H, core.ColorWhite, 10)
	ev.Sound(SoundJump)
}

// land resolves the first platform the actor is falling onto.
// Without contact the actor has left its platform, so the next landing
// counts for the combo again.
func (a *Actor) land(world *World, ev *Events) {
	if a.VY < 0 {
		a.hasLanded = false
		return
	}

	bottom := a.Y + a.H
	for _, p := range world.Platforms {
		if !p.Active {
			continue
		}
		if a.X >= p.X+p.W || a.X+a.W <= p.X {
			continue
		}
		if bottom <= p.Y-landAbove || bottom >= p.Y+p.H+landBelow {
			continue
		}

		a.Y = p.Y - a.H
		a.VY = 0
		a.Grounded = true

		if p.IsCheckpoint() {
			world.ReachCheckpoint(p, ev)
		}

		if !a.hasLanded {
			if a.sinceLandMs < a.cfg.Player.ComboWindowMs {
				a.Combo++
				if a.Combo > 1 {
					ev.FloatingText(fmt.Sprintf("%dx Combo!", a.Combo), a.X+a.W/2, a.Y-20, core.ColorYellow)
				}
			} else {
				a.Combo = 1
			}
			a.sinceLandMs = 0
			a.hasLanded = true
			ev.Sound(SoundLand)
		}

		switch p.Kind {
		case SurfaceBounce:
			a.VY = -a.cfg.Hazards.BounceVelocity
			a.Grounded = false
			a.hasLanded = false
			a.BulletTime = true
			a.BulletTimeMs = max(a.BulletTimeMs, a.cfg.Hazards.BounceBulletMs)
			a.Surface = SurfaceNormal
			ev.Sound(SoundBounce)
			ev.Particles(a.X+a.W/2, p.Y, core.ColorPink, 12)
		case SurfaceIce:
			a.Surface = SurfaceIce
		case SurfaceFragile:
			a.Surface = SurfaceNormal
			world.TriggerFragile(p)
		default:
			a.Surface = SurfaceNormal
		}
		return
	}
	a.hasLanded = false
}

// Respawn places the actor at rest at (x, y). The settling landing that
// follows counts as a fresh one.
func (a *Actor) Respawn(x, y float64) {
	a.X, a.Y = x, y
	a.VX, a.VY = 0, 0
	a.Grounded = true
	a.hasLanded = false
	a.jumpCancelled = false
}
