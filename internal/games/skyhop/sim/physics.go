// Package sim is the skyhop simulation: charge-jump physics, the actor
// controller, the procedural world with its checkpoints, and the trajectory
// forecaster. It has no knowledge of terminals, storage or audio; everything
// observable leaves a tick as an Event.
package sim

import (
	"math"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
)

// Nominal frame timing. Velocities are expressed per nominal frame and dt is
// measured in nominal frames.
const (
	NominalFrameMs = 16.66
	FrameMs        = 1000.0 / 60
	MinDelta       = 0.1
	MaxDelta       = 2.0

	chargeExponent  = 0.8
	pixelsPerMeter  = 10.0
	bulletTimeScale = 0.5
)

// ClampDelta converts a frame duration in milliseconds to a delta in
// nominal frames, bounded so a hitch cannot blow up the physics.
func ClampDelta(frameMs float64) float64 {
	if math.IsNaN(frameMs) {
		return 1
	}
	return core.ClampF(frameMs/NominalFrameMs, MinDelta, MaxDelta)
}

// Gravity integrates gravity into a vertical velocity, clamped to the
// terminal velocity.
func Gravity(vy, mult, dt float64, cfg config.PhysicsConfig) float64 {
	return min(vy+cfg.Gravity*mult*dt, cfg.TerminalVelocity)
}

// Friction applies surface friction when grounded and air resistance
// otherwise.
func Friction(vx float64, surface SurfaceKind, grounded bool, cfg config.PhysicsConfig) float64 {
	if !grounded {
		return vx * cfg.AirResistance
	}
	if surface == SurfaceIce {
		return vx * cfg.IceFriction
	}
	return vx * cfg.Friction
}

// ChargeRatio converts a hold duration into a normalized charge in [0, 1].
func ChargeRatio(heldMs, chargeSpeed, maxCharge float64) float64 {
	if maxCharge <= 0 {
		return 0
	}
	return core.ClampF(heldMs*chargeSpeed, 0, maxCharge) / maxCharge
}

// ChargeToPower maps a hold duration to jump power. The exponent below one
// front-loads the curve so short taps already produce useful jumps.
func ChargeToPower(heldMs, chargeSpeed, minPower, maxPower, maxCharge float64) float64 {
	charge := ChargeRatio(heldMs, chargeSpeed, maxCharge)
	return minPower + (maxPower-minPower)*math.Pow(charge, chargeExponent)
}

// ResolveJump turns a jump power into launch velocities. direction is -1,
// 0 or 1; straight jumps get the vertical boost instead of a horizontal
// component.
func ResolveJump(direction int, power float64, stats config.Stats, cfg config.PlayerConfig) (vx, vy float64) {
	if direction != 0 {
		return float64(direction) * power * stats.JumpAngleX, -power * cfg.JumpYRatio
	}
	return 0, -power * cfg.VerticalBoost
}

// HeightMeters derives the displayed height from the actor position.
func HeightMeters(viewHeight, actorY, actorHeight float64) int {
	return max(0, int(math.Floor((viewHeight-actorY-actorHeight)/pixelsPerMeter)))
}

// msFor converts a delta in nominal frames to milliseconds.
func msFor(dt float64) float64 {
	return dt * FrameMs
}
