package sim

import (
	"math"

	"github.com/vovakirdan/skyhop/internal/config"
)

const (
	forecastSteps  = 100
	forecastMargin = 100 // stop this far below the view
	forecastNear   = 50  // platforms farther than this vertically are skipped
	forecastAbove  = 10  // landing band above a platform top
)

// TrajectoryPoint is one sample of a predicted path, in world coordinates
// of the actor centre.
type TrajectoryPoint struct {
	X, Y    float64
	Bounce  bool // wall contact
	Landing bool // first platform hit
}

// Trajectory is the predicted path of a hypothetical release.
type Trajectory struct {
	Points []TrajectoryPoint
	Landed bool
}

// Landing returns the landing point, if the path hits a platform.
func (t Trajectory) Landing() (TrajectoryPoint, bool) {
	if !t.Landed || len(t.Points) == 0 {
		return TrajectoryPoint{}, false
	}
	return t.Points[len(t.Points)-1], true
}

// Forecast predicts the path of a jump released now after heldMs in the
// given direction. It steps the same physics as a real jump one nominal
// frame at a time, bullet time included, predicting wall bounces and the
// first platform hit. Returns an empty trajectory when the actor could not
// jump.
func Forecast(a *Actor, direction int, heldMs float64, w *World, cfg config.SkyhopConfig) Trajectory {
	if !a.CanJump() || heldMs <= 0 {
		return Trajectory{}
	}

	stats := a.Stats()
	power := ChargeToPower(heldMs, stats.ChargeSpeed, cfg.Player.MinJumpPower, stats.JumpForce, cfg.Player.MaxCharge)
	vx, vy := ResolveJump(direction, power, stats, cfg.Player)
	x, y := a.Center()

	half := a.W / 2
	width := w.Width()
	floor := w.CameraY() + cfg.World.ViewHeight + forecastMargin
	gravity := a.GravityMultiplier()

	// A mid-air release is the bullet time re-jump, which ends bullet time
	// after its launch frame.
	bullet, bulletMs := a.BulletTime, a.BulletTimeMs
	rejump := !a.Grounded

	t := Trajectory{Points: make([]TrajectoryPoint, 0, forecastSteps)}
	for i := range forecastSteps {
		t.Points = append(t.Points, TrajectoryPoint{X: x, Y: y})

		dt := 1.0
		if bullet {
			dt = bulletTimeScale
			bulletMs -= msFor(dt)
			if bulletMs <= 0 {
				bullet = false
			}
		}
		if i == 0 {
			// The launch frame sets the velocity after friction.
			if rejump {
				bullet = false
			}
		} else {
			vx = Friction(vx, SurfaceNormal, false, cfg.Physics)
		}
		vy = Gravity(vy, gravity, dt, cfg.Physics)
		x += vx * dt
		y += vy * dt

		if x < half {
			x = half
			vx *= -cfg.Physics.WallBounce
			t.Points = append(t.Points, TrajectoryPoint{X: x, Y: y, Bounce: true})
		}
		if x > width-half {
			x = width - half
			vx *= -cfg.Physics.WallBounce
			t.Points = append(t.Points, TrajectoryPoint{X: x, Y: y, Bounce: true})
		}

		if y > floor {
			break
		}

		if vy > 0 && hitsPlatform(w, x, y) {
			t.Points = append(t.Points, TrajectoryPoint{X: x, Y: y, Landing: true})
			t.Landed = true
			break
		}
	}
	return t
}

func hitsPlatform(w *World, x, y float64) bool {
	for _, p := range w.Platforms {
		if !p.Active || math.Abs(p.Y-y) >= forecastNear {
			continue
		}
		if x > p.X && x < p.X+p.W && y > p.Y-forecastAbove && y < p.Y+p.H {
			return true
		}
	}
	return false
}
