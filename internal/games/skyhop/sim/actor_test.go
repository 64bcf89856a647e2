package sim

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
)

// testWorld builds a world holding exactly the given platforms, with the
// frontier pushed far away so nothing gets generated.
func testWorld(cfg config.SkyhopConfig, platforms ...*Platform) *World {
	w := newEmptyWorld(cfg, rand.New(rand.NewSource(1)))
	w.Platforms = platforms
	w.highestPoint = -1e9
	w.nextCheckpoint = 1 << 30
	for _, p := range platforms {
		if p.IsCheckpoint() && (w.checkpoint == nil || p.Y > w.checkpoint.Y) {
			w.checkpoint = p
		}
	}
	return w
}

func slab(id string, kind SurfaceKind, x, y, width float64) *Platform {
	return &Platform{ID: id, X: x, Y: y, W: width, H: 20, Kind: kind, Active: true}
}

func release(a core.Action, held time.Duration) core.InputFrame {
	in := core.NewInputFrame()
	in.SetKey(a, core.KeyState{JustReleased: true, Held: held})
	return in
}

func hold(a core.Action, held time.Duration) core.InputFrame {
	in := core.NewInputFrame()
	in.SetKey(a, core.KeyState{Pressed: true, Held: held})
	return in
}

func standingActor(cfg config.SkyhopConfig, p *Platform) *Actor {
	a := NewActor(cfg, frog, p.X+p.W/2-cfg.Player.Size/2, p.Y-cfg.Player.Size)
	a.Grounded = true
	a.hasLanded = true
	return a
}

func TestActorStraightJump(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	p := slab("p_1", SurfaceNormal, 100, 500, 160)
	w := testWorld(cfg, p)
	a := standingActor(cfg, p)

	var ev Events
	a.Update(release(core.ActionUp, 500*time.Millisecond), w, 1, &ev)

	power := 8 + (18.5-8)*math.Pow(0.5, 0.8)
	wantVY := -power*1.2 + cfg.Physics.Gravity
	if math.Abs(a.VY-wantVY) > eps {
		t.Errorf("VY = %v, expected %v", a.VY, wantVY)
	}
	if a.VX != 0 {
		t.Errorf("VX = %v, expected 0", a.VX)
	}
	if a.Grounded {
		t.Error("actor should be airborne after jumping")
	}
	if a.Y >= p.Y-a.H {
		t.Errorf("actor did not move up, Y = %v", a.Y)
	}
}

func TestActorSideJump(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	p := slab("p_1", SurfaceNormal, 100, 500, 160)
	w := testWorld(cfg, p)
	a := standingActor(cfg, p)

	var ev Events
	a.Update(release(core.ActionLeft, time.Second), w, 1, &ev)

	if math.Abs(a.VX-(-18.5*0.6)) > eps {
		t.Errorf("VX = %v, expected %v", a.VX, -18.5*0.6)
	}
	if a.Facing != -1 {
		t.Errorf("Facing = %d, expected -1", a.Facing)
	}
}

func TestActorJumpCancel(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	p := slab("p_1", SurfaceNormal, 100, 500, 160)
	w := testWorld(cfg, p)
	a := standingActor(cfg, p)
	var ev Events

	in := hold(core.ActionUp, 300*time.Millisecond)
	in.Set(core.ActionDown)
	a.Update(in, w, 1, &ev)
	if !a.JumpCancelled() {
		t.Fatal("down during a charge should cancel the jump")
	}

	a.Update(release(core.ActionUp, 400*time.Millisecond), w, 1, &ev)
	if !a.Grounded || a.VY != 0 {
		t.Errorf("cancelled release should not jump: grounded=%v vy=%v", a.Grounded, a.VY)
	}
	if a.JumpCancelled() {
		t.Error("cancel should clear on release")
	}

	a.Update(release(core.ActionUp, 400*time.Millisecond), w, 1, &ev)
	if a.Grounded {
		t.Error("next release should jump again")
	}
}

func TestActorCombo(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	p := slab("p_1", SurfaceNormal, 100, 500, 160)
	w := testWorld(cfg, p)
	a := standingActor(cfg, p)
	a.Combo = 1
	a.sinceLandMs = 0
	var ev Events

	a.Update(release(core.ActionUp, 0), w, 1, &ev)
	empty := core.NewInputFrame()
	for i := 0; i < 200 && !a.Grounded; i++ {
		a.Update(empty, w, 1, &ev)
	}
	if !a.Grounded {
		t.Fatal("actor never landed")
	}
	if a.Combo != 2 {
		t.Errorf("Combo = %d, expected 2", a.Combo)
	}

	found := false
	for _, e := range ev.Drain() {
		if e.Kind == EventFloatingText && e.Text == "2x Combo!" {
			found = true
		}
	}
	if !found {
		t.Error("expected a combo floating text")
	}
}

func TestActorComboResetsAfterWindow(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	p := slab("p_1", SurfaceNormal, 100, 500, 160)
	w := testWorld(cfg, p)
	a := NewActor(cfg, frog, 150, 300)
	a.Combo = 4

	var ev Events
	empty := core.NewInputFrame()
	for i := 0; i < 200 && !a.Grounded; i++ {
		a.Update(empty, w, 1, &ev)
	}
	if a.Combo != 1 {
		t.Errorf("Combo = %d, expected 1 after a long fall", a.Combo)
	}
}

func landSounds(events []Event) int {
	n := 0
	for _, e := range events {
		if e.Kind == EventSound && e.Sound == SoundLand {
			n++
		}
	}
	return n
}

func TestActorLandsAfterLeavingWithoutJump(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	empty := core.NewInputFrame()

	tests := []struct {
		name  string
		leave func(a *Actor, upper *Platform)
	}{
		{"walk off the edge", func(a *Actor, upper *Platform) {
			a.X = upper.X + upper.W + 2
		}},
		{"respawn", func(a *Actor, upper *Platform) {
			a.Respawn(a.X, a.Y)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upper := slab("p_1", SurfaceNormal, 0, 500, 100)
			lower := slab("p_2", SurfaceNormal, 0, 700, 360)
			w := testWorld(cfg, upper, lower)
			a := standingActor(cfg, upper)
			a.Combo = 3
			var ev Events

			a.Update(empty, w, 1, &ev)
			if n := landSounds(ev.Drain()); n != 0 {
				t.Fatalf("standing still landed %d times", n)
			}

			tt.leave(a, upper)
			for i := 0; i < 200; i++ {
				a.Update(empty, w, 1, &ev)
				if a.Grounded && a.VY == 0 && i > 0 {
					break
				}
			}
			if !a.Grounded {
				t.Fatal("actor never settled")
			}
			if n := landSounds(ev.Drain()); n != 1 {
				t.Errorf("landing sounds = %d, expected 1", n)
			}
			if a.Combo != 1 {
				t.Errorf("Combo = %d, expected a fresh combo after a long drop", a.Combo)
			}
		})
	}
}

func TestActorBounce(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	p := slab("p_1", SurfaceBounce, 100, 500, 160)
	w := testWorld(cfg, p)
	a := NewActor(cfg, frog, 150, p.Y-cfg.Player.Size-0.5)
	a.VY = 2

	var ev Events
	a.Update(core.NewInputFrame(), w, 1, &ev)

	if a.VY != -cfg.Hazards.BounceVelocity {
		t.Errorf("VY = %v, expected %v", a.VY, -cfg.Hazards.BounceVelocity)
	}
	if a.Grounded {
		t.Error("bounce should leave the actor airborne")
	}
	if !a.BulletTime || a.BulletTimeMs != cfg.Hazards.BounceBulletMs {
		t.Errorf("bullet time = %v/%v, expected true/%v", a.BulletTime, a.BulletTimeMs, cfg.Hazards.BounceBulletMs)
	}
}

func TestActorBulletTimeRejump(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	w := testWorld(cfg)
	a := NewActor(cfg, frog, 150, 200)
	a.BulletTime = true
	a.BulletTimeMs = 1000

	var ev Events
	a.Update(release(core.ActionUp, time.Second), w, 1, &ev)

	want := -18.5*1.2 + cfg.Physics.Gravity
	if math.Abs(a.VY-want) > eps {
		t.Errorf("VY = %v, expected %v", a.VY, want)
	}
	if a.BulletTime {
		t.Error("a mid-air jump should end bullet time")
	}

	// no second mid-air jump
	vy := a.VY
	a.Update(release(core.ActionUp, time.Second), w, 1, &ev)
	if math.Abs(a.VY-(vy+cfg.Physics.Gravity)) > eps {
		t.Errorf("VY = %v, expected plain gravity %v", a.VY, vy+cfg.Physics.Gravity)
	}
}

func TestActorAirControl(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	w := testWorld(cfg)
	a := NewActor(cfg, frog, 150, 200)

	var ev Events
	a.Update(hold(core.ActionRight, 100*time.Millisecond), w, 1, &ev)
	if math.Abs(a.VX-cfg.Physics.AirControl) > eps {
		t.Errorf("VX = %v, expected %v", a.VX, cfg.Physics.AirControl)
	}
}

func TestActorWallBounce(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	w := testWorld(cfg)
	a := NewActor(cfg, frog, 1, 200)
	a.VX = -10

	var ev Events
	a.Update(core.NewInputFrame(), w, 1, &ev)
	if a.X != 0 {
		t.Errorf("X = %v, expected 0", a.X)
	}
	if math.Abs(a.VX-4.95) > eps {
		t.Errorf("VX = %v, expected 4.95", a.VX)
	}

	a.X = w.Width() - a.W - 1
	a.VX = 10
	a.Update(core.NewInputFrame(), w, 1, &ev)
	if a.X+a.W != w.Width() {
		t.Errorf("right edge = %v, expected %v", a.X+a.W, w.Width())
	}
	if a.VX >= 0 {
		t.Errorf("VX = %v, expected reflected", a.VX)
	}
}

func TestActorPowerUps(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	w := testWorld(cfg)
	var ev Events

	a := NewActor(cfg, frog, 150, 200)
	a.ApplyPowerUp(PowerUpJetpack, 1000)
	a.Update(core.NewInputFrame(), w, 1, &ev)
	if a.VY != -cfg.PowerUps.JetpackVelocity {
		t.Errorf("jetpack VY = %v, expected %v", a.VY, -cfg.PowerUps.JetpackVelocity)
	}

	b := NewActor(cfg, frog, 150, 200)
	b.ApplyPowerUp(PowerUpBoots, 1000)
	if got := b.GravityMultiplier(); got != 0.5 {
		t.Errorf("boots gravity multiplier = %v, expected 0.5", got)
	}

	c := NewActor(cfg, frog, 150, 200)
	c.ApplyPowerUp(PowerUpTime, 1000)
	if !c.BulletTime {
		t.Error("time power-up should grant bullet time")
	}

	d := NewActor(cfg, frog, 150, 200)
	d.ApplyPowerUp(PowerUpMagnet, 20)
	d.Update(core.NewInputFrame(), w, 1, &ev)
	if !d.HasPowerUp(PowerUpMagnet) {
		t.Fatal("magnet expired too early")
	}
	d.Update(core.NewInputFrame(), w, 1, &ev)
	if d.HasPowerUp(PowerUpMagnet) {
		t.Error("magnet should expire after its duration")
	}

	if d.ConsumePowerUp(PowerUpShield) {
		t.Error("consuming an inactive power-up should report false")
	}
}

func TestActorLandsOnFragile(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	p := slab("p_1", SurfaceFragile, 100, 500, 160)
	w := testWorld(cfg, p)
	a := NewActor(cfg, frog, 150, p.Y-cfg.Player.Size-0.5)

	var ev Events
	a.Update(core.NewInputFrame(), w, 1, &ev)
	if !a.Grounded {
		t.Fatal("actor should land on the fragile platform")
	}
	if !p.Fragile.Triggered || p.Fragile.DelayMs != cfg.Hazards.FragileDelayMs {
		t.Errorf("fragile state = %+v, expected triggered with %v ms delay", p.Fragile, cfg.Hazards.FragileDelayMs)
	}
}

func TestActorIgnoresInactivePlatforms(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	p := slab("p_1", SurfaceNormal, 100, 500, 160)
	p.Active = false
	w := testWorld(cfg, p)
	a := NewActor(cfg, frog, 150, p.Y-cfg.Player.Size-0.5)

	var ev Events
	a.Update(core.NewInputFrame(), w, 1, &ev)
	if a.Grounded {
		t.Error("actor landed on an inactive platform")
	}
}

func TestActorCharging(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	p := slab("p_1", SurfaceNormal, 100, 500, 160)
	a := standingActor(cfg, p)

	dir, held, ok := a.Charging(hold(core.ActionRight, 250*time.Millisecond))
	if !ok || dir != 1 || held != 250 {
		t.Errorf("Charging = (%d, %v, %v), expected (1, 250, true)", dir, held, ok)
	}

	a.Grounded = false
	if _, _, ok := a.Charging(hold(core.ActionRight, 250*time.Millisecond)); ok {
		t.Error("airborne actor without bullet time cannot charge")
	}
}
