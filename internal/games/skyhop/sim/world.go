package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
)

// GroundID is the id of the ground checkpoint every run starts on.
const GroundID = "start"

const (
	// headroomScreens is how many view heights above the camera are kept generated.
	headroomScreens = 2
	// frontierStart is how far above the bottom of the view the frontier starts.
	frontierStart = 50
	// groundOffset is how far above the bottom of the view the ground sits.
	groundOffset = 20
	// maxGenerateSteps bounds a single generation pass.
	maxGenerateSteps = 4096
)

// World owns the platform and collectible sets and extends them upward.
type World struct {
	Platforms    []*Platform
	Collectibles []*Collectible

	highestPoint   float64 // y of the topmost generated platform
	nextCheckpoint int     // meters
	lastPowerUpY   float64
	checkpoint     *Platform
	cameraY        float64
	seq            int

	cfg  config.SkyhopConfig
	diff *config.DifficultyManager
	rng  *rand.Rand
}

// NewWorld creates a world with the ground checkpoint and generates enough
// platforms for the given camera position.
func NewWorld(cfg config.SkyhopConfig, rng *rand.Rand, cameraY float64) *World {
	w := newEmptyWorld(cfg, rng)
	ground := w.groundPlatform()
	w.Platforms = append(w.Platforms, ground)
	w.checkpoint = ground
	w.highestPoint = cfg.World.ViewHeight - frontierStart
	w.nextCheckpoint = cfg.Checkpoints.FirstAt
	w.lastPowerUpY = cfg.World.ViewHeight
	w.Generate(cameraY)
	return w
}

func newEmptyWorld(cfg config.SkyhopConfig, rng *rand.Rand) *World {
	return &World{
		cfg:  cfg,
		diff: config.NewDifficultyManager(cfg),
		rng:  rng,
	}
}

func (w *World) groundPlatform() *Platform {
	return &Platform{
		ID:     GroundID,
		X:      0,
		Y:      w.cfg.World.ViewHeight - groundOffset,
		W:      w.cfg.World.Width,
		H:      w.cfg.Checkpoints.Height,
		Kind:   SurfaceCheckpoint,
		Active: true,
	}
}

// Width returns the world width.
func (w *World) Width() float64 {
	return w.cfg.World.Width
}

// HighestPoint returns the generation frontier.
func (w *World) HighestPoint() float64 {
	return w.highestPoint
}

// NextCheckpointHeight returns the height in meters of the next checkpoint.
func (w *World) NextCheckpointHeight() int {
	return w.nextCheckpoint
}

// CameraY returns the camera position of the last generation pass.
func (w *World) CameraY() float64 {
	return w.cameraY
}

// metersAt converts a world y to meters above the ground line.
func (w *World) metersAt(y float64) int {
	return HeightMeters(w.cfg.World.ViewHeight, y, 0)
}

// Level returns the progression scalar at a world y.
func (w *World) Level(y float64) float64 {
	return w.diff.Level(w.metersAt(y))
}

// Generate extends the frontier until it is at least two view heights above
// the camera.
func (w *World) Generate(cameraY float64) {
	w.cameraY = cameraY
	limit := cameraY - headroomScreens*w.cfg.World.ViewHeight
	for i := 0; w.highestPoint > limit && i < maxGenerateSteps; i++ {
		w.step()
	}
}

func (w *World) step() {
	meters := w.metersAt(w.highestPoint)
	if meters >= w.nextCheckpoint {
		w.placeCheckpoint(meters)
		return
	}

	level := w.diff.Level(meters)
	y := w.highestPoint - w.diff.Gap(level, w.rng.Float64())
	width := w.diff.PlatformWidth(level, w.rng.Float64())
	x := core.ClampF(w.rng.Float64()*(w.cfg.World.Width-width), 0, max(0, w.cfg.World.Width-width))

	w.seq++
	p := &Platform{
		ID:     fmt.Sprintf("p_%d", w.seq),
		X:      x,
		Y:      y,
		W:      width,
		H:      w.cfg.World.PlatformHeight,
		Kind:   w.pickSurface(level),
		Active: true,
	}
	w.Platforms = append(w.Platforms, p)
	w.placePickup(p, level)
	w.highestPoint = y
}

func (w *World) placeCheckpoint(meters int) {
	cp := w.cfg.Checkpoints
	y := w.highestPoint - cp.Gap
	width := core.ClampF(w.diff.CheckpointWidth(meters), w.cfg.Player.Size, w.cfg.World.Width)

	w.seq++
	w.Platforms = append(w.Platforms, &Platform{
		ID:     fmt.Sprintf("cp_%d_%d", int(math.Floor(y)), w.seq),
		X:      (w.cfg.World.Width - width) / 2,
		Y:      y,
		W:      width,
		H:      cp.Height,
		Kind:   SurfaceCheckpoint,
		Active: true,
	})
	w.nextCheckpoint = w.diff.NextCheckpoint(meters)
	w.highestPoint = y
}

// pickSurface rolls the hazard mix. Bounce is always available; ice and
// fragile unlock with progression.
func (w *World) pickSurface(level float64) SurfaceKind {
	if w.rng.Float64() >= w.diff.HazardChance(level) {
		return SurfaceNormal
	}
	kinds := []SurfaceKind{SurfaceBounce}
	if level >= w.cfg.Hazards.IceFrom {
		kinds = append(kinds, SurfaceIce)
	}
	if level >= w.cfg.Hazards.FragileFrom {
		kinds = append(kinds, SurfaceFragile)
	}
	return kinds[w.rng.Intn(len(kinds))]
}

// placePickup throttles power-ups by vertical spacing and otherwise usually
// drops a currency pickup above the platform.
func (w *World) placePickup(p *Platform, level float64) {
	pk := w.cfg.Pickups
	cx := p.X + p.W/2 - pk.Size/2

	climbed := math.Abs(w.lastPowerUpY-p.Y) / pixelsPerMeter
	if climbed > pk.PowerUpMinSpacing {
		if w.rng.Float64() < w.diff.PowerUpChance(level) || climbed > pk.PowerUpMaxSpacing {
			kinds := PowerUps()
			w.Collectibles = append(w.Collectibles, &Collectible{
				X: cx, Y: p.Y - pk.PowerUpLift, W: pk.Size, H: pk.Size,
				Kind: CollectPowerUp, PowerUp: kinds[w.rng.Intn(len(kinds))], Active: true,
			})
			w.lastPowerUpY = p.Y
		}
		return
	}
	if w.rng.Float64() < pk.CurrencyChance {
		w.Collectibles = append(w.Collectibles, &Collectible{
			X: cx, Y: p.Y - pk.CurrencyLift, W: pk.Size, H: pk.Size,
			Kind: CollectCurrency, Active: true,
		})
	}
}

// Update keeps the frontier ahead of the camera, runs fragile timers and
// prunes content far below the camera. Checkpoints are never pruned.
func (w *World) Update(cameraY, dt float64, ev *Events) {
	w.Generate(cameraY)
	w.tickFragile(msFor(dt), ev)

	wc := w.cfg.World
	platformLimit := cameraY + wc.ViewHeight + wc.PruneMargin
	kept := w.Platforms[:0]
	for _, p := range w.Platforms {
		if p.IsCheckpoint() || p.Y < platformLimit {
			kept = append(kept, p)
		}
	}
	clear(w.Platforms[len(kept):])
	w.Platforms = kept

	collectibleLimit := cameraY + wc.ViewHeight + wc.CollectiblePruneMargin
	keptC := w.Collectibles[:0]
	for _, c := range w.Collectibles {
		if c.Active && c.Y < collectibleLimit {
			keptC = append(keptC, c)
		}
	}
	clear(w.Collectibles[len(keptC):])
	w.Collectibles = keptC
}

// TriggerFragile starts the crumble timer of a fragile platform.
func (w *World) TriggerFragile(p *Platform) {
	if p.Kind != SurfaceFragile || p.Fragile.Triggered {
		return
	}
	p.Fragile = FragileState{Triggered: true, DelayMs: w.cfg.Hazards.FragileDelayMs}
}

func (w *World) tickFragile(ms float64, ev *Events) {
	for _, p := range w.Platforms {
		if !p.Fragile.Triggered {
			continue
		}
		if p.Active {
			p.Fragile.DelayMs -= ms
			if p.Fragile.DelayMs <= 0 {
				p.Active = false
				p.Fragile.DelayMs = 0
				p.Fragile.RespawnMs = w.cfg.Hazards.FragileRespawnMs
				ev.Particles(p.X+p.W/2, p.Y, core.ColorCrumble, 8)
			}
			continue
		}
		p.Fragile.RespawnMs -= ms
		if p.Fragile.RespawnMs <= 0 {
			p.Active = true
			p.Fragile = FragileState{}
		}
	}
}

// Attract pulls active pickups within radius towards (x, y) by at most step.
func (w *World) Attract(x, y, radius, step float64) {
	for _, c := range w.Collectibles {
		if !c.Active {
			continue
		}
		dx := x - (c.X + c.W/2)
		dy := y - (c.Y + c.H/2)
		dist := math.Hypot(dx, dy)
		if dist == 0 || dist > radius {
			continue
		}
		move := min(step, dist)
		c.X += dx / dist * move
		c.Y += dy / dist * move
	}
}

// Collect deactivates and returns every active pickup overlapping r.
func (w *World) Collect(r core.RectF) []*Collectible {
	var got []*Collectible
	for _, c := range w.Collectibles {
		if c.Active && r.Intersects(c.Rect()) {
			c.Active = false
			got = append(got, c)
		}
	}
	return got
}

// Checkpoints returns the checkpoint platforms in creation order.
func (w *World) Checkpoints() []*Platform {
	var cps []*Platform
	for _, p := range w.Platforms {
		if p.IsCheckpoint() {
			cps = append(cps, p)
		}
	}
	return cps
}
