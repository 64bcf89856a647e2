package config

import "math"

// DifficultyManager maps height to the progression scalar and derives the
// generation parameters that scale with it.
type DifficultyManager struct {
	cfg          SkyhopConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg SkyhopConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.Difficulty.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Difficulty.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Difficulty.Enabled && d.cfg.Difficulty.Progression.Type != "none"
}

// Level returns the progression scalar (0.0 to 1.0) for a height in meters.
func (d *DifficultyManager) Level(heightMeters int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Difficulty.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}
	progress := clampF(float64(heightMeters)/maxAt, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Gap returns the vertical distance to the next platform. roll is a uniform
// sample in [0, 1).
func (d *DifficultyManager) Gap(level, roll float64) float64 {
	w := d.cfg.World
	spread := w.SpawnGapMax - w.SpawnGapMin + level*w.GapGrowth
	return w.SpawnGapMin + roll*spread
}

// PlatformWidth returns the width of a regular platform, never wider than
// the world and never below the configured minimum.
func (d *DifficultyManager) PlatformWidth(level, roll float64) float64 {
	w := d.cfg.World
	width := max(w.WidthMin, w.WidthBase-level*w.WidthShrink) + roll*w.WidthJitter
	return clampF(width, w.WidthMin, w.Width)
}

// HazardChance returns the probability that a regular platform gets a
// hazard surface.
func (d *DifficultyManager) HazardChance(level float64) float64 {
	return clampF(d.cfg.Hazards.Base+level*d.cfg.Hazards.Growth, 0, 1)
}

// PowerUpChance returns the probability of a power-up once the minimum
// spacing has been climbed.
func (d *DifficultyManager) PowerUpChance(level float64) float64 {
	return clampF(d.cfg.Pickups.PowerUpChance+level*d.cfg.Pickups.PowerUpChanceGrowth, 0, 1)
}

// CheckpointWidth returns the checkpoint width at a height: full width near
// the ground, narrowing linearly to MinWidth.
func (d *DifficultyManager) CheckpointWidth(heightMeters int) float64 {
	cp := d.cfg.Checkpoints
	full := d.cfg.World.Width
	if heightMeters <= cp.FullWidthUntil {
		return full
	}
	span := float64(cp.NarrowUntil - cp.FullWidthUntil)
	progress := clampF(float64(heightMeters-cp.FullWidthUntil)/span, 0, 1)
	return full - progress*(full-cp.MinWidth)
}

// CheckpointInterval returns the spacing in meters between checkpoints at
// a height. Intervals grow with altitude.
func (d *DifficultyManager) CheckpointInterval(heightMeters int) int {
	schedule := d.cfg.Checkpoints.Schedule
	for _, step := range schedule {
		if step.Below == 0 || heightMeters < step.Below {
			return step.Interval
		}
	}
	if len(schedule) > 0 {
		return schedule[len(schedule)-1].Interval
	}
	return 1000
}

// NextCheckpoint returns the first checkpoint threshold strictly above a height.
func (d *DifficultyManager) NextCheckpoint(heightMeters int) int {
	interval := d.CheckpointInterval(heightMeters)
	return (heightMeters/interval + 1) * interval
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
