// Package config provides YAML-based game configuration loading and
// difficulty management for skyhop.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a configuration cannot be made playable.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// SkyhopConfig contains all configuration for the climber.
type SkyhopConfig struct {
	Physics         PhysicsConfig    `yaml:"physics"`
	Player          PlayerConfig     `yaml:"player"`
	World           WorldConfig      `yaml:"world"`
	Checkpoints     CheckpointConfig `yaml:"checkpoints"`
	Hazards         HazardConfig     `yaml:"hazards"`
	Pickups         PickupConfig     `yaml:"pickups"`
	PowerUps        PowerUpConfig    `yaml:"powerups"`
	VictoryHeight   int              `yaml:"victory_height"`   // meters
	AutosaveSeconds float64          `yaml:"autosave_seconds"` // simulated seconds between saves
	Difficulty      DifficultyConfig `yaml:"difficulty"`
	Characters      []Character      `yaml:"characters"`
}

// PhysicsConfig defines the world physics, in pixels per nominal frame.
type PhysicsConfig struct {
	Gravity          float64 `yaml:"gravity"`
	Friction         float64 `yaml:"friction"`
	IceFriction      float64 `yaml:"ice_friction"`
	AirResistance    float64 `yaml:"air_resistance"`
	TerminalVelocity float64 `yaml:"terminal_velocity"`
	AirControl       float64 `yaml:"air_control"`
	WallBounce       float64 `yaml:"wall_bounce"` // fraction of vx kept (reversed) on wall contact
}

// PlayerConfig defines the actor and the charge-jump mapping.
type PlayerConfig struct {
	Size          float64 `yaml:"size"`
	MaxCharge     float64 `yaml:"max_charge"`
	MinJumpPower  float64 `yaml:"min_jump_power"`
	JumpYRatio    float64 `yaml:"jump_y_ratio"`
	VerticalBoost float64 `yaml:"vertical_boost"`
	ComboWindowMs float64 `yaml:"combo_window_ms"`
}

// WorldConfig defines world geometry and platform generation.
type WorldConfig struct {
	Width                  float64 `yaml:"width"`
	ViewHeight             float64 `yaml:"view_height"`
	PlatformHeight         float64 `yaml:"platform_height"`
	SpawnGapMin            float64 `yaml:"spawn_gap_min"`
	SpawnGapMax            float64 `yaml:"spawn_gap_max"`
	GapGrowth              float64 `yaml:"gap_growth"`
	WidthBase              float64 `yaml:"width_base"`
	WidthShrink            float64 `yaml:"width_shrink"`
	WidthMin               float64 `yaml:"width_min"`
	WidthJitter            float64 `yaml:"width_jitter"`
	PruneMargin            float64 `yaml:"prune_margin"`
	CollectiblePruneMargin float64 `yaml:"collectible_prune_margin"`
	FallMargin             float64 `yaml:"fall_margin"`
	RespawnLift            float64 `yaml:"respawn_lift"`
	CameraLerp             float64 `yaml:"camera_lerp"`
}

// CheckpointConfig defines checkpoint cadence and geometry.
type CheckpointConfig struct {
	FirstAt        int              `yaml:"first_at"` // meters
	Gap            float64          `yaml:"gap"`
	Height         float64          `yaml:"height"`
	FullWidthUntil int              `yaml:"full_width_until"` // meters
	NarrowUntil    int              `yaml:"narrow_until"`     // meters
	MinWidth       float64          `yaml:"min_width"`
	Schedule       []CheckpointStep `yaml:"schedule"`
}

// CheckpointStep sets the checkpoint interval for heights below Below.
// Below of zero matches every height.
type CheckpointStep struct {
	Below    int `yaml:"below"`
	Interval int `yaml:"interval"`
}

// HazardConfig defines hazard surfaces.
type HazardConfig struct {
	Base             float64 `yaml:"base"`
	Growth           float64 `yaml:"growth"`
	IceFrom          float64 `yaml:"ice_from"`     // progression at which ice unlocks
	FragileFrom      float64 `yaml:"fragile_from"` // progression at which fragile unlocks
	BounceVelocity   float64 `yaml:"bounce_velocity"`
	BounceBulletMs   float64 `yaml:"bounce_bullet_ms"`
	FragileDelayMs   float64 `yaml:"fragile_delay_ms"`
	FragileRespawnMs float64 `yaml:"fragile_respawn_ms"`
}

// PickupConfig defines currency and power-up placement.
type PickupConfig struct {
	Size                float64 `yaml:"size"`
	CurrencyChance      float64 `yaml:"currency_chance"`
	CurrencyLift        float64 `yaml:"currency_lift"`
	PowerUpLift         float64 `yaml:"powerup_lift"`
	PowerUpMinSpacing   float64 `yaml:"powerup_min_spacing"` // meters
	PowerUpMaxSpacing   float64 `yaml:"powerup_max_spacing"` // meters
	PowerUpChance       float64 `yaml:"powerup_chance"`
	PowerUpChanceGrowth float64 `yaml:"powerup_chance_growth"`
	MagnetRadius        float64 `yaml:"magnet_radius"`
	MagnetSpeed         float64 `yaml:"magnet_speed"`
}

// PowerUpConfig defines power-up durations (ms) and strengths.
type PowerUpConfig struct {
	Magnet               float64 `yaml:"magnet"`
	Shield               float64 `yaml:"shield"`
	Jetpack              float64 `yaml:"jetpack"`
	Boots                float64 `yaml:"boots"`
	Time                 float64 `yaml:"time"`
	Multi                float64 `yaml:"multi"`
	JetpackVelocity      float64 `yaml:"jetpack_velocity"`
	BootsGravity         float64 `yaml:"boots_gravity"`
	ShieldRescueVelocity float64 `yaml:"shield_rescue_velocity"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Preset       DifficultyPreset  `yaml:"preset"`
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = ground level, 1.0 = summit
	Progression  ProgressionConfig `yaml:"progression"`
	Preview      bool              `yaml:"preview"` // show the trajectory forecast
}

// ProgressionConfig defines how difficulty increases with height.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "height" or "none"
	MaxAt int    `yaml:"max_at"` // meters at which max difficulty is reached
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyAssisted DifficultyPreset = "assisted"
	DifficultyExtreme  DifficultyPreset = "extreme"
)

// Presets lists the known presets in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyAssisted, DifficultyExtreme}
}

// ParsePreset validates a preset name.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case DifficultyAssisted, DifficultyExtreme:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, name)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *SkyhopConfig, preset DifficultyPreset) {
	cfg.Difficulty.Preset = preset
	switch preset {
	case DifficultyAssisted:
		cfg.Difficulty.Preview = true
	case DifficultyExtreme:
		cfg.Difficulty.Preview = false
	}
}

// Validate clamps degenerate values into a playable range. It returns
// ErrInvalidConfig only when the world cannot host the player at all.
func (c *SkyhopConfig) Validate() error {
	d := DefaultSkyhopConfig()

	if c.Player.Size <= 0 {
		c.Player.Size = d.Player.Size
	}
	if c.World.Width <= c.Player.Size {
		return fmt.Errorf("%w: world width %.0f must exceed player size %.0f", ErrInvalidConfig, c.World.Width, c.Player.Size)
	}
	if c.World.ViewHeight <= c.Player.Size {
		return fmt.Errorf("%w: view height %.0f must exceed player size %.0f", ErrInvalidConfig, c.World.ViewHeight, c.Player.Size)
	}

	positive := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	positive(&c.Player.MaxCharge, d.Player.MaxCharge)
	positive(&c.Player.MinJumpPower, d.Player.MinJumpPower)
	positive(&c.Player.JumpYRatio, d.Player.JumpYRatio)
	positive(&c.Player.VerticalBoost, d.Player.VerticalBoost)
	positive(&c.Physics.TerminalVelocity, d.Physics.TerminalVelocity)
	positive(&c.World.PlatformHeight, d.World.PlatformHeight)
	positive(&c.World.SpawnGapMin, d.World.SpawnGapMin)
	positive(&c.World.WidthMin, d.World.WidthMin)
	positive(&c.World.CameraLerp, d.World.CameraLerp)
	positive(&c.Checkpoints.Gap, d.Checkpoints.Gap)
	positive(&c.Checkpoints.Height, d.Checkpoints.Height)
	positive(&c.Checkpoints.MinWidth, d.Checkpoints.MinWidth)
	positive(&c.Pickups.Size, d.Pickups.Size)

	if c.World.SpawnGapMax < c.World.SpawnGapMin {
		c.World.SpawnGapMin, c.World.SpawnGapMax = c.World.SpawnGapMax, c.World.SpawnGapMin
		positive(&c.World.SpawnGapMin, d.World.SpawnGapMin)
	}
	c.World.WidthMin = min(c.World.WidthMin, c.World.Width)
	c.World.WidthBase = min(max(c.World.WidthBase, c.World.WidthMin), c.World.Width)
	c.World.WidthJitter = max(c.World.WidthJitter, 0)
	c.Checkpoints.MinWidth = min(c.Checkpoints.MinWidth, c.World.Width)
	if c.Checkpoints.NarrowUntil <= c.Checkpoints.FullWidthUntil {
		c.Checkpoints.NarrowUntil = c.Checkpoints.FullWidthUntil + 1
	}
	if c.Pickups.PowerUpMaxSpacing < c.Pickups.PowerUpMinSpacing {
		c.Pickups.PowerUpMaxSpacing = c.Pickups.PowerUpMinSpacing
	}

	var valid []CheckpointStep
	for _, step := range c.Checkpoints.Schedule {
		if step.Interval > 0 {
			valid = append(valid, step)
		}
	}
	c.Checkpoints.Schedule = valid
	if len(c.Checkpoints.Schedule) == 0 {
		c.Checkpoints.Schedule = d.Checkpoints.Schedule
	}

	c.Physics.AirResistance = clampF(c.Physics.AirResistance, 0, 1)
	c.Physics.Friction = clampF(c.Physics.Friction, 0, 1)
	c.Physics.IceFriction = clampF(c.Physics.IceFriction, 0, 1)
	c.Hazards.Base = clampF(c.Hazards.Base, 0, 1)
	c.Pickups.CurrencyChance = clampF(c.Pickups.CurrencyChance, 0, 1)
	c.World.CameraLerp = clampF(c.World.CameraLerp, 0, 1)

	if c.Difficulty.Progression.MaxAt <= 0 {
		c.Difficulty.Progression.MaxAt = d.Difficulty.Progression.MaxAt
	}
	if c.VictoryHeight <= 0 {
		c.VictoryHeight = d.VictoryHeight
	}
	if c.AutosaveSeconds <= 0 {
		c.AutosaveSeconds = d.AutosaveSeconds
	}
	if len(c.Characters) == 0 {
		c.Characters = d.Characters
	}
	return nil
}
