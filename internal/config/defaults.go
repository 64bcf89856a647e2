package config

import (
	_ "embed"
)

//go:embed defaults/skyhop.yaml
var defaultSkyhopYAML []byte

// DefaultSkyhopConfig returns the hardcoded configuration used when no YAML
// source can be read.
func DefaultSkyhopConfig() SkyhopConfig {
	return SkyhopConfig{
		Physics: PhysicsConfig{
			Gravity:          0.6,
			Friction:         0.8,
			IceFriction:      0.95,
			AirResistance:    0.99,
			TerminalVelocity: 20,
			AirControl:       0.2,
			WallBounce:       0.5,
		},
		Player: PlayerConfig{
			Size:          30,
			MaxCharge:     1000,
			MinJumpPower:  8,
			JumpYRatio:    0.8,
			VerticalBoost: 1.2,
			ComboWindowMs: 1500,
		},
		World: WorldConfig{
			Width:                  360,
			ViewHeight:             640,
			PlatformHeight:         20,
			SpawnGapMin:            80,
			SpawnGapMax:            180,
			GapGrowth:              60,
			WidthBase:              110,
			WidthShrink:            60,
			WidthMin:               45,
			WidthJitter:            40,
			PruneMargin:            600,
			CollectiblePruneMargin: 200,
			FallMargin:             150,
			RespawnLift:            20,
			CameraLerp:             0.1,
		},
		Checkpoints: CheckpointConfig{
			FirstAt:        200,
			Gap:            160,
			Height:         35,
			FullWidthUntil: 200,
			NarrowUntil:    5000,
			MinWidth:       120,
			Schedule: []CheckpointStep{
				{Below: 1000, Interval: 300},
				{Below: 2000, Interval: 500},
				{Below: 5000, Interval: 1000},
				{Below: 0, Interval: 2000},
			},
		},
		Hazards: HazardConfig{
			Base:             0.12,
			Growth:           0.38,
			IceFrom:          0.05,
			FragileFrom:      0.15,
			BounceVelocity:   15,
			BounceBulletMs:   4000,
			FragileDelayMs:   500,
			FragileRespawnMs: 3000,
		},
		Pickups: PickupConfig{
			Size:                40,
			CurrencyChance:      0.75,
			CurrencyLift:        40,
			PowerUpLift:         50,
			PowerUpMinSpacing:   150,
			PowerUpMaxSpacing:   400,
			PowerUpChance:       0.15,
			PowerUpChanceGrowth: 0.1,
			MagnetRadius:        150,
			MagnetSpeed:         10,
		},
		PowerUps: PowerUpConfig{
			Magnet:               10000,
			Shield:               15000,
			Jetpack:              3000,
			Boots:                12000,
			Time:                 8000,
			Multi:                20000,
			JetpackVelocity:      8,
			BootsGravity:         0.5,
			ShieldRescueVelocity: 22,
		},
		VictoryHeight:   10000,
		AutosaveSeconds: 2,
		Difficulty: DifficultyConfig{
			Preset:       DifficultyExtreme,
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "height",
				MaxAt: 10000,
			},
			Preview: false,
		},
		Characters: defaultCharacters(),
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultSkyhopYAML
}
