package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(GetDefaultYAML())
	if err != nil {
		t.Fatalf("embedded defaults should parse: %v", err)
	}
	d := DefaultSkyhopConfig()

	if cfg.Physics != d.Physics {
		t.Errorf("physics = %+v, expected %+v", cfg.Physics, d.Physics)
	}
	if cfg.Player != d.Player {
		t.Errorf("player = %+v, expected %+v", cfg.Player, d.Player)
	}
	if cfg.World != d.World {
		t.Errorf("world = %+v, expected %+v", cfg.World, d.World)
	}
	if cfg.Hazards != d.Hazards || cfg.Pickups != d.Pickups || cfg.PowerUps != d.PowerUps {
		t.Error("hazards, pickups or powerups differ from hardcoded defaults")
	}
	if len(cfg.Characters) != len(d.Characters) {
		t.Fatalf("characters = %d, expected %d", len(cfg.Characters), len(d.Characters))
	}
	for i := range d.Characters {
		if cfg.Characters[i] != d.Characters[i] {
			t.Errorf("character %d = %+v, expected %+v", i, cfg.Characters[i], d.Characters[i])
		}
	}
	if len(cfg.Checkpoints.Schedule) != 4 {
		t.Errorf("schedule length = %d, expected 4", len(cfg.Checkpoints.Schedule))
	}
}

func TestParsePartialOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("physics:\n  gravity: 0.4\nvictory_height: 500\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Physics.Gravity != 0.4 || cfg.VictoryHeight != 500 {
		t.Errorf("overrides not applied: gravity=%v victory=%d", cfg.Physics.Gravity, cfg.VictoryHeight)
	}
	if cfg.Physics.Friction != 0.8 || cfg.World.Width != 360 {
		t.Error("unspecified fields should keep defaults")
	}
}

func TestValidateClampsDegenerateValues(t *testing.T) {
	cfg := DefaultSkyhopConfig()
	cfg.World.SpawnGapMin = 200
	cfg.World.SpawnGapMax = 100
	cfg.World.WidthMin = -5
	cfg.World.WidthBase = 1000
	cfg.Checkpoints.Schedule = []CheckpointStep{{Below: 10, Interval: 0}}
	cfg.Pickups.PowerUpMaxSpacing = 10
	cfg.Hazards.Base = 3

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.World.SpawnGapMin != 100 || cfg.World.SpawnGapMax != 200 {
		t.Errorf("gaps should be swapped, got %v..%v", cfg.World.SpawnGapMin, cfg.World.SpawnGapMax)
	}
	if cfg.World.WidthMin != 45 {
		t.Errorf("width_min = %v, expected default 45", cfg.World.WidthMin)
	}
	if cfg.World.WidthBase != cfg.World.Width {
		t.Errorf("width_base = %v, expected clamp to world width", cfg.World.WidthBase)
	}
	if len(cfg.Checkpoints.Schedule) != 4 {
		t.Errorf("invalid schedule should fall back to defaults, got %+v", cfg.Checkpoints.Schedule)
	}
	if cfg.Pickups.PowerUpMaxSpacing != cfg.Pickups.PowerUpMinSpacing {
		t.Error("max spacing should be raised to min spacing")
	}
	if cfg.Hazards.Base != 1 {
		t.Errorf("hazard base = %v, expected 1", cfg.Hazards.Base)
	}
}

func TestValidateRejectsTinyWorld(t *testing.T) {
	cfg := DefaultSkyhopConfig()
	cfg.World.Width = 20

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
	}
}

func TestLoadSkyhopCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("world:\n  width: 400\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSkyhop(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.World.Width != 400 {
		t.Errorf("width = %v, expected 400", cfg.World.Width)
	}

	if _, err := LoadSkyhop(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom path should fail")
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		name    string
		preview bool
		wantErr bool
	}{
		{"assisted", true, false},
		{"extreme", false, false},
		{"easy", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePreset(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("ParsePreset(%q) error = %v", tt.name, err)
				}
				return
			}
			cfg := DefaultSkyhopConfig()
			ApplyPreset(&cfg, p)
			if cfg.Difficulty.Preview != tt.preview || cfg.Difficulty.Preset != p {
				t.Errorf("preset %s: preview = %v", tt.name, cfg.Difficulty.Preview)
			}
		})
	}
}

func TestCharacterLookup(t *testing.T) {
	cfg := DefaultSkyhopConfig()

	if ch := cfg.Character("eagle"); ch.Price != 25000 || ch.Stats.Gravity != 0.15 {
		t.Errorf("eagle = %+v", ch)
	}
	if ch := cfg.Character("dragon"); ch.ID != "frog" {
		t.Errorf("unknown id should fall back to frog, got %s", ch.ID)
	}
	if cfg.StarterCharacter() != "frog" {
		t.Errorf("starter = %s", cfg.StarterCharacter())
	}
	if _, ok := cfg.FindCharacter("dragon"); ok {
		t.Error("FindCharacter should report unknown ids")
	}
}
