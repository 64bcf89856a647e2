package config

import (
	"math"
	"testing"
)

func TestDifficultyLevel(t *testing.T) {
	dm := NewDifficultyManager(DefaultSkyhopConfig())

	tests := []struct {
		height int
		want   float64
	}{
		{0, 0},
		{2500, 0.25},
		{10000, 1},
		{25000, 1},
		{-50, 0},
	}
	for _, tt := range tests {
		if got := dm.Level(tt.height); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Level(%d) = %v, expected %v", tt.height, got, tt.want)
		}
	}

	dm.SetInitialLevel(0.5)
	if got := dm.Level(5000); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Level with initial 0.5 = %v, expected 0.75", got)
	}

	dm.SetEnabled(false)
	if dm.Level(9000) != 0.5 {
		t.Error("disabled progression should stay at the initial level")
	}
}

func TestDifficultyScaling(t *testing.T) {
	dm := NewDifficultyManager(DefaultSkyhopConfig())

	// Gap grows with level
	if dm.Gap(0, 1) >= dm.Gap(1, 1) {
		t.Error("gap should grow with level")
	}
	if got := dm.Gap(0, 0); got != 80 {
		t.Errorf("Gap(0, 0) = %v, expected 80", got)
	}
	if got := dm.Gap(1, 1); got != 240 {
		t.Errorf("Gap(1, 1) = %v, expected 240", got)
	}

	// Width shrinks with level, but never below the minimum
	if dm.PlatformWidth(0, 0) != 110 || dm.PlatformWidth(1, 0) != 50 {
		t.Errorf("widths = %v / %v", dm.PlatformWidth(0, 0), dm.PlatformWidth(1, 0))
	}

	if dm.HazardChance(0) != 0.12 || math.Abs(dm.HazardChance(1)-0.5) > 1e-9 {
		t.Errorf("hazard chance = %v / %v", dm.HazardChance(0), dm.HazardChance(1))
	}
	if math.Abs(dm.PowerUpChance(1)-0.25) > 1e-9 {
		t.Errorf("power-up chance at top = %v", dm.PowerUpChance(1))
	}
}

func TestCheckpointSchedule(t *testing.T) {
	dm := NewDifficultyManager(DefaultSkyhopConfig())

	tests := []struct {
		height   int
		interval int
		next     int
	}{
		{200, 300, 300},
		{300, 300, 600},
		{999, 300, 1200},
		{1000, 500, 1500},
		{2000, 1000, 3000},
		{5000, 2000, 6000},
		{9999, 2000, 10000},
	}
	for _, tt := range tests {
		if got := dm.CheckpointInterval(tt.height); got != tt.interval {
			t.Errorf("CheckpointInterval(%d) = %d, expected %d", tt.height, got, tt.interval)
		}
		if got := dm.NextCheckpoint(tt.height); got != tt.next {
			t.Errorf("NextCheckpoint(%d) = %d, expected %d", tt.height, got, tt.next)
		}
	}
}

func TestCheckpointWidth(t *testing.T) {
	dm := NewDifficultyManager(DefaultSkyhopConfig())

	if dm.CheckpointWidth(100) != 360 || dm.CheckpointWidth(200) != 360 {
		t.Error("checkpoints near the ground should be full width")
	}
	if got := dm.CheckpointWidth(2600); math.Abs(got-240) > 1e-9 {
		t.Errorf("CheckpointWidth(2600) = %v, expected 240", got)
	}
	if dm.CheckpointWidth(5000) != 120 || dm.CheckpointWidth(9000) != 120 {
		t.Error("checkpoints should stop narrowing at min width")
	}
}
