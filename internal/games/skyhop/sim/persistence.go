package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSnapshot is returned when no saved run exists.
	ErrNoSnapshot = errors.New("sim: no saved run")
	// ErrCorruptSnapshot is returned when a saved run cannot be decoded.
	ErrCorruptSnapshot = errors.New("sim: corrupt saved run")
)

// Persistence is the key-value capability the game needs from storage.
type Persistence interface {
	LoadState(key string) ([]byte, bool, error)
	SaveState(key string, blob []byte) error
	RemoveState(key string) error
	GetNumber(key string, def float64) float64
	SetNumber(key string, v float64) error
}

// Persisted keys shared by every profile.
const (
	KeyWallet          = "walletDrops"
	KeyUnlocked        = "unlockedAnimals"
	KeyEquipped        = "equippedAnimal"
	KeySeenPowerUps    = "seenPowerUps"
	stateKeyPrefix     = "gameState_"
	highScoreKeyPrefix = "highScore_"
)

// StateKey is the key of the saved run for a difficulty.
func StateKey(difficulty string) string {
	return stateKeyPrefix + difficulty
}

// HighScoreKey is the key of the best height for a difficulty.
func HighScoreKey(difficulty string) string {
	return highScoreKeyPrefix + difficulty
}

// SaveRun encodes and stores a run snapshot.
func SaveRun(p Persistence, key string, snap RunSnapshot) error {
	blob, err := snap.Encode()
	if err != nil {
		return err
	}
	if err := p.SaveState(key, blob); err != nil {
		return fmt.Errorf("sim: save %s: %w", key, err)
	}
	return nil
}

// LoadRun reads and decodes a run snapshot. A missing key yields
// ErrNoSnapshot and an unreadable one ErrCorruptSnapshot.
func LoadRun(p Persistence, key string) (RunSnapshot, error) {
	blob, ok, err := p.LoadState(key)
	if err != nil {
		return RunSnapshot{}, fmt.Errorf("sim: load %s: %w", key, err)
	}
	if !ok || len(blob) == 0 {
		return RunSnapshot{}, ErrNoSnapshot
	}
	return DecodeSnapshot(blob)
}
