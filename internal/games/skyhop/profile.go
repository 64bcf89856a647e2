package skyhop

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/games/skyhop/sim"
)

var (
	ErrUnknownCharacter  = errors.New("skyhop: unknown character")
	ErrLocked            = errors.New("skyhop: character is locked")
	ErrAlreadyUnlocked   = errors.New("skyhop: character already unlocked")
	ErrInsufficientFunds = errors.New("skyhop: not enough drops")
)

// Profile is the persistent progress of one player: wallet, unlocked and
// equipped characters, seen power-ups and per-difficulty records.
type Profile struct {
	store sim.Persistence
	cfg   config.SkyhopConfig
}

// NewProfile wraps a persistence namespace.
func NewProfile(store sim.Persistence, cfg config.SkyhopConfig) *Profile {
	return &Profile{store: store, cfg: cfg}
}

// Wallet returns the banked drops.
func (p *Profile) Wallet() int {
	return int(p.store.GetNumber(sim.KeyWallet, 0))
}

// Deposit adds drops to the wallet.
func (p *Profile) Deposit(n int) error {
	if n <= 0 {
		return nil
	}
	return p.store.SetNumber(sim.KeyWallet, float64(p.Wallet()+n))
}

// Unlocked returns the unlocked character ids. The starter is always owned.
func (p *Profile) Unlocked() []string {
	ids := p.readList(sim.KeyUnlocked)
	if starter := p.cfg.StarterCharacter(); !slices.Contains(ids, starter) {
		ids = append([]string{starter}, ids...)
	}
	return ids
}

// IsUnlocked reports whether a character can be equipped.
func (p *Profile) IsUnlocked(id string) bool {
	return slices.Contains(p.Unlocked(), id)
}

// Equipped returns the equipped character, falling back to the starter when
// the stored id is unknown or locked.
func (p *Profile) Equipped() config.Character {
	blob, ok, err := p.store.LoadState(sim.KeyEquipped)
	if err != nil || !ok {
		return p.cfg.Character("")
	}
	id := string(blob)
	if !p.IsUnlocked(id) {
		return p.cfg.Character("")
	}
	return p.cfg.Character(id)
}

// Equip selects an unlocked character.
func (p *Profile) Equip(id string) error {
	if _, ok := p.cfg.FindCharacter(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCharacter, id)
	}
	if !p.IsUnlocked(id) {
		return fmt.Errorf("%w: %q", ErrLocked, id)
	}
	return p.store.SaveState(sim.KeyEquipped, []byte(id))
}

// Buy spends drops to unlock a character.
func (p *Profile) Buy(id string) error {
	ch, ok := p.cfg.FindCharacter(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCharacter, id)
	}
	if p.IsUnlocked(id) {
		return fmt.Errorf("%w: %q", ErrAlreadyUnlocked, id)
	}
	wallet := p.Wallet()
	if wallet < ch.Price {
		return fmt.Errorf("%w: %s costs %d, wallet has %d", ErrInsufficientFunds, ch.Name, ch.Price, wallet)
	}
	if err := p.store.SetNumber(sim.KeyWallet, float64(wallet-ch.Price)); err != nil {
		return err
	}
	return p.writeList(sim.KeyUnlocked, append(p.Unlocked(), id))
}

// SeenPowerUp reports whether the intro of a power-up was already shown.
func (p *Profile) SeenPowerUp(id string) bool {
	return slices.Contains(p.readList(sim.KeySeenPowerUps), id)
}

// MarkSeen records that the intro of a power-up was shown.
func (p *Profile) MarkSeen(id string) error {
	seen := p.readList(sim.KeySeenPowerUps)
	if slices.Contains(seen, id) {
		return nil
	}
	return p.writeList(sim.KeySeenPowerUps, append(seen, id))
}

// Record returns the best height for a difficulty.
func (p *Profile) Record(preset config.DifficultyPreset) int {
	return int(p.store.GetNumber(sim.HighScoreKey(string(preset)), 0))
}

// SubmitHeight raises the record for a difficulty, reporting whether it was
// beaten.
func (p *Profile) SubmitHeight(preset config.DifficultyPreset, height int) (bool, error) {
	if height <= p.Record(preset) {
		return false, nil
	}
	return true, p.store.SetNumber(sim.HighScoreKey(string(preset)), float64(height))
}

func (p *Profile) readList(key string) []string {
	blob, ok, err := p.store.LoadState(key)
	if err != nil || !ok {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(blob, &ids); err != nil {
		return nil
	}
	return ids
}

func (p *Profile) writeList(key string, ids []string) error {
	blob, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("skyhop: encode %s: %w", key, err)
	}
	return p.store.SaveState(key, blob)
}
