package sim

import (
	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
)

// SurfaceKind is the behaviour of a platform top.
type SurfaceKind uint8

const (
	SurfaceNormal SurfaceKind = iota
	SurfaceIce
	SurfaceBounce
	SurfaceFragile
	SurfaceCheckpoint
)

var surfaceNames = [...]string{
	SurfaceNormal:     "normal",
	SurfaceIce:        "ice",
	SurfaceBounce:     "bounce",
	SurfaceFragile:    "fragile",
	SurfaceCheckpoint: "checkpoint",
}

func (s SurfaceKind) String() string {
	if int(s) < len(surfaceNames) {
		return surfaceNames[s]
	}
	return "unknown"
}

// ParseSurface resolves a surface name.
func ParseSurface(name string) (SurfaceKind, bool) {
	for i, n := range surfaceNames {
		if n == name {
			return SurfaceKind(i), true
		}
	}
	return SurfaceNormal, false
}

// Color returns the render colour of a surface.
func (s SurfaceKind) Color() core.Color {
	switch s {
	case SurfaceIce:
		return core.ColorIce
	case SurfaceBounce:
		return core.ColorPink
	case SurfaceFragile:
		return core.ColorCrumble
	case SurfaceCheckpoint:
		return core.ColorGold
	default:
		return core.ColorBrown
	}
}

// FragileState tracks a crumbling platform. Both timers count down in ms.
type FragileState struct {
	Triggered bool    `json:"triggered"`
	DelayMs   float64 `json:"delayMs"`
	RespawnMs float64 `json:"respawnMs"`
}

// Platform is a walkable slab.
type Platform struct {
	ID      string
	X, Y    float64
	W, H    float64
	Kind    SurfaceKind
	Active  bool
	Fragile FragileState
}

// IsCheckpoint reports whether the platform anchors respawns.
func (p *Platform) IsCheckpoint() bool {
	return p.Kind == SurfaceCheckpoint
}

// Rect returns the platform bounds.
func (p *Platform) Rect() core.RectF {
	return core.NewRectF(p.X, p.Y, p.W, p.H)
}

// CollectibleKind separates currency from power-up pickups.
type CollectibleKind uint8

const (
	CollectCurrency CollectibleKind = iota
	CollectPowerUp
)

// CurrencyID is the persisted kind name of a currency pickup.
const CurrencyID = "water"

// Collectible is a pickup floating above a platform.
type Collectible struct {
	X, Y    float64
	W, H    float64
	Kind    CollectibleKind
	PowerUp PowerUpKind
	Active  bool
}

// Rect returns the pickup bounds.
func (c *Collectible) Rect() core.RectF {
	return core.NewRectF(c.X, c.Y, c.W, c.H)
}

// KindID returns the persisted kind name: CurrencyID or a power-up id.
func (c *Collectible) KindID() string {
	if c.Kind == CollectCurrency {
		return CurrencyID
	}
	return c.PowerUp.String()
}

// PowerUpKind identifies a timed power-up.
type PowerUpKind uint8

const (
	PowerUpNone PowerUpKind = iota
	PowerUpMagnet
	PowerUpShield
	PowerUpJetpack
	PowerUpBoots
	PowerUpTime
	PowerUpMulti
)

// PowerUpInfo is the static description of a power-up kind.
type PowerUpInfo struct {
	ID          string
	Name        string
	Description string
	Glyph       rune
	Color       core.Color
}

var powerUpTable = [...]PowerUpInfo{
	PowerUpNone:    {ID: "none"},
	PowerUpMagnet:  {ID: "magnet", Name: "Drop Magnet", Description: "Pulls nearby drops towards you.", Glyph: 'M', Color: core.ColorRed},
	PowerUpShield:  {ID: "shield", Name: "Bubble Shield", Description: "Saves you from one fall.", Glyph: 'O', Color: core.ColorCyan},
	PowerUpJetpack: {ID: "jetpack", Name: "Steam Jetpack", Description: "Massive vertical thrust.", Glyph: 'J', Color: core.ColorWhite},
	PowerUpBoots:   {ID: "boots", Name: "Gravity Boots", Description: "Halves gravity for longer jumps.", Glyph: 'B', Color: core.ColorYellow},
	PowerUpTime:    {ID: "time", Name: "Life Clock", Description: "Slows time for precise jumps.", Glyph: 'T', Color: core.ColorPurple},
	PowerUpMulti:   {ID: "multi", Name: "x2 Multiplier", Description: "Drops are worth double.", Glyph: 'X', Color: core.ColorTeal},
}

// PowerUps lists every collectible power-up kind.
func PowerUps() []PowerUpKind {
	return []PowerUpKind{PowerUpMagnet, PowerUpShield, PowerUpJetpack, PowerUpBoots, PowerUpTime, PowerUpMulti}
}

// Info returns the static description of the kind.
func (k PowerUpKind) Info() PowerUpInfo {
	if int(k) < len(powerUpTable) {
		return powerUpTable[k]
	}
	return powerUpTable[PowerUpNone]
}

func (k PowerUpKind) String() string {
	return k.Info().ID
}

// ParsePowerUp resolves a power-up id.
func ParsePowerUp(id string) (PowerUpKind, bool) {
	for _, k := range PowerUps() {
		if powerUpTable[k].ID == id {
			return k, true
		}
	}
	return PowerUpNone, false
}

// Duration returns the configured duration of the kind in milliseconds.
func (k PowerUpKind) Duration(cfg config.PowerUpConfig) float64 {
	switch k {
	case PowerUpMagnet:
		return cfg.Magnet
	case PowerUpShield:
		return cfg.Shield
	case PowerUpJetpack:
		return cfg.Jetpack
	case PowerUpBoots:
		return cfg.Boots
	case PowerUpTime:
		return cfg.Time
	case PowerUpMulti:
		return cfg.Multi
	default:
		return 0
	}
}
