package sim

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/vovakirdan/skyhop/internal/config"
)

// SnapshotVersion is written into every snapshot.
const SnapshotVersion = 1

// RunSnapshot is the persisted state of a run.
type RunSnapshot struct {
	Version        int            `json:"version"`
	RunID          string         `json:"runId,omitempty"`
	Player         *PlayerState   `json:"player"`
	Camera         *CameraState   `json:"camera"`
	World          *WorldSnapshot `json:"world"`
	CollectedCount int            `json:"collectedCount"`
	Best           int            `json:"best"`
	Won            bool           `json:"won"`
	Timestamp      int64          `json:"timestamp"`
}

// PlayerState is the persisted actor.
type PlayerState struct {
	X            float64            `json:"x"`
	Y            float64            `json:"y"`
	VX           float64            `json:"vx"`
	VY           float64            `json:"vy"`
	Grounded     bool               `json:"grounded,omitempty"`
	Combo        int                `json:"combo,omitempty"`
	PowerUps     map[string]float64 `json:"powerUps,omitempty"`
	BulletTimeMs float64            `json:"bulletTimeMs,omitempty"`
}

// CameraState is the persisted camera.
type CameraState struct {
	Y float64 `json:"y"`
}

// WorldSnapshot is the persisted world.
type WorldSnapshot struct {
	HighestPoint         float64            `json:"highestPoint"`
	NextCheckpointHeight int                `json:"nextCheckpointHeight,omitempty"`
	LastPowerUpY         float64            `json:"lastPowerUpY,omitempty"`
	CheckpointID         string             `json:"checkpointId,omitempty"`
	Platforms            []PlatformState    `json:"platforms"`
	Collectibles         []CollectibleState `json:"collectibles"`
}

// PlatformState is a persisted platform.
type PlatformState struct {
	X            float64       `json:"x"`
	Y            float64       `json:"y"`
	Width        float64       `json:"width"`
	Height       float64       `json:"height"`
	Kind         string        `json:"kind"`
	Active       bool          `json:"active"`
	IsCheckpoint bool          `json:"isCheckpoint"`
	ID           string        `json:"id"`
	Fragile      *FragileState `json:"fragile,omitempty"`
}

// CollectibleState is a persisted pickup.
type CollectibleState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Active bool    `json:"active"`
	Kind   string  `json:"kind"`
}

// Encode serializes the snapshot as JSON.
func (s RunSnapshot) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("sim: encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a saved run. Any parse error or missing section
// yields ErrCorruptSnapshot.
func DecodeSnapshot(data []byte) (RunSnapshot, error) {
	var s RunSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return RunSnapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	switch {
	case s.Player == nil:
		return RunSnapshot{}, fmt.Errorf("%w: missing player", ErrCorruptSnapshot)
	case s.Camera == nil:
		return RunSnapshot{}, fmt.Errorf("%w: missing camera", ErrCorruptSnapshot)
	case s.World == nil:
		return RunSnapshot{}, fmt.Errorf("%w: missing world", ErrCorruptSnapshot)
	case len(s.World.Platforms) == 0:
		return RunSnapshot{}, fmt.Errorf("%w: no platforms", ErrCorruptSnapshot)
	}
	return s, nil
}

// Snapshot captures the run.
func (s *Simulation) Snapshot() RunSnapshot {
	a := s.Actor
	player := &PlayerState{
		X: a.X, Y: a.Y, VX: a.VX, VY: a.VY,
		Grounded:     a.Grounded,
		Combo:        a.Combo,
		BulletTimeMs: a.BulletTimeMs,
	}
	if len(a.PowerUps) > 0 {
		player.PowerUps = make(map[string]float64, len(a.PowerUps))
		for k, ms := range a.PowerUps {
			player.PowerUps[k.String()] = ms
		}
	}

	w := s.World
	ws := &WorldSnapshot{
		HighestPoint:         w.highestPoint,
		NextCheckpointHeight: w.nextCheckpoint,
		LastPowerUpY:         w.lastPowerUpY,
		CheckpointID:         w.Checkpoint().ID,
		Platforms:            make([]PlatformState, 0, len(w.Platforms)),
		Collectibles:         make([]CollectibleState, 0, len(w.Collectibles)),
	}
	for _, p := range w.Platforms {
		ps := PlatformState{
			X: p.X, Y: p.Y, Width: p.W, Height: p.H,
			Kind: p.Kind.String(), Active: p.Active, IsCheckpoint: p.IsCheckpoint(), ID: p.ID,
		}
		if p.Fragile.Triggered {
			f := p.Fragile
			ps.Fragile = &f
		}
		ws.Platforms = append(ws.Platforms, ps)
	}
	for _, c := range w.Collectibles {
		ws.Collectibles = append(ws.Collectibles, CollectibleState{X: c.X, Y: c.Y, Active: c.Active, Kind: c.KindID()})
	}

	return RunSnapshot{
		Version:        SnapshotVersion,
		RunID:          s.RunID,
		Player:         player,
		Camera:         &CameraState{Y: s.Camera.Y},
		World:          ws,
		CollectedCount: s.Collected,
		Best:           s.Best,
		Won:            s.Won,
	}
}

// RestoreSimulation rebuilds a simulation from a snapshot. Unknown kinds are
// rejected with ErrCorruptSnapshot; a missing checkpoint reference falls
// back to the ground checkpoint.
func RestoreSimulation(cfg config.SkyhopConfig, stats config.Stats, seed int64, snap RunSnapshot) (*Simulation, error) {
	if snap.Player == nil || snap.Camera == nil || snap.World == nil {
		return nil, fmt.Errorf("%w: incomplete snapshot", ErrCorruptSnapshot)
	}

	w := newEmptyWorld(cfg, rand.New(rand.NewSource(seed)))
	for i, ps := range snap.World.Platforms {
		kind, ok := ParseSurface(ps.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: platform %d has unknown kind %q", ErrCorruptSnapshot, i, ps.Kind)
		}
		if ps.IsCheckpoint {
			kind = SurfaceCheckpoint
		}
		p := &Platform{
			ID: ps.ID, X: ps.X, Y: ps.Y, W: max(ps.Width, 1), H: max(ps.Height, 1),
			Kind: kind, Active: ps.Active,
		}
		if ps.Fragile != nil {
			p.Fragile = *ps.Fragile
		}
		if p.ID == "" {
			p.ID = fmt.Sprintf("restored_%d", i)
		}
		w.Platforms = append(w.Platforms, p)
	}
	for i, cs := range snap.World.Collectibles {
		c := &Collectible{X: cs.X, Y: cs.Y, W: cfg.Pickups.Size, H: cfg.Pickups.Size, Active: cs.Active}
		if cs.Kind != CurrencyID && cs.Kind != "" {
			kind, ok := ParsePowerUp(cs.Kind)
			if !ok {
				return nil, fmt.Errorf("%w: collectible %d has unknown kind %q", ErrCorruptSnapshot, i, cs.Kind)
			}
			c.Kind = CollectPowerUp
			c.PowerUp = kind
		}
		w.Collectibles = append(w.Collectibles, c)
	}

	w.seq = maxSequence(w.Platforms)
	w.highestPoint = snap.World.HighestPoint
	for _, p := range w.Platforms {
		w.highestPoint = min(w.highestPoint, p.Y)
	}
	w.lastPowerUpY = snap.World.LastPowerUpY
	if w.lastPowerUpY == 0 {
		w.lastPowerUpY = w.highestPoint
	}
	w.setCheckpoint(snap.World.CheckpointID)

	w.nextCheckpoint = snap.World.NextCheckpointHeight
	if w.nextCheckpoint <= 0 {
		top := w.Checkpoint().Y
		for _, p := range w.Checkpoints() {
			top = min(top, p.Y)
		}
		w.nextCheckpoint = w.diff.NextCheckpoint(w.metersAt(top))
	}

	a := NewActor(cfg, stats, snap.Player.X, snap.Player.Y)
	a.VX, a.VY = snap.Player.VX, snap.Player.VY
	a.Grounded = snap.Player.Grounded
	a.Combo = snap.Player.Combo
	for id, ms := range snap.Player.PowerUps {
		if kind, ok := ParsePowerUp(id); ok && ms > 0 {
			a.PowerUps[kind] = ms
		}
	}
	if snap.Player.BulletTimeMs > 0 {
		a.BulletTime = true
		a.BulletTimeMs = snap.Player.BulletTimeMs
	}

	s := newSimulation(cfg, stats, w, a)
	cp := w.Checkpoint()
	s.Camera.SetFloor(cp.Y + cp.H)
	s.Camera.Y = min(snap.Camera.Y, 0)
	s.Collected = max(snap.CollectedCount, 0)
	s.Best = max(snap.Best, s.Height())
	s.Won = snap.Won
	s.RunID = snap.RunID
	s.lastHeight = s.Height()
	w.Generate(s.Camera.Y)
	return s, nil
}

// maxSequence returns the highest numeric id suffix so new platforms never
// reuse a restored id.
func maxSequence(platforms []*Platform) int {
	seq := len(platforms)
	for _, p := range platforms {
		i := strings.LastIndexByte(p.ID, '_')
		if i < 0 {
			continue
		}
		if n, err := strconv.Atoi(p.ID[i+1:]); err == nil {
			seq = max(seq, n)
		}
	}
	return seq
}
