package sim

import "github.com/vovakirdan/skyhop/internal/core"

// regenParticles is the number of particle bursts of a regeneration.
const regenParticles = 40

// CheckpointRef is the id and cached geometry of the reference checkpoint.
type CheckpointRef struct {
	ID         string
	X, Y, W, H float64
}

func refOf(p *Platform) CheckpointRef {
	return CheckpointRef{ID: p.ID, X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// Checkpoint returns the highest checkpoint the actor has landed on.
func (w *World) Checkpoint() CheckpointRef {
	if w.checkpoint == nil {
		w.resetCheckpointToGround()
	}
	return refOf(w.checkpoint)
}

// ReachCheckpoint records a landing on a checkpoint platform. The reference
// only advances to a strictly higher checkpoint, so repeated landings on the
// same one notify once.
func (w *World) ReachCheckpoint(p *Platform, ev *Events) bool {
	if !p.IsCheckpoint() {
		return false
	}
	if w.checkpoint != nil && p.Y >= w.checkpoint.Y {
		return false
	}
	w.checkpoint = p

	height := w.metersAt(p.Y)
	ev.Checkpoint(p, height)
	ev.FloatingText("CHECKPOINT!", p.X+p.W/2, p.Y-20, core.ColorGold)
	ev.Sound(SoundMilestone)
	ev.Particles(p.X+p.W/2, p.Y, core.ColorGold, 20)
	return true
}

// Regenerate discards every non-checkpoint platform and every pickup,
// drops unreached checkpoints above the reference, resets the frontier to
// the reference checkpoint and generates a fresh path.
func (w *World) Regenerate(cameraY float64, ev *Events) {
	ref := w.Checkpoint()

	kept := w.Platforms[:0]
	for _, p := range w.Platforms {
		if p.IsCheckpoint() && p.Y >= ref.Y {
			kept = append(kept, p)
		}
	}
	clear(w.Platforms[len(kept):])
	w.Platforms = kept
	w.Collectibles = nil

	w.highestPoint = ref.Y
	w.nextCheckpoint = w.diff.NextCheckpoint(w.metersAt(ref.Y))
	w.Generate(cameraY)

	ev.Regenerated(ref, w.metersAt(ref.Y))
	for range regenParticles / 10 {
		ev.Particles(ref.X+ref.W/2, ref.Y, core.ColorGold, 10)
	}
}

// resetCheckpointToGround falls back to the ground checkpoint, restoring it
// if it is missing.
func (w *World) resetCheckpointToGround() {
	for _, p := range w.Platforms {
		if p.ID == GroundID && p.IsCheckpoint() {
			w.checkpoint = p
			return
		}
	}
	ground := w.groundPlatform()
	w.Platforms = append([]*Platform{ground}, w.Platforms...)
	w.checkpoint = ground
}

// setCheckpoint points the reference at the checkpoint with the given id,
// falling back to the ground.
func (w *World) setCheckpoint(id string) {
	for _, p := range w.Platforms {
		if p.ID == id && p.IsCheckpoint() {
			w.checkpoint = p
			return
		}
	}
	w.resetCheckpointToGround()
}
