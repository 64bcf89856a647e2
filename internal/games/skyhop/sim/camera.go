package sim

import (
	"math"

	"github.com/vovakirdan/skyhop/internal/config"
)

// floorMargin is how much of the view stays below the reference checkpoint.
const floorMargin = 40

// Camera follows the actor vertically. Y is the world y of the top edge of
// the view. It never goes below zero and never scrolls past the floor, so a
// missed jump carries the actor out of the view instead of down the tower.
type Camera struct {
	Y          float64
	viewHeight float64
	lerp       float64
	maxY       float64
}

// NewCamera creates a camera resting on the ground.
func NewCamera(cfg config.WorldConfig) Camera {
	return Camera{viewHeight: cfg.ViewHeight, lerp: cfg.CameraLerp}
}

// SetFloor sets the lowest world y the view has to show.
func (c *Camera) SetFloor(bottomY float64) {
	c.maxY = min(0, bottomY+floorMargin-c.viewHeight)
}

// Follow eases the camera towards centring actorY.
func (c *Camera) Follow(actorY, dt float64) {
	target := actorY - c.viewHeight/2
	factor := 1 - math.Pow(1-c.lerp, dt)
	c.Y += (target - c.Y) * factor
	c.clamp()
}

// SnapTo centres the camera on actorY immediately.
func (c *Camera) SnapTo(actorY float64) {
	c.Y = actorY - c.viewHeight/2
	c.clamp()
}

// Bottom returns the world y of the bottom edge of the view.
func (c *Camera) Bottom() float64 {
	return c.Y + c.viewHeight
}

func (c *Camera) clamp() {
	c.Y = min(c.Y, c.maxY)
}
