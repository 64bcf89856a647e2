package tui

import (
	"time"

	"github.com/vovakirdan/skyhop/internal/core"
)

// repeatWindow is how close two events of the same key must be to count
// as terminal auto-repeat rather than a second press.
const repeatWindow = 60 * time.Millisecond

// chargeInput adapts terminal key events to hold and release edges.
// Terminals only report presses, so a direction key toggles: the first
// press starts charging, the next press of the same key releases the jump.
// Another direction key moves the charge over to itself; down cancels it.
type chargeInput struct {
	tracker  *core.KeyTracker
	charging core.Action
	lastKey  core.Action
	lastAt   time.Time
}

func newChargeInput() *chargeInput {
	return &chargeInput{tracker: core.NewKeyTracker()}
}

// Key handles one press of a direction key. Down only reports whether a
// charge is running; the caller ends it with Abort.
func (c *chargeInput) Key(a core.Action, now time.Time) (cancel bool) {
	if a == c.lastKey && now.Sub(c.lastAt) < repeatWindow {
		c.lastAt = now
		return false
	}
	c.lastKey = a
	c.lastAt = now

	if a == core.ActionDown {
		return c.charging != core.ActionNone
	}

	switch c.charging {
	case core.ActionNone:
		c.tracker.Press(a, now)
		c.charging = a
	case a:
		c.tracker.Release(a, now)
		c.charging = core.ActionNone
	default:
		c.tracker.Cancel(c.charging)
		c.tracker.Press(a, now)
		c.charging = a
	}
	return false
}

// Abort ends the running charge without a jump. On the ground the key is
// released alongside ActionDown so the climber swallows the release; in the
// air the hold is dropped with no release edge.
func (c *chargeInput) Abort(grounded bool, now time.Time) {
	if c.charging == core.ActionNone {
		return
	}
	if grounded {
		c.tracker.Release(c.charging, now)
	} else {
		c.tracker.Cancel(c.charging)
	}
	c.charging = core.ActionNone
}

// Charging returns the key being held, ActionNone if none.
func (c *chargeInput) Charging() core.Action {
	return c.charging
}

// Rearm restarts the hold of the charging key, used when the climber lands
// with a key that was pressed mid-air for drift.
func (c *chargeInput) Rearm(now time.Time) {
	if c.charging == core.ActionNone {
		return
	}
	c.tracker.Cancel(c.charging)
	c.tracker.Press(c.charging, now)
}

// Reset drops any hold.
func (c *chargeInput) Reset() {
	if c.charging != core.ActionNone {
		c.tracker.Cancel(c.charging)
	}
	c.charging = core.ActionNone
	c.lastKey = core.ActionNone
	c.tracker.EndTick()
}

// Fill writes the key states of this tick into the frame.
func (c *chargeInput) Fill(frame *core.InputFrame, now time.Time) {
	c.tracker.Fill(frame, now)
}

// EndTick clears the release edges consumed by the tick.
func (c *chargeInput) EndTick() {
	c.tracker.EndTick()
}

// Compensate discounts time spent paused from the running hold.
func (c *chargeInput) Compensate(d time.Duration) {
	c.tracker.Compensate(d)
}
