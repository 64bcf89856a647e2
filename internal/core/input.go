package core

import "time"

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone       Action = iota
	ActionLeft              // Left arrow, A - charge a jump to the left
	ActionRight             // Right arrow, D - charge a jump to the right
	ActionUp                // Up arrow, W, Space - charge a straight jump
	ActionDown              // Down arrow, S - cancel the pending jump
	ActionConfirm           // Enter - confirm selection or dismiss a modal
	ActionBack              // B, Escape - go back to menu
	ActionRestart           // N - start a new run
	ActionRegenerate        // R - rebuild the path above the checkpoint
	ActionPause             // P - pause/unpause
	ActionQuit              // Q, Ctrl+C - exit
)

// DirectionKeys are the actions whose hold duration is tracked.
var DirectionKeys = [...]Action{ActionLeft, ActionRight, ActionUp, ActionDown}

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionRegenerate:
		return "Regenerate"
	case ActionPause:
		return "Pause"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// KeyState is the per-tick view of one direction key.
type KeyState struct {
	Pressed      bool
	JustReleased bool          // true for exactly one tick after release
	Held         time.Duration // running hold time while pressed, total hold time on release
}

// HeldMs returns the hold duration in milliseconds.
func (k KeyState) HeldMs() float64 {
	return float64(k.Held) / float64(time.Millisecond)
}

// InputFrame is the input snapshot consumed by one simulation tick.
type InputFrame struct {
	// Actions holds edge-triggered actions (pause, regenerate, ...).
	Actions map[Action]bool
	// Keys holds hold/release state for the direction keys.
	Keys map[Action]KeyState
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
		Keys:    make(map[Action]KeyState),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// SetKey records the state of a direction key.
func (f *InputFrame) SetKey(a Action, k KeyState) {
	if f.Keys == nil {
		f.Keys = make(map[Action]KeyState)
	}
	f.Keys[a] = k
}

// Key returns the state of a direction key. Missing keys are released.
func (f InputFrame) Key(a Action) KeyState {
	return f.Keys[a]
}

// Clear resets all actions and keys for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
	clear(f.Keys)
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	for k, v := range f.Keys {
		clone.Keys[k] = v
	}
	return clone
}

type trackedKey struct {
	pressed      bool
	justReleased bool
	start        time.Time
	duration     time.Duration
}

// KeyTracker turns press and release events into per-tick KeyState values.
// It is the adapter between raw device events and InputFrame.
type KeyTracker struct {
	keys map[Action]*trackedKey
}

// NewKeyTracker creates a tracker for the direction keys.
func NewKeyTracker() *KeyTracker {
	t := &KeyTracker{keys: make(map[Action]*trackedKey, len(DirectionKeys))}
	for _, a := range DirectionKeys {
		t.keys[a] = &trackedKey{}
	}
	return t
}

// Press starts a hold. Repeated presses while held are ignored.
func (t *KeyTracker) Press(a Action, now time.Time) {
	k, ok := t.keys[a]
	if !ok || k.pressed {
		return
	}
	k.pressed = true
	k.start = now
}

// Release ends a hold and raises the just-released edge for the next frame.
func (t *KeyTracker) Release(a Action, now time.Time) {
	k, ok := t.keys[a]
	if !ok || !k.pressed {
		return
	}
	k.pressed = false
	k.justReleased = true
	k.duration = max(now.Sub(k.start), 0)
}

// Cancel drops a hold without producing a release edge.
func (t *KeyTracker) Cancel(a Action) {
	if k, ok := t.keys[a]; ok {
		k.pressed = false
		k.justReleased = false
		k.duration = 0
	}
}

// IsPressed reports whether a key is currently held.
func (t *KeyTracker) IsPressed(a Action) bool {
	k, ok := t.keys[a]
	return ok && k.pressed
}

// Held returns the running hold time of a pressed key, zero otherwise.
func (t *KeyTracker) Held(a Action, now time.Time) time.Duration {
	k, ok := t.keys[a]
	if !ok || !k.pressed {
		return 0
	}
	return max(now.Sub(k.start), 0)
}

// Fill writes the key states into the frame.
func (t *KeyTracker) Fill(frame *InputFrame, now time.Time) {
	for _, a := range DirectionKeys {
		k := t.keys[a]
		state := KeyState{Pressed: k.pressed, JustReleased: k.justReleased}
		switch {
		case k.pressed:
			state.Held = max(now.Sub(k.start), 0)
		case k.justReleased:
			state.Held = k.duration
		}
		frame.SetKey(a, state)
	}
}

// EndTick clears the just-released edges after a tick consumed them.
func (t *KeyTracker) EndTick() {
	for _, k := range t.keys {
		k.justReleased = false
	}
}

// Compensate shifts the start of every held key forward by d so time spent
// paused does not count as charge.
func (t *KeyTracker) Compensate(d time.Duration) {
	if d <= 0 {
		return
	}
	for _, k := range t.keys {
		if k.pressed {
			k.start = k.start.Add(d)
		}
	}
}
