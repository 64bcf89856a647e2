package sim

import "github.com/vovakirdan/skyhop/internal/core"

// EventKind tags an Event.
type EventKind uint8

const (
	EventParticles EventKind = iota
	EventSound
	EventFloatingText
	EventModal
	EventScore
	EventCheckpoint
	EventVictory
	EventRegenerated
	EventPowerUp
	EventCollect
)

var eventNames = [...]string{
	EventParticles:    "particles",
	EventSound:        "sound",
	EventFloatingText: "floating_text",
	EventModal:        "modal",
	EventScore:        "score",
	EventCheckpoint:   "checkpoint",
	EventVictory:      "victory",
	EventRegenerated:  "regenerated",
	EventPowerUp:      "powerup",
	EventCollect:      "collect",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// SoundKind names a sound cue.
type SoundKind uint8

const (
	SoundJump SoundKind = iota
	SoundLand
	SoundBounce
	SoundCollect
	SoundMilestone
	SoundPowerUp
	SoundShield
	SoundRegenerate
	SoundVictory
)

var soundNames = [...]string{
	SoundJump:       "jump",
	SoundLand:       "land",
	SoundBounce:     "bounce",
	SoundCollect:    "collect",
	SoundMilestone:  "milestone",
	SoundPowerUp:    "powerup",
	SoundShield:     "shield",
	SoundRegenerate: "regenerate",
	SoundVictory:    "victory",
}

func (s SoundKind) String() string {
	if int(s) < len(soundNames) {
		return soundNames[s]
	}
	return "unknown"
}

// Event is a fire-and-forget notification produced during a tick. Only the
// fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	X, Y    float64 // world coordinates
	Color   core.Color
	Count   int    // particles
	Sound   SoundKind
	Text    string // floating text, modal title, checkpoint id
	Body    string // modal body
	Height  int    // meters, for score/checkpoint/victory
	PowerUp PowerUpKind
	Amount  int // currency gained
}

// Events is the per-tick event queue.
type Events struct {
	list []Event
}

func (e *Events) push(ev Event) {
	e.list = append(e.list, ev)
}

// Len returns the number of queued events.
func (e *Events) Len() int {
	return len(e.list)
}

// Drain returns the queued events and empties the queue.
func (e *Events) Drain() []Event {
	out := e.list
	e.list = nil
	return out
}

func (e *Events) Particles(x, y float64, c core.Color, count int) {
	e.push(Event{Kind: EventParticles, X: x, Y: y, Color: c, Count: count})
}

func (e *Events) Sound(s SoundKind) {
	e.push(Event{Kind: EventSound, Sound: s})
}

func (e *Events) FloatingText(text string, x, y float64, c core.Color) {
	e.push(Event{Kind: EventFloatingText, Text: text, X: x, Y: y, Color: c})
}

func (e *Events) Modal(title, body string) {
	e.push(Event{Kind: EventModal, Text: title, Body: body})
}

func (e *Events) Score(height int) {
	e.push(Event{Kind: EventScore, Height: height})
}

func (e *Events) Checkpoint(p *Platform, height int) {
	e.push(Event{Kind: EventCheckpoint, Text: p.ID, X: p.X + p.W/2, Y: p.Y, Height: height})
}

func (e *Events) Victory(height int) {
	e.push(Event{Kind: EventVictory, Height: height})
}

func (e *Events) Regenerated(ref CheckpointRef, height int) {
	e.push(Event{Kind: EventRegenerated, Text: ref.ID, X: ref.X + ref.W/2, Y: ref.Y, Height: height})
}

func (e *Events) PowerUp(kind PowerUpKind, x, y float64) {
	e.push(Event{Kind: EventPowerUp, PowerUp: kind, X: x, Y: y, Color: kind.Info().Color})
}

func (e *Events) Collect(amount int, x, y float64) {
	e.push(Event{Kind: EventCollect, Amount: amount, X: x, Y: y, Color: core.ColorWater})
}
