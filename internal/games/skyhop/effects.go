package skyhop

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/skyhop/internal/core"
	"github.com/vovakirdan/skyhop/internal/games/skyhop/sim"
)

// Effects receives the side effects of a run. Implementations must not block:
// they are called from the tick loop.
type Effects interface {
	SpawnParticles(x, y float64, color core.Color, count int)
	PlaySound(kind sim.SoundKind)
	ShowFloatingText(text string, x, y float64, color core.Color)
	ShowModal(title, body string)
	NotifyScoreChanged(height int)
	NotifyCheckpointReached()
	NotifyVictory()
}

// Observer is implemented by effects that want every raw event, including
// the ones Effects has no method for.
type Observer interface {
	Observe(ev sim.Event)
}

// NopEffects ignores everything. Embed it to implement a subset of Effects.
type NopEffects struct{}

func (NopEffects) SpawnParticles(float64, float64, core.Color, int) {}
func (NopEffects) PlaySound(sim.SoundKind) {}
func (NopEffects) ShowFloatingText(string, float64, float64, core.Color) {}
func (NopEffects) ShowModal(string, string) {}
func (NopEffects) NotifyScoreChanged(int) {}
func (NopEffects) NotifyCheckpointReached() {}
func (NopEffects) NotifyVictory() {}

// MultiEffects fans every call out to each member in order.
type MultiEffects []Effects

func (m MultiEffects) SpawnParticles(x, y float64, color core.Color, count int) {
	for _, e := range m {
		e.SpawnParticles(x, y, color, count)
	}
}

func (m MultiEffects) PlaySound(kind sim.SoundKind) {
	for _, e := range m {
		e.PlaySound(kind)
	}
}

func (m MultiEffects) ShowFloatingText(text string, x, y float64, color core.Color) {
	for _, e := range m {
		e.ShowFloatingText(text, x, y, color)
	}
}

func (m MultiEffects) ShowModal(title, body string) {
	for _, e := range m {
		e.ShowModal(title, body)
	}
}

func (m MultiEffects) NotifyScoreChanged(height int) {
	for _, e := range m {
		e.NotifyScoreChanged(height)
	}
}

func (m MultiEffects) NotifyCheckpointReached() {
	for _, e := range m {
		e.NotifyCheckpointReached()
	}
}

func (m MultiEffects) NotifyVictory() {
	for _, e := range m {
		e.NotifyVictory()
	}
}

// Dispatch delivers events to effects, one call per event and sink.
// MultiEffects members are delivered to separately, so a panicking
// collaborator is logged and skipped without starving the others, and the
// remaining events still go out.
func Dispatch(events []sim.Event, effects Effects, logger *log.Logger) {
	sinks := flatten(effects, nil)
	for _, ev := range events {
		for _, sink := range sinks {
			deliver(ev, sink, logger)
		}
	}
}

func flatten(e Effects, out []Effects) []Effects {
	switch e := e.(type) {
	case nil:
	case MultiEffects:
		for _, member := range e {
			out = flatten(member, out)
		}
	default:
		out = append(out, e)
	}
	return out
}

func deliver(ev sim.Event, effects Effects, logger *log.Logger) {
	defer func() {
		if r := recover(); r != nil && logger != nil {
			logger.Error("effect panicked", "event", ev.Kind, "panic", fmt.Sprint(r))
		}
	}()

	if o, ok := effects.(Observer); ok {
		o.Observe(ev)
	}

	switch ev.Kind {
	case sim.EventParticles:
		effects.SpawnParticles(ev.X, ev.Y, ev.Color, ev.Count)
	case sim.EventSound:
		effects.PlaySound(ev.Sound)
	case sim.EventFloatingText:
		effects.ShowFloatingText(ev.Text, ev.X, ev.Y, ev.Color)
	case sim.EventModal:
		effects.ShowModal(ev.Text, ev.Body)
	case sim.EventScore:
		effects.NotifyScoreChanged(ev.Height)
	case sim.EventCheckpoint:
		effects.NotifyCheckpointReached()
	case sim.EventVictory:
		effects.NotifyVictory()
	}
}

// Observe forwards raw events to every member that observes them.
func (m MultiEffects) Observe(ev sim.Event) {
	for _, e := range m {
		if o, ok := e.(Observer); ok {
			o.Observe(ev)
		}
	}
}
