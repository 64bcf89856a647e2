package skyhop

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/skyhop/internal/core"
	"github.com/vovakirdan/skyhop/internal/games/skyhop/sim"
)

// recorder logs every call it receives.
type recorder struct {
	NopEffects
	calls    []string
	observed []sim.EventKind
	panicOn  string
}

func (r *recorder) note(call string) {
	if call == r.panicOn {
		panic("boom")
	}
	r.calls = append(r.calls, call)
}

func (r *recorder) SpawnParticles(float64, float64, core.Color, int) {
	r.note("particles")
}

func (r *recorder) PlaySound(sim.SoundKind) {
	r.note("sound")
}

func (r *recorder) ShowFloatingText(string, float64, float64, core.Color) {
	r.note("text")
}

func (r *recorder) ShowModal(string, string) {
	r.note("modal")
}

func (r *recorder) NotifyScoreChanged(int) {
	r.note("score")
}

func (r *recorder) NotifyCheckpointReached() {
	r.note("checkpoint")
}

func (r *recorder) NotifyVictory() {
	r.note("victory")
}

func (r *recorder) Observe(ev sim.Event) {
	r.observed = append(r.observed, ev.Kind)
}

func allEvents() []sim.Event {
	return []sim.Event{
		{Kind: sim.EventParticles, Count: 3},
		{Kind: sim.EventSound, Sound: sim.SoundJump},
		{Kind: sim.EventFloatingText, Text: "hi"},
		{Kind: sim.EventModal, Text: "t", Body: "b"},
		{Kind: sim.EventScore, Height: 4},
		{Kind: sim.EventCheckpoint},
		{Kind: sim.EventVictory},
		{Kind: sim.EventCollect, Amount: 2},
	}
}

func TestDispatchRoutesEvents(t *testing.T) {
	rec := &recorder{}
	Dispatch(allEvents(), rec, nil)

	want := []string{"particles", "sound", "text", "modal", "score", "checkpoint", "victory"}
	if strings.Join(rec.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
	if len(rec.observed) != len(allEvents()) {
		t.Errorf("observed %d events, want %d", len(rec.observed), len(allEvents()))
	}
}

func TestDispatchRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	rec := &recorder{panicOn: "sound"}

	Dispatch(allEvents(), rec, logger)

	if len(rec.calls) != 6 || rec.calls[1] != "text" {
		t.Errorf("calls after panic = %v", rec.calls)
	}
	if !strings.Contains(buf.String(), "effect panicked") {
		t.Errorf("panic not logged: %q", buf.String())
	}
}

func TestDispatchNilEffects(t *testing.T) {
	Dispatch(allEvents(), nil, nil)
}

func TestMultiEffectsFansOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Dispatch(allEvents()[:2], MultiEffects{a, NopEffects{}, b}, nil)

	for i, r := range []*recorder{a, b} {
		if len(r.calls) != 2 || len(r.observed) != 2 {
			t.Errorf("member %d: calls %v observed %v", i, r.calls, r.observed)
		}
	}
}

func TestMultiEffectsIsolatesPanics(t *testing.T) {
	var buf bytes.Buffer
	bad, good := &recorder{panicOn: "score"}, &recorder{}

	Dispatch(allEvents(), MultiEffects{bad, MultiEffects{good}}, log.New(&buf))

	if len(good.calls) != 7 || len(good.observed) != len(allEvents()) {
		t.Errorf("sink after a panicking one: calls %v observed %d", good.calls, len(good.observed))
	}
	if len(bad.calls) != 6 {
		t.Errorf("panicking sink lost more than one call: %v", bad.calls)
	}
	if !strings.Contains(buf.String(), "effect panicked") {
		t.Errorf("panic not logged: %q", buf.String())
	}
}
