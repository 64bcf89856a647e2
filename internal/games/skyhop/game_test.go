package skyhop

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/skyhop/internal/config"
	"github.com/vovakirdan/skyhop/internal/core"
	"github.com/vovakirdan/skyhop/internal/games/skyhop/sim"
	"github.com/vovakirdan/skyhop/internal/registry"
)

func runtimeConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42}
}

// newTestGame returns a game attached to store whose actor stands on the
// ground with no pickups around.
func newTestGame(t *testing.T, preset config.DifficultyPreset, store sim.Persistence) *Game {
	t.Helper()
	g := New(ModeFor(preset))
	if store != nil {
		g.Attach(store, nil, nil)
	}
	g.Reset(runtimeConfig())
	g.Sim().World.Collectibles = nil
	idle(g, 120)
	if !g.Sim().Actor.Grounded {
		t.Fatal("actor did not settle on the ground")
	}
	return g
}

func idle(g *Game, ticks int) {
	for range ticks {
		g.Step(core.NewInputFrame())
	}
}

func placePowerUp(g *Game, kind sim.PowerUpKind) {
	a := g.Sim().Actor
	g.Sim().World.Collectibles = append(g.Sim().World.Collectibles, &sim.Collectible{
		X: a.X, Y: a.Y, W: 20, H: 20,
		Kind: sim.CollectPowerUp, PowerUp: kind, Active: true,
	})
}

func confirm() core.InputFrame {
	in := core.NewInputFrame()
	in.Set(core.ActionConfirm)
	return in
}

func TestModesRegistered(t *testing.T) {
	for _, m := range Modes() {
		if !registry.Exists(m.ID) {
			t.Errorf("mode %q not registered", m.ID)
			continue
		}
		g, err := registry.Create(m.ID)
		if err != nil {
			t.Fatal(err)
		}
		if g.ID() != m.ID || g.Title() != m.Title {
			t.Errorf("created %q/%q, want %q/%q", g.ID(), g.Title(), m.ID, m.Title)
		}
	}
}

func TestModeAppliesPreset(t *testing.T) {
	if !New(ModeFor(config.DifficultyAssisted)).Config().Difficulty.Preview {
		t.Error("assisted mode has no preview")
	}
	if New(ModeFor(config.DifficultyExtreme)).Config().Difficulty.Preview {
		t.Error("extreme mode has a preview")
	}
}

func TestPauseFreezesRun(t *testing.T) {
	g := newTestGame(t, config.DifficultyExtreme, nil)
	a := g.Sim().Actor
	a.Y -= 100
	a.Grounded = false

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	if !g.State().Paused {
		t.Fatal("not paused")
	}
	y := a.Y
	idle(g, 10)
	if a.Y != y {
		t.Errorf("actor moved while paused: %v -> %v", y, a.Y)
	}

	g.Step(pause)
	if g.State().Paused {
		t.Fatal("still paused")
	}
	idle(g, 5)
	if a.Y == y {
		t.Error("actor did not move after unpause")
	}
}

func TestPowerUpIntroModal(t *testing.T) {
	store := newMemStore()
	g := newTestGame(t, config.DifficultyExtreme, store)

	placePowerUp(g, sim.PowerUpMagnet)
	g.Step(core.NewInputFrame())

	m, ok := g.Modal()
	if !ok || m.Title != sim.PowerUpMagnet.Info().Name {
		t.Fatalf("modal = %+v, %v", m, ok)
	}
	if !g.State().Paused {
		t.Error("modal does not pause")
	}
	if !g.Profile().SeenPowerUp("magnet") {
		t.Error("magnet not marked seen")
	}

	timer := g.Sim().Actor.PowerUps[sim.PowerUpMagnet]
	idle(g, 10)
	if g.Sim().Actor.PowerUps[sim.PowerUpMagnet] != timer {
		t.Error("power-up timer ran under the modal")
	}

	g.Step(confirm())
	if _, ok := g.Modal(); ok {
		t.Fatal("confirm did not dismiss the modal")
	}

	// Second pickup of a seen kind shows nothing.
	placePowerUp(g, sim.PowerUpMagnet)
	g.Step(core.NewInputFrame())
	if _, ok := g.Modal(); ok {
		t.Error("modal shown for a seen power-up")
	}
}

func TestSaveAndContinue(t *testing.T) {
	store := newMemStore()
	g := newTestGame(t, config.DifficultyAssisted, store)
	g.Sim().Collected = 7
	g.Sim().Best = 33
	if err := g.Save(); err != nil {
		t.Fatal(err)
	}
	if !g.HasSave() {
		t.Fatal("HasSave false after Save")
	}
	if g.Profile().Record(config.DifficultyAssisted) != 33 {
		t.Error("Save did not raise the record")
	}

	other := New(ModeFor(config.DifficultyAssisted))
	other.Attach(store, nil, nil)
	if !other.Continue() {
		t.Fatal("Continue failed")
	}
	if other.Sim().RunID != g.Sim().RunID || other.Sim().Collected != 7 || other.Sim().Best != 33 {
		t.Errorf("restored run %q collected=%d best=%d", other.Sim().RunID, other.Sim().Collected, other.Sim().Best)
	}

	// Saves are kept per mode.
	extreme := New(ModeFor(config.DifficultyExtreme))
	extreme.Attach(store, nil, nil)
	if extreme.HasSave() || extreme.Continue() {
		t.Error("extreme mode sees the assisted save")
	}
}

func TestContinueDiscardsCorruptSave(t *testing.T) {
	store := newMemStore()
	key := sim.StateKey(string(config.DifficultyExtreme))
	store.blobs[key] = []byte("{not json")

	g := New(ModeFor(config.DifficultyExtreme))
	g.Attach(store, nil, nil)
	if g.Continue() {
		t.Fatal("Continue accepted a corrupt save")
	}
	if _, ok := store.blobs[key]; ok {
		t.Error("corrupt save kept")
	}
}

func TestEndRunBanksOnce(t *testing.T) {
	store := newMemStore()
	g := newTestGame(t, config.DifficultyExtreme, store)
	g.Sim().Collected = 50
	g.Sim().Best = 120
	if err := g.Save(); err != nil {
		t.Fatal(err)
	}

	res := g.EndRun()
	if res.Collected != 50 || res.Height != 120 || res.Mode != ModeExtreme || res.RunID == "" {
		t.Errorf("result = %+v", res)
	}
	if g.Profile().Wallet() != 50 {
		t.Errorf("wallet = %d, want 50", g.Profile().Wallet())
	}
	if g.HasSave() {
		t.Error("save survived EndRun")
	}

	if again := g.EndRun(); again != res {
		t.Errorf("second EndRun = %+v", again)
	}
	if g.Profile().Wallet() != 50 {
		t.Errorf("wallet after second EndRun = %d", g.Profile().Wallet())
	}
	if err := g.Save(); err != nil || g.HasSave() {
		t.Error("Save after EndRun wrote a snapshot")
	}
}

func TestNewRunSettlesSave(t *testing.T) {
	store := newMemStore()
	g := newTestGame(t, config.DifficultyExtreme, store)
	g.Sim().Collected = 30
	oldRun := g.Sim().RunID
	if err := g.Save(); err != nil {
		t.Fatal(err)
	}

	g.NewRun()

	if g.Profile().Wallet() != 30 {
		t.Errorf("wallet = %d, want 30", g.Profile().Wallet())
	}
	if g.HasSave() {
		t.Error("old save kept")
	}
	if g.Sim().RunID == oldRun || g.Sim().Collected != 0 {
		t.Error("NewRun did not start a fresh run")
	}
}

func TestAutosave(t *testing.T) {
	store := newMemStore()
	g := newTestGame(t, config.DifficultyExtreme, store)
	store.RemoveState(g.stateKey())

	ticks := int(g.Config().AutosaveSeconds*1000/g.rt.FrameMs()) + 2
	idle(g, ticks)
	if !g.HasSave() {
		t.Errorf("no autosave after %d ticks", ticks)
	}
}

func TestEquippedCharacterPlays(t *testing.T) {
	store := newMemStore()
	p := NewProfile(store, config.DefaultSkyhopConfig())
	p.Deposit(200)
	if err := p.Buy("flea"); err != nil {
		t.Fatal(err)
	}
	if err := p.Equip("flea"); err != nil {
		t.Fatal(err)
	}

	g := New(ModeFor(config.DifficultyExtreme))
	g.Attach(store, nil, nil)
	g.Reset(runtimeConfig())
	if g.Character().ID != "flea" || g.Sim().Actor.Stats().ChargeSpeed != 3.5 {
		t.Errorf("character = %q", g.Character().ID)
	}
}

func TestBiomeAt(t *testing.T) {
	tests := []struct {
		height int
		want   string
	}{
		{0, "Forest"},
		{2999, "Forest"},
		{3000, "Sky"},
		{6499, "Sky"},
		{6500, "Space"},
		{99999, "Space"},
	}
	for _, tt := range tests {
		if got := BiomeAt(tt.height).Name; got != tt.want {
			t.Errorf("BiomeAt(%d) = %s, want %s", tt.height, got, tt.want)
		}
	}
}

func screenText(s *core.Screen) string {
	return s.String()
}

// playfield returns the screen below the HUD.
func playfield(s *core.Screen) string {
	return strings.Join(strings.Split(s.String(), "\n")[hudRows:], "\n")
}

func TestRender(t *testing.T) {
	g := newTestGame(t, config.DifficultyExtreme, nil)
	scr := core.NewScreen(80, 24)
	g.Render(scr)
	text := playfield(scr)

	if !strings.Contains(scr.Row(0), "best") {
		t.Errorf("HUD missing: %q", scr.Row(0))
	}
	if !strings.Contains(text, g.Character().Glyph) {
		t.Error("actor glyph not drawn")
	}
	if !strings.Contains(text, "█") {
		t.Error("ground checkpoint not drawn")
	}
}

func TestRenderModalAndPause(t *testing.T) {
	g := newTestGame(t, config.DifficultyExtreme, nil)
	g.overlay.ShowModal("World rebuilt", "The path upward has been renewed.")
	scr := core.NewScreen(80, 24)
	g.Render(scr)
	if !strings.Contains(screenText(scr), "World rebuilt") {
		t.Error("modal not drawn")
	}

	g.overlay.dismiss()
	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	scr.Clear()
	g.Render(scr)
	if !strings.Contains(screenText(scr), "PAUSED") {
		t.Error("pause banner not drawn")
	}
}

func TestRenderForecastOnlyWhenAssisted(t *testing.T) {
	charge := core.NewInputFrame()
	charge.SetKey(core.ActionUp, core.KeyState{Pressed: true, Held: 400 * time.Millisecond})

	for _, tt := range []struct {
		preset config.DifficultyPreset
		want   bool
	}{
		{config.DifficultyAssisted, true},
		{config.DifficultyExtreme, false},
	} {
		g := newTestGame(t, tt.preset, nil)
		g.Step(charge)
		g.overlay.particles = nil

		scr := core.NewScreen(80, 24)
		g.Render(scr)
		got := strings.ContainsAny(playfield(scr), "·×")
		if got != tt.want {
			t.Errorf("%s: forecast drawn = %v, want %v", tt.preset, got, tt.want)
		}
	}
}

func TestSavedRun(t *testing.T) {
	store := newMemStore()
	mode := ModeFor(config.DifficultyExtreme)
	if _, ok := SavedRun(store, mode); ok {
		t.Fatal("SavedRun on empty store")
	}
	if _, ok := SavedRun(nil, mode); ok {
		t.Fatal("SavedRun without a store")
	}

	g := newTestGame(t, config.DifficultyExtreme, store)
	g.Sim().Best = 77
	if err := g.Save(); err != nil {
		t.Fatal(err)
	}
	snap, ok := SavedRun(store, mode)
	if !ok || snap.Best != 77 {
		t.Errorf("SavedRun = %d, %v", snap.Best, ok)
	}
	if _, ok := SavedRun(store, ModeFor(config.DifficultyAssisted)); ok {
		t.Error("assisted mode sees the extreme save")
	}
}
