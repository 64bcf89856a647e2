package sim

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/skyhop/internal/config"
)

func newTestWorld(seed int64) *World {
	return NewWorld(config.DefaultSkyhopConfig(), rand.New(rand.NewSource(seed)), 0)
}

func TestWorldStartsOnGround(t *testing.T) {
	w := newTestWorld(1)

	ref := w.Checkpoint()
	if ref.ID != GroundID {
		t.Errorf("reference checkpoint = %q, expected %q", ref.ID, GroundID)
	}
	if ref.W != w.Width() || ref.X != 0 {
		t.Errorf("ground spans x=%v w=%v, expected full width", ref.X, ref.W)
	}
	if len(w.Platforms) < 2 {
		t.Errorf("expected generated platforms, got %d", len(w.Platforms))
	}
}

func TestWorldHeadroom(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	w := newTestWorld(7)
	var ev Events

	for cam := 0.0; cam > -30000; cam -= 137 {
		w.Update(cam, 1, &ev)
		if limit := cam - headroomScreens*cfg.World.ViewHeight; w.HighestPoint() > limit {
			t.Fatalf("camera %v: frontier %v is below %v", cam, w.HighestPoint(), limit)
		}
	}
}

func TestWorldCheckpointsSurvivePruning(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	w := newTestWorld(3)
	var ev Events
	seen := map[string]bool{GroundID: true}

	for cam := 0.0; cam > -40000; cam -= 211 {
		w.Update(cam, 1, &ev)

		present := make(map[string]bool)
		for _, p := range w.Platforms {
			if p.IsCheckpoint() {
				present[p.ID] = true
				seen[p.ID] = true
			} else if p.Y >= cam+cfg.World.ViewHeight+cfg.World.PruneMargin {
				t.Fatalf("camera %v: platform %s at %v should have been pruned", cam, p.ID, p.Y)
			}
		}
		for id := range seen {
			if !present[id] {
				t.Fatalf("camera %v: checkpoint %s was pruned", cam, id)
			}
		}
	}
	if len(seen) < 5 {
		t.Errorf("expected several checkpoints over the climb, saw %d", len(seen))
	}
}

func TestWorldGeometry(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	w := NewWorld(cfg, rand.New(rand.NewSource(11)), -20000)

	for i, p := range w.Platforms {
		if p.X < 0 || p.X+p.W > w.Width()+eps {
			t.Errorf("platform %s out of bounds: x=%v w=%v", p.ID, p.X, p.W)
		}
		if !p.IsCheckpoint() && p.W < cfg.World.WidthMin {
			t.Errorf("platform %s narrower than minimum: %v", p.ID, p.W)
		}
		if i > 0 && p.Y >= w.Platforms[i-1].Y {
			t.Errorf("platform %s at %v is not above %s at %v", p.ID, p.Y, w.Platforms[i-1].ID, w.Platforms[i-1].Y)
		}
	}
}

func TestWorldCheckpointCadence(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	w := NewWorld(cfg, rand.New(rand.NewSource(5)), -40000)

	cps := w.Checkpoints()
	if len(cps) < 3 {
		t.Fatalf("expected generated checkpoints, got %d", len(cps))
	}
	if cps[0].ID != GroundID {
		t.Errorf("first checkpoint = %s, expected ground", cps[0].ID)
	}
	if m := w.metersAt(cps[1].Y); m < cfg.Checkpoints.FirstAt {
		t.Errorf("first checkpoint at %dm, expected at least %dm", m, cfg.Checkpoints.FirstAt)
	}
	for i := 2; i < len(cps); i++ {
		prev, cur := w.metersAt(cps[i-1].Y), w.metersAt(cps[i].Y)
		if cur <= prev {
			t.Errorf("checkpoint %d at %dm is not above %dm", i, cur, prev)
		}
		if cps[i].W > cps[i-1].W {
			t.Errorf("checkpoint %d widened from %v to %v", i, cps[i-1].W, cps[i].W)
		}
		if cps[i].W < cfg.Checkpoints.MinWidth {
			t.Errorf("checkpoint %d narrower than minimum: %v", i, cps[i].W)
		}
	}
}

func TestWorldPowerUpSpacing(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	w := NewWorld(cfg, rand.New(rand.NewSource(9)), -60000)
	pk := cfg.Pickups

	lastY := cfg.World.ViewHeight - pk.PowerUpLift
	count := 0
	for _, c := range w.Collectibles {
		if c.Kind != CollectPowerUp {
			continue
		}
		count++
		climbed := (lastY - c.Y) / pixelsPerMeter
		if climbed <= pk.PowerUpMinSpacing {
			t.Errorf("power-up only %vm above the previous one", climbed)
		}
		if maxClimb := pk.PowerUpMaxSpacing + 2*(cfg.World.SpawnGapMax+cfg.World.GapGrowth+cfg.Checkpoints.Gap)/pixelsPerMeter; climbed > maxClimb {
			t.Errorf("power-up %vm above the previous one, expected at most %vm", climbed, maxClimb)
		}
		lastY = c.Y
	}
	if count < 5 {
		t.Errorf("expected several power-ups over the climb, got %d", count)
	}
}

func TestWorldDeterministic(t *testing.T) {
	a := NewWorld(config.DefaultSkyhopConfig(), rand.New(rand.NewSource(42)), -5000)
	b := NewWorld(config.DefaultSkyhopConfig(), rand.New(rand.NewSource(42)), -5000)

	if len(a.Platforms) != len(b.Platforms) {
		t.Fatalf("platform counts differ: %d vs %d", len(a.Platforms), len(b.Platforms))
	}
	for i := range a.Platforms {
		if *a.Platforms[i] != *b.Platforms[i] {
			t.Fatalf("platform %d differs: %+v vs %+v", i, *a.Platforms[i], *b.Platforms[i])
		}
	}
	if len(a.Collectibles) != len(b.Collectibles) {
		t.Fatalf("collectible counts differ: %d vs %d", len(a.Collectibles), len(b.Collectibles))
	}
}

func TestWorldHazardUnlocks(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	w := NewWorld(cfg, rand.New(rand.NewSource(13)), 0)

	for range 2000 {
		kind := w.pickSurface(0)
		if kind == SurfaceIce || kind == SurfaceFragile {
			t.Fatalf("level 0 rolled %s", kind)
		}
	}

	seen := make(map[SurfaceKind]bool)
	for range 2000 {
		seen[w.pickSurface(1)] = true
	}
	for _, kind := range []SurfaceKind{SurfaceNormal, SurfaceBounce, SurfaceIce, SurfaceFragile} {
		if !seen[kind] {
			t.Errorf("level 1 never rolled %s", kind)
		}
	}
}

func TestReachCheckpointIdempotent(t *testing.T) {
	w := NewWorld(config.DefaultSkyhopConfig(), rand.New(rand.NewSource(2)), -5000)
	cps := w.Checkpoints()
	if len(cps) < 3 {
		t.Fatalf("expected generated checkpoints, got %d", len(cps))
	}

	var ev Events
	if !w.ReachCheckpoint(cps[1], &ev) {
		t.Fatal("first landing on a higher checkpoint should notify")
	}
	if n := countKind(ev.Drain(), EventCheckpoint); n != 1 {
		t.Errorf("checkpoint events = %d, expected 1", n)
	}

	if w.ReachCheckpoint(cps[1], &ev) {
		t.Error("landing again on the same checkpoint should not notify")
	}
	if w.ReachCheckpoint(cps[0], &ev) {
		t.Error("a lower checkpoint should not take over the reference")
	}
	if ev.Len() != 0 {
		t.Errorf("expected no events, got %d", ev.Len())
	}
	if w.Checkpoint().ID != cps[1].ID {
		t.Errorf("reference = %s, expected %s", w.Checkpoint().ID, cps[1].ID)
	}

	if !w.ReachCheckpoint(cps[2], &ev) {
		t.Error("a higher checkpoint should advance the reference")
	}
}

func TestRegenerateReplacesPath(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	w := newTestWorld(4)
	ref := w.Checkpoint()

	old := make(map[*Platform]bool)
	for _, p := range w.Platforms {
		if !p.IsCheckpoint() {
			old[p] = true
		}
	}
	oldPickups := make(map[*Collectible]bool)
	for _, c := range w.Collectibles {
		oldPickups[c] = true
	}
	if len(old) == 0 {
		t.Fatal("expected generated platforms above the ground")
	}

	var ev Events
	w.Regenerate(0, &ev)

	for _, p := range w.Platforms {
		if old[p] {
			t.Fatalf("platform %s survived regeneration", p.ID)
		}
	}
	for _, c := range w.Collectibles {
		if oldPickups[c] {
			t.Fatal("a pickup survived regeneration")
		}
	}
	if w.HighestPoint() > ref.Y-headroomScreens*cfg.World.ViewHeight {
		t.Errorf("frontier %v does not cover two screens above the checkpoint", w.HighestPoint())
	}
	if w.Checkpoint().ID != ref.ID {
		t.Errorf("reference changed to %s", w.Checkpoint().ID)
	}
	if n := countKind(ev.Drain(), EventRegenerated); n != 1 {
		t.Errorf("regenerated events = %d, expected 1", n)
	}
}

func TestRegenerateDropsUnreachedCheckpoints(t *testing.T) {
	w := NewWorld(config.DefaultSkyhopConfig(), rand.New(rand.NewSource(8)), -8000)
	cps := w.Checkpoints()
	if len(cps) < 4 {
		t.Fatalf("expected generated checkpoints, got %d", len(cps))
	}

	var ev Events
	w.ReachCheckpoint(cps[1], &ev)
	w.Regenerate(cps[1].Y-640, &ev)

	ids := make(map[string]bool)
	for _, p := range w.Checkpoints() {
		ids[p.ID] = true
	}
	if !ids[GroundID] || !ids[cps[1].ID] {
		t.Errorf("reached checkpoints missing after regeneration: %v", ids)
	}
	if ids[cps[3].ID] {
		t.Errorf("unreached checkpoint %s survived regeneration", cps[3].ID)
	}
}

func TestFragileCycle(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	p := slab("p_1", SurfaceFragile, 0, 500, 100)
	w := testWorld(cfg, p)
	var ev Events

	w.TriggerFragile(p)
	w.tickFragile(400, &ev)
	if !p.Active {
		t.Fatal("platform crumbled before its delay")
	}
	w.tickFragile(200, &ev)
	if p.Active {
		t.Fatal("platform should crumble after its delay")
	}
	w.tickFragile(2999, &ev)
	if p.Active {
		t.Fatal("platform came back too early")
	}
	w.tickFragile(2, &ev)
	if !p.Active || p.Fragile.Triggered {
		t.Errorf("platform should be restored, got active=%v state=%+v", p.Active, p.Fragile)
	}

	normal := slab("p_2", SurfaceNormal, 0, 400, 100)
	w.TriggerFragile(normal)
	if normal.Fragile.Triggered {
		t.Error("only fragile platforms can be triggered")
	}
}

func TestAttractAndCollect(t *testing.T) {
	cfg := config.DefaultSkyhopConfig()
	w := testWorld(cfg)
	near := &Collectible{X: 100, Y: 100, W: 40, H: 40, Active: true}
	far := &Collectible{X: 300, Y: -400, W: 40, H: 40, Active: true}
	w.Collectibles = []*Collectible{near, far}

	w.Attract(200, 120, 150, 10)
	if near.X <= 100 {
		t.Errorf("near pickup not pulled: x=%v", near.X)
	}
	if far.X != 300 || far.Y != -400 {
		t.Error("far pickup should not move")
	}

	got := w.Collect(near.Rect())
	if len(got) != 1 || got[0] != near || near.Active {
		t.Errorf("Collect = %v, expected the near pickup", got)
	}
	if len(w.Collect(near.Rect())) != 0 {
		t.Error("a pickup can only be collected once")
	}
}

func countKind(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
