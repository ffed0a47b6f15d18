package motion

import (
	"math"
	"testing"
	"time"
)

func diffConfig() AnimateConfig {
	return linearConfig(100 * time.Millisecond)
}

func TestDiffEntities(t *testing.T) {
	from := Snapshot{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	to := []Entity{{ID: "d"}, {ID: "b"}, {ID: "a"}}
	d := DiffEntities(from, to)
	if len(d.Common) != 2 || d.Common[0] != "a" || d.Common[1] != "b" {
		t.Errorf("common = %v", d.Common)
	}
	if len(d.Exiting) != 1 || d.Exiting[0] != "c" {
		t.Errorf("exiting = %v", d.Exiting)
	}
	if len(d.Entering) != 1 || d.Entering[0] != "d" {
		t.Errorf("entering = %v", d.Entering)
	}
}

func TestStateDiff_IdenticalStateIsNoop(t *testing.T) {
	e, _ := newTestEngine(nil)
	store := newMemStore(
		Entity{ID: "a", Props: Props{PropX: Number(1), PropStrokeColor: Hex("#102030")}},
		Entity{ID: "b", Props: Props{PropY: Number(2)}},
	)
	d := NewStateDiff(NewAnimator(e, store), nil)

	called := 0
	cfg := diffConfig()
	cfg.OnComplete = func() { called++ }
	f := d.TransitionTo(d.Capture(), cfg)

	if !f.Settled() {
		t.Error("identical state should settle at once")
	}
	if store.writes != 0 {
		t.Errorf("writes = %d, want 0", store.writes)
	}
	if e.Len() != 0 {
		t.Errorf("records = %d, want 0", e.Len())
	}
	if called != 1 {
		t.Errorf("OnComplete ran %d times, want 1", called)
	}
}

func TestStateDiff_Morph(t *testing.T) {
	e, clock := newTestEngine(nil)
	store := newMemStore(
		Entity{ID: "keep", Props: Props{PropX: Number(0), PropBackgroundColor: Hex("#000000")}},
		Entity{ID: "gone", Props: Props{PropOpacity: Number(100)}},
	)
	d := NewStateDiff(NewAnimator(e, store), nil)

	target := []Entity{
		{ID: "keep", Props: Props{PropX: Number(100), PropBackgroundColor: Hex("#ffffff")}},
		{ID: "new", Props: Props{PropOpacity: Number(80)}},
	}
	f := d.TransitionTo(target, diffConfig())

	if len(store.els) != 3 {
		t.Fatalf("working set = %d entities, want 3", len(store.els))
	}
	if got := store.num(t, "new", PropOpacity); got != 0 {
		t.Errorf("entering opacity = %v, want 0", got)
	}
	if got := store.num(t, "keep", PropX); got != 0 {
		t.Errorf("common entity should start at its current value, x = %v", got)
	}

	advance(e, clock, 50*time.Millisecond)
	if got := store.num(t, "keep", PropX); math.Abs(got-50) > 1e-9 {
		t.Errorf("keep.x = %v, want 50", got)
	}
	if got := store.num(t, "new", PropOpacity); math.Abs(got-40) > 1e-9 {
		t.Errorf("new.opacity = %v, want 40", got)
	}
	if got := store.num(t, "gone", PropOpacity); math.Abs(got-50) > 1e-9 {
		t.Errorf("gone.opacity = %v, want 50", got)
	}

	run(e, clock, 50)
	if !f.Settled() {
		t.Fatal("diff should settle")
	}
	if len(store.els) != 2 {
		t.Fatalf("document should collapse to the target, got %d entities", len(store.els))
	}
	if _, ok := store.Entity("gone"); ok {
		t.Error("exiting entity should be removed")
	}
	if got := store.str(t, "keep", PropBackgroundColor); got != "#ffffff" {
		t.Errorf("keep.backgroundColor = %q", got)
	}
	if got := store.num(t, "new", PropOpacity); got != 80 {
		t.Errorf("new.opacity = %v, want 80", got)
	}
}

func TestStateDiff_ExitPreset(t *testing.T) {
	e, clock := newTestEngine(nil)
	store := newMemStore(Entity{ID: "gone", Exit: "shake", Props: Props{PropX: Number(10)}})
	d := NewStateDiff(NewAnimator(e, store), nil)

	f := d.TransitionTo(nil, diffConfig())
	advance(e, clock, 50*time.Millisecond)
	if got := store.num(t, "gone", PropX); got == 10 {
		t.Error("exit preset should move the entity")
	}
	run(e, clock, 100)
	if !f.Settled() || len(store.els) != 0 {
		t.Errorf("settled %v entities %d", f.Settled(), len(store.els))
	}
}

func TestStateDiff_LaterCallSupersedes(t *testing.T) {
	e, clock := newTestEngine(nil)
	store := newMemStore(Entity{ID: "a", Props: Props{PropX: Number(0)}})
	d := NewStateDiff(NewAnimator(e, store), nil)

	firstDone := false
	cfg := diffConfig()
	cfg.OnComplete = func() { firstDone = true }
	first := d.TransitionTo([]Entity{{ID: "a", Props: Props{PropX: Number(100)}}}, cfg)
	advance(e, clock, 50*time.Millisecond)

	second := d.TransitionTo([]Entity{{ID: "a", Props: Props{PropX: Number(-50)}}}, diffConfig())
	run(e, clock, 50)
	if !first.Settled() || !second.Settled() {
		t.Fatal("both diffs should settle")
	}
	if firstDone {
		t.Error("superseded diff must not run its OnComplete")
	}
	if got := store.num(t, "a", PropX); got != -50 {
		t.Errorf("x = %v, want -50", got)
	}
}

func TestStateDiff_DefaultTiming(t *testing.T) {
	e, clock := newTestEngine(nil)
	store := newMemStore(Entity{ID: "a", Props: Props{PropX: Number(0)}})
	d := NewStateDiff(NewAnimator(e, store), nil)

	f := d.TransitionTo([]Entity{{ID: "a", Props: Props{PropX: Number(10)}}}, AnimateConfig{})
	advance(e, clock, 799*time.Millisecond)
	advance(e, clock, 0)
	if f.Settled() {
		t.Fatal("default duration is 800ms")
	}
	advance(e, clock, time.Millisecond)
	advance(e, clock, frame)
	if !f.Settled() {
		t.Error("diff should settle after 800ms")
	}
}

func TestStateDiff_TransitionFromSnapshot(t *testing.T) {
	e, clock := newTestEngine(nil)
	store := newMemStore(Entity{ID: "a", Props: Props{PropX: Number(5)}})
	d := NewStateDiff(NewAnimator(e, store), nil)

	snap := d.Capture()
	store.UpdateEntity("a", Props{PropX: Number(50)}, true)
	f := d.TransitionFrom(snap, []Entity{{ID: "a", Props: Props{PropX: Number(5)}}}, diffConfig())
	if !f.Settled() {
		t.Error("target equals the snapshot, nothing to animate")
	}
	if got := store.num(t, "a", PropX); got != 5 {
		t.Errorf("x = %v, want 5", got)
	}
	run(e, clock, 10)
}
