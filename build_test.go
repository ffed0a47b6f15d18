package motion

import (
	"math"
	"testing"
	"time"
)

func buildDeck() *memStore {
	click := func(x float64) Step {
		return Step{Kind: StepProperty, Trigger: TriggerOnClick, Property: PropX, To: Number(x), Duration: 100 * time.Millisecond}
	}
	return newMemStore(
		Entity{ID: "title", Page: 0, Layer: 0, Props: Props{PropX: Number(0), PropOpacity: Number(100)}, Animations: []Step{
			{Kind: StepPreset, Name: "fadeIn", Trigger: TriggerOnLoad, Duration: 100 * time.Millisecond},
		}},
		Entity{ID: "b", Page: 0, Layer: 1, Props: Props{PropX: Number(0)}, Animations: []Step{click(10)}},
		Entity{ID: "a", Page: 0, Layer: 1, Props: Props{PropX: Number(0)}, Animations: []Step{
			click(20),
			{Kind: StepProperty, Trigger: TriggerAfterPrev, Property: PropX, To: Number(30), Duration: 100 * time.Millisecond},
		}},
		Entity{ID: "other", Page: 1, Props: Props{PropX: Number(0)}, Animations: []Step{click(1)}},
	)
}

func TestBuildManager_Order(t *testing.T) {
	e, _ := newTestEngine(nil)
	b := NewBuildManager(NewSequencer(NewAnimator(e, buildDeck()), nil))
	if b.Page() != -1 {
		t.Errorf("page = %d, want -1", b.Page())
	}
	b.Init(0)

	var got []string
	for _, st := range b.Steps() {
		got = append(got, st.EntityID)
	}
	want := []string{"title", "a", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestBuildManager_ClickThrough(t *testing.T) {
	e, clock := newTestEngine(nil)
	store := buildDeck()
	b := NewBuildManager(NewSequencer(NewAnimator(e, store), nil))
	b.Init(0)

	initial := b.PlayInitial()
	if got := store.num(t, "title", PropOpacity); got != 0 {
		t.Errorf("fadeIn should start from 0, got %v", got)
	}
	run(e, clock, 50)
	if !initial.Settled() {
		t.Fatal("on-load builds should settle")
	}

	if !b.HasMore() {
		t.Fatal("expected on-click builds")
	}
	f, ok := b.PlayNext()
	if !ok || !b.Playing() {
		t.Fatal("first click should play")
	}
	if again, ok := b.PlayNext(); !ok || !again.Settled() {
		t.Error("a click while playing should be absorbed")
	}
	run(e, clock, 50)
	if !f.Settled() || b.Playing() {
		t.Fatal("first build chain should settle")
	}
	if got := store.num(t, "a", PropX); got != 30 {
		t.Errorf("a.x = %v, want 30 after its after-prev build", got)
	}
	if got := store.num(t, "b", PropX); got != 0 {
		t.Errorf("b should not have played yet, x = %v", got)
	}

	f, ok = b.PlayNext()
	run(e, clock, 50)
	if !ok || !f.Settled() {
		t.Fatal("second click should play")
	}
	if got := store.num(t, "b", PropX); got != 10 {
		t.Errorf("b.x = %v, want 10", got)
	}
	if b.HasMore() {
		t.Error("no builds should remain")
	}
	if _, ok := b.PlayNext(); ok {
		t.Error("PlayNext should report exhaustion")
	}
}

func TestBuildManager_WithPrevLaunchesTogether(t *testing.T) {
	e, clock := newTestEngine(nil)
	store := newMemStore(
		Entity{ID: "a", Props: Props{PropX: Number(0)}, Animations: []Step{
			{Kind: StepProperty, Trigger: TriggerOnClick, Property: PropX, To: Number(100), Duration: 100 * time.Millisecond, Easing: "linear"},
		}},
		Entity{ID: "b", Props: Props{PropX: Number(0)}, Animations: []Step{
			{Kind: StepProperty, Trigger: TriggerWithPrev, Property: PropX, To: Number(100), Duration: 100 * time.Millisecond, Easing: "linear"},
		}},
	)
	b := NewBuildManager(NewSequencer(NewAnimator(e, store), nil))
	b.Init(0)

	f, _ := b.PlayNext()
	advance(e, clock, 50*time.Millisecond)
	if store.num(t, "a", PropX) != 50 || store.num(t, "b", PropX) != 50 {
		t.Errorf("a=%v b=%v, want both 50", store.num(t, "a", PropX), store.num(t, "b", PropX))
	}
	advance(e, clock, 50*time.Millisecond)
	if !f.Settled() {
		t.Error("chain should settle")
	}
	if b.HasMore() {
		t.Error("with-prev build should be marked played")
	}
}

func TestBuildManager_ResetStopsSequences(t *testing.T) {
	e, _ := newTestEngine(nil)
	store := buildDeck()
	a := NewAnimator(e, store)
	b := NewBuildManager(NewSequencer(a, nil))
	b.Init(0)
	b.PlayNext()
	b.Init(1)
	if a.Active("a") {
		t.Error("Init should stop running builds")
	}
	if b.Page() != 1 || len(b.Steps()) != 1 {
		t.Errorf("page %d steps %d", b.Page(), len(b.Steps()))
	}
}

func TestBuildManager_RetargetedChainReleasesClicks(t *testing.T) {
	e, clock := newTestEngine(nil)
	store := buildDeck()
	a := NewAnimator(e, store)
	b := NewBuildManager(NewSequencer(a, nil))
	b.Init(0)

	first, ok := b.PlayNext()
	if !ok || !b.Playing() {
		t.Fatal("first click should play")
	}
	advance(e, clock, frame)
	a.Animate("a", Props{PropX: Number(5)}, linearConfig(50*time.Millisecond))
	run(e, clock, 50)

	if !first.Settled() || b.Playing() {
		t.Fatalf("cancelled chain should end: settled=%v playing=%v", first.Settled(), b.Playing())
	}
	if got := store.num(t, "a", PropX); math.Abs(got-5) > 1e-9 {
		t.Errorf("a.x = %v, want 5 from the retarget", got)
	}

	second, ok := b.PlayNext()
	if !ok {
		t.Fatal("second click should play")
	}
	run(e, clock, 50)
	if !second.Settled() {
		t.Fatal("second chain should settle")
	}
	if got := store.num(t, "b", PropX); got != 10 {
		t.Errorf("b.x = %v, want 10", got)
	}
}
