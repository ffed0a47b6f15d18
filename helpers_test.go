package motion

import (
	"maps"
	"testing"
	"time"
)

const frame = 16 * time.Millisecond

// memStore is an in-memory Store that counts writes.
type memStore struct {
	els      []Entity
	writes   int
	recorded int
}

func newMemStore(els ...Entity) *memStore {
	m := &memStore{}
	m.SetEntities(els)
	return m
}

func (m *memStore) Entity(id string) (Entity, bool) {
	for _, el := range m.els {
		if el.ID == id {
			return el.Clone(), true
		}
	}
	return Entity{}, false
}

func (m *memStore) Entities() []Entity { return cloneEntities(m.els) }

func (m *memStore) UpdateEntity(id string, props Props, recordHistory bool) {
	for i := range m.els {
		if m.els[i].ID != id {
			continue
		}
		if m.els[i].Props == nil {
			m.els[i].Props = Props{}
		}
		maps.Copy(m.els[i].Props, props)
		m.writes++
		if recordHistory {
			m.recorded++
		}
		return
	}
}

func (m *memStore) SetEntities(els []Entity) { m.els = cloneEntities(els) }

func (m *memStore) num(t *testing.T, id string, p Property) float64 {
	t.Helper()
	el, ok := m.Entity(id)
	if !ok {
		t.Fatalf("entity %q missing", id)
	}
	v, ok := el.Props[p]
	if !ok {
		t.Fatalf("entity %q has no %s", id, p)
	}
	return v.Num
}

func (m *memStore) str(t *testing.T, id string, p Property) string {
	t.Helper()
	el, ok := m.Entity(id)
	if !ok {
		t.Fatalf("entity %q missing", id)
	}
	return el.Props[p].Str
}

// fakeViewport records what the Transition Manager does to the screen.
type fakeViewport struct {
	view         View
	w, h         float64
	overlay      string
	overlayOn    bool
	overlayAlpha float64
	views        []View
	alphas       []float64
	shots        []string
}

func newFakeViewport() *fakeViewport {
	return &fakeViewport{view: View{Scale: 1}, w: 1000, h: 600}
}

func (v *fakeViewport) View() View { return v.view }
func (v *fakeViewport) SetView(view View) {
	v.view = view
	v.views = append(v.views, view)
}
func (v *fakeViewport) ViewportSize() (float64, float64) { return v.w, v.h }
func (v *fakeViewport) ShowOverlay(c string) {
	v.overlay = c
	v.overlayOn = true
}
func (v *fakeViewport) SetOverlayOpacity(a float64) {
	v.overlayAlpha = a
	v.alphas = append(v.alphas, a)
}
func (v *fakeViewport) HideOverlay()           { v.overlayOn = false }
func (v *fakeViewport) Screenshot(label string) { v.shots = append(v.shots, label) }

func newTestEngine(settings Settings) (*Engine, *ManualClock) {
	clock := NewManualClock()
	return NewEngine(clock, settings), clock
}

// run ticks the engine frame by frame until the loop stops or limit frames
// have passed.
func run(e *Engine, clock *ManualClock, limit int) {
	for i := 0; i < limit && e.Animating(); i++ {
		e.Tick(clock.Advance(frame))
	}
}

// advance moves the clock by d and ticks once.
func advance(e *Engine, clock *ManualClock, d time.Duration) {
	e.Tick(clock.Advance(d))
}

func disabled() *GlobalSettings {
	s := &GlobalSettings{}
	s.SetAnimationsEnabled(false)
	return s
}
