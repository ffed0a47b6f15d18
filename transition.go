package motion

import (
	"log/slog"
	"time"
)

// View is the global view transform: screen = world*Scale + Pan.
type View struct {
	Scale float64 `yaml:"scale"`
	PanX  float64 `yaml:"panX"`
	PanY  float64 `yaml:"panY"`
}

// WorldToScreen converts a world position to screen coordinates.
func (v View) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return wx*v.Scale + v.PanX, wy*v.Scale + v.PanY
}

// ScreenToWorld converts a screen position to world coordinates.
func (v View) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	if v.Scale == 0 {
		return sx, sy
	}
	return (sx - v.PanX) / v.Scale, (sy - v.PanY) / v.Scale
}

// centered returns the view at scale that shows world point (cx, cy) in the
// middle of a w by h screen.
func centered(cx, cy, scale, w, h float64) View {
	return View{Scale: scale, PanX: w/2 - cx*scale, PanY: h/2 - cy*scale}
}

// TransitionType names a page transition effect.
type TransitionType string

const (
	TransitionNone       TransitionType = "none"
	TransitionFade       TransitionType = "fade"
	TransitionSlideLeft  TransitionType = "slide-left"
	TransitionSlideRight TransitionType = "slide-right"
	TransitionSlideUp    TransitionType = "slide-up"
	TransitionSlideDown  TransitionType = "slide-down"
	TransitionZoomIn     TransitionType = "zoom-in"
	TransitionZoomOut    TransitionType = "zoom-out"
)

// Transition describes how a page is entered.
type Transition struct {
	Type     TransitionType
	Duration time.Duration
	Easing   string
}

// DefaultTransition applies to pages that declare none.
var DefaultTransition = Transition{
	Type:     TransitionNone,
	Duration: 500 * time.Millisecond,
	Easing:   "easeInOutQuad",
}

// Page is a navigable region of the world.
type Page struct {
	ID                  string
	X, Y, Width, Height float64
	// Background colors the fade overlay. Defaults to white.
	Background string
	Transition *Transition
	// LastView is the view last used while editing the page; it replaces the
	// fitted view on immediate switches when Transitions.DesignMode is set.
	LastView *View
}

// PageSource exposes the pages of a document and its active page index.
type PageSource interface {
	Pages() []Page
	ActivePage() int
	SetActivePage(index int)
}

// Viewport is the host surface the Transition Manager drives: the view
// transform plus a full-screen color overlay used by fades.
type Viewport interface {
	View() View
	SetView(v View)
	ViewportSize() (w, h float64)
	ShowOverlay(color string)
	SetOverlayOpacity(alpha float64)
	HideOverlay()
}

// FitMargin is the screen-space margin kept around a fitted page.
const FitMargin = 40.0

// Zoom transitions pass through a midpoint at the target scale times one of
// these factors.
var (
	ZoomInFactor  = 0.3
	ZoomOutFactor = 1.5
)

// previewLead is the pause between the jump back and the replayed transition
// of a preview.
const previewLead = 300 * time.Millisecond

// FitView returns the view that centers page on a w by h screen with
// FitMargin on every side.
func FitView(p Page, w, h float64) View {
	if p.Width <= 0 || p.Height <= 0 {
		return View{Scale: 1}
	}
	scale := min((w-FitMargin*2)/p.Width, (h-FitMargin*2)/p.Height)
	return View{
		Scale: scale,
		PanX:  (w-p.Width*scale)/2 - p.X*scale,
		PanY:  (h-p.Height*scale)/2 - p.Y*scale,
	}
}

// TransitionOptions modifies one TransitionTo call.
type TransitionOptions struct {
	// SkipAnimation switches the page and view at once.
	SkipAnimation bool
}

// Transitions animates the view when the active page changes. At most one
// transition runs at a time; starting another cancels the first without
// applying its final view and settles its future.
type Transitions struct {
	engine   *Engine
	pages    PageSource
	viewport Viewport
	settings Settings

	// DesignMode restores Page.LastView on immediate switches.
	DesignMode bool

	transitioning bool
	overlay       bool
	records       []string
	pending       *Future
	gen           int
}

// NewTransitions creates a Transition Manager. settings may be nil.
func NewTransitions(engine *Engine, pages PageSource, viewport Viewport, settings Settings) *Transitions {
	return &Transitions{
		engine:   engine,
		pages:    pages,
		viewport: viewport,
		settings: settings,
	}
}

// Transitioning reports whether a transition is in flight.
func (t *Transitions) Transitioning() bool { return t.transitioning }

// TransitionTo makes page index active using that page's transition. Indices
// out of range, and the active page when nothing is in flight, are ignored.
// The future settles when the view has reached its final transform, or when
// a later transition preempts this one.
func (t *Transitions) TransitionTo(index int, opts TransitionOptions) *Future {
	pages := t.pages.Pages()
	if index < 0 || index >= len(pages) {
		return Resolved()
	}
	from := t.pages.ActivePage()
	if index == from && !t.transitioning {
		return Resolved()
	}
	t.cancel()
	return t.run(from, index, pages[index], opts.SkipAnimation)
}

// Preview replays the transition into page index: the page before it is shown
// without animation, then the transition plays after a short pause. Page 0
// plays its transition in place.
func (t *Transitions) Preview(index int) *Future {
	pages := t.pages.Pages()
	if index < 0 || index >= len(pages) {
		return Resolved()
	}
	t.cancel()
	if index == 0 {
		return t.run(-1, 0, pages[0], false)
	}

	t.applyImmediate(index - 1)
	t.transitioning = true
	f := newFuture()
	t.pending = f
	gen := t.gen
	timer := t.engine.After(previewLead, func() {
		if gen != t.gen {
			return
		}
		t.records = nil
		t.pending = nil
		t.transitioning = false
		t.TransitionTo(index, TransitionOptions{}).OnSettle(f.resolve)
	})
	t.records = append(t.records, timer)
	return f
}

func (t *Transitions) run(from, to int, page Page, skip bool) *Future {
	tr := DefaultTransition
	if page.Transition != nil {
		tr = *page.Transition
	}
	if skip || tr.Type == TransitionNone || !animationsEnabled(t.settings) || reducedMotion(t.settings) {
		t.applyImmediate(to)
		return Resolved()
	}

	logger.Debug("transition",
		slog.String("type", string(tr.Type)), slog.Int("from", from), slog.Int("to", to))

	t.transitioning = true
	f := newFuture()
	t.pending = f

	switch tr.Type {
	case TransitionFade:
		t.fade(to, page, tr)
	case TransitionSlideLeft, TransitionSlideRight, TransitionSlideUp, TransitionSlideDown:
		t.slide(from, to, page, tr)
	case TransitionZoomIn, TransitionZoomOut:
		t.zoom(to, page, tr)
	default:
		logger.Warn("unknown transition type", slog.String("type", string(tr.Type)))
		t.applyImmediate(to)
		t.finish(t.gen)
	}
	return f
}

// fade covers the screen with the page background, swaps the page while
// covered, then uncovers it.
func (t *Transitions) fade(to int, page Page, tr Transition) {
	gen := t.gen
	half := tr.Duration / 2
	bg := page.Background
	if bg == "" {
		bg = "#ffffff"
	}

	t.viewport.ShowOverlay(bg)
	t.viewport.SetOverlayOpacity(0)
	t.overlay = true

	in := t.engine.Create(NewID("fade-in"), t.viewport.SetOverlayOpacity, Config{
		Duration: half,
		Easing:   tr.Easing,
		OnComplete: func() {
			if gen != t.gen {
				return
			}
			t.applyImmediate(to)
			out := t.engine.Create(NewID("fade-out"), func(p float64) {
				t.viewport.SetOverlayOpacity(1 - p)
			}, Config{
				Duration: tr.Duration - half,
				Easing:   tr.Easing,
				OnComplete: func() {
					if gen != t.gen {
						return
					}
					t.removeOverlay()
					t.finish(gen)
				},
			})
			t.records = append(t.records, out)
			t.engine.Start(out)
		},
	})
	t.records = append(t.records, in)
	t.engine.Start(in)
}

// slide pans the target view in from one screen edge. Going backward enters
// from the opposite edge.
func (t *Transitions) slide(from, to int, page Page, tr Transition) {
	w, h := t.viewport.ViewportSize()
	target := FitView(page, w, h)

	var dx, dy float64
	switch tr.Type {
	case TransitionSlideLeft:
		dx = w
	case TransitionSlideRight:
		dx = -w
	case TransitionSlideUp:
		dy = h
	case TransitionSlideDown:
		dy = -h
	}
	if to < from {
		dx, dy = -dx, -dy
	}
	startX, startY := target.PanX+dx, target.PanY+dy

	t.pages.SetActivePage(to)
	t.animateView(func(p float64) View {
		return View{Scale: target.Scale, PanX: Lerp(startX, target.PanX, p), PanY: Lerp(startY, target.PanY, p)}
	}, target, tr, tr.Easing)
}

// zoom moves the view through an exaggerated midpoint: the first half eases
// from the current view to the midpoint, the second from the midpoint to the
// target. Scale and world center interpolate; pan follows from them.
func (t *Transitions) zoom(to int, page Page, tr Transition) {
	w, h := t.viewport.ViewportSize()
	target := FitView(page, w, h)
	start := t.viewport.View()
	if start.Scale <= 0 {
		start = target
	}

	factor := ZoomOutFactor
	if tr.Type == TransitionZoomIn {
		factor = ZoomInFactor
	}
	scx, scy := start.ScreenToWorld(w/2, h/2)
	tcx, tcy := target.ScreenToWorld(w/2, h/2)
	midScale := target.Scale * factor
	mcx, mcy := (scx+tcx)/2, (scy+tcy)/2

	ease := Easing(tr.Easing)
	t.pages.SetActivePage(to)
	t.animateView(func(p float64) View {
		if p < 0.5 {
			e := ease(p * 2)
			return centered(Lerp(scx, mcx, e), Lerp(scy, mcy, e), Lerp(start.Scale, midScale, e), w, h)
		}
		e := ease((p - 0.5) * 2)
		return centered(Lerp(mcx, tcx, e), Lerp(mcy, tcy, e), Lerp(midScale, target.Scale, e), w, h)
	}, target, tr, "linear")
}

// animateView drives the view through at over the transition duration and
// forces target exactly once it completes.
func (t *Transitions) animateView(at func(p float64) View, target View, tr Transition, easing string) {
	gen := t.gen
	id := t.engine.Create(NewID("page-transition"), func(p float64) {
		t.viewport.SetView(at(p))
	}, Config{
		Duration: tr.Duration,
		Easing:   easing,
		OnComplete: func() {
			if gen != t.gen {
				return
			}
			t.viewport.SetView(target)
			t.finish(gen)
		},
	})
	t.records = append(t.records, id)
	t.engine.Start(id)
}

func (t *Transitions) applyImmediate(index int) {
	pages := t.pages.Pages()
	if index < 0 || index >= len(pages) {
		return
	}
	t.pages.SetActivePage(index)
	p := pages[index]
	if t.DesignMode && p.LastView != nil {
		t.viewport.SetView(*p.LastView)
		return
	}
	w, h := t.viewport.ViewportSize()
	t.viewport.SetView(FitView(p, w, h))
}

// cancel stops the transition in flight, if any, and settles its future.
func (t *Transitions) cancel() {
	t.gen++
	for _, id := range t.records {
		t.engine.Stop(id)
	}
	t.records = nil
	t.removeOverlay()
	t.transitioning = false
	if f := t.pending; f != nil {
		t.pending = nil
		f.resolve()
	}
}

func (t *Transitions) finish(gen int) {
	if gen != t.gen {
		return
	}
	t.records = nil
	t.transitioning = false
	if f := t.pending; f != nil {
		t.pending = nil
		f.resolve()
	}
}

func (t *Transitions) removeOverlay() {
	if t.overlay {
		t.viewport.HideOverlay()
		t.overlay = false
	}
}
