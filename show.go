package motion

import (
	"log/slog"
	"time"
)

// Show is the top-level object of a presentation: it owns the engine and every
// component built on it, wired to one document store, deck and viewport.
// The host calls Update once per frame.
type Show struct {
	store    Store
	deck     *Deck
	viewport Viewport
	settings Settings

	engine      *Engine
	animator    *Animator
	presets     *Presets
	sequencer   *Sequencer
	builds      *BuildManager
	transitions *Transitions
	diff        *StateDiff

	script *Script
}

// NewShow wires a Show and loads the deck's entities into store. clock may be
// nil for the system clock; settings may be nil to use the deck's own.
func NewShow(store Store, deck *Deck, viewport Viewport, clock Clock, settings Settings) *Show {
	if settings == nil {
		settings = &deck.Settings
	}
	engine := NewEngine(clock, settings)
	animator := NewAnimator(engine, store)
	presets := NewPresets()
	sequencer := NewSequencer(animator, presets)

	s := &Show{
		store:       store,
		deck:        deck,
		viewport:    viewport,
		settings:    settings,
		engine:      engine,
		animator:    animator,
		presets:     presets,
		sequencer:   sequencer,
		builds:      NewBuildManager(sequencer),
		transitions: NewTransitions(engine, deck, viewport, settings),
		diff:        NewStateDiff(animator, presets),
	}
	store.SetEntities(deck.Entities())
	return s
}

// Engine returns the show's scheduler.
func (s *Show) Engine() *Engine { return s.engine }

// Animator returns the show's property animator.
func (s *Show) Animator() *Animator { return s.animator }

// Presets returns the preset registry shared by sequences and state diffs.
func (s *Show) Presets() *Presets { return s.presets }

// Sequencer returns the show's sequencer.
func (s *Show) Sequencer() *Sequencer { return s.sequencer }

// Builds returns the build manager of the active page.
func (s *Show) Builds() *BuildManager { return s.builds }

// Transitions returns the page transition manager.
func (s *Show) Transitions() *Transitions { return s.transitions }

// StateDiff returns the state diff animator.
func (s *Show) StateDiff() *StateDiff { return s.diff }

// Store returns the document store.
func (s *Show) Store() Store { return s.store }

// Deck returns the loaded deck.
func (s *Show) Deck() *Deck { return s.deck }

// Settings returns the global motion settings.
func (s *Show) Settings() Settings { return s.settings }

// Timeline returns a new, empty timeline on the show's engine.
func (s *Show) Timeline() *Timeline { return NewTimeline(s.engine) }

// SetScript attaches a scripted playback, advanced from Update.
func (s *Show) SetScript(script *Script) { s.script = script }

// Update advances an attached script by one frame, then ticks the engine.
func (s *Show) Update(now time.Time) {
	if s.script != nil {
		s.script.step(s)
	}
	s.engine.Tick(now)
}

// Start shows the active page without a transition and plays its on-load
// builds.
func (s *Show) Start() *Future {
	page := s.deck.ActivePage()
	s.transitions.applyImmediate(page)
	s.builds.Init(page)
	return s.builds.PlayInitial()
}

// GoTo transitions to page index and, once the transition settles on that
// page, plays its on-load builds. The future settles with the transition.
func (s *Show) GoTo(index int) *Future {
	pages := s.deck.Pages()
	if index < 0 || index >= len(pages) {
		return Resolved()
	}
	logger.Info("go to page", slog.Int("page", index))
	s.builds.Init(index)
	f := s.transitions.TransitionTo(index, TransitionOptions{})
	f.OnSettle(func() {
		if s.deck.ActivePage() == index && s.builds.Page() == index && !s.transitions.Transitioning() {
			s.builds.PlayInitial()
		}
	})
	return f
}

// Next plays the next click build of the active page, or moves to the next
// page when none is left. The future is already settled on the last page.
func (s *Show) Next() *Future {
	if f, ok := s.builds.PlayNext(); ok {
		return f
	}
	next := s.deck.ActivePage() + 1
	if next >= len(s.deck.Pages()) {
		return Resolved()
	}
	return s.GoTo(next)
}

// Prev moves to the previous page.
func (s *Show) Prev() *Future {
	return s.GoTo(s.deck.ActivePage() - 1)
}
