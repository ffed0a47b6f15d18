package motion

import (
	"slices"
	"time"
)

// Factory starts an animation and returns its engine id, or "" when nothing
// could be started.
type Factory func() string

type timelineStepKind uint8

const (
	stepAnimation timelineStepKind = iota
	stepParallel
	stepDelay
	stepCallback
)

type timelineStep struct {
	kind      timelineStepKind
	factories []Factory
	delay     time.Duration
	fn        func()
}

// Timeline plays an ordered list of steps as a unit: single animations,
// parallel groups, fixed delays and callbacks. Each animation step waits until
// the engine no longer reports its ids as live, checked once per frame.
//
// Pause and resume only touch the animations this timeline started; other
// timelines and free-running animations keep going.
type Timeline struct {
	engine *Engine
	steps  []timelineStep
	cursor int

	playing bool
	paused  bool

	// owned holds every id started and not yet finished, delay timers
	// included; waiting is the subset the current step is polling.
	owned   []string
	waiting []string

	future *Future
	// gen invalidates polls and timers left over from an earlier run.
	gen int
	// polling is set while a poll callback is queued for the current run.
	polling bool
}

// NewTimeline creates an empty timeline on engine.
func NewTimeline(engine *Engine) *Timeline {
	return &Timeline{engine: engine}
}

// Add appends a single animation, optionally preceded by a delay.
func (t *Timeline) Add(f Factory, delay ...time.Duration) *Timeline {
	if len(delay) > 0 && delay[0] > 0 {
		t.steps = append(t.steps, timelineStep{kind: stepDelay, delay: delay[0]})
	}
	t.steps = append(t.steps, timelineStep{kind: stepAnimation, factories: []Factory{f}})
	return t
}

// Parallel appends a group of animations that start together. The step ends
// when all of them have.
func (t *Timeline) Parallel(fs ...Factory) *Timeline {
	t.steps = append(t.steps, timelineStep{kind: stepParallel, factories: fs})
	return t
}

// Delay appends a fixed wait.
func (t *Timeline) Delay(d time.Duration) *Timeline {
	t.steps = append(t.steps, timelineStep{kind: stepDelay, delay: d})
	return t
}

// Call appends a synchronous callback.
func (t *Timeline) Call(fn func()) *Timeline {
	t.steps = append(t.steps, timelineStep{kind: stepCallback, fn: fn})
	return t
}

// Play starts the timeline from its first step, or resumes it when paused.
// The returned future settles when the last step ends or Stop is called.
// Calling Play on a playing timeline returns the pending future.
func (t *Timeline) Play() *Future {
	if t.paused {
		t.paused = false
		t.playing = true
		for _, id := range t.owned {
			t.engine.Resume(id)
		}
		if len(t.waiting) > 0 && !t.polling {
			t.poll(t.gen)
		}
		return t.future
	}
	if t.playing {
		return t.future
	}

	t.playing = true
	t.cursor = 0
	t.gen++
	t.polling = false
	t.future = newFuture()
	f := t.future
	t.runNext()
	return f
}

// Pause freezes the timeline and the animations it owns.
func (t *Timeline) Pause() {
	if !t.playing {
		return
	}
	t.playing = false
	t.paused = true
	for _, id := range t.owned {
		t.engine.Pause(id)
	}
}

// Stop cancels every animation the timeline started, rewinds it and settles
// the pending future.
func (t *Timeline) Stop() {
	t.playing = false
	t.paused = false
	t.cursor = 0
	t.gen++
	t.polling = false
	for _, id := range t.owned {
		t.engine.Stop(id)
	}
	t.owned = nil
	t.waiting = nil
	t.settle()
}

// Reset stops the timeline so the next Play starts from the beginning.
func (t *Timeline) Reset() {
	t.Stop()
}

// Progress is the fraction of steps started, in [0,1].
func (t *Timeline) Progress() float64 {
	if len(t.steps) == 0 {
		return 0
	}
	return float64(t.cursor) / float64(len(t.steps))
}

// Playing reports whether the timeline is advancing.
func (t *Timeline) Playing() bool { return t.playing }

// IsPaused reports whether the timeline is paused.
func (t *Timeline) IsPaused() bool { return t.paused }

// Len returns the number of steps.
func (t *Timeline) Len() int { return len(t.steps) }

func (t *Timeline) runNext() {
	for t.playing {
		if t.cursor >= len(t.steps) {
			t.playing = false
			t.settle()
			return
		}
		step := t.steps[t.cursor]
		t.cursor++

		switch step.kind {
		case stepCallback:
			if step.fn != nil {
				step.fn()
			}
		case stepAnimation, stepParallel:
			var ids []string
			for _, f := range step.factories {
				if f == nil {
					continue
				}
				if id := f(); id != "" {
					ids = append(ids, id)
				}
			}
			if len(ids) == 0 {
				continue
			}
			t.owned = append(t.owned, ids...)
			t.waiting = ids
			t.poll(t.gen)
			return
		case stepDelay:
			gen := t.gen
			var id string
			id = t.engine.After(step.delay, func() {
				if gen != t.gen {
					return
				}
				t.forget(id)
				if t.playing {
					t.runNext()
				}
			})
			t.owned = append(t.owned, id)
			return
		}
	}
}

// poll checks the waiting ids on the next frame and keeps checking until all
// are gone, the timeline pauses, or a newer run supersedes this one. At most
// one poll is queued per run.
func (t *Timeline) poll(gen int) {
	t.polling = true
	t.engine.RequestFrame(func() {
		if gen != t.gen {
			return
		}
		t.polling = false
		if t.paused {
			return
		}
		for _, id := range t.waiting {
			if s, ok := t.engine.State(id); ok && s != StateCompleted {
				t.poll(gen)
				return
			}
		}
		for _, id := range t.waiting {
			t.forget(id)
		}
		t.waiting = nil
		if t.playing {
			t.runNext()
		}
	})
}

func (t *Timeline) forget(id string) {
	if i := slices.Index(t.owned, id); i >= 0 {
		t.owned = slices.Delete(t.owned, i, i+1)
	}
}

func (t *Timeline) settle() {
	if t.future != nil {
		f := t.future
		t.future = nil
		f.resolve()
	}
}
