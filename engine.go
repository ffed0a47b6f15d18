package motion

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of an animation record.
type State uint8

const (
	StateIdle      State = iota // registered, not started
	StateRunning                // advanced every tick
	StatePaused                 // frozen; elapsed time excludes the pause
	StateCompleted              // finished; the record is removed right after
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Config describes the timing of one animation record.
type Config struct {
	Duration time.Duration
	Delay    time.Duration
	// Easing names a curve (see Easing). EasingFunc, when set, wins.
	Easing     string
	EasingFunc EasingFunc
	Loop       bool
	// LoopCount is the total number of iterations when Loop is set.
	// Zero or negative means unbounded.
	LoopCount int
	// Alternate reverses direction on every loop iteration.
	Alternate bool

	OnStart    func()
	OnComplete func()
}

func (c Config) easing() EasingFunc {
	if c.EasingFunc != nil {
		return c.EasingFunc
	}
	return Easing(c.Easing)
}

// record is the engine's private unit of timed work.
type record struct {
	id        string
	state     State
	startTime time.Time
	pauseTime time.Time

	duration time.Duration
	delay    time.Duration
	easing   EasingFunc

	onUpdate   func(progress float64)
	onStart    func()
	onComplete func()

	loop        bool
	loopCount   int
	currentLoop int
	alternate   bool
	direction   int
}

// Engine owns every live animation record and the single tick loop that
// advances them. All methods, and Tick, must be called from the same
// goroutine; no locking is done.
//
// Elapsed time is always derived from absolute timestamps
// (now - startTime - delay), never accumulated, so frames skipped by the host
// are absorbed and pausing never drifts.
type Engine struct {
	clock    Clock
	settings Settings

	records map[string]*record
	order   []string // registration order, iteration order of Tick

	looping     bool
	forceTicker bool
	frames      []func()

	now     time.Time
	playing bool
	paused  bool

	debug bool
	stats frameStats
}

// NewEngine creates an engine reading time from clock. settings may be nil,
// meaning animations are always enabled.
func NewEngine(clock Clock, settings Settings) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{
		clock:    clock,
		settings: settings,
		records:  make(map[string]*record),
	}
}

// NewID returns a unique animation id with the given prefix.
func NewID(prefix string) string {
	if prefix == "" {
		prefix = "anim"
	}
	return prefix + "-" + uuid.NewString()
}

// Clock returns the engine's time source.
func (e *Engine) Clock() Clock { return e.clock }

// Settings returns the engine's global settings, possibly nil.
func (e *Engine) Settings() Settings { return e.settings }

// Create registers an idle animation under id and returns id. It does not
// start it. Re-using a live id replaces that record in place.
func (e *Engine) Create(id string, onUpdate func(progress float64), cfg Config) string {
	if onUpdate == nil {
		onUpdate = func(float64) {}
	}
	r := &record{
		id:         id,
		state:      StateIdle,
		duration:   max(cfg.Duration, 0),
		delay:      max(cfg.Delay, 0),
		easing:     cfg.easing(),
		onUpdate:   onUpdate,
		onStart:    cfg.OnStart,
		onComplete: cfg.OnComplete,
		loop:       cfg.Loop,
		loopCount:  cfg.LoopCount,
		alternate:  cfg.Alternate,
		direction:  1,
	}
	if _, exists := e.records[id]; !exists {
		e.order = append(e.order, id)
	}
	e.records[id] = r
	e.debugCheckRecordCount()
	return id
}

// Start moves an idle or paused record to running. Resuming shifts startTime
// forward by the time spent paused so progress is continuous. Starting a
// running record or an unknown id is a no-op.
func (e *Engine) Start(id string) {
	r, ok := e.records[id]
	if !ok {
		return
	}
	now := e.clock.Now()
	switch r.state {
	case StatePaused:
		r.startTime = r.startTime.Add(now.Sub(r.pauseTime))
		r.pauseTime = time.Time{}
	case StateIdle:
		r.startTime = now
		r.currentLoop = 0
		r.direction = 1
	default:
		return
	}
	r.state = StateRunning
	if r.onStart != nil {
		r.onStart()
	}
	e.ensureLoop()
}

// Resume restarts a paused record. It is Start restricted to paused records.
func (e *Engine) Resume(id string) {
	if r, ok := e.records[id]; ok && r.state == StatePaused {
		e.Start(id)
	}
}

// Pause freezes a running record. No-op in any other state.
func (e *Engine) Pause(id string) {
	r, ok := e.records[id]
	if !ok || r.state != StateRunning {
		return
	}
	r.state = StatePaused
	r.pauseTime = e.clock.Now()
}

// Stop removes a record immediately, whatever its state, without calling
// OnComplete.
func (e *Engine) Stop(id string) {
	r, ok := e.records[id]
	if !ok {
		return
	}
	r.state = StateCompleted
	e.remove(id)
	if len(e.records) == 0 && !e.forceTicker && len(e.frames) == 0 {
		e.stopLoop()
	}
}

// Reset returns a record to idle and synchronously reports progress 0 so the
// target snaps back to its start value.
func (e *Engine) Reset(id string) {
	r, ok := e.records[id]
	if !ok {
		return
	}
	r.state = StateIdle
	r.startTime = time.Time{}
	r.pauseTime = time.Time{}
	r.currentLoop = 0
	r.direction = 1
	r.onUpdate(0)
}

// State returns the state of a record. ok is false for unknown ids, which
// includes records that completed or were stopped.
func (e *Engine) State(id string) (s State, ok bool) {
	r, ok := e.records[id]
	if !ok {
		return StateCompleted, false
	}
	return r.state, true
}

// Has reports whether id is registered.
func (e *Engine) Has(id string) bool {
	_, ok := e.records[id]
	return ok
}

// Len returns the number of registered records.
func (e *Engine) Len() int { return len(e.records) }

// PauseAll pauses every running record.
func (e *Engine) PauseAll() {
	now := e.clock.Now()
	for _, id := range e.order {
		r := e.records[id]
		if r.state == StateRunning {
			r.state = StatePaused
			r.pauseTime = now
		}
	}
}

// ResumeAll resumes every paused record with the same time shift as Start.
func (e *Engine) ResumeAll() {
	now := e.clock.Now()
	for _, id := range e.order {
		r := e.records[id]
		if r.state == StatePaused {
			r.startTime = r.startTime.Add(now.Sub(r.pauseTime))
			r.pauseTime = time.Time{}
			r.state = StateRunning
		}
	}
	e.ensureLoop()
}

// StopAll drops every record and halts the loop. Pending RequestFrame
// callbacks survive and keep the loop alive for one more frame.
func (e *Engine) StopAll() {
	clear(e.records)
	e.order = e.order[:0]
	e.stopLoop()
	if len(e.frames) > 0 || e.forceTicker {
		e.ensureLoop()
	}
}

// SetForceTicker keeps the loop alive with no registered records, for callers
// that need a continuously advancing clock signal.
func (e *Engine) SetForceTicker(enabled bool) {
	e.forceTicker = enabled
	if enabled {
		e.ensureLoop()
	}
}

// RequestFrame runs fn once, at the end of the next tick. It is the engine's
// equivalent of a per-frame callback and keeps the loop alive until it runs.
func (e *Engine) RequestFrame(fn func()) {
	if fn == nil {
		return
	}
	e.frames = append(e.frames, fn)
	e.ensureLoop()
}

// After runs fn once d has elapsed on the engine clock. The timer is an
// ordinary record: it pauses with PauseAll, can be cancelled with Stop, and
// fires on the first tick when motion is globally disabled.
func (e *Engine) After(d time.Duration, fn func()) string {
	id := e.Create(NewID("timer"), nil, Config{Duration: d, OnComplete: fn})
	e.Start(id)
	return id
}

// Animating reports whether the tick loop is active.
func (e *Engine) Animating() bool { return e.looping }

// Playing reports whether the last tick advanced at least one running record.
func (e *Engine) Playing() bool { return e.playing }

// Paused reports whether, at the last tick, nothing was running and at least
// one record was paused.
func (e *Engine) Paused() bool { return e.paused }

// Now returns the timestamp of the last tick.
func (e *Engine) Now() time.Time { return e.now }

// Tick advances every running record to now. The host calls it once per
// frame; it is a no-op while the loop is inactive.
func (e *Engine) Tick(now time.Time) {
	if !e.looping {
		return
	}
	var t0 time.Time
	if e.debug {
		t0 = time.Now()
		e.stats = frameStats{}
	}

	e.now = now
	enabled := animationsEnabled(e.settings)
	hasRunning := false

	// Records created by callbacks during this tick are first advanced on
	// the next one.
	for _, id := range slices.Clone(e.order) {
		r, ok := e.records[id]
		if !ok || r.state != StateRunning {
			continue
		}
		hasRunning = true

		if !enabled {
			r.onUpdate(1)
			if e.records[id] == r {
				e.complete(r)
			}
			continue
		}

		elapsed := now.Sub(r.startTime) - r.delay
		if elapsed < 0 {
			e.stats.delayed++
			continue
		}

		raw := 1.0
		if r.duration > 0 {
			raw = min(float64(elapsed)/float64(r.duration), 1)
		}
		if r.direction < 0 {
			raw = 1 - raw
		}
		r.onUpdate(r.easing(raw))
		e.stats.advanced++

		if elapsed < r.duration || e.records[id] != r || r.state != StateRunning {
			continue
		}
		if r.loop && (r.loopCount <= 0 || r.currentLoop < r.loopCount-1) {
			r.currentLoop++
			r.startTime = now
			if r.alternate {
				r.direction = -r.direction
			}
			e.stats.looped++
			continue
		}
		e.complete(r)
	}

	if len(e.frames) > 0 {
		frames := e.frames
		e.frames = nil
		for _, fn := range frames {
			fn()
		}
	}

	hasPaused := false
	if !hasRunning {
		for _, r := range e.records {
			if r.state == StatePaused {
				hasPaused = true
				break
			}
		}
	}
	e.playing = hasRunning
	e.paused = hasPaused

	if !hasRunning && len(e.records) == 0 && !e.forceTicker && len(e.frames) == 0 {
		e.stopLoop()
	}

	if e.debug {
		e.stats.records = len(e.records)
		e.stats.tickTime = time.Since(t0)
		e.debugLog(e.stats)
	}
}

// complete marks r completed, removes it, then fires OnComplete. Removal
// comes first so a callback may safely reuse the id.
func (e *Engine) complete(r *record) {
	r.state = StateCompleted
	e.remove(r.id)
	e.stats.completed++
	if r.onComplete != nil {
		r.onComplete()
	}
}

func (e *Engine) remove(id string) {
	delete(e.records, id)
	if i := slices.Index(e.order, id); i >= 0 {
		e.order = slices.Delete(e.order, i, i+1)
	}
}

func (e *Engine) ensureLoop() {
	e.looping = true
}

func (e *Engine) stopLoop() {
	e.looping = false
}
