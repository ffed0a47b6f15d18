package motion

import (
	"log/slog"
	"math"
	"time"
)

// StepKind selects what a sequence step does.
type StepKind string

const (
	StepPreset   StepKind = "preset"   // named canned effect
	StepProperty StepKind = "property" // single property tween
	StepRotate   StepKind = "rotate"   // angle tween in degrees
	StepPath     StepKind = "path"     // motion along a curve; not executed
)

// Trigger says when a step starts relative to its neighbours or to user input.
type Trigger string

const (
	TriggerOnLoad       Trigger = "on-load"
	TriggerOnClick      Trigger = "on-click"
	TriggerOnHover      Trigger = "on-hover"
	TriggerAfterPrev    Trigger = "after-prev"
	TriggerWithPrev     Trigger = "with-prev"
	TriggerProgrammatic Trigger = "programmatic"
)

// Step is one authored animation on an entity.
type Step struct {
	ID       string
	Kind     StepKind
	Trigger  Trigger
	Duration time.Duration
	Delay    time.Duration
	Easing   string

	// Repeat is the number of extra iterations; -1 repeats forever.
	Repeat int
	// Yoyo reverses direction on every repeat.
	Yoyo bool
	// RestoreAfter puts the entity back the way it was once the step ends.
	RestoreAfter bool

	// Name is the preset name of a StepPreset.
	Name string
	// Property and To describe a StepProperty tween.
	Property Property
	To       Value
	// Angle is the StepRotate target in degrees, added to the current angle
	// when Relative is set.
	Angle    float64
	Relative bool
	// Path is the curve of a StepPath.
	Path string
}

func (st Step) config() AnimateConfig {
	var c AnimateConfig
	c.Duration = st.Duration
	c.Delay = st.Delay
	c.Easing = st.Easing
	switch {
	case st.Repeat < 0:
		c.Loop = true
	case st.Repeat > 0:
		c.Loop = true
		c.LoopCount = st.Repeat + 1
	}
	c.Alternate = st.Yoyo
	return c
}

// previewRestoreDelay is how long the last frame of a programmatic preview
// stays visible before the entity is restored.
const previewRestoreDelay = 500 * time.Millisecond

// previewProps are the properties a programmatic preview puts back.
var previewProps = []Property{
	PropX, PropY, PropWidth, PropHeight, PropOpacity, PropAngle, PropStrokeColor, PropBackgroundColor,
}

// Sequencer plays the authored step lists of entities. A step runs either
// after its predecessor completes (after-prev) or together with it
// (with-prev).
type Sequencer struct {
	animator *Animator
	presets  *Presets

	previewing map[string]struct{}
}

// NewSequencer creates a Sequencer. A nil presets uses NewPresets.
func NewSequencer(animator *Animator, presets *Presets) *Sequencer {
	if presets == nil {
		presets = NewPresets()
	}
	return &Sequencer{
		animator:   animator,
		presets:    presets,
		previewing: make(map[string]struct{}),
	}
}

// Presets returns the registry preset steps resolve against.
func (s *Sequencer) Presets() *Presets { return s.presets }

// Previewing reports whether a programmatic preview is in flight.
func (s *Sequencer) Previewing() bool { return len(s.previewing) > 0 }

// PlaySequence runs the step list of entityID starting from trigger. The
// returned future settles when the chain ends; it is already settled when the
// entity is missing or nothing matches trigger.
//
// A programmatic run plays every step from the first and restores the
// entity's visual properties shortly after it ends. Any other trigger starts
// at the first step declared with that trigger, or at the first step when it
// is after-prev.
func (s *Sequencer) PlaySequence(entityID string, trigger Trigger) *Future {
	store := s.animator.store
	el, ok := store.Entity(entityID)
	if !ok || len(el.Animations) == 0 {
		return Resolved()
	}
	steps := el.Animations

	start := startIndex(steps, trigger)
	if start < 0 {
		return Resolved()
	}

	f := newFuture()
	var original Props
	if trigger == TriggerProgrammatic {
		s.previewing[entityID] = struct{}{}
		original = Props{}
		for _, p := range previewProps {
			if v, ok := el.Props[p]; ok {
				original[p] = v
			}
		}
	}

	s.runStep(entityID, steps, start, func() {
		if trigger == TriggerProgrammatic {
			delete(s.previewing, entityID)
			s.animator.engine.After(previewRestoreDelay, func() {
				store.UpdateEntity(entityID, original, false)
			})
		}
		f.resolve()
	})
	return f
}

func startIndex(steps []Step, trigger Trigger) int {
	if trigger == TriggerProgrammatic {
		return 0
	}
	if steps[0].Trigger == trigger || steps[0].Trigger == TriggerAfterPrev {
		return 0
	}
	for i, st := range steps {
		if st.Trigger == trigger {
			return i
		}
	}
	return -1
}

// PlayAll runs PlaySequence on the given entities, or on every entity in the
// store when none are given.
func (s *Sequencer) PlayAll(trigger Trigger, entityIDs ...string) *Future {
	if len(entityIDs) == 0 {
		for _, el := range s.animator.store.Entities() {
			entityIDs = append(entityIDs, el.ID)
		}
	}
	futures := make([]*Future, 0, len(entityIDs))
	for _, id := range entityIDs {
		futures = append(futures, s.PlaySequence(id, trigger))
	}
	return All(futures...)
}

// StopSequence cancels whatever is animating entityID and ends its preview.
// Chains stopped this way never settle.
func (s *Sequencer) StopSequence(entityID string) {
	delete(s.previewing, entityID)
	s.animator.StopEntity(entityID)
}

// StopAll cancels every entity's animations and ends any preview.
func (s *Sequencer) StopAll() {
	clear(s.previewing)
	for _, el := range s.animator.store.Entities() {
		s.StopSequence(el.ID)
	}
}

func (s *Sequencer) runStep(entityID string, steps []Step, i int, done func()) {
	if i >= len(steps) {
		done()
		return
	}
	step := steps[i]

	var saved Props
	if step.RestoreAfter {
		if el, ok := s.animator.store.Entity(entityID); ok {
			saved = el.Props.Clone()
		}
	}

	onComplete := func() {
		if saved != nil {
			s.animator.store.UpdateEntity(entityID, saved, false)
		}
		next := i + 1
		for next < len(steps) && steps[next].Trigger == TriggerWithPrev {
			next++
		}
		if next < len(steps) && (steps[next].Trigger == TriggerAfterPrev || steps[next].Trigger == TriggerProgrammatic) {
			s.runStep(entityID, steps, next, done)
			return
		}
		done()
	}

	for j := i + 1; j < len(steps) && steps[j].Trigger == TriggerWithPrev; j++ {
		s.PlayStep(entityID, steps[j], nil)
	}
	s.PlayStep(entityID, step, onComplete)
}

// PlayStep runs a single step on entityID and returns the animation id it
// started, if any. onComplete always runs eventually unless the animation is
// cancelled: steps that cannot execute (missing entity, unknown preset,
// unsupported kind) complete synchronously.
func (s *Sequencer) PlayStep(entityID string, step Step, onComplete func()) string {
	if onComplete == nil {
		onComplete = func() {}
	}
	cfg := step.config()
	cfg.OnComplete = onComplete

	el, ok := s.animator.store.Entity(entityID)
	if !ok {
		logger.Warn("play step: entity not found", slog.String("entity", entityID))
		onComplete()
		return ""
	}

	switch step.Kind {
	case StepPreset:
		return s.presets.Run(step.Name, s.animator, entityID, cfg)
	case StepProperty:
		if !step.Property.Numeric() && !step.Property.IsColor() {
			logger.Warn("property step: not animatable",
				slog.String("entity", entityID), slog.String("property", string(step.Property)))
			onComplete()
			return ""
		}
		return s.animator.Animate(entityID, Props{step.Property: step.To}, cfg)
	case StepRotate:
		angle := step.Angle * math.Pi / 180
		if step.Relative {
			angle += el.Props.Num(PropAngle, 0)
		}
		return s.animator.Animate(entityID, Props{PropAngle: Number(angle)}, cfg)
	default:
		logger.Warn("step kind not supported",
			slog.String("entity", entityID), slog.String("kind", string(step.Kind)))
		onComplete()
		return ""
	}
}
