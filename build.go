package motion

import (
	"cmp"
	"log/slog"
	"slices"
)

// BuildStep is one entry of a page's build order.
type BuildStep struct {
	EntityID string
	Step     Step
	Played   bool
}

// BuildManager flattens the authored steps of every entity on a page into one
// build order and plays it the way a presenter clicks through it: on-load
// builds at once, then one on-click build per Next. with-prev and after-prev
// chain across entities in this order.
type BuildManager struct {
	seq     *Sequencer
	steps   []BuildStep
	page    int
	playing bool

	// live and entities hold what the current click chain has started.
	live     []string
	entities []string
	// gen invalidates chain watches left over from before a Reset.
	gen int
}

// NewBuildManager creates a BuildManager playing steps through seq.
func NewBuildManager(seq *Sequencer) *BuildManager {
	return &BuildManager{seq: seq, page: -1}
}

// Init resets the manager and collects the builds of page. Entities are
// ordered by layer, then by id; steps of one entity keep their authored order.
func (b *BuildManager) Init(page int) {
	b.Reset()
	b.page = page

	var entities []Entity
	for _, el := range b.seq.animator.store.Entities() {
		if el.Page == page && len(el.Animations) > 0 {
			entities = append(entities, el)
		}
	}
	slices.SortStableFunc(entities, func(x, y Entity) int {
		return cmp.Or(cmp.Compare(x.Layer, y.Layer), cmp.Compare(x.ID, y.ID))
	})
	for _, el := range entities {
		for _, st := range el.Animations {
			b.steps = append(b.steps, BuildStep{EntityID: el.ID, Step: st})
		}
	}
	logger.Debug("build order ready", slog.Int("page", page), slog.Int("steps", len(b.steps)))
}

// Reset drops the build order and stops every running sequence.
func (b *BuildManager) Reset() {
	b.steps = nil
	b.playing = false
	b.live, b.entities = nil, nil
	b.gen++
	b.seq.StopAll()
}

// Page returns the page of the current build order, or -1.
func (b *BuildManager) Page() int { return b.page }

// Steps returns a copy of the current build order.
func (b *BuildManager) Steps() []BuildStep { return slices.Clone(b.steps) }

// PlayInitial plays every on-load build not yet played.
func (b *BuildManager) PlayInitial() *Future {
	var futures []*Future
	for i, st := range b.steps {
		if st.Step.Trigger == TriggerOnLoad && !st.Played {
			futures = append(futures, b.execute(i))
		}
	}
	return All(futures...)
}

// HasMore reports whether an on-click build is still pending.
func (b *BuildManager) HasMore() bool {
	return slices.ContainsFunc(b.steps, func(st BuildStep) bool {
		return !st.Played && st.Step.Trigger == TriggerOnClick
	})
}

// PlayNext plays the next on-click build with its chained builds. ok is false
// when no on-click build is left. A click while a build is still playing is
// absorbed: it returns an already settled future and ok true.
//
// The chain also ends once nothing it started is animating any more, so a
// build cancelled by a retarget elsewhere does not swallow later clicks.
func (b *BuildManager) PlayNext() (f *Future, ok bool) {
	if b.playing {
		return Resolved(), true
	}
	next := slices.IndexFunc(b.steps, func(st BuildStep) bool {
		return !st.Played && st.Step.Trigger == TriggerOnClick
	})
	if next < 0 {
		return nil, false
	}
	b.playing = true
	b.live, b.entities = nil, nil
	f = b.execute(next)
	f.OnSettle(func() { b.playing = false })
	if !f.Settled() {
		b.watch(b.gen, f)
	}
	return f, true
}

// Playing reports whether an on-click build chain is in flight.
func (b *BuildManager) Playing() bool { return b.playing }

func (b *BuildManager) execute(i int) *Future {
	if i >= len(b.steps) || b.steps[i].Played {
		return Resolved()
	}
	b.steps[i].Played = true
	st := b.steps[i]

	// with-prev builds go first so that, on a shared entity, the build that
	// drives the chain is the one left running.
	for j := i + 1; j < len(b.steps) && b.steps[j].Step.Trigger == TriggerWithPrev; j++ {
		b.execute(j)
	}
	f := newFuture()
	id := b.seq.PlayStep(st.EntityID, st.Step, func() {
		b.afterPrev(i).OnSettle(f.resolve)
	})
	b.track(st.EntityID, id)
	return f
}

func (b *BuildManager) track(entityID, animID string) {
	if animID != "" {
		b.live = append(b.live, animID)
	}
	if !slices.Contains(b.entities, entityID) {
		b.entities = append(b.entities, entityID)
	}
}

// watch settles chain on the first frame where none of the animations or
// entities of the current chain is still running.
func (b *BuildManager) watch(gen int, chain *Future) {
	engine := b.seq.animator.engine
	engine.RequestFrame(func() {
		if gen != b.gen || chain.Settled() {
			return
		}
		if slices.ContainsFunc(b.live, engine.Has) || slices.ContainsFunc(b.entities, b.seq.animator.Active) {
			b.watch(gen, chain)
			return
		}
		logger.Debug("build chain cancelled", slog.Int("page", b.page))
		chain.resolve()
	})
}

func (b *BuildManager) afterPrev(i int) *Future {
	next := i + 1
	for next < len(b.steps) && b.steps[next].Step.Trigger == TriggerWithPrev {
		next++
	}
	if next < len(b.steps) && b.steps[next].Step.Trigger == TriggerAfterPrev {
		return b.execute(next)
	}
	return Resolved()
}
