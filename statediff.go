package motion

import (
	"slices"
	"time"
)

// Snapshot is a deep copy of a document's entities at one instant.
type Snapshot []Entity

// Find returns the entity with id.
func (s Snapshot) Find(id string) (Entity, bool) {
	for _, el := range s {
		if el.ID == id {
			return el, true
		}
	}
	return Entity{}, false
}

// Diff partitions entity ids between two snapshots.
type Diff struct {
	Common   []string // in both
	Entering []string // only in the target
	Exiting  []string // only in the current
}

// DiffEntities compares from against to. Ids keep the order of the snapshot
// they come from.
func DiffEntities(from Snapshot, to []Entity) Diff {
	var d Diff
	inTarget := make(map[string]struct{}, len(to))
	for _, el := range to {
		inTarget[el.ID] = struct{}{}
	}
	inFrom := make(map[string]struct{}, len(from))
	for _, el := range from {
		inFrom[el.ID] = struct{}{}
		if _, ok := inTarget[el.ID]; ok {
			d.Common = append(d.Common, el.ID)
		} else {
			d.Exiting = append(d.Exiting, el.ID)
		}
	}
	for _, el := range to {
		if _, ok := inFrom[el.ID]; !ok {
			d.Entering = append(d.Entering, el.ID)
		}
	}
	return d
}

// Default timing of a state diff.
const (
	diffDuration = 800 * time.Millisecond
	diffEasing   = "easeInOutQuad"
)

// StateDiff morphs the document from its current entities to a target set:
// common entities tween the properties that differ, entering ones fade in,
// exiting ones play their exit effect. The document holds the union of both
// sets until every animation has settled, then collapses to the target.
type StateDiff struct {
	animator *Animator
	presets  *Presets
	gen      int
}

// NewStateDiff creates a State Diff Animator. A nil presets uses NewPresets.
func NewStateDiff(animator *Animator, presets *Presets) *StateDiff {
	if presets == nil {
		presets = NewPresets()
	}
	return &StateDiff{animator: animator, presets: presets}
}

// Capture snapshots the current entities.
func (d *StateDiff) Capture() Snapshot {
	els := d.animator.store.Entities()
	snap := make(Snapshot, len(els))
	for i, el := range els {
		snap[i] = el.Clone()
	}
	return snap
}

// TransitionTo morphs from the current entities to target.
func (d *StateDiff) TransitionTo(target []Entity, cfg AnimateConfig) *Future {
	return d.TransitionFrom(d.Capture(), target, cfg)
}

// TransitionFrom morphs from the entities in from to target. cfg sets the
// timing of every tween (800ms easeInOutQuad by default); its OnComplete runs
// once, after the document has collapsed to target. A later call supersedes
// this one: the earlier future then settles without committing.
func (d *StateDiff) TransitionFrom(from Snapshot, target []Entity, cfg AnimateConfig) *Future {
	d.gen++
	gen := d.gen
	store := d.animator.store

	if cfg.Duration <= 0 {
		cfg.Duration = diffDuration
	}
	if cfg.Easing == "" && cfg.EasingFunc == nil {
		cfg.Easing = diffEasing
	}
	done := cfg.OnComplete
	cfg.OnComplete = nil

	diff := DiffEntities(from, target)

	// Expand: the target set, with common entities still at their captured
	// values, plus the exiting ones.
	working := make([]Entity, 0, len(target)+len(diff.Exiting))
	for _, el := range target {
		c := el.Clone()
		if cur, ok := from.Find(el.ID); ok {
			for _, p := range animatable() {
				if v, ok := cur.Props[p]; ok {
					c.Props[p] = v
				}
			}
		}
		working = append(working, c)
	}
	for _, id := range diff.Exiting {
		el, _ := from.Find(id)
		working = append(working, el.Clone())
	}
	store.SetEntities(working)

	var involved []string
	for _, id := range diff.Common {
		cur, _ := from.Find(id)
		next := findEntity(target, id)
		changed := Props{}
		for _, p := range animatable() {
			tv, ok := next.Props[p]
			if !ok {
				continue
			}
			if cv, ok := cur.Props[p]; ok && cv == tv {
				continue
			}
			changed[p] = tv
		}
		if len(changed) == 0 {
			continue
		}
		if d.animator.Animate(id, changed, cfg) != "" {
			involved = append(involved, id)
		}
	}

	for _, id := range diff.Entering {
		el := findEntity(target, id)
		opacity := el.Props.Num(PropOpacity, 100)
		store.UpdateEntity(id, Props{PropOpacity: Number(0)}, false)
		if d.animator.Animate(id, Props{PropOpacity: Number(opacity)}, cfg) != "" {
			involved = append(involved, id)
		}
	}

	for _, id := range diff.Exiting {
		el, _ := from.Find(id)
		var animID string
		if el.Exit != "" {
			animID = d.presets.Run(el.Exit, d.animator, id, cfg)
		} else {
			animID = d.animator.Animate(id, Props{PropOpacity: Number(0)}, cfg)
		}
		if animID != "" {
			involved = append(involved, id)
		}
	}

	f := newFuture()
	commit := func() {
		if gen == d.gen {
			store.SetEntities(cloneEntities(target))
			if done != nil {
				done()
			}
		}
		f.resolve()
	}
	if len(involved) == 0 {
		commit()
		return f
	}
	d.await(gen, involved, commit)
	return f
}

// await calls fn on the first frame where none of ids is animating, or as
// soon as a newer diff supersedes this one.
func (d *StateDiff) await(gen int, ids []string, fn func()) {
	d.animator.engine.RequestFrame(func() {
		if gen == d.gen && slices.ContainsFunc(ids, d.animator.Active) {
			d.await(gen, ids, fn)
			return
		}
		fn()
	})
}

func animatable() []Property {
	return slices.Concat(NumericProperties, ColorProperties)
}

func findEntity(els []Entity, id string) Entity {
	for _, el := range els {
		if el.ID == id {
			return el
		}
	}
	return Entity{}
}

func cloneEntities(els []Entity) []Entity {
	out := make([]Entity, len(els))
	for i, el := range els {
		out[i] = el.Clone()
	}
	return out
}
