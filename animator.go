package motion

import (
	"log/slog"
	"slices"
	"time"
)

// AnimateConfig configures one property animation.
type AnimateConfig struct {
	Config
	// OnUpdate receives the interpolated values written on each frame.
	OnUpdate func(values Props)
}

type numberTrack struct {
	prop     Property
	from, to float64
}

type colorTrack struct {
	prop     Property
	from, to string
}

// Animator tweens entity properties through the Engine, writing every frame
// back through the Store with history recording off.
//
// At most one property animation owns an entity at a time: Animate cancels
// whatever the entity already has in flight before starting. A cancelled
// animation never fires its OnComplete.
type Animator struct {
	engine *Engine
	store  Store

	// active maps entity id to the animation ids currently driving it.
	active map[string]map[string]struct{}
}

// NewAnimator creates an Animator writing to store.
func NewAnimator(engine *Engine, store Store) *Animator {
	return &Animator{
		engine: engine,
		store:  store,
		active: make(map[string]map[string]struct{}),
	}
}

// Engine returns the scheduler the animator registers with.
func (a *Animator) Engine() *Engine { return a.engine }

// Store returns the document the animator writes to.
func (a *Animator) Store() Store { return a.store }

// Animate tweens the properties in target from the entity's current values and
// returns the animation id, or "" when the entity does not exist.
//
// Numeric properties interpolate linearly after easing; color properties
// interpolate per channel when both ends are hex colors. A target property
// absent from the entity, or one that cannot be tweened, is applied once,
// synchronously, before the tween starts.
func (a *Animator) Animate(entityID string, target Props, cfg AnimateConfig) string {
	el, ok := a.store.Entity(entityID)
	if !ok {
		logger.Warn("animate: entity not found", slog.String("entity", entityID))
		return ""
	}

	a.StopEntity(entityID)

	var (
		numbers   []numberTrack
		colors    []colorTrack
		immediate = Props{}
	)
	for _, prop := range sortedProps(target) {
		to := target[prop]
		from, present := el.Props[prop]
		switch {
		case !present:
			immediate[prop] = to
		case prop.Numeric() && from.Kind == KindNumber && to.Kind == KindNumber:
			numbers = append(numbers, numberTrack{prop: prop, from: from.Num, to: to.Num})
		case prop.IsColor() && isHex(from) && isHex(to):
			colors = append(colors, colorTrack{prop: prop, from: from.Str, to: to.Str})
		default:
			immediate[prop] = to
		}
	}
	if len(immediate) > 0 {
		a.store.UpdateEntity(entityID, immediate, false)
	}

	id := NewID("el")
	onComplete := cfg.OnComplete
	timing := cfg.Config
	timing.OnComplete = func() {
		a.deregister(entityID, id)
		if onComplete != nil {
			onComplete()
		}
	}

	a.engine.Create(id, func(progress float64) {
		if len(numbers) == 0 && len(colors) == 0 {
			return
		}
		values := make(Props, len(numbers)+len(colors))
		for _, t := range numbers {
			values[t.prop] = Number(Lerp(t.from, t.to, progress))
		}
		for _, t := range colors {
			if c, ok := LerpColor(t.from, t.to, progress); ok {
				values[t.prop] = Hex(c)
			}
		}
		a.store.UpdateEntity(entityID, values, false)
		if cfg.OnUpdate != nil {
			cfg.OnUpdate(values)
		}
	}, timing)

	a.register(entityID, id)
	a.engine.Start(id)
	return id
}

// AnimateMany runs the same animation on several entities, offsetting each
// start by stagger times its index. The returned ids keep the input order;
// missing entities yield "".
func (a *Animator) AnimateMany(entityIDs []string, target Props, cfg AnimateConfig, stagger time.Duration) []string {
	ids := make([]string, len(entityIDs))
	base := cfg.Delay
	for i, entityID := range entityIDs {
		c := cfg
		c.Delay = base + stagger*time.Duration(i)
		ids[i] = a.Animate(entityID, target, c)
	}
	return ids
}

// Stop cancels an animation without completing it.
func (a *Animator) Stop(animID string) {
	a.engine.Stop(animID)
	for entityID, set := range a.active {
		if _, ok := set[animID]; ok {
			a.deregister(entityID, animID)
			return
		}
	}
}

// Pause freezes an animation.
func (a *Animator) Pause(animID string) {
	a.engine.Pause(animID)
}

// Resume continues a paused animation from where it stopped.
func (a *Animator) Resume(animID string) {
	a.engine.Resume(animID)
}

// StopEntity cancels every animation driving entityID.
func (a *Animator) StopEntity(entityID string) {
	set := a.active[entityID]
	delete(a.active, entityID)
	for id := range set {
		a.engine.Stop(id)
	}
}

// Active reports whether entityID has an animation in flight. Ids the engine
// no longer knows (stopped directly on the Engine) are pruned.
func (a *Animator) Active(entityID string) bool {
	return len(a.ActiveIDs(entityID)) > 0
}

// ActiveIDs returns the animation ids currently driving entityID.
func (a *Animator) ActiveIDs(entityID string) []string {
	set := a.active[entityID]
	ids := make([]string, 0, len(set))
	for id := range set {
		if a.engine.Has(id) {
			ids = append(ids, id)
		} else {
			delete(set, id)
		}
	}
	if len(set) == 0 {
		delete(a.active, entityID)
	}
	slices.Sort(ids)
	return ids
}

func (a *Animator) register(entityID, animID string) {
	set, ok := a.active[entityID]
	if !ok {
		set = make(map[string]struct{})
		a.active[entityID] = set
	}
	set[animID] = struct{}{}
}

func (a *Animator) deregister(entityID, animID string) {
	set, ok := a.active[entityID]
	if !ok {
		return
	}
	delete(set, animID)
	if len(set) == 0 {
		delete(a.active, entityID)
	}
}

func isHex(v Value) bool {
	if v.Kind == KindNumber {
		return false
	}
	_, ok := ParseHex(v.Str)
	return ok
}

// sortedProps returns the keys of p in a stable order.
func sortedProps(p Props) []Property {
	keys := make([]Property, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
