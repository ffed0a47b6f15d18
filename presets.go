package motion

import (
	"log/slog"
	"slices"
	"time"
)

// Preset starts a canned effect on an entity and returns the id of its first
// animation, or "" when the entity does not exist. Presets run cfg.OnComplete
// once the whole effect, including any chained phase, has finished.
type Preset func(a *Animator, entityID string, cfg AnimateConfig) string

// Presets is a name to Preset registry.
type Presets struct {
	byName map[string]Preset
}

// Preset tuning.
const (
	presetDuration  = 300 * time.Millisecond
	bounceHeight    = 20.0
	pulseScale      = 1.1
	shakeDistance   = 10.0
	shakeDuration   = 400 * time.Millisecond
	shakeIterations = 4
)

// NewPresets returns a registry holding the built-in effects: fadeIn, fadeOut,
// scaleIn, bounce, pulse and shake.
func NewPresets() *Presets {
	p := &Presets{byName: make(map[string]Preset)}
	p.Register("fadeIn", fadeIn)
	p.Register("fadeOut", fadeOut)
	p.Register("scaleIn", scaleIn)
	p.Register("bounce", bounce)
	p.Register("pulse", pulse)
	p.Register("shake", shake)
	return p
}

// Register adds or replaces a named preset.
func (p *Presets) Register(name string, fn Preset) {
	p.byName[name] = fn
}

// Lookup returns the preset registered under name.
func (p *Presets) Lookup(name string) (Preset, bool) {
	fn, ok := p.byName[name]
	return fn, ok
}

// Names returns the registered preset names, sorted.
func (p *Presets) Names() []string {
	names := make([]string, 0, len(p.byName))
	for name := range p.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Run starts the named preset. An unknown name is logged and treated as an
// effect that completes immediately: cfg.OnComplete runs synchronously and
// "" is returned.
func (p *Presets) Run(name string, a *Animator, entityID string, cfg AnimateConfig) string {
	fn, ok := p.byName[name]
	if !ok {
		logger.Warn("unknown preset", slog.String("preset", name), slog.String("entity", entityID))
		if cfg.OnComplete != nil {
			cfg.OnComplete()
		}
		return ""
	}
	return fn(a, entityID, cfg)
}

// withDefaults fills an unset duration and easing.
func withDefaults(cfg AnimateConfig, d time.Duration, easing string) AnimateConfig {
	if cfg.Duration <= 0 {
		cfg.Duration = d
	}
	if cfg.Easing == "" && cfg.EasingFunc == nil {
		cfg.Easing = easing
	}
	return cfg
}

func fadeIn(a *Animator, entityID string, cfg AnimateConfig) string {
	if _, ok := a.store.Entity(entityID); !ok {
		return ""
	}
	a.store.UpdateEntity(entityID, Props{PropOpacity: Number(0)}, false)
	return a.Animate(entityID, Props{PropOpacity: Number(100)}, withDefaults(cfg, presetDuration, "easeOutQuad"))
}

func fadeOut(a *Animator, entityID string, cfg AnimateConfig) string {
	return a.Animate(entityID, Props{PropOpacity: Number(0)}, withDefaults(cfg, presetDuration, "easeOutQuad"))
}

// scaleIn grows the entity out of its own center.
func scaleIn(a *Animator, entityID string, cfg AnimateConfig) string {
	el, ok := a.store.Entity(entityID)
	if !ok {
		return ""
	}
	x, y := el.Props.Num(PropX, 0), el.Props.Num(PropY, 0)
	w, h := el.Props.Num(PropWidth, 0), el.Props.Num(PropHeight, 0)

	a.store.UpdateEntity(entityID, Props{
		PropWidth:   Number(0),
		PropHeight:  Number(0),
		PropX:       Number(x + w/2),
		PropY:       Number(y + h/2),
		PropOpacity: Number(0),
	}, false)

	return a.Animate(entityID, Props{
		PropWidth:   Number(w),
		PropHeight:  Number(h),
		PropX:       Number(x),
		PropY:       Number(y),
		PropOpacity: Number(100),
	}, withDefaults(cfg, presetDuration, "easeOutBack"))
}

// bounce lifts the entity for a third of the duration, then drops it back
// with a bounce curve. The default total is 450ms.
func bounce(a *Animator, entityID string, cfg AnimateConfig) string {
	el, ok := a.store.Entity(entityID)
	if !ok {
		return ""
	}
	y := el.Props.Num(PropY, 0)

	total := cfg.Duration
	if total <= 0 {
		total = 450 * time.Millisecond
	}
	done := cfg.OnComplete

	up := cfg
	up.Duration = total / 3
	up.Easing, up.EasingFunc = "easeOutQuad", nil
	up.Loop, up.Alternate = false, false
	up.OnComplete = func() {
		down := AnimateConfig{OnUpdate: cfg.OnUpdate}
		down.Duration = total - total/3
		down.Easing = "easeOutBounce"
		down.OnComplete = done
		a.Animate(entityID, Props{PropY: Number(y)}, down)
	}
	return a.Animate(entityID, Props{PropY: Number(y - bounceHeight)}, up)
}

// pulse grows the entity around its center then shrinks it back, each half
// taking half the duration.
func pulse(a *Animator, entityID string, cfg AnimateConfig) string {
	el, ok := a.store.Entity(entityID)
	if !ok {
		return ""
	}
	x, y := el.Props.Num(PropX, 0), el.Props.Num(PropY, 0)
	w, h := el.Props.Num(PropWidth, 0), el.Props.Num(PropHeight, 0)
	gw, gh := w*pulseScale, h*pulseScale

	total := cfg.Duration
	if total <= 0 {
		total = presetDuration
	}
	done := cfg.OnComplete

	grow := withDefaults(cfg, presetDuration, "easeOutQuad")
	grow.Duration = total / 2
	grow.Loop, grow.Alternate = false, false
	grow.OnComplete = func() {
		shrink := AnimateConfig{OnUpdate: cfg.OnUpdate}
		shrink.Duration = total - total/2
		shrink.Easing = grow.Easing
		shrink.EasingFunc = grow.EasingFunc
		shrink.OnComplete = done
		a.Animate(entityID, Props{
			PropWidth:  Number(w),
			PropHeight: Number(h),
			PropX:      Number(x),
			PropY:      Number(y),
		}, shrink)
	}
	return a.Animate(entityID, Props{
		PropWidth:  Number(gw),
		PropHeight: Number(gh),
		PropX:      Number(x - (gw-w)/2),
		PropY:      Number(y - (gh-h)/2),
	}, grow)
}

// shake swings the entity sideways four times, then snaps it back to its
// original x. The duration covers one swing.
func shake(a *Animator, entityID string, cfg AnimateConfig) string {
	el, ok := a.store.Entity(entityID)
	if !ok {
		return ""
	}
	x := el.Props.Num(PropX, 0)
	done := cfg.OnComplete

	c := withDefaults(cfg, shakeDuration, "linear")
	c.Loop = true
	c.LoopCount = shakeIterations
	c.Alternate = true
	c.OnComplete = func() {
		a.store.UpdateEntity(entityID, Props{PropX: Number(x)}, false)
		if done != nil {
			done()
		}
	}
	return a.Animate(entityID, Props{PropX: Number(x + shakeDistance)}, c)
}
