// Package motion is a frame-driven animation scheduling engine for
// presentation and diagramming documents.
//
// It animates numeric and color properties of document entities over time,
// plays authored step sequences against triggers, composes animations into
// timelines, drives page transitions (fade, slide, two-phase zoom) and morphs
// a document between two snapshots of its entities.
//
// # Quick start
//
// Everything hangs off an [Engine], advanced by the host once per frame:
//
//	clock := motion.NewManualClock()
//	engine := motion.NewEngine(clock, nil)
//	animator := motion.NewAnimator(engine, store)
//
//	animator.Animate("title", motion.Props{motion.PropX: motion.Number(100)},
//		motion.AnimateConfig{Config: motion.Config{Duration: time.Second}})
//
//	for engine.Animating() {
//		engine.Tick(clock.Advance(16 * time.Millisecond))
//	}
//
// The document itself lives behind the [Store] interface. The ecs
// subpackage provides a Store backed by a [Donburi] world; the ebitenhost
// subpackage drives a [Show] from an Ebitengine game loop and implements
// [Viewport].
//
// # Time
//
// Elapsed time is always now - startTime - delay, computed from absolute
// timestamps. Pausing records the pause instant and resuming shifts the
// start forward by the gap, so progress is continuous across a pause and
// frames dropped by the host are absorbed.
//
// # Components
//
//   - [Engine]: animation records, one tick loop, per-frame callbacks
//     ([Engine.RequestFrame]) and timers ([Engine.After]).
//   - [Animator]: property tweens with at most one animation per entity.
//   - [Presets]: named canned effects (fadeIn, fadeOut, scaleIn, bounce,
//     pulse, shake).
//   - [Sequencer] and [BuildManager]: authored steps with on-load,
//     on-click, after-prev and with-prev triggers.
//   - [Timeline]: animation, parallel, delay and callback steps played as a
//     unit.
//   - [Transitions]: view changes between pages.
//   - [StateDiff]: enter, update and exit choreography between snapshots.
//
// Asynchronous operations return a [Future], which settles on the goroutine
// that calls Tick and never fails.
//
// # Threading
//
// Engine, Animator and everything built on them must be used from the
// goroutine that calls Tick. [WaitAll] is the only blocking call meant for
// other goroutines.
//
// [Donburi]: https://github.com/yohamta/donburi
package motion
