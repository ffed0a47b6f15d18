// Package ecs provides a motion document store backed by a [Donburi] world.
//
// [NewStore] keeps every entity as an entry with a [ShapeComponent], records
// undoable edits, and publishes [PropertiesChanged] events on every write.
// Subscribe to [PropertiesChangedEvent] in your ECS systems to react to
// animated properties.
//
// Usage:
//
//	store := ecs.NewStore(donburi.NewWorld())
//	show := motion.NewShow(store, deck, viewport, nil, nil)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
