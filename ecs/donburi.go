package ecs

import (
	"slices"

	"github.com/phanxgames/motion"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// Shape is the component holding one document entity.
type Shape struct {
	ID         string
	Page       int
	Layer      int
	Props      motion.Props
	Animations []motion.Step
	Exit       string
}

// ShapeComponent is the Donburi component type of document entities.
var ShapeComponent = donburi.NewComponentType[Shape]()

// PropertiesChanged is published on every property write.
type PropertiesChanged struct {
	ID    string
	Props motion.Props
	// Recorded is true when the write was added to the undo history.
	Recorded bool
}

// PropertiesChangedEvent is the Donburi event type for property writes.
// Events queue until ProcessEvents (or Store.Flush) runs.
var PropertiesChangedEvent = events.NewEventType[PropertiesChanged]()

// Edit is one recorded change, with enough of the previous state to undo it.
type Edit struct {
	ID     string
	Before motion.Props
	After  motion.Props
	// Added lists the properties the edit introduced.
	Added []motion.Property
}

var shapes = donburi.NewQuery(filter.Contains(ShapeComponent))

// Store is a motion.Store backed by a Donburi world. Every entity is an entry
// with a ShapeComponent.
type Store struct {
	world   donburi.World
	index   map[string]donburi.Entity
	order   []string
	history []Edit
}

// NewStore creates a Store on world, adopting the shapes already in it.
func NewStore(world donburi.World) *Store {
	s := &Store{world: world, index: make(map[string]donburi.Entity)}
	shapes.Each(world, func(entry *donburi.Entry) {
		sh := ShapeComponent.Get(entry)
		s.index[sh.ID] = entry.Entity()
		s.order = append(s.order, sh.ID)
	})
	return s
}

// World returns the underlying world.
func (s *Store) World() donburi.World { return s.world }

func (s *Store) entry(id string) (*donburi.Entry, bool) {
	e, ok := s.index[id]
	if !ok || !s.world.Valid(e) {
		return nil, false
	}
	return s.world.Entry(e), true
}

// Entity returns a copy of the entity with id.
func (s *Store) Entity(id string) (motion.Entity, bool) {
	entry, ok := s.entry(id)
	if !ok {
		return motion.Entity{}, false
	}
	return toEntity(ShapeComponent.Get(entry)), true
}

// Entities returns copies of every entity in insertion order.
func (s *Store) Entities() []motion.Entity {
	out := make([]motion.Entity, 0, len(s.order))
	for _, id := range s.order {
		if el, ok := s.Entity(id); ok {
			out = append(out, el)
		}
	}
	return out
}

// UpdateEntity merges props into the entity. Unknown ids are ignored.
func (s *Store) UpdateEntity(id string, props motion.Props, recordHistory bool) {
	entry, ok := s.entry(id)
	if !ok || len(props) == 0 {
		return
	}
	sh := ShapeComponent.Get(entry)
	if sh.Props == nil {
		sh.Props = motion.Props{}
	}
	if recordHistory {
		edit := Edit{ID: id, Before: motion.Props{}, After: props.Clone()}
		for p := range props {
			if v, ok := sh.Props[p]; ok {
				edit.Before[p] = v
			} else {
				edit.Added = append(edit.Added, p)
			}
		}
		s.history = append(s.history, edit)
	}
	for p, v := range props {
		sh.Props[p] = v
	}
	PropertiesChangedEvent.Publish(s.world, PropertiesChanged{ID: id, Props: props.Clone(), Recorded: recordHistory})
}

// SetEntities replaces every entity. The undo history is kept.
func (s *Store) SetEntities(entities []motion.Entity) {
	for _, id := range s.order {
		if e, ok := s.index[id]; ok && s.world.Valid(e) {
			s.world.Remove(e)
		}
	}
	clear(s.index)
	s.order = s.order[:0]

	for _, el := range entities {
		e := s.world.Create(ShapeComponent)
		ShapeComponent.SetValue(s.world.Entry(e), fromEntity(el))
		if _, dup := s.index[el.ID]; !dup {
			s.order = append(s.order, el.ID)
		}
		s.index[el.ID] = e
	}
}

// History returns the recorded edits, oldest first.
func (s *Store) History() []Edit { return slices.Clone(s.history) }

// Undo reverts the most recent recorded edit. It reports false when the
// history is empty. Reverting is itself not recorded.
func (s *Store) Undo() bool {
	if len(s.history) == 0 {
		return false
	}
	edit := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]

	entry, ok := s.entry(edit.ID)
	if !ok {
		return true
	}
	sh := ShapeComponent.Get(entry)
	for _, p := range edit.Added {
		delete(sh.Props, p)
	}
	for p, v := range edit.Before {
		sh.Props[p] = v
	}
	PropertiesChangedEvent.Publish(s.world, PropertiesChanged{ID: edit.ID, Props: edit.Before.Clone()})
	return true
}

// Flush delivers queued PropertiesChanged events to subscribers.
func (s *Store) Flush() {
	PropertiesChangedEvent.ProcessEvents(s.world)
}

func toEntity(sh *Shape) motion.Entity {
	return motion.Entity{
		ID:         sh.ID,
		Page:       sh.Page,
		Layer:      sh.Layer,
		Props:      sh.Props.Clone(),
		Animations: slices.Clone(sh.Animations),
		Exit:       sh.Exit,
	}
}

func fromEntity(el motion.Entity) Shape {
	c := el.Clone()
	return Shape{
		ID:         c.ID,
		Page:       c.Page,
		Layer:      c.Layer,
		Props:      c.Props,
		Animations: c.Animations,
		Exit:       c.Exit,
	}
}
