package motion

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoPages is returned for a deck that declares no page.
var ErrNoPages = errors.New("deck has no pages")

// Deck is a loaded document: pages with their transitions, the entities on
// them with their authored animations, and the global motion settings. It
// implements PageSource.
type Deck struct {
	Settings GlobalSettings

	pages    []Page
	entities []Entity
	active   int
}

// NewDeck builds a deck in memory. The first page is active.
func NewDeck(pages []Page, entities []Entity) *Deck {
	return &Deck{pages: pages, entities: entities}
}

// Pages returns the deck's pages.
func (d *Deck) Pages() []Page { return d.pages }

// ActivePage returns the index of the active page.
func (d *Deck) ActivePage() int { return d.active }

// SetActivePage changes the active page. Out of range indices are ignored.
func (d *Deck) SetActivePage(index int) {
	if index >= 0 && index < len(d.pages) {
		d.active = index
	}
}

// Entities returns a copy of the entities as authored.
func (d *Deck) Entities() []Entity { return cloneEntities(d.entities) }

type deckFile struct {
	Settings GlobalSettings `yaml:"settings"`
	Pages    []pageDoc      `yaml:"pages"`
	Entities []entityDoc    `yaml:"entities"`
}

type pageDoc struct {
	ID         string         `yaml:"id"`
	X          float64        `yaml:"x"`
	Y          float64        `yaml:"y"`
	Width      float64        `yaml:"width"`
	Height     float64        `yaml:"height"`
	Background string         `yaml:"background"`
	Transition *transitionDoc `yaml:"transition"`
	LastView   *View          `yaml:"lastView"`
}

type transitionDoc struct {
	Type     TransitionType `yaml:"type"`
	Duration *int           `yaml:"duration"` // ms
	Easing   string         `yaml:"easing"`
}

type entityDoc struct {
	ID         string         `yaml:"id"`
	Page       int            `yaml:"page"`
	Layer      int            `yaml:"layer"`
	Props      map[string]any `yaml:"props"`
	Exit       string         `yaml:"exit"`
	Animations []stepDoc      `yaml:"animations"`
}

type stepDoc struct {
	ID           string   `yaml:"id"`
	Type         StepKind `yaml:"type"`
	Trigger      Trigger  `yaml:"trigger"`
	Duration     int      `yaml:"duration"` // ms
	Delay        int      `yaml:"delay"`    // ms
	Easing       string   `yaml:"easing"`
	Repeat       int      `yaml:"repeat"`
	Yoyo         bool     `yaml:"yoyo"`
	RestoreAfter bool     `yaml:"restoreAfter"`
	Name         string   `yaml:"name"`
	Property     Property `yaml:"property"`
	To           any      `yaml:"to"`
	Angle        float64  `yaml:"angle"`
	Relative     bool     `yaml:"relative"`
	Path         string   `yaml:"path"`
}

// LoadDeck reads a YAML deck from path.
func LoadDeck(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load deck: %w", err)
	}
	return ParseDeck(data)
}

// ParseDeck decodes a YAML deck. Durations are written in milliseconds.
func ParseDeck(data []byte) (*Deck, error) {
	var f deckFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse deck: %w", err)
	}
	if len(f.Pages) == 0 {
		return nil, fmt.Errorf("parse deck: %w", ErrNoPages)
	}

	d := &Deck{Settings: f.Settings}
	for _, p := range f.Pages {
		page := Page{
			ID:         p.ID,
			X:          p.X,
			Y:          p.Y,
			Width:      p.Width,
			Height:     p.Height,
			Background: p.Background,
			LastView:   p.LastView,
		}
		if p.Transition != nil {
			tr := DefaultTransition
			if p.Transition.Type != "" {
				tr.Type = p.Transition.Type
			}
			if p.Transition.Duration != nil {
				tr.Duration = ms(*p.Transition.Duration)
			}
			if p.Transition.Easing != "" {
				tr.Easing = p.Transition.Easing
			}
			page.Transition = &tr
		}
		d.pages = append(d.pages, page)
	}

	for _, e := range f.Entities {
		if e.ID == "" {
			return nil, fmt.Errorf("parse deck: entity without id")
		}
		if e.Page < 0 || e.Page >= len(d.pages) {
			return nil, fmt.Errorf("parse deck: entity %s: page %d out of range", e.ID, e.Page)
		}
		el := Entity{ID: e.ID, Page: e.Page, Layer: e.Layer, Exit: e.Exit, Props: Props{}}
		for k, v := range e.Props {
			el.Props[Property(k)] = valueOf(v)
		}
		for i, s := range e.Animations {
			st, err := s.step()
			if err != nil {
				return nil, fmt.Errorf("parse deck: entity %s step %d: %w", e.ID, i, err)
			}
			el.Animations = append(el.Animations, st)
		}
		d.entities = append(d.entities, el)
	}
	return d, nil
}

func (s stepDoc) step() (Step, error) {
	switch s.Type {
	case StepPreset, StepProperty, StepRotate, StepPath:
	default:
		return Step{}, fmt.Errorf("unknown step type %q", s.Type)
	}
	switch s.Trigger {
	case TriggerOnLoad, TriggerOnClick, TriggerOnHover, TriggerAfterPrev, TriggerWithPrev, TriggerProgrammatic:
	case "":
		s.Trigger = TriggerOnClick
	default:
		return Step{}, fmt.Errorf("unknown trigger %q", s.Trigger)
	}
	st := Step{
		ID:           s.ID,
		Kind:         s.Type,
		Trigger:      s.Trigger,
		Duration:     ms(s.Duration),
		Delay:        ms(s.Delay),
		Easing:       s.Easing,
		Repeat:       s.Repeat,
		Yoyo:         s.Yoyo,
		RestoreAfter: s.RestoreAfter,
		Name:         s.Name,
		Property:     s.Property,
		Angle:        s.Angle,
		Relative:     s.Relative,
		Path:         s.Path,
	}
	if s.Type == StepProperty {
		st.To = valueOf(s.To)
		if st.Property.Numeric() && st.To.Kind != KindNumber {
			return Step{}, fmt.Errorf("property %s needs a number, got %q", st.Property, st.To.String())
		}
	}
	return st, nil
}

// valueOf converts a decoded YAML scalar to a Value.
func valueOf(v any) Value {
	switch x := v.(type) {
	case int:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case float64:
		return Number(x)
	case string:
		if strings.HasPrefix(x, "#") {
			if _, ok := ParseHex(x); ok {
				return Hex(x)
			}
		}
		return Text(x)
	case nil:
		return Text("")
	default:
		return Text(fmt.Sprint(x))
	}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
