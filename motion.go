package motion

import (
	"maps"
	"slices"
	"strconv"
)

// Property names an entity property. The animatable set is closed: numeric
// properties tween linearly, color properties tween per channel. Any other
// property is treated as an opaque setting and applied immediately.
type Property string

const (
	PropX               Property = "x"
	PropY               Property = "y"
	PropWidth           Property = "width"
	PropHeight          Property = "height"
	PropOpacity         Property = "opacity"
	PropAngle           Property = "angle"
	PropStrokeWidth     Property = "strokeWidth"
	PropRoughness       Property = "roughness"
	PropStrokeColor     Property = "strokeColor"
	PropBackgroundColor Property = "backgroundColor"
)

// NumericProperties lists the properties that tween as numbers, in the order
// the state diff compares them.
var NumericProperties = []Property{
	PropX, PropY, PropWidth, PropHeight, PropAngle, PropOpacity, PropStrokeWidth, PropRoughness,
}

// ColorProperties lists the properties that tween as hex colors.
var ColorProperties = []Property{PropStrokeColor, PropBackgroundColor}

// Numeric reports whether p belongs to the numeric animatable set.
func (p Property) Numeric() bool {
	return slices.Contains(NumericProperties, p)
}

// IsColor reports whether p belongs to the color animatable set.
func (p Property) IsColor() bool {
	return slices.Contains(ColorProperties, p)
}

// ValueKind tags the runtime type of a Value.
type ValueKind uint8

const (
	KindNumber ValueKind = iota // float64, interpolated linearly
	KindColor                   // "#rrggbb", interpolated per channel
	KindText                    // opaque string (text, enum, toggle)
)

// Value is a tagged property value.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
}

// Number returns a numeric Value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Hex returns a color Value from a hex string such as "#ff8800".
func Hex(s string) Value { return Value{Kind: KindColor, Str: s} }

// Text returns an opaque Value.
func Text(s string) Value { return Value{Kind: KindText, Str: s} }

// String formats the value the way it is stored in a document.
func (v Value) String() string {
	if v.Kind == KindNumber {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Str
}

// Props is a partial property set.
type Props map[Property]Value

// Clone returns a shallow copy; Values are plain data so this is a deep copy.
func (p Props) Clone() Props {
	if p == nil {
		return Props{}
	}
	return maps.Clone(p)
}

// Num returns the numeric value of prop, or def when absent or not a number.
func (p Props) Num(prop Property, def float64) float64 {
	if v, ok := p[prop]; ok && v.Kind == KindNumber {
		return v.Num
	}
	return def
}

// Entity is an addressable item of the document whose properties can be read
// and written through a Store.
type Entity struct {
	ID    string
	Page  int
	Layer int
	Props Props

	// Animations is the authored step list consumed by the Sequencer.
	Animations []Step
	// Exit names the preset run when the entity leaves during a state diff.
	// Empty means a fade to zero opacity.
	Exit string
}

// Clone returns a copy that shares nothing mutable with e.
func (e Entity) Clone() Entity {
	c := e
	c.Props = e.Props.Clone()
	c.Animations = slices.Clone(e.Animations)
	return c
}

// Store is the document model the engine reads and writes. UpdateEntity is the
// only write path used while tweening; recordHistory is false for every
// intermediate frame so an undo log is not flooded.
type Store interface {
	Entity(id string) (Entity, bool)
	Entities() []Entity
	UpdateEntity(id string, props Props, recordHistory bool)
	SetEntities(entities []Entity)
}

// Settings exposes the global motion preferences. Both are polled, never
// cached: once per tick by the Engine and once per decision by Transitions.
type Settings interface {
	AnimationsEnabled() bool
	ReducedMotion() bool
}

// GlobalSettings is the document-level Settings implementation.
type GlobalSettings struct {
	// AnimationEnabled is a pointer so an absent YAML key means enabled.
	AnimationEnabled *bool `yaml:"animationEnabled"`
	Reduced          bool  `yaml:"reducedMotion"`
}

// AnimationsEnabled reports whether animations may run. Defaults to true.
func (s *GlobalSettings) AnimationsEnabled() bool {
	if s == nil || s.AnimationEnabled == nil {
		return true
	}
	return *s.AnimationEnabled
}

// ReducedMotion reports the accessibility reduced-motion preference.
func (s *GlobalSettings) ReducedMotion() bool {
	return s != nil && s.Reduced
}

// SetAnimationsEnabled toggles the global animation switch.
func (s *GlobalSettings) SetAnimationsEnabled(enabled bool) {
	s.AnimationEnabled = &enabled
}

func animationsEnabled(s Settings) bool {
	return s == nil || s.AnimationsEnabled()
}

func reducedMotion(s Settings) bool {
	return s != nil && s.ReducedMotion()
}
