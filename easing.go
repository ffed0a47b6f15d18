package motion

import (
	"github.com/tanema/gween/ease"
)

// EasingFunc maps normalized progress in [0, 1] to eased progress. Overshooting
// curves (back, elastic) may leave [0, 1] between the endpoints.
type EasingFunc func(t float64) float64

// unit adapts a gween curve to the unit interval: begin 0, change 1,
// duration 1.
func unit(fn ease.TweenFunc) EasingFunc {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// Linear is the identity curve. It is evaluated in float64 so linear tweens
// land exactly on their sampled values.
func Linear(t float64) float64 { return t }

var easings = map[string]EasingFunc{
	"linear":          Linear,
	"easeInQuad":      unit(ease.InQuad),
	"easeOutQuad":     unit(ease.OutQuad),
	"easeInOutQuad":   unit(ease.InOutQuad),
	"easeInCubic":     unit(ease.InCubic),
	"easeOutCubic":    unit(ease.OutCubic),
	"easeInOutCubic":  unit(ease.InOutCubic),
	"easeInExpo":      unit(ease.InExpo),
	"easeOutExpo":     unit(ease.OutExpo),
	"easeInOutExpo":   unit(ease.InOutExpo),
	"easeInBounce":    unit(ease.InBounce),
	"easeOutBounce":   unit(ease.OutBounce),
	"easeInOutBounce": unit(ease.InOutBounce),
	"easeInElastic":   unit(ease.InElastic),
	"easeOutElastic":  unit(ease.OutElastic),
	"easeInBack":      unit(ease.InBack),
	"easeOutBack":     unit(ease.OutBack),
	"easeSpring":      unit(ease.OutElastic),
}

// Easing resolves a named curve. Empty and unknown names resolve to Linear.
func Easing(name string) EasingFunc {
	if fn, ok := easings[name]; ok {
		return fn
	}
	return Linear
}

// HasEasing reports whether name is a registered curve.
func HasEasing(name string) bool {
	_, ok := easings[name]
	return ok
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
