package motion

import (
	"math"
	"testing"
)

func TestEasing_Endpoints(t *testing.T) {
	for name := range easings {
		fn := Easing(name)
		if got := fn(0); math.Abs(got) > 1e-4 {
			t.Errorf("%s(0) = %v, want 0", name, got)
		}
		if got := fn(1); math.Abs(got-1) > 1e-4 {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
	}
}

func TestEasing_UnknownIsLinear(t *testing.T) {
	for _, name := range []string{"", "wobble", "EaseInQuad"} {
		if HasEasing(name) {
			t.Errorf("HasEasing(%q) = true", name)
		}
		if got := Easing(name)(0.25); got != 0.25 {
			t.Errorf("Easing(%q)(0.25) = %v, want 0.25", name, got)
		}
	}
}

func TestEasing_Shapes(t *testing.T) {
	tests := []struct {
		name string
		at   float64
		want float64
	}{
		{"easeInQuad", 0.5, 0.25},
		{"easeOutQuad", 0.5, 0.75},
		{"easeInOutQuad", 0.5, 0.5},
		{"easeInCubic", 0.5, 0.125},
	}
	for _, tt := range tests {
		if got := Easing(tt.name)(tt.at); math.Abs(got-tt.want) > 1e-4 {
			t.Errorf("%s(%v) = %v, want %v", tt.name, tt.at, got, tt.want)
		}
	}
}

func TestEasing_BackOvershoots(t *testing.T) {
	fn := Easing("easeOutBack")
	peak := 0.0
	for i := 1; i < 100; i++ {
		peak = max(peak, fn(float64(i)/100))
	}
	if peak <= 1 {
		t.Errorf("easeOutBack peak = %v, want > 1", peak)
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(10, 20, 0.5); got != 15 {
		t.Errorf("Lerp = %v, want 15", got)
	}
	if got := Lerp(10, 20, 1.2); math.Abs(got-22) > 1e-9 {
		t.Errorf("Lerp overshoot = %v, want 22", got)
	}
}
