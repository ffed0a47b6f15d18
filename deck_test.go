package motion

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleDeck = `
settings:
  reducedMotion: true
pages:
  - id: one
    width: 800
    height: 600
  - id: two
    x: 1000
    width: 800
    height: 600
    background: "#000000"
    transition: {type: fade, duration: 250}
    lastView: {scale: 2, panX: 10, panY: 20}
  - id: three
    transition: {easing: easeOutQuad}
entities:
  - id: box
    page: 1
    layer: 3
    exit: fadeOut
    props: {x: 10, y: 20.5, strokeColor: "#ff0000", fill: solid}
    animations:
      - {type: preset, name: fadeIn, duration: 300, delay: 50}
      - {type: property, property: x, to: 40, trigger: after-prev, repeat: -1, yoyo: true}
      - {type: rotate, angle: 90, relative: true, trigger: with-prev, restoreAfter: true}
`

func TestParseDeck(t *testing.T) {
	d, err := ParseDeck([]byte(sampleDeck))
	if err != nil {
		t.Fatalf("ParseDeck: %v", err)
	}
	if !d.Settings.ReducedMotion() || !d.Settings.AnimationsEnabled() {
		t.Errorf("settings = %+v", d.Settings)
	}

	pages := d.Pages()
	if len(pages) != 3 {
		t.Fatalf("pages = %d", len(pages))
	}
	if pages[0].Transition != nil {
		t.Error("page without transition should keep it nil")
	}
	tr := pages[1].Transition
	if tr == nil || tr.Type != TransitionFade || tr.Duration != 250*time.Millisecond || tr.Easing != DefaultTransition.Easing {
		t.Errorf("transition = %+v", tr)
	}
	if pages[1].LastView == nil || pages[1].LastView.Scale != 2 || pages[1].LastView.PanY != 20 {
		t.Errorf("lastView = %+v", pages[1].LastView)
	}
	if tr := pages[2].Transition; tr.Type != TransitionNone || tr.Duration != DefaultTransition.Duration || tr.Easing != "easeOutQuad" {
		t.Errorf("partial transition = %+v", tr)
	}

	els := d.Entities()
	if len(els) != 1 {
		t.Fatalf("entities = %d", len(els))
	}
	box := els[0]
	if box.Page != 1 || box.Layer != 3 || box.Exit != "fadeOut" {
		t.Errorf("box = %+v", box)
	}
	if box.Props[PropX] != Number(10) || box.Props[PropY] != Number(20.5) {
		t.Errorf("numbers = %v %v", box.Props[PropX], box.Props[PropY])
	}
	if box.Props[PropStrokeColor] != Hex("#ff0000") || box.Props["fill"] != Text("solid") {
		t.Errorf("strings = %v %v", box.Props[PropStrokeColor], box.Props["fill"])
	}

	steps := box.Animations
	if len(steps) != 3 {
		t.Fatalf("steps = %d", len(steps))
	}
	if steps[0].Trigger != TriggerOnClick || steps[0].Duration != 300*time.Millisecond || steps[0].Delay != 50*time.Millisecond {
		t.Errorf("step 0 = %+v", steps[0])
	}
	if steps[1].To != Number(40) || steps[1].Repeat != -1 || !steps[1].Yoyo {
		t.Errorf("step 1 = %+v", steps[1])
	}
	if steps[2].Kind != StepRotate || steps[2].Angle != 90 || !steps[2].Relative || !steps[2].RestoreAfter {
		t.Errorf("step 2 = %+v", steps[2])
	}
}

func TestParseDeck_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"no pages", "pages: []", "no pages"},
		{"bad yaml", "pages: [", "parse deck"},
		{"no id", "pages: [{id: a}]\nentities: [{page: 0}]", "without id"},
		{"page range", "pages: [{id: a}]\nentities: [{id: x, page: 3}]", "out of range"},
		{"step type", "pages: [{id: a}]\nentities: [{id: x, animations: [{type: wiggle}]}]", "unknown step type"},
		{"trigger", "pages: [{id: a}]\nentities: [{id: x, animations: [{type: preset, trigger: on-blink}]}]", "unknown trigger"},
		{"numeric to", "pages: [{id: a}]\nentities: [{id: x, animations: [{type: property, property: x, to: far}]}]", "needs a number"},
	}
	for _, tt := range tests {
		_, err := ParseDeck([]byte(tt.doc))
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want %q", tt.name, err, tt.want)
		}
	}
	if _, err := ParseDeck([]byte("pages: []")); !errors.Is(err, ErrNoPages) {
		t.Errorf("err = %v, want ErrNoPages", err)
	}
}

func TestLoadDeck_Example(t *testing.T) {
	d, err := LoadDeck("examples/slides/deck.yaml")
	if err != nil {
		t.Fatalf("LoadDeck: %v", err)
	}
	if len(d.Pages()) != 4 {
		t.Errorf("pages = %d, want 4", len(d.Pages()))
	}
	if _, err := LoadDeck("does/not/exist.yaml"); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestDeck_EntitiesAreCopies(t *testing.T) {
	d := NewDeck([]Page{{ID: "a"}}, []Entity{{ID: "x", Props: Props{PropX: Number(1)}}})
	els := d.Entities()
	els[0].Props[PropX] = Number(99)
	if got := d.Entities()[0].Props[PropX]; got != Number(1) {
		t.Errorf("deck entity mutated: %v", got)
	}
	d.SetActivePage(5)
	if d.ActivePage() != 0 {
		t.Error("out of range SetActivePage should be ignored")
	}
}
