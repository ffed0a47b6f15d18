package motion

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoSteps is returned for a script without steps.
var ErrNoSteps = errors.New("script has no steps")

// scriptStep is a single action of a playback script.
type scriptStep struct {
	Action  string  `yaml:"action"`
	Label   string  `yaml:"label,omitempty"`
	Frames  int     `yaml:"frames,omitempty"`
	Page    int     `yaml:"page,omitempty"`
	Entity  string  `yaml:"entity,omitempty"`
	Trigger Trigger `yaml:"trigger,omitempty"`
}

// screenshotter is implemented by viewports that can capture the screen.
type screenshotter interface {
	Screenshot(label string)
}

type scriptFile struct {
	Steps []scriptStep `yaml:"steps"`
}

// Script drives a Show frame by frame from a list of actions: waiting,
// clicking through builds, jumping to pages, playing sequences, taking or
// morphing to labelled snapshots, and capturing the screen when the viewport
// supports it. Attach it with Show.SetScript.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool

	// Snapshots holds the entity state captured by each snapshot action.
	Snapshots map[string]Snapshot
}

// LoadScript reads a YAML script from path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", ErrNoSteps)
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "wait", "click", "goto", "play", "snapshot", "morph", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps, Snapshots: make(map[string]Snapshot)}, nil
}

// Done reports whether every step has run.
func (r *Script) Done() bool {
	return r.done
}

// step advances the script by one frame. Called from Show.Update.
func (r *Script) step(s *Show) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "click":
		s.Next()
	case "goto":
		s.GoTo(st.Page)
	case "play":
		trigger := st.Trigger
		if trigger == "" {
			trigger = TriggerProgrammatic
		}
		s.sequencer.PlaySequence(st.Entity, trigger)
	case "snapshot":
		r.Snapshots[st.Label] = s.diff.Capture()
	case "morph":
		snap, ok := r.Snapshots[st.Label]
		if !ok {
			logger.Warn("script: no snapshot", slog.String("label", st.Label))
			break
		}
		s.diff.TransitionTo(snap, AnimateConfig{})
	case "screenshot":
		if c, ok := s.viewport.(screenshotter); ok {
			c.Screenshot(st.Label)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
