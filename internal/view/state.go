// Package view models the two-pane document viewer.
//
// The viewer shows either the rendered HTML or the raw Markdown source, never
// both. Toggler is the finite automaton behind the two tab triggers; Layout
// projects its state onto the four page elements so the page template (and
// the script embedded in it) can render them.
package view

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownState indicates a view name that is neither rendered nor source.
var ErrUnknownState = errors.New("unknown view state")

// State is the active pane of the viewer.
type State int

const (
	// Rendered shows the HTML produced from the Markdown source.
	Rendered State = iota
	// Source shows the raw Markdown text.
	Source
)

// String returns the name used in flags, query strings and config files.
func (s State) String() string {
	switch s {
	case Rendered:
		return "html"
	case Source:
		return "source"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Valid reports whether s is one of the two known states.
func (s State) Valid() bool {
	return s == Rendered || s == Source
}

// ParseState converts a view name to a State (case-insensitive).
// Accepts "html" or "rendered" for Rendered, "source" or "raw" for Source.
// An empty name yields Rendered.
func ParseState(name string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "html", "rendered":
		return Rendered, nil
	case "source", "raw":
		return Source, nil
	default:
		return Rendered, fmt.Errorf("%w: %q (must be html or source)", ErrUnknownState, name)
	}
}

// Toggler switches between the rendered and source panes.
// The zero value is ready to use and starts in Rendered.
// A Toggler is not safe for concurrent use.
type Toggler struct {
	state State
}

// NewToggler creates a Toggler in the given initial state.
// Invalid states fall back to Rendered.
func NewToggler(initial State) *Toggler {
	if !initial.Valid() {
		initial = Rendered
	}
	return &Toggler{state: initial}
}

// State returns the active pane.
func (t *Toggler) State() State {
	return t.state
}

// SetView activates the pane for s. Selecting the active pane again is a no-op.
// Returns ErrUnknownState for values outside the two known states.
func (t *Toggler) SetView(s State) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownState, int(s))
	}
	t.state = s
	return nil
}

// Toggle flips to the other pane.
func (t *Toggler) Toggle() {
	if t.state == Rendered {
		t.state = Source
		return
	}
	t.state = Rendered
}

// Layout returns the element attributes for the active state.
func (t *Toggler) Layout() Layout {
	return LayoutFor(t.state)
}
