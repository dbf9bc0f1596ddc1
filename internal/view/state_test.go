package view

import (
	"errors"
	"testing"
)

func TestParseState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    State
		wantErr bool
	}{
		{input: "", want: Rendered},
		{input: "html", want: Rendered},
		{input: "Rendered", want: Rendered},
		{input: "source", want: Source},
		{input: " RAW ", want: Source},
		{input: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseState(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownState) {
					t.Fatalf("ParseState(%q) error = %v, want ErrUnknownState", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseState(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseState(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	if Rendered.String() != "html" {
		t.Errorf("Rendered.String() = %q, want html", Rendered.String())
	}
	if Source.String() != "source" {
		t.Errorf("Source.String() = %q, want source", Source.String())
	}
	if State(7).String() != "State(7)" {
		t.Errorf("State(7).String() = %q", State(7).String())
	}
}

func TestToggler_DefaultState(t *testing.T) {
	t.Parallel()

	var zero Toggler
	if zero.State() != Rendered {
		t.Errorf("zero Toggler state = %v, want Rendered", zero.State())
	}

	if got := NewToggler(State(42)).State(); got != Rendered {
		t.Errorf("NewToggler(invalid) state = %v, want Rendered", got)
	}
}

func TestToggler_SetView(t *testing.T) {
	t.Parallel()

	tg := NewToggler(Rendered)

	// Activating the source trigger shows the source pane and hides the output pane.
	if err := tg.SetView(Source); err != nil {
		t.Fatalf("SetView(Source) error = %v", err)
	}
	l := tg.Layout()
	if !l.SourcePane.Visible || l.OutputPane.Visible {
		t.Errorf("after SetView(Source): source visible=%v, output visible=%v", l.SourcePane.Visible, l.OutputPane.Visible)
	}
	if !l.SourceTab.Active || l.HTMLTab.Active {
		t.Errorf("after SetView(Source): source tab active=%v, html tab active=%v", l.SourceTab.Active, l.HTMLTab.Active)
	}

	// Re-activating the rendered trigger restores the initial layout.
	if err := tg.SetView(Rendered); err != nil {
		t.Fatalf("SetView(Rendered) error = %v", err)
	}
	l = tg.Layout()
	if l.SourcePane.Visible || !l.OutputPane.Visible {
		t.Errorf("after SetView(Rendered): source visible=%v, output visible=%v", l.SourcePane.Visible, l.OutputPane.Visible)
	}
	if l.SourceTab.Active || !l.HTMLTab.Active {
		t.Errorf("after SetView(Rendered): source tab active=%v, html tab active=%v", l.SourceTab.Active, l.HTMLTab.Active)
	}
}

func TestToggler_SetViewIdempotent(t *testing.T) {
	t.Parallel()

	tg := NewToggler(Source)
	before := tg.Layout()
	for range 3 {
		if err := tg.SetView(Source); err != nil {
			t.Fatalf("SetView(Source) error = %v", err)
		}
	}
	if tg.Layout() != before {
		t.Errorf("repeated SetView changed layout: %+v -> %+v", before, tg.Layout())
	}
}

func TestToggler_SetViewInvalid(t *testing.T) {
	t.Parallel()

	tg := NewToggler(Source)
	if err := tg.SetView(State(-1)); !errors.Is(err, ErrUnknownState) {
		t.Errorf("SetView(-1) error = %v, want ErrUnknownState", err)
	}
	if tg.State() != Source {
		t.Errorf("state changed after invalid SetView: %v", tg.State())
	}
}

func TestToggler_Toggle(t *testing.T) {
	t.Parallel()

	tg := NewToggler(Rendered)
	tg.Toggle()
	if tg.State() != Source {
		t.Errorf("after one Toggle state = %v, want Source", tg.State())
	}
	tg.Toggle()
	if tg.State() != Rendered {
		t.Errorf("after two Toggles state = %v, want Rendered", tg.State())
	}
}

func TestLayoutFor_ExactlyOneActive(t *testing.T) {
	t.Parallel()

	for _, s := range []State{Rendered, Source} {
		l := LayoutFor(s)

		active := 0
		for _, tr := range l.Triggers() {
			if tr.Active {
				active++
				if tr.View != s {
					t.Errorf("%v: active trigger %q targets %v", s, tr.ID, tr.View)
				}
				if tr.Class() != "tab active" {
					t.Errorf("%v: active trigger class = %q", s, tr.Class())
				}
			} else if tr.Class() != "tab" {
				t.Errorf("%v: inactive trigger class = %q", s, tr.Class())
			}
		}
		if active != 1 {
			t.Errorf("%v: %d active triggers, want 1", s, active)
		}
		if l.OutputPane.Visible == l.SourcePane.Visible {
			t.Errorf("%v: both panes have visible=%v", s, l.OutputPane.Visible)
		}
	}
}

func TestPane_Display(t *testing.T) {
	t.Parallel()

	if got := (Pane{Visible: true}).Display(); got != "block" {
		t.Errorf("visible Display() = %q, want block", got)
	}
	if got := (Pane{}).Display(); got != "none" {
		t.Errorf("hidden Display() = %q, want none", got)
	}
}
