package view

// Element ids shared by the page template and its toggle script.
const (
	TabHTMLID    = "tab-html"
	TabSourceID  = "tab-source"
	OutputPaneID = "markdown-output"
	SourcePaneID = "markdown-source"
)

// ActiveClass marks the trigger of the visible pane.
const ActiveClass = "active"

// Trigger is a tab control that activates one pane.
type Trigger struct {
	ID     string
	Label  string
	View   State
	Active bool
}

// Class returns the CSS class list for the trigger.
func (t Trigger) Class() string {
	if t.Active {
		return "tab " + ActiveClass
	}
	return "tab"
}

// Pane is a display region whose visibility follows the toggler.
type Pane struct {
	ID      string
	Visible bool
}

// Display returns the CSS display value.
func (p Pane) Display() string {
	if p.Visible {
		return "block"
	}
	return "none"
}

// Layout is the projection of a State onto the four page elements.
type Layout struct {
	State      State
	HTMLTab    Trigger
	SourceTab  Trigger
	OutputPane Pane
	SourcePane Pane
}

// LayoutFor builds the layout for s. Exactly one trigger is active and
// exactly one pane is visible.
func LayoutFor(s State) Layout {
	rendered := s != Source
	return Layout{
		State:      s,
		HTMLTab:    Trigger{ID: TabHTMLID, Label: "HTML", View: Rendered, Active: rendered},
		SourceTab:  Trigger{ID: TabSourceID, Label: "Source", View: Source, Active: !rendered},
		OutputPane: Pane{ID: OutputPaneID, Visible: rendered},
		SourcePane: Pane{ID: SourcePaneID, Visible: !rendered},
	}
}

// Triggers returns both triggers in display order.
func (l Layout) Triggers() []Trigger {
	return []Trigger{l.HTMLTab, l.SourceTab}
}
