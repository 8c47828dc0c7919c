package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the TUI.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Drag
	Grab   key.Binding // Lift the selected task, or drop it while dragging
	Escape key.Binding // Cancel drag, input or confirmation

	// Task management
	New       key.Binding // Add a task to the selected day
	Edit      key.Binding // Edit title
	EditDesc  key.Binding // Edit description
	Delete    key.Binding
	Duplicate key.Binding
	Color     key.Binding // Cycle color
	NoColor   key.Binding // Clear color
	Highlight key.Binding
	Done      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	PrevDay   key.Binding // Move task to the previous day
	NextDay   key.Binding // Move task to the next day

	// Day
	ClearDay       key.Binding
	ClearCompleted key.Binding

	// Board
	PageTitle key.Binding
	Theme     key.Binding
	Weekend   key.Binding
	Export    key.Binding
	Import    key.Binding

	// General
	Help    key.Binding
	Quit    key.Binding
	Enter   key.Binding // Commit input
	Confirm key.Binding // Confirm action (in confirm mode)
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Grab: key.NewBinding(
			key.WithKeys(" ", "m"),
			key.WithHelp("space/m", "drag/drop"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		New: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a", "add task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit title"),
		),
		EditDesc: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "edit description"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Duplicate: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "duplicate"),
		),
		Color: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "color"),
		),
		NoColor: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "no color"),
		),
		Highlight: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "highlight"),
		),
		Done: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "done"),
		),
		Top: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "to bottom"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("<", "H"),
			key.WithHelp("<", "to prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys(">", "L"),
			key.WithHelp(">", "to next day"),
		),
		ClearDay: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "clear day"),
		),
		ClearCompleted: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear done"),
		),
		PageTitle: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename board"),
		),
		Theme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "theme"),
		),
		Weekend: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "weekend"),
		),
		Export: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "export"),
		),
		Import: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "import"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.New, k.Edit, k.Color, k.Done, k.Delete, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Grab, k.Escape},
		{k.New, k.Edit, k.EditDesc, k.Delete, k.Duplicate, k.Top, k.Bottom},
		{k.Color, k.NoColor, k.Highlight, k.Done, k.PrevDay, k.NextDay},
		{k.ClearDay, k.ClearCompleted, k.PageTitle, k.Theme, k.Weekend},
		{k.Export, k.Import, k.Help, k.Quit},
	}
}

// DragHelp returns the keybindings available while dragging.
func (k KeyMap) DragHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "position")),
		key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←→", "day")),
		key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space/enter", "drop")),
		k.Escape,
	}
}
