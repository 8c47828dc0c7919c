// Package tui provides the terminal user interface for weekdeck.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal         Mode = iota // Board navigation
	ModeDrag                       // A task is lifted and follows the drop cursor
	ModeInputTitle                 // Title input for a new task
	ModeEditTitle                  // Title input for the selected task
	ModeEditDesc                   // Description input for the selected task
	ModeInputPageTitle             // Board title input
	ModeInputImport                // Path input for importing a .wdeck file
	ModeConfirm                    // Confirmation prompt
	ModeHelp                       // Full key help
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeDrag:
		return "drag"
	case ModeInputTitle:
		return "input_title"
	case ModeEditTitle:
		return "edit_title"
	case ModeEditDesc:
		return "edit_desc"
	case ModeInputPageTitle:
		return "input_page_title"
	case ModeInputImport:
		return "input_import"
	case ModeConfirm:
		return "confirm"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	switch m {
	case ModeInputTitle, ModeEditTitle, ModeEditDesc, ModeInputPageTitle, ModeInputImport:
		return true
	case ModeNormal, ModeDrag, ModeConfirm, ModeHelp:
		return false
	}
	return false
}

// ConfirmAction represents the type of action requiring confirmation.
type ConfirmAction int

const (
	ConfirmNone           ConfirmAction = iota
	ConfirmClearDay       // Remove every task of the selected day
	ConfirmClearCompleted // Remove completed tasks of the selected day
)

// String returns a human-readable description of the action.
func (a ConfirmAction) String() string {
	switch a {
	case ConfirmNone:
		return ""
	case ConfirmClearDay:
		return "clear day"
	case ConfirmClearCompleted:
		return "clear completed"
	}
	return ""
}
