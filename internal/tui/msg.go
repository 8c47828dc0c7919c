package tui

import "github.com/weekdeck/weekdeck/internal/domain"

// Msg is the sealed interface for all TUI messages.
// All message types must implement the sealed() method.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgNotify carries a notification to show as a toast.
type MsgNotify struct {
	Message  string
	Severity domain.Severity
}

func (MsgNotify) sealed() {}

// MsgToastExpired removes the toast with ID.
type MsgToastExpired struct {
	ID int
}

func (MsgToastExpired) sealed() {}

// MsgRefresh reloads the board snapshot after a change made outside Update
// (import, restore).
type MsgRefresh struct{}

func (MsgRefresh) sealed() {}

// MsgError is sent when an asynchronous operation fails.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}
