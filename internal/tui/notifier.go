package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/weekdeck/weekdeck/internal/domain"
)

// Toast display limits.
const (
	toastDuration = 4 * time.Second
	maxToasts     = 3
)

// toast is a notification shown in the corner of the board.
type toast struct {
	message  string
	id       int
	severity domain.Severity
}

// programNotifier turns notifications into MsgNotify for a running program.
// Send is called on its own goroutine: Notify may be reached from inside
// Update, where a synchronous Program.Send would block.
type programNotifier struct {
	send func(tea.Msg)
}

// Notify implements domain.Notifier.
func (n programNotifier) Notify(message string, severity domain.Severity) {
	go n.send(MsgNotify{Message: message, Severity: severity})
}

var _ domain.Notifier = programNotifier{}

// pushToast appends a toast and schedules its expiry. Older toasts beyond the
// limit are dropped.
func (m *Model) pushToast(message string, severity domain.Severity) tea.Cmd {
	m.nextToastID++
	id := m.nextToastID
	m.toasts = append(m.toasts, toast{id: id, message: message, severity: severity})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return MsgToastExpired{ID: id}
	})
}

func (m *Model) expireToast(id int) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}
