package app

import (
	"fmt"
	"io"
	"sync"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// Notifications forwards notifications to a replaceable sink. The CLI prints
// them; the TUI swaps in its toast queue while it runs.
type Notifications struct {
	sink domain.Notifier
	mu   sync.RWMutex
}

// NewNotifications creates a Notifications forwarding to sink. sink may be nil.
func NewNotifications(sink domain.Notifier) *Notifications {
	return &Notifications{sink: sink}
}

// Notify forwards to the current sink.
func (n *Notifications) Notify(message string, severity domain.Severity) {
	n.mu.RLock()
	sink := n.sink
	n.mu.RUnlock()
	if sink != nil {
		sink.Notify(message, severity)
	}
}

// SetSink replaces the sink and returns the previous one.
func (n *Notifications) SetSink(sink domain.Notifier) domain.Notifier {
	n.mu.Lock()
	defer n.mu.Unlock()
	prev := n.sink
	n.sink = sink
	return prev
}

// WriterNotifier prints notifications at or above a minimum severity.
type WriterNotifier struct {
	w   io.Writer
	min domain.Severity
	mu  sync.Mutex
}

// NewWriterNotifier creates a WriterNotifier printing to w.
func NewWriterNotifier(w io.Writer, minSeverity domain.Severity) *WriterNotifier {
	return &WriterNotifier{w: w, min: minSeverity}
}

// Notify prints "<severity>: <message>".
func (n *WriterNotifier) Notify(message string, severity domain.Severity) {
	if severity < n.min {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "%s: %s\n", severity, message)
}
