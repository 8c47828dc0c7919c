package board

import (
	"context"
	"fmt"
	"sync"

	"github.com/weekdeck/weekdeck/internal/domain"
)

// SnapshotWriter persists a board snapshot.
type SnapshotWriter func(ctx context.Context, b domain.Board) error

// Autosaver writes board snapshots in the background after every change.
// Mutations never wait for storage: Enqueue only records the latest snapshot
// and wakes the writer goroutine. Intermediate snapshots may be skipped when
// changes arrive faster than they can be written; the newest revision always
// lands, even when changes are delivered out of order.
type Autosaver struct {
	write    SnapshotWriter
	logger   domain.Logger
	notifier domain.Notifier
	latest   *domain.Board
	progress chan struct{}
	wake     chan struct{}
	quit     chan struct{}
	stopped  chan struct{}
	lastErr  error
	mu       sync.Mutex
	seq      uint64
	doneSeq  uint64
	rev      uint64 // Newest Change.Rev accepted
	closed   bool
	failing  bool
}

// NewAutosaver creates and starts an Autosaver. logger and notifier may be nil.
func NewAutosaver(write SnapshotWriter, logger domain.Logger, notifier domain.Notifier) *Autosaver {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	a := &Autosaver{
		write:    write,
		logger:   logger,
		notifier: notifier,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go a.run()
	return a
}

// Attach subscribes the autosaver to store changes and returns the unsubscribe function.
func (a *Autosaver) Attach(s *Store) func() {
	return s.OnChange(a.Enqueue)
}

// Enqueue schedules c's snapshot for writing. It never blocks.
// A change older than one already accepted is dropped; changes without a
// revision are always accepted.
func (a *Autosaver) Enqueue(c Change) {
	a.mu.Lock()
	if a.closed || (c.Rev != 0 && c.Rev <= a.rev) {
		a.mu.Unlock()
		return
	}
	if c.Rev != 0 {
		a.rev = c.Rev
	}
	snap := c.Board
	a.latest = &snap
	a.seq++
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Flush waits until every snapshot enqueued before the call has been written
// (or has failed to write) and returns the last write error.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	target := a.seq
	a.mu.Unlock()

	for {
		a.mu.Lock()
		if a.doneSeq >= target {
			err := a.lastErr
			a.mu.Unlock()
			return err
		}
		ch := a.progress
		a.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		case <-a.stopped:
			a.mu.Lock()
			err := a.lastErr
			a.mu.Unlock()
			return err
		}
	}
}

// LastError returns the error of the most recent write, or nil if it succeeded.
func (a *Autosaver) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Close writes any pending snapshot and stops the writer goroutine.
func (a *Autosaver) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		<-a.stopped
		return a.LastError()
	}
	a.closed = true
	a.mu.Unlock()

	close(a.quit)
	<-a.stopped
	return a.LastError()
}

func (a *Autosaver) run() {
	defer close(a.stopped)
	for {
		select {
		case <-a.wake:
			a.writePending()
		case <-a.quit:
			a.writePending()
			return
		}
	}
}

func (a *Autosaver) writePending() {
	a.mu.Lock()
	snap := a.latest
	seq := a.seq
	a.latest = nil
	a.mu.Unlock()

	if snap == nil {
		return
	}

	err := a.write(context.Background(), *snap)

	a.mu.Lock()
	a.lastErr = err
	a.doneSeq = seq
	wasFailing := a.failing
	a.failing = err != nil
	close(a.progress)
	a.progress = make(chan struct{})
	a.mu.Unlock()

	switch {
	case err != nil:
		if a.logger != nil {
			a.logger.Warn("autosave", fmt.Sprintf("write snapshot: %v", err))
		}
		if !wasFailing {
			a.notifier.Notify("Could not save the board; changes are kept in memory only", domain.SeverityWarning)
		}
	case wasFailing:
		if a.logger != nil {
			a.logger.Info("autosave", "snapshot writes recovered")
		}
	}
}
