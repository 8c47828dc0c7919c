package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/weekdeck/weekdeck/internal/app"
	"github.com/weekdeck/weekdeck/internal/board"
	"github.com/weekdeck/weekdeck/internal/domain"
	"github.com/weekdeck/weekdeck/internal/drag"
	"github.com/weekdeck/weekdeck/internal/usecase"
)

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	store     *board.Store
	session   *drag.Session
	err       error

	// State (slices - contain pointers)
	toasts []toast

	// Board snapshot the view renders
	snap domain.Board

	// Components (structs with pointers)
	keys   KeyMap
	styles Styles
	help   help.Model
	input  textinput.Model

	// Numeric state (smaller types last)
	mode          Mode
	confirmAction ConfirmAction
	day           domain.Day // Selected column
	index         int        // Selected task within the column
	dropDay       domain.Day // Drop cursor column while dragging
	dropSlot      int        // Insertion slot while dragging: 0..len(column)
	width         int
	height        int
	nextToastID   int
	source        usecase.BoardSource
}

// New creates a new TUI Model showing store.
func New(c *app.Container, store *board.Store) *Model {
	ti := textinput.New()
	ti.CharLimit = 500

	m := &Model{
		container: c,
		store:     store,
		session:   c.NewDragSession(store),
		mode:      ModeNormal,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		input:     ti,
	}
	m.refresh()
	return m
}

// Init shows startup warnings as toasts.
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.container.StorageWarning != "" {
		cmds = append(cmds, m.pushToast("Storage unavailable. Changes will not be saved.", domain.SeverityWarning))
	}
	if m.source == usecase.SourceRecovered {
		cmds = append(cmds, m.pushToast("Saved board was unreadable. A copy was kept and a new board started.", domain.SeverityWarning))
	}
	return tea.Batch(cmds...)
}

// Run opens the board and runs the TUI until the user quits or ctx is done.
// The board is flushed to storage before Run returns.
func Run(ctx context.Context, c *app.Container) error {
	b, err := c.OpenBoard(ctx)
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}

	m := New(c, b.Store)
	m.source = b.Source
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	prev := c.Notifier.SetSink(programNotifier{send: p.Send})

	_, runErr := p.Run()
	c.Notifier.SetSink(prev)
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		runErr = nil
	}
	if closeErr := b.Close(); closeErr != nil {
		return errors.Join(runErr, fmt.Errorf("save board: %w", closeErr))
	}
	return runErr
}

// refresh re-reads the board snapshot and keeps the cursor on a visible task.
func (m *Model) refresh() {
	m.snap = m.store.Snapshot()
	m.styles = StylesFor(m.snap.Theme)
	if !m.isVisible(m.day) {
		m.day = m.nearestVisible(m.day)
	}
	m.clampIndex()
}

func (m *Model) clampIndex() {
	n := len(m.snap.Column(m.day))
	if m.index >= n {
		m.index = n - 1
	}
	if m.index < 0 {
		m.index = 0
	}
}

// SelectedTask returns the task under the cursor.
func (m *Model) SelectedTask() (domain.Task, bool) {
	return m.snap.TaskAt(m.day, m.index)
}

// follow moves the cursor to the task with id, if it still exists.
func (m *Model) follow(id string) {
	if day, idx, ok := m.store.Find(id); ok {
		m.day, m.index = day, idx
	}
}

func (m *Model) isVisible(day domain.Day) bool {
	return day.IsValid() && !(m.snap.WeekendHidden && day.IsWeekend())
}

// nearestVisible returns day if visible, otherwise the closest visible
// day before it.
func (m *Model) nearestVisible(day domain.Day) domain.Day {
	days := m.snap.VisibleDays()
	best := days[0]
	for _, d := range days {
		if d <= day {
			best = d
		}
	}
	return best
}

// stepDay returns the visible day delta columns away from day, clamped to
// the first and last visible day.
func (m *Model) stepDay(day domain.Day, delta int) domain.Day {
	days := m.snap.VisibleDays()
	pos := 0
	for i, d := range days {
		if d == day {
			pos = i
		}
	}
	pos += delta
	if pos < 0 {
		pos = 0
	}
	if pos >= len(days) {
		pos = len(days) - 1
	}
	return days[pos]
}

// exportBoard returns a command that exports the current snapshot.
func (m *Model) exportBoard() tea.Cmd {
	uc := m.container.ExportBoardUseCase()
	snap := m.snap.Clone()
	return func() tea.Msg {
		if _, err := uc.Execute(context.Background(), usecase.ExportBoardInput{Board: snap}); err != nil && !errors.Is(err, domain.ErrCancelled) {
			return MsgError{Err: err}
		}
		return nil
	}
}

// importBoard returns a command that replaces the board with the file at path.
func (m *Model) importBoard(path string) tea.Cmd {
	uc := m.container.ImportBoardUseCase(m.store)
	return func() tea.Msg {
		if _, err := uc.Execute(context.Background(), usecase.ImportBoardInput{Path: path}); err != nil && !errors.Is(err, domain.ErrCancelled) {
			return MsgError{Err: err}
		}
		return MsgRefresh{}
	}
}
