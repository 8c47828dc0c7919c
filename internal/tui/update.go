package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/weekdeck/weekdeck/internal/domain"
	"github.com/weekdeck/weekdeck/internal/drag"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		model, cmd := m.handleKeyMsg(msg)
		m.refresh()
		return model, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-20, 20)
		return m, nil

	case MsgNotify:
		return m, m.pushToast(msg.Message, msg.Severity)

	case MsgToastExpired:
		m.expireToast(msg.ID)
		return m, nil

	case MsgRefresh:
		m.refresh()
		return m, nil

	case MsgError:
		m.err = msg.Err
		return m, nil
	}

	if m.mode.IsInputMode() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyMsg routes keys to the handler of the current mode.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear error on any key press
	if m.err != nil {
		m.err = nil
	}

	switch m.mode {
	case ModeNormal:
		return m.handleNormalMode(msg)
	case ModeDrag:
		return m.handleDragMode(msg)
	case ModeInputTitle, ModeEditTitle, ModeEditDesc, ModeInputPageTitle, ModeInputImport:
		return m.handleInputMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	}
	return m, nil
}

// handleNormalMode handles keys in normal mode.
func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task, hasTask := m.SelectedTask()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, m.keys.Up):
		if m.index > 0 {
			m.index--
		}

	case key.Matches(msg, m.keys.Down):
		m.index++

	case key.Matches(msg, m.keys.Left):
		m.day = m.stepDay(m.day, -1)

	case key.Matches(msg, m.keys.Right):
		m.day = m.stepDay(m.day, 1)

	case key.Matches(msg, m.keys.Grab):
		m.startDrag()

	case key.Matches(msg, m.keys.New):
		return m, m.startInput(ModeInputTitle, "", "Task title")

	case key.Matches(msg, m.keys.Edit):
		if hasTask {
			return m, m.startInput(ModeEditTitle, task.Title, "Task title")
		}

	case key.Matches(msg, m.keys.EditDesc):
		if hasTask {
			return m, m.startInput(ModeEditDesc, task.Description, "Description (optional)")
		}

	case key.Matches(msg, m.keys.PageTitle):
		return m, m.startInput(ModeInputPageTitle, m.snap.Title, "Board title")

	case key.Matches(msg, m.keys.Import):
		return m, m.startInput(ModeInputImport, "", "Path to a "+domain.DocumentExt+" file")

	case key.Matches(msg, m.keys.Export):
		return m, m.exportBoard()

	case key.Matches(msg, m.keys.Theme):
		m.store.SetTheme(m.snap.Theme.Next())

	case key.Matches(msg, m.keys.Weekend):
		m.store.SetWeekendHidden(!m.snap.WeekendHidden)

	case key.Matches(msg, m.keys.ClearDay):
		if len(m.snap.Column(m.day)) > 0 {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmClearDay
		}

	case key.Matches(msg, m.keys.ClearCompleted):
		if hasCompleted(m.snap.Column(m.day)) {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmClearCompleted
		}

	case hasTask:
		return m.handleTaskKey(msg, task)
	}

	return m, nil
}

// handleTaskKey handles normal mode keys that act on the selected task.
func (m *Model) handleTaskKey(msg tea.KeyMsg, task domain.Task) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Delete):
		m.store.DeleteTask(m.day, m.index)

	case key.Matches(msg, m.keys.Duplicate):
		if dup, ok := m.store.DuplicateTask(m.day, m.index); ok {
			m.follow(dup.ID)
		}

	case key.Matches(msg, m.keys.Color):
		m.store.SetColor(m.day, m.index, task.Color.Next())

	case key.Matches(msg, m.keys.NoColor):
		m.store.SetColor(m.day, m.index, domain.ColorNone)

	case key.Matches(msg, m.keys.Highlight):
		if task.Color.IsEmpty() {
			return m, m.pushToast("Pick a color before highlighting", domain.SeverityInfo)
		}
		m.store.ToggleHighlight(m.day, m.index)

	case key.Matches(msg, m.keys.Done):
		m.store.ToggleCompleted(m.day, m.index)

	case key.Matches(msg, m.keys.Top):
		m.store.MoveToTop(m.day, m.index)
		m.follow(task.ID)

	case key.Matches(msg, m.keys.Bottom):
		m.store.MoveToBottom(m.day, m.index)
		m.follow(task.ID)

	case key.Matches(msg, m.keys.PrevDay), key.Matches(msg, m.keys.NextDay):
		delta := 1
		if key.Matches(msg, m.keys.PrevDay) {
			delta = -1
		}
		if to := m.stepDay(m.day, delta); to != m.day {
			m.store.MoveToDay(m.day, m.index, to)
			m.follow(task.ID)
		}
	}
	return m, nil
}

// startInput switches to an input mode with the given initial value.
func (m *Model) startInput(mode Mode, value, placeholder string) tea.Cmd {
	m.mode = mode
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

// handleInputMode handles keys in every text input mode.
func (m *Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.endInput()
		return m, nil

	case msg.Type == tea.KeyEnter:
		return m, m.commitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// commitInput applies the input value for the current mode.
func (m *Model) commitInput() tea.Cmd {
	mode, value := m.mode, m.input.Value()
	m.endInput()

	switch mode {
	case ModeInputTitle:
		if task, ok := m.store.AddTask(m.day, value); ok {
			m.follow(task.ID)
		}
	case ModeEditTitle:
		// An emptied title keeps the old one.
		if title := domain.NormalizeTitle(value); title != "" {
			m.store.SetTitle(m.day, m.index, title)
		}
	case ModeEditDesc:
		m.store.SetDescription(m.day, m.index, value)
	case ModeInputPageTitle:
		m.store.SetPageTitle(value)
	case ModeInputImport:
		return m.importBoard(value)
	case ModeNormal, ModeDrag, ModeConfirm, ModeHelp:
	}
	return nil
}

func (m *Model) endInput() {
	m.mode = ModeNormal
	m.input.Blur()
	m.input.Reset()
}

// handleConfirmMode handles keys in confirmation mode.
func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), msg.String() == "n", msg.String() == "N":
		m.mode = ModeNormal
		m.confirmAction = ConfirmNone
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		switch m.confirmAction {
		case ConfirmNone:
			// Nothing to confirm
		case ConfirmClearDay:
			m.store.ClearDay(m.day)
		case ConfirmClearCompleted:
			m.store.ClearCompleted(m.day)
		}
		m.mode = ModeNormal
		m.confirmAction = ConfirmNone
	}
	return m, nil
}

// handleHelpMode closes the help view on any key except quit.
func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	m.mode = ModeNormal
	return m, nil
}

// startDrag lifts the selected task. The drop cursor starts on the task's
// own slot, which is not a drop target.
func (m *Model) startDrag() {
	if !m.session.Start(m.day, m.index) {
		return
	}
	m.mode = ModeDrag
	m.dropDay = m.day
	m.dropSlot = m.index
}

// handleDragMode moves the drop cursor and drops or cancels the gesture.
func (m *Model) handleDragMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), msg.Type == tea.KeyCtrlC:
		m.session.Cancel()
		m.mode = ModeNormal
		return m, nil

	case key.Matches(msg, m.keys.Grab), msg.Type == tea.KeyEnter:
		return m, m.drop()

	case key.Matches(msg, m.keys.Up):
		if m.dropSlot > 0 {
			m.dropSlot--
		}

	case key.Matches(msg, m.keys.Down):
		if m.dropSlot < len(m.snap.Column(m.dropDay)) {
			m.dropSlot++
		}

	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		delta := 1
		if key.Matches(msg, m.keys.Left) {
			delta = -1
		}
		m.dropDay = m.stepDay(m.dropDay, delta)
		m.dropSlot = min(m.dropSlot, len(m.snap.Column(m.dropDay)))
	}

	m.hover()
	return m, nil
}

// hover maps the drop cursor to a session target. Slots next to the lifted
// task in its own column would leave it in place and clear the target.
func (m *Model) hover() {
	st := m.session.Status()
	src := st.Source
	n := len(m.snap.Column(m.dropDay))

	if m.dropDay != src.Day {
		if m.dropSlot >= n {
			m.session.Hover(drag.Target{Day: m.dropDay, Kind: drag.ColumnEnd})
			return
		}
		m.session.Hover(drag.Target{Day: m.dropDay, Index: m.dropSlot, Kind: drag.BeforeTask})
		return
	}

	switch {
	case m.dropSlot == src.Index, m.dropSlot == src.Index+1:
		m.session.Leave()
	case m.dropSlot >= n:
		m.session.Hover(drag.Target{Day: m.dropDay, Kind: drag.ColumnEnd})
	default:
		// Reorder positions count from the column without the lifted task.
		idx := m.dropSlot
		if idx > src.Index {
			idx--
		}
		m.session.Hover(drag.Target{Day: m.dropDay, Index: idx, Kind: drag.BeforeTask})
	}
}

// drop commits the gesture and moves the cursor to the dropped task.
func (m *Model) drop() tea.Cmd {
	res := m.session.Drop()
	m.mode = ModeNormal
	switch res.Outcome {
	case drag.Moved:
		m.follow(res.Source.TaskID)
	case drag.SourceMissing:
		return m.pushToast("The task changed while dragging. Nothing was moved.", domain.SeverityWarning)
	case drag.Cancelled, drag.NoOp:
	}
	return nil
}

func hasCompleted(tasks []domain.Task) bool {
	for _, t := range tasks {
		if t.Completed {
			return true
		}
	}
	return false
}
