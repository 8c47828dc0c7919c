package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/weekdeck/weekdeck/internal/domain"
	"github.com/weekdeck/weekdeck/internal/drag"
)

// Layout limits.
const (
	minColumnWidth = 16
	defaultWidth   = 120
)

// View renders the TUI.
func (m *Model) View() string {
	if m.mode == ModeHelp {
		return m.viewHelp()
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewBoard())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.ToastError.Render("Error: "+m.err.Error()) + "\n")
	}

	switch m.mode {
	case ModeInputTitle, ModeEditTitle, ModeEditDesc, ModeInputPageTitle, ModeInputImport:
		b.WriteString(m.viewInput())
	case ModeConfirm:
		b.WriteString(m.viewConfirmDialog())
	case ModeNormal, ModeDrag, ModeHelp:
		b.WriteString(m.viewFooter())
	}

	if toasts := m.viewToasts(); toasts != "" {
		b.WriteString("\n")
		b.WriteString(toasts)
	}
	return b.String()
}

// viewHeader renders the board title and status indicators.
func (m *Model) viewHeader() string {
	parts := []string{m.styles.Header.Render(RenderMarkup(m.snap.Title, lipgloss.NewStyle()))}
	info := fmt.Sprintf("%d tasks · %s", m.snap.Len(), m.snap.Theme)
	if m.snap.WeekendHidden {
		info += " · weekend hidden"
	}
	if m.container.Degraded() {
		info += " · not saving"
	}
	parts = append(parts, m.styles.HeaderDim.Render(info))
	if m.mode == ModeDrag {
		parts = append(parts, " ", m.viewDragBanner())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) viewDragBanner() string {
	st := m.session.Status()
	task, _ := m.snap.TaskAt(st.Source.Day, st.Source.Index)
	label := "Moving " + PlainTitle(task.Title)
	if st.HasTarget {
		label += " → " + describeTarget(st.Target, len(m.snap.Column(st.Target.Day)))
	}
	return m.styles.DragBanner.Render(label)
}

func describeTarget(t drag.Target, n int) string {
	if t.Kind != drag.BeforeTask || t.Index >= n {
		return t.Day.String() + " (end)"
	}
	return fmt.Sprintf("%s #%d", t.Day, t.Index+1)
}

// columnWidth returns the width of each visible column.
func (m *Model) columnWidth() int {
	width := m.width
	if width == 0 {
		width = defaultWidth
	}
	return max(width/len(m.snap.VisibleDays()), minColumnWidth)
}

// viewBoard renders the visible day columns side by side.
func (m *Model) viewBoard() string {
	width := m.columnWidth()
	today := domain.DayOf(m.container.Clock.Now())

	days := m.snap.VisibleDays()
	cols := make([]string, 0, len(days))
	for _, d := range days {
		cols = append(cols, m.viewColumn(d, width, d == today))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// viewColumn renders one day column.
func (m *Model) viewColumn(day domain.Day, width int, today bool) string {
	inner := width - 3 // padding and right border
	cardWidth := inner - 2

	title := m.styles.ColumnTitle
	if today {
		title = m.styles.ColumnToday
	}
	tasks := m.snap.Column(day)
	lines := []string{title.Render(fmt.Sprintf("%s (%d)", day, len(tasks)))}

	st := m.session.Status()
	dragging := m.mode == ModeDrag
	showMarker := dragging && day == m.dropDay

	for i, t := range tasks {
		if showMarker && i == m.dropSlot {
			lines = append(lines, m.viewDropMarker(cardWidth, st.HasTarget))
		}
		selected := !dragging && day == m.day && i == m.index
		lifted := dragging && day == st.Source.Day && i == st.Source.Index
		lines = append(lines, m.viewCard(t, cardWidth, selected, lifted))
	}
	if showMarker && m.dropSlot >= len(tasks) {
		lines = append(lines, m.viewDropMarker(cardWidth, st.HasTarget))
	}
	if len(tasks) == 0 && !showMarker {
		lines = append(lines, m.styles.Empty.Render("no tasks"))
	}

	style := m.styles.Column
	if (!dragging && day == m.day) || (dragging && day == m.dropDay) {
		style = m.styles.ColumnSelected
	}
	return style.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) viewDropMarker(width int, valid bool) string {
	if !valid {
		return m.styles.Empty.Render(strings.Repeat("·", max(width, 1)))
	}
	return m.styles.DropMarker.Render(strings.Repeat("━", max(width, 1)))
}

// viewCard renders a task card.
func (m *Model) viewCard(t domain.Task, width int, selected, lifted bool) string {
	style := m.styles.CardStyle(t, selected, lifted)

	var title string
	switch {
	case t.Completed:
		title = m.styles.CardDone.UnsetBorderStyle().UnsetPadding().Render("✓ " + PlainTitle(t.Title))
	case !t.Color.IsEmpty() && !t.Highlighted:
		title = m.styles.ColorSwatchFn(t.Color).Render("●") + " " + RenderMarkup(t.Title, lipgloss.NewStyle())
	default:
		title = RenderMarkup(t.Title, lipgloss.NewStyle())
	}

	content := title
	if desc := firstLine(t.Description); desc != "" {
		content += "\n" + m.styles.CardDesc.Render(desc)
	}
	return style.Width(max(width-2, 4)).Render(content)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

// viewInput renders the text input of the current input mode.
func (m *Model) viewInput() string {
	var prompt string
	switch m.mode {
	case ModeInputTitle:
		prompt = "New task on " + m.day.String()
	case ModeEditTitle:
		prompt = "Title"
	case ModeEditDesc:
		prompt = "Description"
	case ModeInputPageTitle:
		prompt = "Board title"
	case ModeInputImport:
		prompt = "Import"
	case ModeNormal, ModeDrag, ModeConfirm, ModeHelp:
	}
	body := m.styles.InputPrompt.Render(prompt+": ") + m.input.View()
	hint := m.styles.Footer.Render("enter save · esc cancel")
	return m.styles.Input.Render(body) + "\n" + hint
}

// viewConfirmDialog renders the confirmation prompt.
func (m *Model) viewConfirmDialog() string {
	var question string
	switch m.confirmAction {
	case ConfirmClearDay:
		question = fmt.Sprintf("Remove all %d tasks from %s?", len(m.snap.Column(m.day)), m.day)
	case ConfirmClearCompleted:
		question = fmt.Sprintf("Remove completed tasks from %s?", m.day)
	case ConfirmNone:
	}
	return m.styles.Dialog.Render(question + "\n\n" + m.styles.Footer.Render("y confirm · n cancel"))
}

// viewFooter renders the key hints of the current mode.
func (m *Model) viewFooter() string {
	if m.mode == ModeDrag {
		return m.styles.Footer.Render(m.help.ShortHelpView(m.keys.DragHelp()))
	}
	return m.styles.Footer.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// viewToasts renders the pending notifications, newest last.
func (m *Model) viewToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		rendered = append(rendered, m.styles.ToastStyle(t.severity).Render(t.message))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

// viewHelp renders the full key help.
func (m *Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Keys"))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("Titles accept **bold**, *italic* and __underline__. Press any key to close."))
	return b.String()
}
