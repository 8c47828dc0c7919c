package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/weekdeck/weekdeck/internal/domain"
)

// Palette is the set of colors a theme renders the board with.
type Palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color // Column background
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color // Selection and drop marker
	Border     lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

var palettes = map[domain.Theme]Palette{
	domain.ThemeDefault: {
		Background: lipgloss.Color("#F7F7F5"),
		Surface:    lipgloss.Color("#FFFFFF"),
		Text:       lipgloss.Color("#2D3436"),
		Muted:      lipgloss.Color("#8A8F94"),
		Accent:     lipgloss.Color("#6C5CE7"),
		Border:     lipgloss.Color("#D0D3D6"),
		Success:    lipgloss.Color("#00B894"),
		Warning:    lipgloss.Color("#E1A23B"),
		Error:      lipgloss.Color("#D63031"),
	},
	domain.ThemeDark: {
		Background: lipgloss.Color("#1E1F22"),
		Surface:    lipgloss.Color("#2D3436"),
		Text:       lipgloss.Color("#DFE6E9"),
		Muted:      lipgloss.Color("#636E72"),
		Accent:     lipgloss.Color("#A29BFE"),
		Border:     lipgloss.Color("#4A5055"),
		Success:    lipgloss.Color("#00B894"),
		Warning:    lipgloss.Color("#FDCB6E"),
		Error:      lipgloss.Color("#FF7675"),
	},
	domain.ThemeBlue: {
		Background: lipgloss.Color("#0F2A47"),
		Surface:    lipgloss.Color("#16365A"),
		Text:       lipgloss.Color("#E3F0FF"),
		Muted:      lipgloss.Color("#7F9BBF"),
		Accent:     lipgloss.Color("#74B9FF"),
		Border:     lipgloss.Color("#2E5A88"),
		Success:    lipgloss.Color("#55EFC4"),
		Warning:    lipgloss.Color("#FFEAA7"),
		Error:      lipgloss.Color("#FF7675"),
	},
}

// PaletteFor returns the palette of theme, falling back to the default theme.
func PaletteFor(theme domain.Theme) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[domain.ThemeDefault]
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	// Header
	Header     lipgloss.Style
	HeaderDim  lipgloss.Style
	DragBanner lipgloss.Style

	// Columns
	Column         lipgloss.Style
	ColumnSelected lipgloss.Style
	ColumnTitle    lipgloss.Style
	ColumnToday    lipgloss.Style
	Empty          lipgloss.Style

	// Cards
	Card          lipgloss.Style
	CardSelected  lipgloss.Style
	CardLifted    lipgloss.Style
	CardDone      lipgloss.Style
	CardDesc      lipgloss.Style
	DropMarker    lipgloss.Style
	ColorSwatchFn func(domain.Color) lipgloss.Style

	// Input and dialogs
	Input       lipgloss.Style
	InputPrompt lipgloss.Style
	Dialog      lipgloss.Style

	// Footer and toasts
	Footer       lipgloss.Style
	Toast        lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style

	Palette Palette
}

// StylesFor returns the styles of theme.
func StylesFor(theme domain.Theme) Styles {
	p := PaletteFor(theme)
	card := lipgloss.NewStyle().
		Foreground(p.Text).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border)
	column := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(p.Border)
	toast := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(p.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent)

	return Styles{
		Header:     lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Padding(0, 1),
		HeaderDim:  lipgloss.NewStyle().Foreground(p.Muted),
		DragBanner: lipgloss.NewStyle().Bold(true).Foreground(p.Background).Background(p.Accent).Padding(0, 1),

		Column:         column,
		ColumnSelected: column.BorderForeground(p.Accent),
		ColumnTitle:    lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		ColumnToday:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Empty:          lipgloss.NewStyle().Foreground(p.Muted).Italic(true),

		Card:         card,
		CardSelected: card.BorderForeground(p.Accent).Border(lipgloss.ThickBorder()),
		CardLifted:   card.BorderForeground(p.Accent).Border(lipgloss.DoubleBorder()).Faint(true),
		CardDone:     card.Foreground(p.Muted).Strikethrough(true),
		CardDesc:     lipgloss.NewStyle().Foreground(p.Muted),
		DropMarker:   lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		ColorSwatchFn: func(c domain.Color) lipgloss.Style {
			return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
		},

		Input:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Accent).Padding(0, 1),
		InputPrompt: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Dialog:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Warning).Padding(0, 2),

		Footer:       lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1),
		Toast:        toast,
		ToastSuccess: toast.BorderForeground(p.Success),
		ToastWarning: toast.BorderForeground(p.Warning),
		ToastError:   toast.BorderForeground(p.Error).Foreground(p.Error),

		Palette: p,
	}
}

// CardStyle returns the style for a task card. A highlighted card is filled
// with its color; a colored card gets a colored border.
func (s Styles) CardStyle(t domain.Task, selected, lifted bool) lipgloss.Style {
	st := s.Card
	switch {
	case lifted:
		st = s.CardLifted
	case selected:
		st = s.CardSelected
	}
	if t.Completed {
		return st.Foreground(s.Palette.Muted)
	}
	if hex := t.Color.Hex(); hex != "" {
		if !selected && !lifted {
			st = st.BorderForeground(lipgloss.Color(hex))
		}
		if t.Highlighted {
			st = st.Background(lipgloss.Color(hex)).Foreground(lipgloss.Color("#1E1F22"))
		}
	}
	return st
}

// ToastStyle returns the style for a toast of severity.
func (s Styles) ToastStyle(sev domain.Severity) lipgloss.Style {
	switch sev {
	case domain.SeveritySuccess:
		return s.ToastSuccess
	case domain.SeverityWarning:
		return s.ToastWarning
	case domain.SeverityError:
		return s.ToastError
	case domain.SeverityInfo:
		return s.Toast
	}
	return s.Toast
}
