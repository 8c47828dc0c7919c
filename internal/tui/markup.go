package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Span is a run of title text with the same emphasis.
type Span struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
}

// Emphasis markers, longest first.
var markers = []string{"**", "__", "*"}

// ParseMarkup splits a raw title into spans. **bold**, *italic* and
// __underline__ may nest. A marker without a closing partner is kept as text.
func ParseMarkup(s string) []Span {
	return parseMarkup(s, Span{})
}

func parseMarkup(s string, style Span) []Span {
	var (
		out   []Span
		plain strings.Builder
	)
	flush := func() {
		if plain.Len() == 0 {
			return
		}
		sp := style
		sp.Text = plain.String()
		out = append(out, sp)
		plain.Reset()
	}

	for i := 0; i < len(s); {
		if m := markerAt(s, i); m != "" {
			rest := s[i+len(m):]
			if end := strings.Index(rest, m); end > 0 {
				flush()
				out = append(out, parseMarkup(rest[:end], withMarker(style, m))...)
				i += 2*len(m) + end
				continue
			}
		}
		plain.WriteByte(s[i])
		i++
	}
	flush()
	return out
}

func markerAt(s string, i int) string {
	for _, m := range markers {
		if strings.HasPrefix(s[i:], m) {
			return m
		}
	}
	return ""
}

func withMarker(style Span, m string) Span {
	switch m {
	case "**":
		style.Bold = true
	case "__":
		style.Underline = true
	case "*":
		style.Italic = true
	}
	return style
}

// PlainTitle returns the title with emphasis markers removed.
func PlainTitle(s string) string {
	var b strings.Builder
	for _, sp := range ParseMarkup(s) {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// RenderMarkup renders a raw title with base applied to every span.
// base must not set width or padding.
func RenderMarkup(s string, base lipgloss.Style) string {
	var b strings.Builder
	for _, sp := range ParseMarkup(s) {
		st := base
		if sp.Bold {
			st = st.Bold(true)
		}
		if sp.Italic {
			st = st.Italic(true)
		}
		if sp.Underline {
			st = st.Underline(true)
		}
		b.WriteString(st.Render(sp.Text))
	}
	return b.String()
}
