package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the application color scheme.
type Theme struct {
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color
	Primary       lipgloss.Color
	Accent        lipgloss.Color
	Success       lipgloss.Color
	Warning       lipgloss.Color
	Error         lipgloss.Color
	Border        lipgloss.Color
	BorderFocus   lipgloss.Color
	Selection     lipgloss.Color
}

var DefaultTheme = Theme{
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),
	Primary:       lipgloss.Color("#7aa2f7"),
	Accent:        lipgloss.Color("#7dcfff"),
	Success:       lipgloss.Color("#9ece6a"),
	Warning:       lipgloss.Color("#e0af68"),
	Error:         lipgloss.Color("#f7768e"),
	Border:        lipgloss.Color("#3b4261"),
	BorderFocus:   lipgloss.Color("#7aa2f7"),
	Selection:     lipgloss.Color("#33467c"),
}

// Styles holds the pre-computed styles for the UI.
type Styles struct {
	Title        lipgloss.Style
	Pane         lipgloss.Style
	PaneFocused  lipgloss.Style
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	Dim          lipgloss.Style
	Leisure      lipgloss.Style
	DayHeader    lipgloss.Style
	SlotLine     lipgloss.Style
	StatusOK     lipgloss.Style
	StatusWarn   lipgloss.Style
	StatusError  lipgloss.Style
	Help         lipgloss.Style
}

func NewStyles() *Styles {
	t := DefaultTheme
	return &Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1),
		PaneFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).BorderForeground(t.BorderFocus).Padding(0, 1),
		ListItem:     lipgloss.NewStyle().Foreground(t.Foreground),
		ListSelected: lipgloss.NewStyle().Foreground(t.Foreground).Background(t.Selection).Bold(true),
		Dim:          lipgloss.NewStyle().Foreground(t.ForegroundDim),
		Leisure:      lipgloss.NewStyle().Foreground(t.Success),
		DayHeader:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		SlotLine:     lipgloss.NewStyle().Foreground(t.Foreground),
		StatusOK:     lipgloss.NewStyle().Foreground(t.Success),
		StatusWarn:   lipgloss.NewStyle().Foreground(t.Warning),
		StatusError:  lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		Help:         lipgloss.NewStyle().Foreground(t.ForegroundDim).Padding(0, 1),
	}
}
