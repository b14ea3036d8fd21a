package ui

import "github.com/charmbracelet/lipgloss"

// Theme is the palette shared by every component.
type Theme struct {
	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Link    lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Dim     lipgloss.Color

	// Border and Focus color input controls.
	Border lipgloss.Color
	Focus  lipgloss.Color
}

// DefaultTheme returns the standard palette.
func DefaultTheme() Theme {
	return Theme{
		Primary: lipgloss.Color("36"),
		Success: lipgloss.Color("35"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("167"),
		Link:    lipgloss.Color("75"),
		Text:    lipgloss.Color("255"),
		Muted:   lipgloss.Color("245"),
		Dim:     lipgloss.Color("240"),
		Border:  lipgloss.Color("#d8dbdf"),
		Focus:   lipgloss.Color("#0081b8"),
	}
}

// TitleStyle renders headings.
func (t Theme) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
}

// TextStyle renders values.
func (t Theme) TextStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text)
}

// MutedStyle renders secondary text.
func (t Theme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted)
}

// DimStyle renders disabled controls and separators.
func (t Theme) DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Dim)
}

// ActiveStyle renders enabled controls.
func (t Theme) ActiveStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Primary)
}

// LinkStyle renders URLs.
func (t Theme) LinkStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Link).Underline(true)
}

// ErrorStyle renders errors.
func (t Theme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error)
}
