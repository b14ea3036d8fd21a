package selectinput

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/adminstack/pkg/ui"
)

// StyleFunc derives a style from the base style of a part.
type StyleFunc func(base lipgloss.Style) lipgloss.Style

// Styles customizes the parts of the select. A non-nil caller entry
// replaces the themed default for that part.
type Styles struct {
	Control           StyleFunc
	ControlFocused    StyleFunc
	DropdownIndicator StyleFunc
	ClearIndicator    StyleFunc
	Option            StyleFunc
	SelectedOption    StyleFunc
}

// merge returns s with every nil entry taken from defaults.
func (s Styles) merge(defaults Styles) Styles {
	pick := func(caller, def StyleFunc) StyleFunc {
		if caller != nil {
			return caller
		}
		return def
	}
	return Styles{
		Control:           pick(s.Control, defaults.Control),
		ControlFocused:    pick(s.ControlFocused, defaults.ControlFocused),
		DropdownIndicator: pick(s.DropdownIndicator, defaults.DropdownIndicator),
		ClearIndicator:    pick(s.ClearIndicator, defaults.ClearIndicator),
		Option:            pick(s.Option, defaults.Option),
		SelectedOption:    pick(s.SelectedOption, defaults.SelectedOption),
	}
}

// DefaultStyles returns the themed styles: a bordered control that turns
// the focus color when focused, and padded indicators.
func DefaultStyles(theme ui.Theme) Styles {
	return Styles{
		Control: func(base lipgloss.Style) lipgloss.Style {
			return base.
				Border(lipgloss.NormalBorder()).
				BorderForeground(theme.Border).
				PaddingLeft(1)
		},
		ControlFocused: func(base lipgloss.Style) lipgloss.Style {
			return base.
				Border(lipgloss.NormalBorder()).
				BorderForeground(theme.Focus).
				PaddingLeft(1)
		},
		DropdownIndicator: func(base lipgloss.Style) lipgloss.Style {
			return base.Padding(0, 1).Foreground(theme.Muted)
		},
		ClearIndicator: func(base lipgloss.Style) lipgloss.Style {
			return base.Padding(0, 1).Foreground(theme.Muted)
		},
		Option: func(base lipgloss.Style) lipgloss.Style {
			return base.Foreground(theme.Text).PaddingLeft(2)
		},
		SelectedOption: func(base lipgloss.Style) lipgloss.Style {
			return base.Foreground(theme.Primary).Bold(true).PaddingLeft(2)
		},
	}
}

func apply(fn StyleFunc) lipgloss.Style {
	if fn == nil {
		return lipgloss.NewStyle()
	}
	return fn(lipgloss.NewStyle())
}
