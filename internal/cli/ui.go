package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/adminstack/pkg/ui"
)

var theme = ui.DefaultTheme()

var (
	// StyleTitle for main headings.
	StyleTitle = theme.TitleStyle()

	// StyleDim for secondary text.
	StyleDim = theme.DimStyle()

	// StyleValue for data values.
	StyleValue = theme.TextStyle()

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(theme.Warning)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(theme.Success)
	styleIconError   = lipgloss.NewStyle().Foreground(theme.Error)
	styleIconWarning = lipgloss.NewStyle().Foreground(theme.Warning)
	styleIconInfo    = lipgloss.NewStyle().Foreground(theme.Muted)
	styleIconSpinner = lipgloss.NewStyle().Foreground(theme.Primary)
	styleCommand     = lipgloss.NewStyle().Foreground(theme.Link)
	styleKey         = lipgloss.NewStyle().Foreground(theme.Muted).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
