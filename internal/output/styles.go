package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/animus-cli/animus/internal/domain"
)

// colorEnabled gates all styling; plain text when stdout is not a terminal
var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

// Styles holds all lipgloss styles for text output
var Styles = struct {
	// Severity styles
	Critical    lipgloss.Style
	Error       lipgloss.Style
	Warning     lipgloss.Style
	Information lipgloss.Style
	Verbose     lipgloss.Style

	// Component styles
	Timestamp lipgloss.Style
	Provider  lipgloss.Style
	Message   lipgloss.Style

	// Summary styles
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Danger  lipgloss.Style
}{
	Critical:    lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true).Underline(true), // Magenta bold underline
	Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),                 // Red bold
	Warning:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),                 // Orange
	Information: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),                            // White
	Verbose:     lipgloss.NewStyle().Foreground(lipgloss.Color("243")),                            // Gray

	Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("244")), // Gray
	Provider:  lipgloss.NewStyle().Foreground(lipgloss.Color("33")),  // Blue
	Message:   lipgloss.NewStyle(),

	Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Value:   lipgloss.NewStyle().Bold(true),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

// Render applies a style unless color output is disabled
func Render(style lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}

// LevelStyle returns the appropriate style for a severity level
func LevelStyle(level domain.Level) lipgloss.Style {
	switch level {
	case domain.LevelCritical:
		return Styles.Critical
	case domain.LevelError:
		return Styles.Error
	case domain.LevelWarning:
		return Styles.Warning
	case domain.LevelVerbose:
		return Styles.Verbose
	default:
		return Styles.Information
	}
}

// LevelIndicator returns a styled three-letter severity tag
func LevelIndicator(level domain.Level) string {
	style := LevelStyle(level)
	switch level {
	case domain.LevelCritical:
		return Render(style, "CRT")
	case domain.LevelError:
		return Render(style, "ERR")
	case domain.LevelWarning:
		return Render(style, "WRN")
	case domain.LevelInformation:
		return Render(style, "INF")
	case domain.LevelVerbose:
		return Render(style, "VRB")
	default:
		return Render(style, "???")
	}
}
