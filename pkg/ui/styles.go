package ui

import "github.com/charmbracelet/lipgloss"

// Colors is the palette for the task list.
var Colors = struct {
	Overdue  lipgloss.Color
	Soon     lipgloss.Color
	Done     lipgloss.Color
	Muted    lipgloss.Color
	Selected lipgloss.Color
	Title    lipgloss.Color
}{
	Overdue:  lipgloss.Color("#D63031"), // Red
	Soon:     lipgloss.Color("#FDCB6E"), // Yellow
	Done:     lipgloss.Color("#00B894"), // Green
	Muted:    lipgloss.Color("#636E72"), // Gray
	Selected: lipgloss.Color("#FFEAA7"), // Yellow (selected)
	Title:    lipgloss.Color("#DFE6E9"), // Light gray
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(Colors.Title)
	selectedStyle = lipgloss.NewStyle().Foreground(Colors.Selected).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(Colors.Muted)
	overdueStyle  = lipgloss.NewStyle().Foreground(Colors.Overdue)
	soonStyle     = lipgloss.NewStyle().Foreground(Colors.Soon)
	doneStyle     = lipgloss.NewStyle().Foreground(Colors.Done)
	statusStyle   = lipgloss.NewStyle().Foreground(Colors.Muted).Italic(true)
	moveStyle     = lipgloss.NewStyle().Foreground(Colors.Soon).Bold(true)
)
