// Package styles holds the lipgloss palette shared by the watch view and the
// post-run charts.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	Primary = lipgloss.Color("#7C3AED") // Purple
	Healthy = lipgloss.Color("#10B981") // Green
	Warning = lipgloss.Color("#F59E0B") // Amber
	Danger  = lipgloss.Color("#EF4444") // Red
	Muted   = lipgloss.Color("#6B7280") // Gray
	Normal  = lipgloss.Color("#3B82F6") // Blue, normal traffic

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted)

	StatusOK = lipgloss.NewStyle().
			Foreground(Healthy).
			Bold(true)

	StatusAttack = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// ServerHealthy and ServerBusy frame the server box; busy once load
	// reaches the high-load mark.
	ServerHealthy = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Healthy).
			Foreground(Healthy).
			Padding(0, 2)

	ServerBusy = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Foreground(Muted).
			Padding(0, 2)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(0, 1)

	Label = lipgloss.NewStyle().
		Foreground(Muted).
		Width(10)

	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)
)

// HighLoad is the load percentage at which the server is drawn as busy.
const HighLoad = 80.0
