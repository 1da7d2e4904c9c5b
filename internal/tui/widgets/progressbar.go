package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LoadBarConfig holds configuration for the load bar
type LoadBarConfig struct {
	Width         int
	WarnThreshold float64 // Percentage where the warning zone starts
	CritThreshold float64 // Percentage where the critical zone starts
	OKColor       lipgloss.Color
	WarnColor     lipgloss.Color
	CritColor     lipgloss.Color
	EmptyColor    lipgloss.Color
}

// DefaultLoadBarConfig returns a bar that turns amber at the scaling
// threshold and red at saturation.
func DefaultLoadBarConfig() LoadBarConfig {
	return LoadBarConfig{
		Width:         30,
		WarnThreshold: 80,
		CritThreshold: 100,
		OKColor:       lipgloss.Color("#10B981"),
		WarnColor:     lipgloss.Color("#F59E0B"),
		CritColor:     lipgloss.Color("#EF4444"),
		EmptyColor:    lipgloss.Color("#374151"),
	}
}

// LoadBar renders percent as a bar whose filled cells take the colour of the
// zone they fall in. A threshold marker is drawn in the empty part.
func LoadBar(percent float64, config LoadBarConfig) string {
	if config.Width <= 0 {
		config.Width = 30
	}
	percent = min(100, max(0, percent))

	filled := int(percent / 100.0 * float64(config.Width))
	warnPos := int(config.WarnThreshold / 100.0 * float64(config.Width))
	critPos := int(config.CritThreshold/100.0*float64(config.Width)) - 1

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < config.Width; i++ {
		char, color := "░", config.EmptyColor
		switch {
		case i < filled && i >= critPos:
			char, color = "█", config.CritColor
		case i < filled && i >= warnPos:
			char, color = "█", config.WarnColor
		case i < filled:
			char, color = "█", config.OKColor
		case i == warnPos:
			char = "│"
		}
		bar.WriteString(lipgloss.NewStyle().Foreground(color).Render(char))
	}
	bar.WriteString("]")
	return bar.String()
}

// LoadBarWithLabel appends the percentage to the bar.
func LoadBarWithLabel(percent float64, config LoadBarConfig) string {
	return fmt.Sprintf("%s %5.1f%%", LoadBar(percent, config), percent)
}
