// Package widgets renders small text visualizations: sparklines, load bars
// and axis charts.
package widgets

import (
	"github.com/charmbracelet/lipgloss"
)

// SparklineBlocks are the Unicode block characters for different heights
var SparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the most recent values as a one-line trend scaled to the
// fixed range [lo, hi]. A fixed range keeps successive frames comparable.
func Sparkline(values []float64, width int, lo, hi float64, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	sampled := tail(values, width)

	result := make([]rune, len(sampled))
	for i, v := range sampled {
		result[i] = valueToBlock(v, lo, hi)
	}

	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(color)
	}
	return style.Render(string(result))
}

// SparklineAuto is Sparkline scaled to the values' own min and max.
func SparklineAuto(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	sampled := tail(values, width)
	lo, hi := sampled[0], sampled[0]
	for _, v := range sampled {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return Sparkline(sampled, width, lo, hi, color)
}

// tail keeps the last width values, padding with zeros at the front.
func tail(values []float64, width int) []float64 {
	if len(values) >= width {
		return values[len(values)-width:]
	}
	result := make([]float64, width)
	copy(result[width-len(values):], values)
	return result
}

// valueToBlock converts a value to a block character based on its position in the range
func valueToBlock(value, lo, hi float64) rune {
	if hi <= lo {
		return SparklineBlocks[0]
	}
	normalized := (value - lo) / (hi - lo)
	idx := int(normalized * float64(len(SparklineBlocks)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(SparklineBlocks) {
		idx = len(SparklineBlocks) - 1
	}
	return SparklineBlocks[idx]
}
