package tui

import (
	"strings"

	"github.com/Discover1998/DDoS-Project-DTA400/internal/tui/widgets"
	"github.com/Discover1998/DDoS-Project-DTA400/sim"
)

// RenderCharts draws the load and cumulative-drop series of a finished run,
// marking the attack start when there was one.
func RenderCharts(s *sim.Simulator, width, height int) string {
	rows := sim.SeriesRows(s.Monitor())
	if len(rows) == 0 {
		return ""
	}
	xs := make([]float64, len(rows))
	load := make([]float64, len(rows))
	dropped := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = r.Time
		load[i] = r.Load
		dropped[i] = float64(r.Dropped)
	}
	marker := s.Metrics().AttackStart

	var b strings.Builder
	b.WriteString(widgets.Chart(xs, load, widgets.ChartOptions{
		Title:  "Server load (%) over time",
		Width:  width,
		Height: height,
		YMax:   100,
		Unit:   "%",
		Marker: marker,
		Label:  "attack start",
	}))
	b.WriteString("\n\n")
	b.WriteString(widgets.Chart(xs, dropped, widgets.ChartOptions{
		Title:  "Dropped requests over time",
		Width:  width,
		Height: height,
		Marker: marker,
		Label:  "attack start",
	}))
	b.WriteString("\n")
	return b.String()
}
