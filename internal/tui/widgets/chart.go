package widgets

import (
	"fmt"
	"math"
	"strings"
)

// ChartOptions controls Chart rendering.
type ChartOptions struct {
	Title  string
	Width  int     // plot columns, excluding the axis
	Height int     // plot rows
	YMax   float64 // top of the y axis; 0 = max of the data
	Unit   string  // appended to y labels
	Marker float64 // x value to mark with a vertical line; negative = none
	Label  string  // caption for the marker
}

// Chart renders a column chart of ys against xs in plain text. Each column
// shows the maximum of the samples falling into it so short spikes survive
// downsampling. xs must be non-decreasing.
func Chart(xs, ys []float64, opts ChartOptions) string {
	if len(xs) == 0 || len(xs) != len(ys) || opts.Width <= 0 || opts.Height <= 0 {
		return ""
	}
	x0, x1 := xs[0], xs[len(xs)-1]
	span := x1 - x0
	if span <= 0 {
		span = 1
	}

	cols := make([]float64, opts.Width)
	seen := make([]bool, opts.Width)
	for i, x := range xs {
		c := columnOf(x, x0, span, opts.Width)
		if !seen[c] || ys[i] > cols[c] {
			cols[c] = ys[i]
			seen[c] = true
		}
	}
	// Carry values into columns no sample landed in.
	for c := 1; c < opts.Width; c++ {
		if !seen[c] {
			cols[c] = cols[c-1]
		}
	}

	ymax := opts.YMax
	if ymax <= 0 {
		for _, v := range ys {
			ymax = max(ymax, v)
		}
		if ymax <= 0 {
			ymax = 1
		}
	}

	marker := -1
	if opts.Marker >= x0 && opts.Marker <= x1 {
		marker = columnOf(opts.Marker, x0, span, opts.Width)
	}

	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(opts.Title + "\n")
	}
	labelWidth := len(formatAxis(ymax, opts.Unit))
	for row := opts.Height; row >= 1; row-- {
		label := ""
		switch row {
		case opts.Height:
			label = formatAxis(ymax, opts.Unit)
		case (opts.Height + 1) / 2:
			label = formatAxis(ymax*float64(row)/float64(opts.Height), opts.Unit)
		}
		fmt.Fprintf(&b, "%*s ┤", labelWidth, label)
		for c, v := range cols {
			level := int(math.Round(v / ymax * float64(opts.Height)))
			switch {
			case level >= row:
				b.WriteRune('█')
			case c == marker:
				b.WriteRune('┆')
			default:
				b.WriteRune(' ')
			}
		}
		b.WriteRune('\n')
	}
	fmt.Fprintf(&b, "%*s └%s\n", labelWidth, formatAxis(0, opts.Unit), strings.Repeat("─", opts.Width))

	left := fmt.Sprintf("%.0f", x0)
	right := fmt.Sprintf("%.0f", x1)
	pad := max(1, opts.Width-len(left)-len(right))
	fmt.Fprintf(&b, "%*s  %s%s%s", labelWidth, "", left, strings.Repeat(" ", pad), right)
	if marker >= 0 && opts.Label != "" {
		fmt.Fprintf(&b, "\n%*s  ┆ %s at %.0f", labelWidth, "", opts.Label, opts.Marker)
	}
	return b.String()
}

func columnOf(x, x0, span float64, width int) int {
	c := int((x - x0) / span * float64(width-1))
	return min(width-1, max(0, c))
}

func formatAxis(v float64, unit string) string {
	return fmt.Sprintf("%.0f%s", v, unit)
}
