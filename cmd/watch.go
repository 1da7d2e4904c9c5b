package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Discover1998/DDoS-Project-DTA400/internal/tui"
	"github.com/Discover1998/DDoS-Project-DTA400/sim"
)

var (
	watchFPS  int     // Frames per second
	watchStep float64 // Simulated seconds per frame
)

// watchCmd drives the simulation in the terminal, paced against wall-clock frames
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the simulation live in the terminal",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		m, err := tui.Run(s, tui.Options{FPS: watchFPS, Step: watchStep})
		if err != nil {
			logrus.Fatalf("Watch view failed: %v", err)
		}
		printWatchReport(cmd.OutOrStdout(), s, m.Interrupted())
	},
}

// printWatchReport writes the post-watch metrics and charts to w.
func printWatchReport(w io.Writer, s *sim.Simulator, interrupted bool) {
	if interrupted {
		fmt.Fprintf(w, "Stopped at t=%.1f s\n\n", s.Now())
	}
	s.Metrics().Print(w, s.Summary())
	fmt.Fprintln(w)
	fmt.Fprint(w, tui.RenderCharts(s, plotWidth, plotHeight))
}

func init() {
	addConfigFlags(watchCmd)
	watchCmd.Flags().IntVar(&watchFPS, "fps", 30, "Frames per second")
	watchCmd.Flags().Float64Var(&watchStep, "step", 0.1, "Simulated seconds advanced per frame")
	watchCmd.Flags().IntVar(&plotWidth, "plot-width", 72, "Chart width in columns")
	watchCmd.Flags().IntVar(&plotHeight, "plot-height", 10, "Chart height in rows")

	rootCmd.AddCommand(watchCmd)
}
