package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Discover1998/DDoS-Project-DTA400/sim"
)

var (
	sweepRuns     int // Number of seeds
	sweepParallel int // Concurrent simulations
)

// SweepResult is the outcome of one seed.
type SweepResult struct {
	Seed          int64
	Dropped       int
	DropRate      float64
	MeanLoad      float64
	P95Load       float64
	ScaleEvents   int
	FinalCapacity int
}

// runSweep runs cfg once per seed cfg.Seed, cfg.Seed+1, ... on up to parallel
// goroutines. Each goroutine owns its simulator, so results depend only on
// the seed. Results are ordered by seed.
func runSweep(ctx context.Context, cfg sim.Config, runs, parallel int) ([]SweepResult, error) {
	if runs < 1 {
		return nil, fmt.Errorf("runs must be at least 1, got %d", runs)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	results := make([]SweepResult, runs)
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i := 0; i < runs; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			runCfg := cfg
			runCfg.Seed = cfg.Seed + int64(i)
			s, err := sim.NewSimulator(runCfg)
			if err != nil {
				return fmt.Errorf("seed %d: %w", runCfg.Seed, err)
			}
			s.Run()
			summary := s.Summary()
			results[i] = SweepResult{
				Seed:          runCfg.Seed,
				Dropped:       summary.Dropped,
				DropRate:      summary.DropRate,
				MeanLoad:      summary.MeanLoad,
				P95Load:       summary.P95Load,
				ScaleEvents:   s.Metrics().ScaleEvents,
				FinalCapacity: s.CurrentCapacity(),
			}
			logrus.Debugf("Sweep seed %d done: dropped=%d", runCfg.Seed, summary.Dropped)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SweepStats summarizes one metric across seeds.
type SweepStats struct {
	Mean, StdDev, Min, Max float64
}

func summarizeMetric(values []float64) (SweepStats, error) {
	data := stats.Float64Data(values)
	var s SweepStats
	var err error
	if s.Mean, err = data.Mean(); err != nil {
		return s, err
	}
	if s.StdDev, err = data.StandardDeviation(); err != nil {
		return s, err
	}
	if s.Min, err = data.Min(); err != nil {
		return s, err
	}
	if s.Max, err = data.Max(); err != nil {
		return s, err
	}
	return s, nil
}

func printSweep(w io.Writer, results []SweepResult) error {
	fmt.Fprintf(w, "%-8s %10s %10s %10s %10s %8s\n", "seed", "dropped", "drop rate", "mean load", "p95 load", "capacity")
	dropped := make([]float64, len(results))
	meanLoad := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%-8d %10d %9.1f%% %9.1f%% %9.1f%% %8d\n",
			r.Seed, r.Dropped, 100*r.DropRate, r.MeanLoad, r.P95Load, r.FinalCapacity)
		dropped[i] = float64(r.Dropped)
		meanLoad[i] = r.MeanLoad
	}
	fmt.Fprintln(w)
	for _, metric := range []struct {
		name   string
		values []float64
	}{{"dropped", dropped}, {"mean load", meanLoad}} {
		s, err := summarizeMetric(metric.values)
		if err != nil {
			return fmt.Errorf("summarizing %s: %w", metric.name, err)
		}
		fmt.Fprintf(w, "%-10s mean %.1f  stddev %.1f  min %.1f  max %.1f\n", metric.name, s.Mean, s.StdDev, s.Min, s.Max)
	}
	return nil
}

// sweepCmd runs the same scenario over many seeds
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the scenario over consecutive seeds in parallel and summarize",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		results, err := runSweep(cmd.Context(), cfg, sweepRuns, sweepParallel)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
		if err := printSweep(os.Stdout, results); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func init() {
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepRuns, "runs", 10, "Number of seeds to run, starting at --seed")
	sweepCmd.Flags().IntVar(&sweepParallel, "parallel", 4, "Maximum concurrent simulations (0 = unlimited)")

	rootCmd.AddCommand(sweepCmd)
}
