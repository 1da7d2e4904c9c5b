package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Discover1998/DDoS-Project-DTA400/internal/tui"
	"github.com/Discover1998/DDoS-Project-DTA400/sim"
	"github.com/Discover1998/DDoS-Project-DTA400/sim/trace"
	"github.com/Discover1998/DDoS-Project-DTA400/sim/workload"
)

var (
	// Scenario selection
	presetName string // Named base configuration
	configPath string // YAML file overlaid on the preset
	logLevel   string // Log verbosity level

	// Per-field overrides, applied only when the flag is set
	seed            int64   // Seed for all random streams
	horizon         float64 // Simulated seconds
	capacity        int     // Initial server slots
	processingTime  float64 // Slot hold time per request (seconds)
	normalClients   int     // Normal generator instances
	normalInterval  float64 // Mean gap per normal instance (seconds)
	attackClients   int     // Attack generator instances
	attackInterval  float64 // Mean gap per attacker (seconds)
	attackStart     float64 // Attack launch time (seconds)
	noAttack        bool    // Disable the scheduled attack
	rateLimit       bool    // Enable per-role rate limiting
	autoscale       bool    // Enable autoscaling
	scalingPolicy   string  // one-shot or repeatable
	maxCapacity     int     // Autoscaling ceiling
	traceLevel      string  // Decision trace level
	outputPath      string  // Series export file (.csv or .json)
	plotCharts      bool    // Print load and drop charts after the run
	plotWidth       int     // Chart columns
	plotHeight      int     // Chart rows
	monitorInterval float64 // Sampling period (seconds)
	attackArrivalCV float64 // Gamma CV for attackers; 0 keeps the configured process
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "ddos-sim",
	Short: "Discrete-event simulator of a server under a DDoS attack",
}

// runCmd executes a headless simulation
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation to its horizon and report the results",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		startTime := time.Now()
		s, err := runSimulation(cfg, os.Stdout)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if outputPath != "" {
			if err := sim.ExportSeries(s, outputPath); err != nil {
				logrus.Fatalf("Failed to write series: %v", err)
			}
			logrus.Infof("Series written to %s", outputPath)
		}
		if plotCharts {
			fmt.Println()
			fmt.Print(tui.RenderCharts(s, plotWidth, plotHeight))
		}
		logrus.Infof("Simulation complete in %s.", time.Since(startTime).Round(time.Millisecond))
	},
}

// runSimulation builds and runs one simulation and prints its report to w.
func runSimulation(cfg sim.Config, w io.Writer) (*sim.Simulator, error) {
	s, err := sim.NewSimulator(cfg)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Starting simulation: capacity=%d, horizon=%.0fs, normal=%d, attack=%v (start %.0fs, %d attackers), rate limit=%v, autoscaling=%v",
		cfg.Server.Capacity, cfg.Horizon, cfg.Normal.Clients, cfg.Attack.Enabled, cfg.Attack.Start,
		cfg.Attack.Clients, cfg.RateLimit.Enabled, cfg.Autoscaling.Enabled)
	s.Run()
	s.Metrics().Print(w, s.Summary())
	if s.Trace() != nil {
		printTraceSummary(w, trace.Summarize(s.Trace()))
	}
	return s, nil
}

func printTraceSummary(w io.Writer, ts *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Decision Trace ===")
	fmt.Fprintf(w, "Decisions            : %d (admitted %d, rejected %d)\n", ts.TotalDecisions, ts.AdmittedCount, ts.RejectedCount)
	for _, reason := range []string{"rate_limited", "capacity"} {
		if n := ts.ByReason[reason]; n > 0 {
			fmt.Fprintf(w, "  %-19s: %d\n", reason, n)
		}
	}
	fmt.Fprintf(w, "Unique Clients       : %d\n", ts.UniqueClients)
	fmt.Fprintf(w, "Scale Events         : %d\n", ts.ScaleEvents)
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// resolveConfig layers the preset, the optional YAML file and every flag the
// user set explicitly, in that order.
func resolveConfig(cmd *cobra.Command) (sim.Config, error) {
	cfg, err := sim.PresetConfig(presetName)
	if err != nil {
		return sim.Config{}, err
	}
	if configPath != "" {
		cfg, err = sim.LoadConfig(configPath, cfg)
		if err != nil {
			return sim.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("capacity") {
		cfg.Server.Capacity = capacity
	}
	if flags.Changed("processing-time") {
		cfg.ProcessingTime = processingTime
	}
	if flags.Changed("monitor-interval") {
		cfg.MonitorInterval = monitorInterval
	}
	if flags.Changed("normal-clients") {
		cfg.Normal.Clients = normalClients
	}
	if flags.Changed("normal-interval") {
		cfg.Normal.MeanInterval = normalInterval
	}
	if flags.Changed("attack-clients") {
		cfg.Attack.Clients = attackClients
	}
	if flags.Changed("attack-interval") {
		cfg.Attack.MeanInterval = attackInterval
	}
	if flags.Changed("attack-start") {
		cfg.Attack.Start = attackStart
	}
	if flags.Changed("attack-cv") {
		cv := attackArrivalCV
		cfg.Attack.Arrival.Process = workload.ProcessGamma
		cfg.Attack.Arrival.CV = &cv
	}
	if flags.Changed("no-attack") {
		cfg.Attack.Enabled = !noAttack
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit.Enabled = rateLimit
	}
	if flags.Changed("autoscale") {
		cfg.Autoscaling.Enabled = autoscale
	}
	if flags.Changed("scaling-policy") {
		cfg.Autoscaling.Policy = scalingPolicy
	}
	if flags.Changed("max-capacity") {
		cfg.Autoscaling.MaxCapacity = maxCapacity
	}
	if flags.Changed("trace") {
		cfg.Trace = traceLevel
	}
	return cfg, nil
}

// addConfigFlags registers the scenario flags shared by every command that
// builds a configuration.
func addConfigFlags(cmd *cobra.Command) {
	defaults := sim.DefaultConfig()
	cmd.Flags().StringVar(&presetName, "preset", "baseline", fmt.Sprintf("Base scenario %v", sim.PresetNames()))
	cmd.Flags().StringVar(&configPath, "config", "", "YAML file overlaid on the preset")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	cmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Seed for random traffic generation")
	cmd.Flags().Float64Var(&horizon, "horizon", defaults.Horizon, "Total simulated time (seconds)")
	cmd.Flags().IntVar(&capacity, "capacity", defaults.Server.Capacity, "Initial number of server slots")
	cmd.Flags().Float64Var(&processingTime, "processing-time", defaults.ProcessingTime, "Slot hold time per request (seconds)")
	cmd.Flags().Float64Var(&monitorInterval, "monitor-interval", defaults.MonitorInterval, "Sampling period of the monitor (seconds)")
	cmd.Flags().IntVar(&normalClients, "normal-clients", defaults.Normal.Clients, "Number of normal client instances")
	cmd.Flags().Float64Var(&normalInterval, "normal-interval", defaults.Normal.MeanInterval, "Mean interval between requests of one normal client (seconds)")
	cmd.Flags().IntVar(&attackClients, "attack-clients", defaults.Attack.Clients, "Number of attacker instances")
	cmd.Flags().Float64Var(&attackInterval, "attack-interval", defaults.Attack.MeanInterval, "Mean interval between requests of one attacker (seconds)")
	cmd.Flags().Float64Var(&attackStart, "attack-start", defaults.Attack.Start, "Attack launch time (seconds)")
	cmd.Flags().Float64Var(&attackArrivalCV, "attack-cv", 0, "Use gamma arrivals for attackers with this coefficient of variation")
	cmd.Flags().BoolVar(&noAttack, "no-attack", false, "Disable the scheduled attack")
	cmd.Flags().BoolVar(&rateLimit, "rate-limit", false, "Enable per-role sliding-window rate limiting")
	cmd.Flags().BoolVar(&autoscale, "autoscale", false, "Enable threshold autoscaling")
	cmd.Flags().StringVar(&scalingPolicy, "scaling-policy", defaults.Autoscaling.Policy, "Autoscaling policy (one-shot, repeatable)")
	cmd.Flags().IntVar(&maxCapacity, "max-capacity", 0, "Autoscaling capacity ceiling (0 = unbounded)")
	cmd.Flags().StringVar(&traceLevel, "trace", defaults.Trace, "Decision trace level (none, decisions)")
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	addConfigFlags(runCmd)
	runCmd.Flags().StringVar(&outputPath, "output", "", "Write the load and dropped series to this .csv or .json file")
	runCmd.Flags().BoolVar(&plotCharts, "plot", false, "Print load and drop charts after the run")
	runCmd.Flags().IntVar(&plotWidth, "plot-width", 72, "Chart width in columns")
	runCmd.Flags().IntVar(&plotHeight, "plot-height", 10, "Chart height in rows")

	rootCmd.AddCommand(runCmd)
}
