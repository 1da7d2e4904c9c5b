package sim

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Discover1998/DDoS-Project-DTA400/sim/trace"
	"github.com/Discover1998/DDoS-Project-DTA400/sim/workload"
)

// Config holds every tunable of a simulation run. Durations are in seconds.
// All sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Seed            int64             `yaml:"seed"`
	Horizon         float64           `yaml:"horizon"`          // total simulated time
	ProcessingTime  float64           `yaml:"processing_time"`  // slot hold time per request
	MonitorInterval float64           `yaml:"monitor_interval"` // sampling period of the Monitor
	Server          ServerConfig      `yaml:"server"`
	Normal          TrafficConfig     `yaml:"normal"`
	Attack          AttackConfig      `yaml:"attack"`
	RateLimit       RateLimitConfig   `yaml:"rate_limit"`
	Autoscaling     AutoscalingConfig `yaml:"autoscaling"`
	Trace           string            `yaml:"trace"` // "none" (default) or "decisions"
}

// ServerConfig sizes the server.
type ServerConfig struct {
	Capacity int `yaml:"capacity"` // initial concurrent slots (must be >= 1)
}

// TrafficConfig describes one role's traffic sources.
type TrafficConfig struct {
	Clients      int                  `yaml:"clients"`       // number of independent generator instances
	MeanInterval float64              `yaml:"mean_interval"` // mean gap between requests of one instance
	ClientPool   int                  `yaml:"client_pool"`   // distinct client identities shared by the role
	Arrival      workload.ArrivalSpec `yaml:"arrival"`
}

// AttackConfig describes the attacker population and when it wakes up.
type AttackConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Start         float64 `yaml:"start"`
	TrafficConfig `yaml:",inline"`
}

// LimitConfig is one sliding-window limit.
type LimitConfig struct {
	Limit  int     `yaml:"limit"`  // admitted requests allowed per window
	Window float64 `yaml:"window"` // window length
}

// RateLimitConfig configures the per-role sliding-window limiters.
type RateLimitConfig struct {
	Enabled bool        `yaml:"enabled"`
	Normal  LimitConfig `yaml:"normal"`
	Attack  LimitConfig `yaml:"attack"`
}

// AutoscalingConfig configures the reactive capacity policy.
type AutoscalingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Threshold   float64 `yaml:"threshold"`    // load percentage that triggers a scale-up
	Increment   int     `yaml:"increment"`    // slots added per scale-up
	Delay       float64 `yaml:"delay"`        // provisioning delay
	Policy      string  `yaml:"policy"`       // "one-shot" (default) or "repeatable"
	MaxCapacity int     `yaml:"max_capacity"` // 0 = unbounded
}

// Scaling policy names.
const (
	ScalingPolicyOneShot    = "one-shot"
	ScalingPolicyRepeatable = "repeatable"
)

// ValidScalingPolicies is the set of recognized scaling policy names.
var ValidScalingPolicies = map[string]bool{"": true, ScalingPolicyOneShot: true, ScalingPolicyRepeatable: true}

// DefaultConfig returns the baseline scenario: a ten-slot server, three
// normal clients and a ten-instance attack starting at t=150 s, with no
// mitigation.
func DefaultConfig() Config {
	return Config{
		Seed:            42,
		Horizon:         300,
		ProcessingTime:  1,
		MonitorInterval: 1,
		Server:          ServerConfig{Capacity: 10},
		Normal: TrafficConfig{
			Clients:      3,
			MeanInterval: 2,
			ClientPool:   2001,
			Arrival:      workload.ArrivalSpec{Process: workload.ProcessPoisson},
		},
		Attack: AttackConfig{
			Enabled: true,
			Start:   150,
			TrafficConfig: TrafficConfig{
				Clients:      10,
				MeanInterval: 0.03,
				ClientPool:   2001,
				Arrival:      workload.ArrivalSpec{Process: workload.ProcessPoisson},
			},
		},
		RateLimit: RateLimitConfig{
			Normal: LimitConfig{Limit: 5, Window: 10},
			Attack: LimitConfig{Limit: 2, Window: 10},
		},
		Autoscaling: AutoscalingConfig{
			Threshold: 80,
			Increment: 5,
			Delay:     10,
			Policy:    ScalingPolicyOneShot,
		},
		Trace: string(trace.TraceLevelNone),
	}
}

// MitigatedConfig returns the baseline scenario with per-role rate limiting
// and one-shot autoscaling switched on.
func MitigatedConfig() Config {
	cfg := DefaultConfig()
	cfg.RateLimit.Enabled = true
	cfg.Autoscaling.Enabled = true
	return cfg
}

// Presets maps preset names to their constructors.
var Presets = map[string]func() Config{
	"baseline":  DefaultConfig,
	"mitigated": MitigatedConfig,
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetConfig returns the named preset.
func PresetConfig(name string) (Config, error) {
	ctor, ok := Presets[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown preset %q (valid: %v)", name, PresetNames())
	}
	return ctor(), nil
}

// LoadConfig reads a YAML file and overlays it on base. Fields absent from the
// file keep their base values. Unknown fields are rejected.
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading simulation config: %w", err)
	}
	return ParseConfig(data, base)
}

// ParseConfig decodes YAML bytes over base with strict field checking.
func ParseConfig(data []byte, base Config) (Config, error) {
	cfg := base
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing simulation config: %w", err)
	}
	return cfg, nil
}

// YAML renders cfg in the same format LoadConfig accepts.
func (cfg Config) YAML() ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Validate checks that every parameter is in range. It is called by
// NewSimulator so a bad configuration fails before the clock starts.
func (cfg Config) Validate() error {
	if cfg.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %g", cfg.Horizon)
	}
	if cfg.ProcessingTime <= 0 {
		return fmt.Errorf("processing_time must be positive, got %g", cfg.ProcessingTime)
	}
	if cfg.MonitorInterval <= 0 {
		return fmt.Errorf("monitor_interval must be positive, got %g", cfg.MonitorInterval)
	}
	if SecondsToTicks(cfg.ProcessingTime) < 1 || SecondsToTicks(cfg.MonitorInterval) < 1 {
		return fmt.Errorf("processing_time and monitor_interval must be at least one microsecond")
	}
	if cfg.Server.Capacity < 1 {
		return fmt.Errorf("server.capacity must be at least 1, got %d", cfg.Server.Capacity)
	}
	if err := cfg.Normal.validate("normal"); err != nil {
		return err
	}
	if cfg.Attack.Enabled {
		if cfg.Attack.Start < 0 {
			return fmt.Errorf("attack.start must be non-negative, got %g", cfg.Attack.Start)
		}
	}
	// Attack traffic parameters are checked even when the scheduled attack is
	// off, since TriggerAttack can still spawn attackers.
	if err := cfg.Attack.TrafficConfig.validate("attack"); err != nil {
		return err
	}
	if cfg.RateLimit.Enabled {
		if err := cfg.RateLimit.Normal.validate("rate_limit.normal"); err != nil {
			return err
		}
		if err := cfg.RateLimit.Attack.validate("rate_limit.attack"); err != nil {
			return err
		}
	}
	if cfg.Autoscaling.Enabled {
		a := cfg.Autoscaling
		if a.Threshold <= 0 || a.Threshold > 100 {
			return fmt.Errorf("autoscaling.threshold must be in (0, 100], got %g", a.Threshold)
		}
		if a.Increment < 1 {
			return fmt.Errorf("autoscaling.increment must be at least 1, got %d", a.Increment)
		}
		if a.Delay <= 0 {
			return fmt.Errorf("autoscaling.delay must be positive, got %g", a.Delay)
		}
		if !ValidScalingPolicies[a.Policy] {
			return fmt.Errorf("unknown autoscaling policy %q", a.Policy)
		}
		if a.MaxCapacity != 0 && a.MaxCapacity < cfg.Server.Capacity {
			return fmt.Errorf("autoscaling.max_capacity (%d) must be 0 or at least server.capacity (%d)", a.MaxCapacity, cfg.Server.Capacity)
		}
	}
	if !trace.IsValidTraceLevel(cfg.Trace) {
		return fmt.Errorf("unknown trace level %q", cfg.Trace)
	}
	return nil
}

func (tc TrafficConfig) validate(role string) error {
	if tc.Clients < 0 {
		return fmt.Errorf("%s.clients must be non-negative, got %d", role, tc.Clients)
	}
	if tc.MeanInterval <= 0 {
		return fmt.Errorf("%s.mean_interval must be positive, got %g", role, tc.MeanInterval)
	}
	if SecondsToTicks(tc.MeanInterval) < 1 {
		return fmt.Errorf("%s.mean_interval must be at least one microsecond, got %g", role, tc.MeanInterval)
	}
	if tc.ClientPool < 1 {
		return fmt.Errorf("%s.client_pool must be at least 1, got %d", role, tc.ClientPool)
	}
	if !workload.IsValidProcess(tc.Arrival.Process) {
		return fmt.Errorf("unknown %s arrival process %q", role, tc.Arrival.Process)
	}
	if tc.Arrival.CV != nil && *tc.Arrival.CV <= 0 {
		return fmt.Errorf("%s.arrival.cv must be positive, got %g", role, *tc.Arrival.CV)
	}
	return nil
}

func (lc LimitConfig) validate(name string) error {
	if lc.Limit < 1 {
		return fmt.Errorf("%s.limit must be at least 1, got %d", name, lc.Limit)
	}
	if lc.Window <= 0 {
		return fmt.Errorf("%s.window must be positive, got %g", name, lc.Window)
	}
	if SecondsToTicks(lc.Window) < 1 {
		return fmt.Errorf("%s.window must be at least one microsecond, got %g", name, lc.Window)
	}
	return nil
}
