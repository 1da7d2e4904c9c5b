// Tracks run-wide counters and derives the load summary reported at the end
// of a simulation.

package sim

import (
	"fmt"
	"io"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"
)

// Metrics aggregates counters about the simulation for final reporting.
type Metrics struct {
	Arrivals      map[RequestKind]int // requests emitted per kind
	Admitted      int                 // requests that took a slot
	Completed     int                 // requests that released their slot
	DropsByReason map[DropReason]int
	DropsByKind   map[RequestKind]int
	PeakLoad      float64 // highest load recorded at a completion
	ScaleEvents   int
	FinalCapacity int
	AttackStart   float64 // seconds; -1 if the attack never started
	SimEndedTime  float64 // seconds
}

// NewMetrics creates zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Arrivals:      make(map[RequestKind]int),
		DropsByReason: make(map[DropReason]int),
		DropsByKind:   make(map[RequestKind]int),
		AttackStart:   -1,
	}
}

// TotalArrivals returns the number of emitted requests across kinds.
func (m *Metrics) TotalArrivals() int {
	total := 0
	for _, n := range m.Arrivals {
		total += n
	}
	return total
}

// TotalDropped returns the number of dropped requests across reasons.
func (m *Metrics) TotalDropped() int {
	total := 0
	for _, n := range m.DropsByReason {
		total += n
	}
	return total
}

func (m *Metrics) recordArrival(req *Request) {
	m.Arrivals[req.Kind]++
}

func (m *Metrics) recordDrop(req *Request) {
	m.DropsByReason[req.DropReason]++
	m.DropsByKind[req.Kind]++
}

// Summary is the statistical digest of a run's load series.
type Summary struct {
	Samples  int     `json:"samples"`
	MeanLoad float64 `json:"mean_load"`
	P95Load  float64 `json:"p95_load"`
	MaxLoad  float64 `json:"max_load"`
	Dropped  int     `json:"dropped"`
	DropRate float64 `json:"drop_rate"` // dropped / arrivals
}

// Summarize derives the load statistics from the monitor's load samples.
func (m *Metrics) Summarize(load []Sample) Summary {
	s := Summary{Samples: len(load), Dropped: m.TotalDropped()}
	if arrivals := m.TotalArrivals(); arrivals > 0 {
		s.DropRate = float64(s.Dropped) / float64(arrivals)
	}
	if len(load) == 0 {
		return s
	}
	values := make(stats.Float64Data, len(load))
	for i, sample := range load {
		values[i] = sample.Value
	}
	var err error
	if s.MeanLoad, err = values.Mean(); err != nil {
		logrus.Warnf("load mean: %v", err)
	}
	if s.MaxLoad, err = values.Max(); err != nil {
		logrus.Warnf("load max: %v", err)
	}
	// Percentile needs enough samples to index; short series report the max.
	if s.P95Load, err = values.Percentile(95); err != nil {
		s.P95Load = s.MaxLoad
	}
	return s
}

// Print writes the end-of-run report to w.
func (m *Metrics) Print(w io.Writer, s Summary) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Simulated Time       : %.1f s\n", m.SimEndedTime)
	fmt.Fprintf(w, "Arrivals             : %d (normal %d, attack %d)\n",
		m.TotalArrivals(), m.Arrivals[KindNormal], m.Arrivals[KindAttack])
	fmt.Fprintf(w, "Admitted             : %d\n", m.Admitted)
	fmt.Fprintf(w, "Completed            : %d\n", m.Completed)
	fmt.Fprintf(w, "Dropped              : %d (%.1f%%)\n", s.Dropped, 100*s.DropRate)
	if s.Dropped > 0 {
		fmt.Fprintf(w, "  rate limited       : %d\n", m.DropsByReason[DropRateLimited])
		fmt.Fprintf(w, "  capacity           : %d\n", m.DropsByReason[DropCapacity])
		fmt.Fprintf(w, "  normal / attack    : %d / %d\n", m.DropsByKind[KindNormal], m.DropsByKind[KindAttack])
	}
	if m.AttackStart >= 0 {
		fmt.Fprintf(w, "Attack Started       : %.1f s\n", m.AttackStart)
	}
	fmt.Fprintf(w, "Load mean / p95 / max: %.1f%% / %.1f%% / %.1f%%\n", s.MeanLoad, s.P95Load, s.MaxLoad)
	fmt.Fprintf(w, "Peak Load            : %.1f%%\n", m.PeakLoad)
	fmt.Fprintf(w, "Scale Events         : %d\n", m.ScaleEvents)
	fmt.Fprintf(w, "Final Capacity       : %d\n", m.FinalCapacity)
}
