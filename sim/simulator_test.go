package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Discover1998/DDoS-Project-DTA400/sim/internal/testutil"
	"github.com/Discover1998/DDoS-Project-DTA400/sim/trace"
)

// quietConfig has no traffic sources so tests can inject requests directly.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Horizon = 100
	cfg.Normal.Clients = 0
	cfg.Attack.Enabled = false
	return cfg
}

func mustSimulator(t *testing.T, cfg Config) *Simulator {
	t.Helper()
	s, err := NewSimulator(cfg)
	require.NoError(t, err)
	return s
}

// injectBurst schedules n requests from distinct identities at tick at.
func injectBurst(s *Simulator, kind RequestKind, n int, at int64) {
	for i := 0; i < n; i++ {
		s.Schedule(&RequestEvent{time: at, Request: &Request{
			ID:          fmt.Sprintf("burst_%d_%d", at, i),
			Kind:        kind,
			ClientID:    fmt.Sprintf("%s-%d", kind, i),
			ArrivalTime: at,
			State:       StatePending,
		}})
	}
}

func TestNewSimulator_InvalidConfig_ReturnsError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Capacity = 0
	s, err := NewSimulator(cfg)
	assert.Nil(t, s)
	assert.ErrorContains(t, err, "capacity")
}

func TestSimulator_Burst_ExactlyCapacityAdmitted(t *testing.T) {
	// GIVEN capacity 10 and no rate limiting
	s := mustSimulator(t, quietConfig())

	// WHEN 13 requests arrive at the same instant
	injectBurst(s, KindNormal, 13, 5*TicksPerSecond)
	s.RunUntil(5 * TicksPerSecond)

	// THEN exactly 10 are admitted and 3 dropped
	assert.Equal(t, 10, s.Metrics().Admitted)
	assert.Equal(t, 3, s.CurrentDropped())
	assert.Equal(t, 3, s.Metrics().DropsByReason[DropCapacity])
	assert.Equal(t, 10, s.Server().Active())

	// AND all slots free after the processing time
	s.RunUntil(6 * TicksPerSecond)
	assert.Equal(t, 0, s.Server().Active())
	assert.Equal(t, 10, s.Metrics().Completed)
	assert.Equal(t, 100.0, s.Metrics().PeakLoad)
}

func TestSimulator_RateLimit_SingleIdentityGetsExactlyLimit(t *testing.T) {
	// GIVEN rate limiting on and a large server
	cfg := quietConfig()
	cfg.Server.Capacity = 100
	cfg.RateLimit.Enabled = true
	s := mustSimulator(t, cfg)

	// WHEN one identity sends 9 requests within the 10 s window
	for i := 0; i < 9; i++ {
		at := int64(i) * TicksPerSecond
		s.Schedule(&RequestEvent{time: at, Request: &Request{
			ID: fmt.Sprintf("r%d", i), Kind: KindNormal, ClientID: "normal-1", ArrivalTime: at,
		}})
	}
	s.RunUntil(9 * TicksPerSecond)

	// THEN exactly the normal limit (5) is admitted regardless of capacity
	assert.Equal(t, 5, s.Metrics().Admitted)
	assert.Equal(t, 4, s.Metrics().DropsByReason[DropRateLimited])
	assert.Equal(t, 0, s.Metrics().DropsByReason[DropCapacity])
}

func TestSimulator_Autoscale_OnceAfterDelay(t *testing.T) {
	// GIVEN capacity 2 with one-shot scaling at 50% and a 10 s delay
	cfg := quietConfig()
	cfg.Server.Capacity = 2
	cfg.ProcessingTime = 5
	cfg.Autoscaling.Enabled = true
	cfg.Autoscaling.Threshold = 50
	s := mustSimulator(t, cfg)

	// WHEN the server fills at t=1 (completions at t=6 observe 100%)
	injectBurst(s, KindNormal, 2, 1*TicksPerSecond)
	s.RunUntil(6 * TicksPerSecond)
	assert.Equal(t, ScalingPending, s.Autoscaler().State())

	// THEN capacity is unchanged until the delay elapses
	s.RunUntil(16*TicksPerSecond - 1)
	assert.Equal(t, 2, s.CurrentCapacity())

	// AND grows by the increment exactly at t=16
	s.RunUntil(16 * TicksPerSecond)
	assert.Equal(t, 7, s.CurrentCapacity())

	// AND never again under the one-shot policy
	injectBurst(s, KindNormal, 7, 20*TicksPerSecond)
	s.RunUntil(60 * TicksPerSecond)
	assert.Equal(t, 7, s.CurrentCapacity())
	assert.Equal(t, 1, s.Metrics().ScaleEvents)
	assert.Equal(t, ScalingDone, s.Autoscaler().State())
}

func TestSimulator_Autoscale_RepeatableCappedByMax(t *testing.T) {
	// GIVEN repeatable scaling from 2 slots, increment 5, max 10
	cfg := quietConfig()
	cfg.Server.Capacity = 2
	cfg.Autoscaling.Enabled = true
	cfg.Autoscaling.Threshold = 50
	cfg.Autoscaling.Delay = 1
	cfg.Autoscaling.Policy = ScalingPolicyRepeatable
	cfg.Autoscaling.MaxCapacity = 10
	s := mustSimulator(t, cfg)

	// WHEN the server is filled three times
	injectBurst(s, KindNormal, 2, 1*TicksPerSecond)  // completes at 2, scales to 7 at 3
	injectBurst(s, KindNormal, 7, 5*TicksPerSecond)  // completes at 6, scales to 10 at 7
	injectBurst(s, KindNormal, 10, 9*TicksPerSecond) // at max, no scale-up
	s.RunUntil(20 * TicksPerSecond)

	// THEN capacity grows twice and stops at the cap
	assert.Equal(t, 10, s.CurrentCapacity())
	assert.Equal(t, 2, s.Metrics().ScaleEvents)
	assert.Equal(t, 0, s.CurrentDropped())
}

func TestSimulator_Schedule_PastEvent_Panics(t *testing.T) {
	s := mustSimulator(t, quietConfig())
	s.RunUntil(10 * TicksPerSecond)
	assert.Panics(t, func() { s.Schedule(&MonitorEvent{time: TicksPerSecond}) })
}

func TestSimulator_RunUntil_MovesClockAndClampsToHorizon(t *testing.T) {
	s := mustSimulator(t, quietConfig())

	s.RunUntil(3*TicksPerSecond + 500)
	assert.Equal(t, 3*TicksPerSecond+500, s.Clock)
	assert.Equal(t, 4, s.Monitor().Len()) // samples at 0, 1, 2, 3

	s.AdvanceSeconds(1000)
	assert.Equal(t, s.Horizon, s.Clock)
	assert.True(t, s.Done())
	assert.Equal(t, 101, s.Monitor().Len())

	// Going backwards is a no-op.
	s.RunUntil(0)
	assert.Equal(t, s.Horizon, s.Clock)
}

func TestSimulator_Step_ExecutesOneEvent(t *testing.T) {
	s := mustSimulator(t, quietConfig())
	require.True(t, s.Step()) // monitor at t=0
	assert.Equal(t, 1, s.Monitor().Len())
	assert.Equal(t, int64(0), s.Clock)
}

func TestSimulator_Observers_SeeEveryTick(t *testing.T) {
	cfg := quietConfig()
	cfg.Horizon = 10
	s := mustSimulator(t, cfg)
	var times []float64
	s.AddObserver(ObserverFunc(func(tk Tick) { times = append(times, tk.Time) }))
	var decided int
	s.ObserveRequests(func(*Request) { decided++ })
	injectBurst(s, KindAttack, 3, 2*TicksPerSecond)

	s.Run()

	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, times)
	assert.Equal(t, 3, decided)
}

func TestSimulator_TriggerAttack_External(t *testing.T) {
	// GIVEN no scheduled attack
	cfg := quietConfig()
	cfg.Horizon = 20
	s := mustSimulator(t, cfg)
	s.RunUntil(5 * TicksPerSecond)
	assert.False(t, s.Snapshot().AttackActive)

	// WHEN the driver launches two attackers at t=5
	s.TriggerAttack(2)
	s.Run()

	// THEN attack traffic flows from t=5 on
	snap := s.Snapshot()
	assert.True(t, snap.AttackActive)
	assert.Equal(t, 2, snap.Attackers)
	assert.Equal(t, 5.0, s.Metrics().AttackStart)
	assert.Greater(t, s.Metrics().Arrivals[KindAttack], 100)
}

func TestSimulator_ZeroDropScenario(t *testing.T) {
	// GIVEN capacity 10, 1 s processing, normal traffic every 2 s and no attack
	cfg := DefaultConfig()
	cfg.Horizon = 50
	cfg.Attack.Enabled = false
	s := mustSimulator(t, cfg)

	// WHEN run to the horizon
	s.Run()

	// THEN nothing is dropped
	assert.Equal(t, 0, s.CurrentDropped())
	assert.Greater(t, s.Metrics().Arrivals[KindNormal], 0)
	assert.Equal(t, 0, s.Metrics().Arrivals[KindAttack])
}

func TestSimulator_AttackScenario_SaturatesAfterStart(t *testing.T) {
	// GIVEN the baseline attack at t=150
	s := mustSimulator(t, DefaultConfig())

	// WHEN run in two halves
	s.RunUntil(149 * TicksPerSecond)
	before := s.CurrentDropped()
	s.Run()

	// THEN drops are rare before the attack and rise sharply after it
	assert.Less(t, before, 5)
	assert.Greater(t, s.CurrentDropped()-before, 10_000)

	// AND the surge begins within seconds of the attack start
	dropped := s.Monitor().DroppedSeries()
	counts := make([]float64, len(dropped))
	for i, sample := range dropped {
		counts[i] = sample.Value
	}
	surge := testutil.FirstIndexAtLeast(counts, float64(before+100))
	require.GreaterOrEqual(t, surge, 0)
	assert.InDelta(t, 152.0, dropped[surge].Time, 3.0)

	// AND load saturates at 100 shortly after t=150
	load := s.Monitor().LoadSeries()
	values := make([]float64, 0, len(load))
	for _, sample := range load {
		if sample.Time >= 155 {
			values = append(values, sample.Value)
		}
	}
	require.NotEmpty(t, values)
	testutil.AssertWithin(t, "load after attack", values, 50, 100)
	saturated := 0
	for _, v := range values {
		if v == 100 {
			saturated++
		}
	}
	assert.Greater(t, saturated, len(values)/2)
	assert.Equal(t, 150.0, s.Metrics().AttackStart)
}

func TestSimulator_SeriesInvariants(t *testing.T) {
	for _, preset := range PresetNames() {
		t.Run(preset, func(t *testing.T) {
			cfg, err := PresetConfig(preset)
			require.NoError(t, err)
			s := mustSimulator(t, cfg)
			s.Run()

			load := NewTimeSeries("load")
			for _, sample := range s.Monitor().LoadSeries() {
				load.Append(sample.Time, sample.Value)
			}
			dropped := NewTimeSeries("dropped")
			for _, sample := range s.Monitor().DroppedSeries() {
				dropped.Append(sample.Time, sample.Value)
			}
			testutil.AssertWithin(t, "load", load.Values(), 0, 100)
			testutil.AssertNonDecreasing(t, "dropped", dropped.Values())
			assert.Equal(t, 301, load.Len())
		})
	}
}

func TestSimulator_Deterministic(t *testing.T) {
	// GIVEN two simulators with the same seed
	a := mustSimulator(t, MitigatedConfig())
	b := mustSimulator(t, MitigatedConfig())

	// WHEN both run to completion
	a.Run()
	b.Run()

	// THEN every series and counter matches
	assert.Equal(t, a.Monitor().LoadSeries(), b.Monitor().LoadSeries())
	assert.Equal(t, a.Monitor().DroppedSeries(), b.Monitor().DroppedSeries())
	assert.Equal(t, a.Metrics(), b.Metrics())

	// AND a different seed produces a different run
	cfg := MitigatedConfig()
	cfg.Seed = 43
	c := mustSimulator(t, cfg)
	c.Run()
	assert.NotEqual(t, a.Monitor().DroppedSeries(), c.Monitor().DroppedSeries())
}

func TestSimulator_MitigatedScenario(t *testing.T) {
	s := mustSimulator(t, MitigatedConfig())
	s.Run()

	m := s.Metrics()
	assert.Greater(t, m.DropsByReason[DropRateLimited], 0)
	assert.Equal(t, 1, m.ScaleEvents)
	assert.Equal(t, 15, s.CurrentCapacity())
	assert.Equal(t, m.TotalDropped(), s.CurrentDropped())
}

func TestSimulator_Trace_MatchesCounters(t *testing.T) {
	// GIVEN decision tracing on a short mitigated run
	cfg := MitigatedConfig()
	cfg.Horizon = 170
	cfg.Trace = string(trace.TraceLevelDecisions)
	s := mustSimulator(t, cfg)
	s.Run()

	// WHEN summarized
	summary := trace.Summarize(s.Trace())

	// THEN trace totals agree with the server and metrics
	assert.Equal(t, s.CurrentDropped(), summary.RejectedCount)
	assert.Equal(t, s.Metrics().Admitted, summary.AdmittedCount)
	assert.Equal(t, s.Metrics().TotalArrivals(), summary.TotalDecisions)
	assert.Equal(t, s.Metrics().ScaleEvents, summary.ScaleEvents)
	if summary.ScaleEvents > 0 {
		assert.Equal(t, s.CurrentCapacity(), summary.FinalCapacity)
	}
}

func TestSimulator_TraceOff_NilTrace(t *testing.T) {
	s := mustSimulator(t, DefaultConfig())
	assert.Nil(t, s.Trace())
}

func TestSimulator_Snapshot_ReflectsState(t *testing.T) {
	s := mustSimulator(t, quietConfig())
	injectBurst(s, KindNormal, 4, TicksPerSecond)
	s.RunUntil(TicksPerSecond)

	snap := s.Snapshot()
	assert.Equal(t, 1.0, snap.Time)
	assert.Equal(t, 4, snap.Active)
	assert.Equal(t, 40.0, snap.Utilization)
	assert.Equal(t, 10, snap.Capacity)
	assert.Equal(t, ScalingIdle, snap.ScalingState)
}
