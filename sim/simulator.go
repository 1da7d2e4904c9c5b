// sim/simulator.go
package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Discover1998/DDoS-Project-DTA400/sim/trace"
)

// Snapshot is a read-only view of the live simulation state.
type Snapshot struct {
	Time          float64 // seconds
	Load          float64
	Utilization   float64 // instantaneous busy share, percent
	Dropped       int
	Capacity      int
	Active        int
	AttackActive  bool
	Attackers     int
	ScalingState  ScalingState
	PendingEvents int
}

// Simulator is the core object that holds simulation time, the event queue,
// the server and every traffic source. It is single-threaded: all methods
// must be called from one goroutine. Independent Simulators share no state.
type Simulator struct {
	Clock   int64
	Horizon int64
	Config  Config

	eventQueue      EventQueue
	seq             int64
	processingTicks int64
	monitorInterval int64

	server     *Server
	autoscaler *Autoscaler
	monitor    *Monitor
	metrics    *Metrics
	trace      *trace.SimulationTrace // nil when tracing is off
	rng        *PartitionedRNG

	normal    []*TrafficGenerator
	attackers []*TrafficGenerator
	requestID int

	requestHooks []func(*Request)
}

// NewSimulator validates cfg and builds a simulator with every initial event
// scheduled: normal generators, the first monitor sample at t=0 and, when
// enabled, the attack start.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	sim := &Simulator{
		Horizon:         SecondsToTicks(cfg.Horizon),
		Config:          cfg,
		eventQueue:      make(EventQueue, 0),
		processingTicks: SecondsToTicks(cfg.ProcessingTime),
		monitorInterval: SecondsToTicks(cfg.MonitorInterval),
		server:          NewServer(cfg.Server.Capacity, NewAdmissionPolicy(cfg.RateLimit)),
		autoscaler:      NewAutoscaler(cfg.Autoscaling),
		monitor:         NewMonitor(),
		metrics:         NewMetrics(),
		rng:             NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
	}
	sim.metrics.FinalCapacity = cfg.Server.Capacity
	if level := trace.TraceLevel(cfg.Trace); level != "" && level != trace.TraceLevelNone {
		sim.trace = trace.NewSimulationTrace(level)
	}

	sim.Schedule(&MonitorEvent{time: 0})
	for i := 0; i < cfg.Normal.Clients; i++ {
		g := NewTrafficGenerator(KindNormal, i, cfg.Normal, sim.rng.ForSubsystem(SubsystemNormal(i)))
		sim.normal = append(sim.normal, g)
		sim.startGenerator(g)
	}
	if cfg.Attack.Enabled {
		sim.Schedule(&AttackStartEvent{
			time:      SecondsToTicks(cfg.Attack.Start),
			instances: cfg.Attack.Clients,
		})
	}
	return sim, nil
}

// Schedule pushes an event into the queue. Panics if the event lies in the past.
func (sim *Simulator) Schedule(ev Event) {
	if ev.Timestamp() < sim.Clock {
		panic(fmt.Sprintf("Schedule: %T at tick %d is before clock %d", ev, ev.Timestamp(), sim.Clock))
	}
	heap.Push(&sim.eventQueue, eventEntry{event: ev, seqID: sim.seq})
	sim.seq++
}

// Step executes the earliest pending event. It returns false if the queue is empty.
func (sim *Simulator) Step() bool {
	if len(sim.eventQueue) == 0 {
		return false
	}
	ev := heap.Pop(&sim.eventQueue).(eventEntry).event
	sim.Clock = ev.Timestamp()
	logrus.Tracef("[tick %09d] Executing %T", sim.Clock, ev)
	ev.Execute(sim)
	return true
}

// RunUntil executes every event with timestamp <= t and then moves the clock
// to t. Targets beyond the horizon are clamped to it; targets in the past are
// a no-op.
func (sim *Simulator) RunUntil(t int64) {
	if t > sim.Horizon {
		t = sim.Horizon
	}
	if t < sim.Clock {
		return
	}
	for len(sim.eventQueue) > 0 && sim.eventQueue.peek().Timestamp() <= t {
		sim.Step()
	}
	sim.Clock = t
	sim.metrics.SimEndedTime = TicksToSeconds(sim.Clock)
}

// Advance runs the simulation forward by dt ticks.
func (sim *Simulator) Advance(dt int64) {
	sim.RunUntil(sim.Clock + dt)
}

// AdvanceSeconds runs the simulation forward by s seconds.
func (sim *Simulator) AdvanceSeconds(s float64) {
	sim.Advance(SecondsToTicks(s))
}

// Run executes the simulation up to its horizon.
func (sim *Simulator) Run() {
	sim.RunUntil(sim.Horizon)
	logrus.Infof("[tick %09d] Simulation ended", sim.Clock)
}

// Done reports whether the clock has reached the horizon.
func (sim *Simulator) Done() bool {
	return sim.Clock >= sim.Horizon
}

// TriggerAttack spawns n attack generators starting now. Each instance draws
// from its own RNG stream; repeated calls add more instances.
func (sim *Simulator) TriggerAttack(n int) {
	if n <= 0 {
		return
	}
	if len(sim.attackers) == 0 {
		sim.metrics.AttackStart = TicksToSeconds(sim.Clock)
	}
	first := len(sim.attackers)
	for i := first; i < first+n; i++ {
		g := NewTrafficGenerator(KindAttack, i, sim.Config.Attack.TrafficConfig, sim.rng.ForSubsystem(SubsystemAttacker(i)))
		sim.attackers = append(sim.attackers, g)
		sim.startGenerator(g)
	}
	logrus.Infof("Attack started at %.2f s: %d attackers active", TicksToSeconds(sim.Clock), len(sim.attackers))
}

// AttackActive reports whether any attack generator is running.
func (sim *Simulator) AttackActive() bool {
	return len(sim.attackers) > 0
}

// ObserveRequests registers fn to be called after every admission decision.
func (sim *Simulator) ObserveRequests(fn func(*Request)) {
	sim.requestHooks = append(sim.requestHooks, fn)
}

// AddObserver registers a monitor tick observer.
func (sim *Simulator) AddObserver(o Observer) {
	sim.monitor.Subscribe(o)
}

func (sim *Simulator) startGenerator(g *TrafficGenerator) {
	sim.Schedule(&ArrivalEvent{time: g.NextArrival(sim.Clock), generator: g})
}

func (sim *Simulator) nextRequestID() string {
	id := fmt.Sprintf("request_%d", sim.requestID)
	sim.requestID++
	return id
}

func (sim *Simulator) handleRequest(req *Request, now int64) {
	sim.metrics.recordArrival(req)
	admitted := sim.server.Admit(req, now)
	if admitted {
		sim.metrics.Admitted++
		sim.Schedule(&CompletionEvent{time: now + sim.processingTicks, Request: req})
		logrus.Debugf("<< Admitted: %s (%s) at %d ticks", req.ID, req.ClientID, now)
	} else {
		sim.metrics.recordDrop(req)
		logrus.Debugf("<< Dropped: %s (%s) at %d ticks: %s", req.ID, req.ClientID, now, req.DropReason)
	}
	if sim.trace != nil {
		reason := "admitted"
		if !admitted {
			reason = string(req.DropReason)
		}
		sim.trace.RecordAdmission(trace.AdmissionRecord{
			RequestID: req.ID,
			ClientID:  req.ClientID,
			Kind:      string(req.Kind),
			Clock:     now,
			Admitted:  admitted,
			Reason:    reason,
		})
	}
	for _, fn := range sim.requestHooks {
		fn(req)
	}
}

func (sim *Simulator) completeRequest(req *Request, now int64) {
	load := sim.server.Complete(req)
	sim.metrics.Completed++
	sim.metrics.PeakLoad = max(sim.metrics.PeakLoad, load)
	if due, ok := sim.autoscaler.Observe(load, sim.server.Capacity(), now); ok {
		logrus.Infof("Load %.1f%% reached scaling threshold at %.2f s; scaling in %.2f s",
			load, TicksToSeconds(now), TicksToSeconds(due-now))
		sim.Schedule(&ScaleEvent{time: due, load: load})
	}
}

func (sim *Simulator) applyScale(now int64, load float64) {
	target := sim.autoscaler.Apply(sim.server.Capacity())
	from, to := sim.server.Grow(target - sim.server.Capacity())
	sim.metrics.ScaleEvents++
	sim.metrics.FinalCapacity = to
	logrus.Infof("Server scaled: new capacity = %d", to)
	if sim.trace != nil {
		sim.trace.RecordScale(trace.ScaleRecord{Clock: now, From: from, To: to, Load: load})
	}
}

func (sim *Simulator) sample(now int64) {
	if rl, ok := sim.server.Admission().(*RoleRateLimiter); ok {
		rl.Prune(now)
	}
	sim.monitor.Sample(now, sim.server)
}

// CurrentLoad returns the load percentage recorded at the last completion.
func (sim *Simulator) CurrentLoad() float64 { return sim.server.Load() }

// CurrentDropped returns the cumulative drop count.
func (sim *Simulator) CurrentDropped() int { return sim.server.Dropped() }

// CurrentCapacity returns the server's current capacity.
func (sim *Simulator) CurrentCapacity() int { return sim.server.Capacity() }

// Now returns the clock in seconds.
func (sim *Simulator) Now() float64 { return TicksToSeconds(sim.Clock) }

// Snapshot returns the live state in one value.
func (sim *Simulator) Snapshot() Snapshot {
	return Snapshot{
		Time:          sim.Now(),
		Load:          sim.server.Load(),
		Utilization:   sim.server.Utilization(),
		Dropped:       sim.server.Dropped(),
		Capacity:      sim.server.Capacity(),
		Active:        sim.server.Active(),
		AttackActive:  sim.AttackActive(),
		Attackers:     len(sim.attackers),
		ScalingState:  sim.autoscaler.State(),
		PendingEvents: len(sim.eventQueue),
	}
}

// Server returns the simulated server.
func (sim *Simulator) Server() *Server { return sim.server }

// Autoscaler returns the autoscaler.
func (sim *Simulator) Autoscaler() *Autoscaler { return sim.autoscaler }

// Monitor returns the monitor holding the load and dropped series.
func (sim *Simulator) Monitor() *Monitor { return sim.monitor }

// Metrics returns the run counters.
func (sim *Simulator) Metrics() *Metrics { return sim.metrics }

// Trace returns the decision trace, or nil when tracing is off.
func (sim *Simulator) Trace() *trace.SimulationTrace { return sim.trace }

// Summary summarizes the load series recorded so far.
func (sim *Simulator) Summary() Summary {
	return sim.metrics.Summarize(sim.monitor.LoadSeries())
}
