package sim

// ScalingState is the autoscaler's position in its state machine.
type ScalingState string

const (
	// ScalingIdle means no scale-up has been requested yet (or, under the
	// repeatable policy, the last one has finished).
	ScalingIdle ScalingState = "idle"
	// ScalingPending means a scale-up is waiting out the provisioning delay.
	ScalingPending ScalingState = "pending"
	// ScalingDone is terminal for the one-shot policy.
	ScalingDone ScalingState = "scaled"
)

// Autoscaler is a reactive threshold policy: once observed load reaches the
// threshold it requests a capacity increase that lands after a fixed delay.
// Capacity never shrinks.
type Autoscaler struct {
	enabled     bool
	threshold   float64
	increment   int
	delay       int64
	repeatable  bool
	maxCapacity int // 0 = unbounded

	state       ScalingState
	scaleEvents int
}

// NewAutoscaler creates an autoscaler from cfg. A disabled autoscaler never
// requests a scale-up.
func NewAutoscaler(cfg AutoscalingConfig) *Autoscaler {
	return &Autoscaler{
		enabled:     cfg.Enabled,
		threshold:   cfg.Threshold,
		increment:   cfg.Increment,
		delay:       SecondsToTicks(cfg.Delay),
		repeatable:  cfg.Policy == ScalingPolicyRepeatable,
		maxCapacity: cfg.MaxCapacity,
		state:       ScalingIdle,
	}
}

// Observe reports a load measurement. When it returns true the caller must
// schedule a scale-up at dueAt; the autoscaler is then pending until Apply.
func (a *Autoscaler) Observe(load float64, capacity int, now int64) (dueAt int64, ok bool) {
	if !a.enabled || a.state != ScalingIdle || load < a.threshold {
		return 0, false
	}
	if a.maxCapacity > 0 && capacity >= a.maxCapacity {
		return 0, false
	}
	a.state = ScalingPending
	return now + a.delay, true
}

// Apply returns the capacity after one scale-up from capacity and advances
// the state machine.
func (a *Autoscaler) Apply(capacity int) int {
	next := capacity + a.increment
	if a.maxCapacity > 0 && next > a.maxCapacity {
		next = a.maxCapacity
	}
	a.scaleEvents++
	if a.repeatable {
		a.state = ScalingIdle
	} else {
		a.state = ScalingDone
	}
	return next
}

// State returns the current state.
func (a *Autoscaler) State() ScalingState { return a.state }

// ScaleEvents returns how many scale-ups have been applied.
func (a *Autoscaler) ScaleEvents() int { return a.scaleEvents }

// Enabled reports whether the autoscaler can ever act.
func (a *Autoscaler) Enabled() bool { return a.enabled }
