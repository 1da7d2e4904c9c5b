package sim

// Tick is one monitor observation delivered to observers.
type Tick struct {
	Time     float64 // seconds
	Load     float64 // percentage recorded at the last completion
	Dropped  int     // cumulative
	Capacity int
	Active   int
}

// Observer receives every monitor tick, on the simulation goroutine.
type Observer interface {
	OnTick(Tick)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Tick)

// OnTick calls f(t).
func (f ObserverFunc) OnTick(t Tick) { f(t) }

// Monitor samples the server at a fixed interval into the load and dropped
// series and fans each sample out to its observers.
type Monitor struct {
	load      *TimeSeries
	dropped   *TimeSeries
	observers []Observer
}

// NewMonitor creates a monitor with empty series.
func NewMonitor() *Monitor {
	return &Monitor{
		load:    NewTimeSeries("load"),
		dropped: NewTimeSeries("dropped"),
	}
}

// Subscribe registers an observer.
func (m *Monitor) Subscribe(o Observer) {
	m.observers = append(m.observers, o)
}

// Sample records the server state at now and notifies observers.
func (m *Monitor) Sample(now int64, s *Server) Tick {
	tick := Tick{
		Time:     TicksToSeconds(now),
		Load:     s.Load(),
		Dropped:  s.Dropped(),
		Capacity: s.Capacity(),
		Active:   s.Active(),
	}
	m.load.Append(tick.Time, tick.Load)
	m.dropped.Append(tick.Time, float64(tick.Dropped))
	for _, o := range m.observers {
		o.OnTick(tick)
	}
	return tick
}

// LoadSeries returns a copy of the load samples.
func (m *Monitor) LoadSeries() []Sample { return m.load.Samples() }

// DroppedSeries returns a copy of the cumulative drop samples.
func (m *Monitor) DroppedSeries() []Sample { return m.dropped.Samples() }

// Len returns the number of samples taken.
func (m *Monitor) Len() int { return m.load.Len() }
