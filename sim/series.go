package sim

// Sample is one (time, value) observation. Time is in seconds.
type Sample struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// TimeSeries is an append-only sequence of samples with non-decreasing time.
type TimeSeries struct {
	Name    string
	samples []Sample
}

// NewTimeSeries creates an empty series.
func NewTimeSeries(name string) *TimeSeries {
	return &TimeSeries{Name: name}
}

// Append adds a sample. Panics if t precedes the last sample.
func (ts *TimeSeries) Append(t, v float64) {
	if n := len(ts.samples); n > 0 && t < ts.samples[n-1].Time {
		panic("TimeSeries.Append: time went backwards")
	}
	ts.samples = append(ts.samples, Sample{Time: t, Value: v})
}

// Len returns the number of samples.
func (ts *TimeSeries) Len() int { return len(ts.samples) }

// Samples returns a copy of the samples.
func (ts *TimeSeries) Samples() []Sample {
	out := make([]Sample, len(ts.samples))
	copy(out, ts.samples)
	return out
}

// Values returns the sample values in order.
func (ts *TimeSeries) Values() []float64 {
	out := make([]float64, len(ts.samples))
	for i, s := range ts.samples {
		out[i] = s.Value
	}
	return out
}

// Last returns the most recent sample and whether one exists.
func (ts *TimeSeries) Last() (Sample, bool) {
	if len(ts.samples) == 0 {
		return Sample{}, false
	}
	return ts.samples[len(ts.samples)-1], true
}
