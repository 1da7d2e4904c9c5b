// Package trace provides decision-trace recording for admission and scaling analysis.
// It has no dependencies on sim/ and stores pure data types.
package trace

// AdmissionRecord captures the admission outcome of a single request.
type AdmissionRecord struct {
	RequestID string
	ClientID  string
	Kind      string // "normal" or "attack"
	Clock     int64
	Admitted  bool
	Reason    string // "admitted", "rate_limited" or "capacity"
}

// ScaleRecord captures one capacity change made by the autoscaler.
type ScaleRecord struct {
	Clock int64
	From  int
	To    int
	Load  float64 // load that triggered the scale-up
}
