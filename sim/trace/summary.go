package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions int
	AdmittedCount  int
	RejectedCount  int
	ByReason       map[string]int // reason → count
	RejectedByKind map[string]int // request kind → rejected count
	UniqueClients  int
	ScaleEvents    int
	FinalCapacity  int // capacity after the last scale-up; 0 if none
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ByReason:       make(map[string]int),
		RejectedByKind: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	clients := make(map[string]struct{})
	summary.TotalDecisions = len(st.Admissions)
	for _, a := range st.Admissions {
		summary.ByReason[a.Reason]++
		clients[a.ClientID] = struct{}{}
		if a.Admitted {
			summary.AdmittedCount++
		} else {
			summary.RejectedCount++
			summary.RejectedByKind[a.Kind]++
		}
	}
	summary.UniqueClients = len(clients)

	summary.ScaleEvents = len(st.Scales)
	if n := len(st.Scales); n > 0 {
		summary.FinalCapacity = st.Scales[n-1].To
	}
	return summary
}
