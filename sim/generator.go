package sim

import (
	"fmt"
	"math/rand"

	"github.com/Discover1998/DDoS-Project-DTA400/sim/workload"
)

// TrafficGenerator is one independent request source. It sleeps for a sampled
// inter-arrival time, emits a request tagged with its role and a client
// identity drawn from the role's pool, and repeats until the horizon.
type TrafficGenerator struct {
	Kind  RequestKind
	Index int // instance number within the role

	sampler workload.ArrivalSampler
	rng     *rand.Rand
	pool    int
	emitted int
}

// NewTrafficGenerator builds a generator for the given role instance.
// rng must be the instance's own partitioned stream.
func NewTrafficGenerator(kind RequestKind, index int, tc TrafficConfig, rng *rand.Rand) *TrafficGenerator {
	return &TrafficGenerator{
		Kind:    kind,
		Index:   index,
		sampler: workload.NewArrivalSampler(tc.Arrival, float64(SecondsToTicks(tc.MeanInterval))),
		rng:     rng,
		pool:    tc.ClientPool,
	}
}

// NextArrival returns the tick of the next emission after now.
func (g *TrafficGenerator) NextArrival(now int64) int64 {
	return now + g.sampler.SampleIAT(g.rng)
}

// Emit creates a pending request with the given ID at now.
func (g *TrafficGenerator) Emit(id string, now int64) *Request {
	g.emitted++
	return &Request{
		ID:          id,
		Kind:        g.Kind,
		ClientID:    fmt.Sprintf("%s-%d", g.Kind, g.rng.Intn(g.pool)),
		ArrivalTime: now,
		State:       StatePending,
	}
}

// Emitted returns how many requests this generator has produced.
func (g *TrafficGenerator) Emitted() int { return g.emitted }
