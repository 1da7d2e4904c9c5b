package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newReq(i int) *Request {
	return &Request{ID: fmt.Sprintf("request_%d", i), Kind: KindNormal, ClientID: fmt.Sprintf("normal-%d", i), State: StatePending}
}

func TestServer_Admit_FullServerRejectsImmediately(t *testing.T) {
	// GIVEN a server with 3 slots
	s := NewServer(3, nil)

	// WHEN 5 requests arrive at the same instant
	var results []bool
	reqs := make([]*Request, 5)
	for i := range reqs {
		reqs[i] = newReq(i)
		results = append(results, s.Admit(reqs[i], 0))
	}

	// THEN the first 3 take slots and the rest are dropped for capacity
	assert.Equal(t, []bool{true, true, true, false, false}, results)
	assert.Equal(t, 3, s.Active())
	assert.Equal(t, 2, s.Dropped())
	assert.Equal(t, StateProcessing, reqs[0].State)
	assert.Equal(t, StateDropped, reqs[4].State)
	assert.Equal(t, DropCapacity, reqs[4].DropReason)
}

func TestServer_Complete_MeasuresLoadBeforeRelease(t *testing.T) {
	// GIVEN a 4-slot server with 2 busy slots
	s := NewServer(4, nil)
	a, b := newReq(0), newReq(1)
	s.Admit(a, 0)
	s.Admit(b, 0)

	// WHEN the first completes
	load := s.Complete(a)

	// THEN load counts the completing request, and the slot is then free
	assert.Equal(t, 50.0, load)
	assert.Equal(t, 50.0, s.Load())
	assert.Equal(t, 1, s.Active())
	assert.Equal(t, StateCompleted, a.State)

	// WHEN the second completes
	assert.Equal(t, 25.0, s.Complete(b))
	assert.Equal(t, 0, s.Active())
}

func TestServer_Complete_NotProcessing_Panics(t *testing.T) {
	s := NewServer(1, nil)
	assert.Panics(t, func() { s.Complete(newReq(0)) })
}

func TestServer_RateLimitRejection_DoesNotTakeSlot(t *testing.T) {
	// GIVEN a server whose attack limiter allows 2 per window
	s := NewServer(10, NewRoleRateLimiter(MitigatedConfig().RateLimit))

	// WHEN one attack identity sends 4 requests
	for i := 0; i < 4; i++ {
		s.Admit(&Request{ID: fmt.Sprint(i), Kind: KindAttack, ClientID: "attack-9"}, int64(i))
	}

	// THEN two hold slots and two are dropped by the limiter
	assert.Equal(t, 2, s.Active())
	assert.Equal(t, 2, s.Dropped())
}

func TestServer_Grow_IncreasesCapacity(t *testing.T) {
	s := NewServer(10, nil)
	from, to := s.Grow(5)
	assert.Equal(t, 10, from)
	assert.Equal(t, 15, to)
	assert.Equal(t, 15, s.Capacity())
}

func TestLoadPercent_Clamped(t *testing.T) {
	assert.Equal(t, 0.0, loadPercent(0, 10))
	assert.Equal(t, 100.0, loadPercent(10, 10))
	assert.Equal(t, 100.0, loadPercent(12, 10))
	assert.Equal(t, 0.0, loadPercent(3, 0))
}

func TestNewServer_ZeroCapacity_Panics(t *testing.T) {
	assert.Panics(t, func() { NewServer(0, nil) })
}
