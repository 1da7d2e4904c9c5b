package sim

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrafficGenerator_Emit_IdentityFromPool(t *testing.T) {
	// GIVEN an attacker drawing identities from a pool of 3
	tc := DefaultConfig().Attack.TrafficConfig
	tc.ClientPool = 3
	g := NewTrafficGenerator(KindAttack, 0, tc, rand.New(rand.NewSource(1)))

	// WHEN it emits many requests
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		req := g.Emit("r", int64(i))
		assert.Equal(t, KindAttack, req.Kind)
		assert.Equal(t, StatePending, req.State)
		assert.True(t, strings.HasPrefix(req.ClientID, "attack-"))
		seen[req.ClientID] = true
	}

	// THEN every identity comes from the pool
	assert.Len(t, seen, 3)
	assert.Equal(t, 200, g.Emitted())
}

func TestTrafficGenerator_NextArrival_AlwaysAdvances(t *testing.T) {
	g := NewTrafficGenerator(KindNormal, 0, DefaultConfig().Normal, rand.New(rand.NewSource(1)))
	now := int64(0)
	for i := 0; i < 1000; i++ {
		next := g.NextArrival(now)
		assert.Greater(t, next, now)
		now = next
	}
	// 1000 gaps with a 2 s mean land near 2000 s.
	assert.InDelta(t, 2000.0, TicksToSeconds(now), 200)
}
