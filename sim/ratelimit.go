package sim

// SlidingWindowLimiter admits at most limit requests per client identity in
// any trailing window of ticks. It keeps the admitted timestamps per identity
// in arrival order.
//
// Thread-safety: NOT thread-safe. Must be called from the simulation goroutine.
type SlidingWindowLimiter struct {
	limit   int
	window  int64
	clients map[string][]int64
}

// NewSlidingWindowLimiter creates a limiter. Panics if limit < 1 or window < 1;
// Config.Validate rejects those values before a simulator is built.
func NewSlidingWindowLimiter(limit int, window int64) *SlidingWindowLimiter {
	if limit < 1 || window < 1 {
		panic("NewSlidingWindowLimiter: limit and window must be positive")
	}
	return &SlidingWindowLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string][]int64),
	}
}

// Allow purges entries for clientID at or before now-window, then admits and
// records now if fewer than limit entries remain.
func (l *SlidingWindowLimiter) Allow(clientID string, now int64) bool {
	stamps := l.purge(clientID, now)
	if len(stamps) < l.limit {
		l.clients[clientID] = append(stamps, now)
		return true
	}
	return false
}

// Count returns how many admissions of clientID fall inside the window ending at now.
func (l *SlidingWindowLimiter) Count(clientID string, now int64) int {
	return len(l.purge(clientID, now))
}

// Prune drops every identity whose window has emptied. It returns the number
// of identities still tracked.
func (l *SlidingWindowLimiter) Prune(now int64) int {
	for id := range l.clients {
		l.purge(id, now)
	}
	return len(l.clients)
}

// Limit returns the per-window admission limit.
func (l *SlidingWindowLimiter) Limit() int {
	return l.limit
}

// purge removes stale timestamps for clientID and returns what is left.
// Timestamps are appended in clock order, so the stale ones form a prefix.
func (l *SlidingWindowLimiter) purge(clientID string, now int64) []int64 {
	stamps, ok := l.clients[clientID]
	if !ok {
		return nil
	}
	cutoff := now - l.window
	i := 0
	for i < len(stamps) && stamps[i] <= cutoff {
		i++
	}
	if i == len(stamps) {
		delete(l.clients, clientID)
		return nil
	}
	if i > 0 {
		stamps = append(stamps[:0], stamps[i:]...)
		l.clients[clientID] = stamps
	}
	return stamps
}
