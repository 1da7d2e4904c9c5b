package sim

import "math"

// TicksPerSecond is the resolution of the simulation clock.
const TicksPerSecond = int64(1_000_000)

// SecondsToTicks converts a duration in seconds to clock ticks, rounding to
// the nearest tick.
func SecondsToTicks(s float64) int64 {
	return int64(math.Round(s * float64(TicksPerSecond)))
}

// TicksToSeconds converts clock ticks to seconds.
func TicksToSeconds(t int64) float64 {
	return float64(t) / float64(TicksPerSecond)
}
