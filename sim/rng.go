package sim

import "math/rand"

// SimulationKey uniquely identifies a reproducible simulation run.
// Two ports configured with the same SimulationKey and identical configuration,
// driven by the same sequence of calls, MUST produce identical snapshots.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// JitterSource draws bounded integer offsets for arrival times and unload
// durations. It is seeded once, when the port is configured, and is never
// reseeded by Reset: consecutive resets continue the same stream.
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine.
type JitterSource struct {
	rng *rand.Rand
}

// NewJitterSource creates a JitterSource seeded from key.
func NewJitterSource(key SimulationKey) *JitterSource {
	return &JitterSource{rng: rand.New(rand.NewSource(int64(key)))}
}

// Jitter returns a value drawn uniformly from [min(low,high), max(low,high)].
// A degenerate range returns its single value without consuming a draw.
func (j *JitterSource) Jitter(low, high int64) int64 {
	if low > high {
		low, high = high, low
	}
	if low == high {
		return low
	}
	return low + j.rng.Int63n(high-low+1)
}
