package systems

import "math/rand/v2"

// RNG is the random source threaded through agent updates and world setup.
// *rand.Rand satisfies it.
type RNG interface {
	Float64() float64
	IntN(n int) int
}

// Uniform returns a value in [lo, hi).
func Uniform(r RNG, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// IntRange returns an integer in [lo, hi].
func IntRange(r RNG, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// AgentRNG hands out per-agent random streams keyed on (seed, tick, id).
// The same key always yields the same stream, so the order in which agents
// are updated does not change what they draw.
type AgentRNG struct {
	pcg rand.PCG
	rng *rand.Rand
}

// NewAgentRNG creates a reusable stream source. Not safe for concurrent use;
// give each worker its own.
func NewAgentRNG() *AgentRNG {
	a := &AgentRNG{}
	a.rng = rand.New(&a.pcg)
	return a
}

// For reseeds the stream for one agent update and returns it.
func (a *AgentRNG) For(seed, tick uint64, id uint32) *rand.Rand {
	a.pcg.Seed(mix64(seed^mix64(tick)), mix64(uint64(id)+0x9e3779b97f4a7c15))
	return a.rng
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
