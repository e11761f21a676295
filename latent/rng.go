package latent

import "math/rand"

// defaultSeed replaces a zero Options.Seed.
const defaultSeed int64 = 1

// newRNG returns a deterministic source for seed (0 ⇒ defaultSeed).
func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// mixSeed derives an independent seed for stream from parent with the
// SplitMix64 finalizer, so restart k sees the same jitter whatever the
// number of restarts before it.
func mixSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// restartRNG returns the RNG of restart r. *rand.Rand is not goroutine-safe;
// each restart owns its own.
func restartRNG(seed int64, r int) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return newRNG(mixSeed(seed, uint64(r)))
}

// jitter scales w by a uniform factor in [1-p, 1+p].
func jitter(rng *rand.Rand, w, p float64) float64 {
	if p == 0 {
		return w
	}

	return w * (1 + p*(2*rng.Float64()-1))
}
