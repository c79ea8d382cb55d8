package randomadapter

import "math/rand/v2"

// Shuffler randomizes queue buckets with the process-wide generator, which
// is freshly seeded at startup and safe for concurrent use. No per-request
// generator state is kept, so every rebuild draws fresh entropy.
type Shuffler struct{}

func (Shuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}
