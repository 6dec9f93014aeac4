package rand

import (
	"time"

	"github.com/MichaelTJones/pcg"
)

// Rand is a small seedable random source. Simulations that are given a
// fixed seed replay the same traffic.
type Rand struct {
	r *pcg.PCG32
}

func New(seed int64) *Rand {
	r := &Rand{r: pcg.NewPCG32()}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r.Seed(seed)
	return r
}

func (r *Rand) Seed(s int64) {
	r.r.Seed(uint64(s), 0xda3e39cb94b95bdb)
}

// Intn returns a value in [0, n). n must be positive.
func (r *Rand) Intn(n int) int {
	return int(r.r.Bounded(uint32(n)))
}

// IntRange returns a value in [lo, hi).
func (r *Rand) IntRange(lo, hi int) int {
	return lo + r.Intn(hi-lo)
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.r.Random()) / (1 << 32)
}

// Range returns a value in [lo, hi).
func (r *Rand) Range(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Chance reports true with probability p.
func (r *Rand) Chance(p float64) bool {
	return r.Float64() < p
}

func Sample[T any](r *Rand, slice []T) T {
	return slice[r.Intn(len(slice))]
}
