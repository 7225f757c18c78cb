package outcome

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// NewRNG returns a PCG based generator. A seed of 0 seeds from the current
// time, any other value yields a reproducible sequence.
func NewRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// #nosec G404 -- not security relevant
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%d:%s", seed, salt)
	return h.Sum64()
}
