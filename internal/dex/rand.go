package dex

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Source is the randomness the engine consumes. Catch trials and shuffles
// take an explicit Source so gameplay stays reproducible under a seeded
// source in tests.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// NewSource returns a time-seeded gameplay source.
// Non-cryptographic PRNG is intentional: outcomes are game mechanics,
// not security decisions.
// #nosec G404
func NewSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededSource returns a deterministic source for a fixed seed.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed uint64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
