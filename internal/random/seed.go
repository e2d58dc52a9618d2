// Package random draws seeds and derives reproducible permutations.
//
// Role assignment shuffles the seat list with a seed drawn here; keeping
// the seed alongside the game makes the deal auditable after the fact.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed draws 64 bits from the OS entropy source.
func NewSeed() (int64, error) {
	var raw [8]byte
	if _, err := crand.Read(raw[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(raw[:])), nil
}

// Shuffle permutes items in place using a PRNG seeded with seed. The
// same seed always produces the same permutation, which keeps seeded
// setups reproducible.
func Shuffle[T any](seed int64, items []T) {
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
