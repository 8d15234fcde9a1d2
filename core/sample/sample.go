// Package sample picks fixed-size random subsets of candidate collections.
package sample

import (
	"math/rand/v2"
	"slices"
)

// NewRand returns a PCG-backed generator. A zero seed draws a fresh seed from
// the runtime source, so runs are only reproducible with an explicit seed.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ChooseK returns min(k, len(items)) items chosen uniformly without
// replacement, in the order they were drawn. items is not modified.
func ChooseK[T any](r *rand.Rand, items []T, k int) []T {
	n := len(items)
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	pool := slices.Clone(items)
	// Partial Fisher-Yates: the first k slots end up a uniform k-subset.
	for i := 0; i < k; i++ {
		j := i + r.IntN(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k:k]
}
