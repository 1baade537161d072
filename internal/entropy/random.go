// Package entropy supplies the random source threaded through map
// generation. A zero seed draws a fresh seed from crypto/rand; every other
// seed is reproducible.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// New returns a seeded generator. Seed 0 means "pick one".
func New(seed int64) *mrand.Rand {
	if seed == 0 {
		seed = CryptoSeed()
	}
	return mrand.New(mrand.NewSource(seed))
}

// CryptoSeed returns a non-zero seed from crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; fall back to the global source.
		return mrand.Int63() | 1
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Shuffle permutes items in place.
func Shuffle[T any](rng *mrand.Rand, items []T) {
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
