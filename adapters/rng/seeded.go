// Package rng implements ports.RNGPort with math/rand sources.
package rng

import (
	"context"
	"math/rand"
	"time"
)

// SeededAdapter implements ports.RNGPort
type SeededAdapter struct {
	now func() time.Time
}

// NewSeededAdapter creates an adapter that falls back to the wall clock for zero seeds
func NewSeededAdapter() *SeededAdapter {
	return &SeededAdapter{now: time.Now}
}

// Stream derives a stream by mixing name into the base seed.
// A zero base seed is replaced by the wall clock before mixing.
func (a *SeededAdapter) Stream(ctx context.Context, name string, baseSeed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seed := baseSeed
	if seed == 0 {
		seed = a.now().UnixNano()
	}
	if name != "" {
		seed = int64(hashString(name)) + seed
	}
	return rand.New(rand.NewSource(seed)), nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}
