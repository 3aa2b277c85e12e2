package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for sampling runs
type RNGPort interface {
	// Stream derives an independent stream for one named operation, so
	// repeated runs with the same base seed draw identical samples.
	// A zero base seed requests a non-reproducible stream.
	Stream(ctx context.Context, name string, baseSeed int64) (*rand.Rand, error)
}
