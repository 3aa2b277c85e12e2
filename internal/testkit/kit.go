package testkit

import (
	"math/rand"

	"hypersample/adapters/rng"
	"hypersample/domain/space"
	"hypersample/ports"
)

// DefaultSeed keeps fixtures reproducible
const DefaultSeed int64 = 42

// TestKit provides testing utilities and fixtures
type TestKit struct {
	seed int64
}

// NewTestKit creates a new test kit instance
func NewTestKit() *TestKit {
	return &TestKit{seed: DefaultSeed}
}

// NewTestKitWithSeed creates a test kit with a custom seed
func NewTestKitWithSeed(seed int64) *TestKit {
	return &TestKit{seed: seed}
}

// Seed returns the fixture seed
func (t *TestKit) Seed() int64 {
	return t.seed
}

// RNG returns a fresh deterministic generator
func (t *TestKit) RNG() *rand.Rand {
	return rand.New(rand.NewSource(t.seed))
}

// RNGAdapter returns an RNG adapter
func (t *TestKit) RNGAdapter() ports.RNGPort {
	return rng.NewSeededAdapter()
}

// LayerSpace has A in {2,3} and B in {0,1} repeated A times
func LayerSpace() *space.Space {
	return mustSpace([]space.ParameterSpec{
		{Name: "A", Candidates: space.Ints(2, 3), Enabled: true},
		{Name: "B", Candidates: space.Ints(0, 1), Enabled: true, DependsOn: space.DependsOn("A"), Repeat: true},
	})
}

// KernelSpace adds independent per-layer draws, an offset dependency, a
// flag and a discriminated table keyed by layers.
func KernelSpace() *space.Space {
	return mustSpace([]space.ParameterSpec{
		{Name: "layers", Candidates: space.Ints(1, 2, 3), Enabled: true},
		{Name: "dropout", Candidates: space.Floats(0.1, 0.3, 0.5), Enabled: true, DependsOn: space.DependsOn("layers")},
		{Name: "regs", Candidates: space.Floats(1e-4, 1e-5), Enabled: true, DependsOn: space.DependsOnPlus("layers", 1)},
		{Name: "batch_norm", Candidates: space.Bools(true, false), Enabled: true},
		{Name: "lr", Candidates: space.Floats(1e-2, 1e-3, 1e-4), Enabled: true},
		{Name: "momentum", Candidates: space.Floats(0.9), Enabled: false},
	},
		space.DiscriminatedTable{Name: "widths", Entries: map[space.Scalar][]space.Scalar{
			space.Int(1): space.Ints(8),
			space.Int(2): space.Ints(8, 4),
			space.Int(3): space.Ints(8, 4, 2),
		}},
	)
}

// CollapsedSpace declares two candidates that are the same value, so its
// capacity overstates the combinations it can realise.
func CollapsedSpace() *space.Space {
	return mustSpace([]space.ParameterSpec{
		{Name: "epochs", Candidates: space.Ints(10, 10, 20), Enabled: true},
	})
}

func mustSpace(params []space.ParameterSpec, tables ...space.DiscriminatedTable) *space.Space {
	s, err := space.NewSpace(params, tables...)
	if err != nil {
		panic(err)
	}
	return s
}
