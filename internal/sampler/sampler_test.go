package sampler

import (
	"bytes"
	"errors"
	"testing"

	"hypersample/domain/core"
	"hypersample/domain/sample"
	"hypersample/domain/space"
	"hypersample/internal"
	"hypersample/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSampler() *Sampler {
	s := NewSampler(testkit.NewTestKit().RNG())
	s.SetLogger(internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelError))
	return s
}

func intOf(t *testing.T, v space.Value) int {
	t.Helper()
	sc, ok := v.Scalar()
	require.True(t, ok, "expected scalar, got %s", v)
	n, ok := sc.AsInt()
	require.True(t, ok, "expected integer, got %s", sc)
	return int(n)
}

func TestSampleReturnsUniqueSamples(t *testing.T) {
	sp := testkit.KernelSpace()
	require.Equal(t, 18, sp.Capacity())

	results, err := newTestSampler().Sample(sp, sp.Capacity(), "layers")
	require.NoError(t, err)
	require.Len(t, results, 18)

	seen := make(map[string]bool)
	for _, s := range results {
		key := s.Canonical()
		assert.False(t, seen[key], "duplicate sample %s", s)
		seen[key] = true
	}
}

func TestSampleCapacityExceeded(t *testing.T) {
	// Scenario: A in {2,3}, B repeats across A; only A counts toward capacity
	sp := testkit.LayerSpace()

	results, err := newTestSampler().Sample(sp, 100, "")
	assert.Nil(t, results)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrCapacityExceeded))
	assert.Contains(t, err.Error(), "requested 100")
	assert.Contains(t, err.Error(), "available 2")
	assert.Contains(t, err.Error(), "A=2")
}

func TestSampleInvalidTarget(t *testing.T) {
	_, err := newTestSampler().Sample(testkit.LayerSpace(), 0, "")
	assert.ErrorIs(t, err, core.ErrInvalidTargetCount)
}

func TestRepeatDependencyConsistency(t *testing.T) {
	sp := testkit.LayerSpace()
	s := newTestSampler()

	for i := 0; i < 100; i++ {
		drawn, err := s.draw(sp.Enabled(), sp.Tables(), "")
		require.NoError(t, err)

		a, ok := drawn.Get("A")
		require.True(t, ok)
		b, ok := drawn.Get("B")
		require.True(t, ok)

		require.True(t, b.IsTuple())
		tuple := b.Tuple()
		assert.Len(t, tuple, intOf(t, a))
		for _, el := range tuple {
			assert.Equal(t, tuple[0], el, "repeat tuple must be constant: %s", b)
		}
	}
}

func TestIndependentDependencyDrawsVary(t *testing.T) {
	sp := testkit.KernelSpace()
	s := newTestSampler()

	varied := false
	for i := 0; i < 200; i++ {
		drawn, err := s.draw(sp.Enabled(), sp.Tables(), "layers")
		require.NoError(t, err)

		layers := intOf(t, mustGet(t, drawn, "layers"))
		dropout := mustGet(t, drawn, "dropout")
		regs := mustGet(t, drawn, "regs")

		assert.Equal(t, layers, dropout.Len())
		assert.Equal(t, layers+1, regs.Len())

		tuple := dropout.Tuple()
		for _, el := range tuple[1:] {
			if el != tuple[0] {
				varied = true
			}
		}
	}
	assert.True(t, varied, "non-repeat tuples should draw elements independently")
}

func TestDiscriminatorDeterminism(t *testing.T) {
	sp := testkit.KernelSpace()
	results, err := newTestSampler().Sample(sp, sp.Capacity(), "layers")
	require.NoError(t, err)

	byLayers := make(map[int]space.Value)
	for _, s := range results {
		layers := intOf(t, mustGet(t, s, "layers"))
		widths := mustGet(t, s, "widths")
		if prev, ok := byLayers[layers]; ok {
			assert.True(t, prev.Equal(widths), "layers=%d gave %s and %s", layers, prev, widths)
		}
		byLayers[layers] = widths
		assert.Equal(t, layers, widths.Len())
	}
	assert.Len(t, byLayers, 3)
}

func TestBooleanFlagEncoding(t *testing.T) {
	sp := testkit.KernelSpace()
	results, err := newTestSampler().Sample(sp, sp.Capacity(), "layers")
	require.NoError(t, err)

	present, absent := 0, 0
	for _, s := range results {
		v, ok := s.Get("batch_norm")
		if !ok {
			absent++
			continue
		}
		present++
		sc, _ := v.Scalar()
		b, isBool := sc.AsBool()
		assert.True(t, isBool)
		assert.True(t, b, "false flags must be omitted")
	}
	// Dependent tuples make the realizable space larger than the capacity,
	// so only require that both flag states occur
	assert.Greater(t, present, 0)
	assert.Greater(t, absent, 0)
	assert.Equal(t, len(results), present+absent)
}

func TestDisabledParametersExcluded(t *testing.T) {
	results, err := newTestSampler().Sample(testkit.KernelSpace(), 5, "layers")
	require.NoError(t, err)
	for _, s := range results {
		assert.False(t, s.Has("momentum"))
	}
}

func TestDefaultSpaceOrder(t *testing.T) {
	sp := space.Default()
	results, err := newTestSampler().Sample(sp, sp.Capacity(), space.DefaultDiscriminator)
	require.NoError(t, err)
	require.Len(t, results, 8)

	for _, s := range results {
		assert.Equal(t, []string{
			"conv_layer_n", "fold", "dr", "batch_size", "ebd_dm",
			"ks", "nkerns", "filter_widths", "l2_regs",
		}, s.Keys())

		layers := intOf(t, mustGet(t, s, "conv_layer_n"))
		assert.Equal(t, layers, mustGet(t, s, "ks").Len())
		assert.Equal(t, layers+2, mustGet(t, s, "l2_regs").Len())
	}
}

func TestUnsatisfiableWhenSpaceCollapses(t *testing.T) {
	s := newTestSampler()
	s.SetMaxAttempts(50)

	// Capacity 3, but only two distinct values exist
	_, err := s.Sample(testkit.CollapsedSpace(), 3, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnsatisfiable)
	assert.Contains(t, err.Error(), "50 consecutive duplicate draws")
	assert.Contains(t, err.Error(), "collecting 2 of 3")
}

func TestSetMaxAttemptsDefault(t *testing.T) {
	s := newTestSampler()
	s.SetMaxAttempts(0)
	assert.Equal(t, DefaultMaxAttempts, s.MaxAttempts())
	s.SetMaxAttempts(7)
	assert.Equal(t, 7, s.MaxAttempts())
}

func TestMalformedDependencies(t *testing.T) {
	tests := []struct {
		name          string
		params        []space.ParameterSpec
		tables        []space.DiscriminatedTable
		discriminator string
	}{
		{
			name: "unknown reference",
			params: []space.ParameterSpec{
				{Name: "a", Candidates: space.Ints(1), Enabled: true, DependsOn: space.DependsOn("missing")},
			},
		},
		{
			name: "disabled reference",
			params: []space.ParameterSpec{
				{Name: "layers", Candidates: space.Ints(2), Enabled: false},
				{Name: "a", Candidates: space.Ints(1), Enabled: true, DependsOn: space.DependsOn("layers")},
			},
		},
		{
			name: "reference declared later",
			params: []space.ParameterSpec{
				{Name: "a", Candidates: space.Ints(1), Enabled: true, DependsOn: space.DependsOn("layers")},
				{Name: "layers", Candidates: space.Ints(2), Enabled: true},
			},
		},
		{
			name: "non-positive count",
			params: []space.ParameterSpec{
				{Name: "layers", Candidates: space.Ints(2), Enabled: true},
				{Name: "a", Candidates: space.Ints(1), Enabled: true, DependsOn: space.DependsOnPlus("layers", -2)},
			},
		},
		{
			name: "float count",
			params: []space.ParameterSpec{
				{Name: "rate", Candidates: space.Floats(0.5), Enabled: true},
				{Name: "a", Candidates: space.Ints(1), Enabled: true, DependsOn: space.DependsOn("rate")},
			},
		},
		{
			name: "discriminator value without table entry",
			params: []space.ParameterSpec{
				{Name: "layers", Candidates: space.Ints(4), Enabled: true},
			},
			tables: []space.DiscriminatedTable{
				{Name: "ks", Entries: map[space.Scalar][]space.Scalar{space.Int(2): space.Ints(3, 3)}},
			},
			discriminator: "layers",
		},
		{
			name: "unknown discriminator",
			params: []space.ParameterSpec{
				{Name: "layers", Candidates: space.Ints(2), Enabled: true},
			},
			tables: []space.DiscriminatedTable{
				{Name: "ks", Entries: map[space.Scalar][]space.Scalar{space.Int(2): space.Ints(3, 3)}},
			},
			discriminator: "depth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, err := space.NewSpace(tt.params, tt.tables...)
			require.NoError(t, err)

			_, err = newTestSampler().Sample(sp, 1, tt.discriminator)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrMalformedDependency)
		})
	}
}

func TestSameSeedSameSamples(t *testing.T) {
	sp := testkit.KernelSpace()
	kit := testkit.NewTestKitWithSeed(7)

	first, err := NewSampler(kit.RNG()).Sample(sp, 10, "layers")
	require.NoError(t, err)
	second, err := NewSampler(kit.RNG()).Sample(sp, 10, "layers")
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].Canonical(), second[i].Canonical())
	}
}

func mustGet(t *testing.T, s *sample.Sample, key string) space.Value {
	t.Helper()
	v, ok := s.Get(key)
	require.True(t, ok, "missing %s in %s", key, s)
	return v
}
