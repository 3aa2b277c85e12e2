// Package sampler draws unique, dependency-consistent hyperparameter
// combinations from a declared space by rejection sampling.
package sampler

import (
	"math/rand"
	"time"

	"hypersample/domain/core"
	"hypersample/domain/sample"
	"hypersample/domain/space"
	"hypersample/internal"
)

// DefaultMaxAttempts bounds consecutive duplicate draws per sample
const DefaultMaxAttempts = 100000

// Sampler draws samples with a caller-owned RNG.
// A Sampler is not safe for concurrent use.
type Sampler struct {
	rng         *rand.Rand
	maxAttempts int
	logger      *internal.Logger
}

// NewSampler creates a sampler. A nil rng is replaced by a time-seeded one.
func NewSampler(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{
		rng:         rng,
		maxAttempts: DefaultMaxAttempts,
		logger:      internal.DefaultLogger,
	}
}

// SetMaxAttempts sets the consecutive-duplicate bound; values below 1 restore the default
func (s *Sampler) SetMaxAttempts(n int) {
	if n < 1 {
		n = DefaultMaxAttempts
	}
	s.maxAttempts = n
}

// MaxAttempts returns the consecutive-duplicate bound
func (s *Sampler) MaxAttempts() int {
	return s.maxAttempts
}

// SetLogger replaces the logger
func (s *Sampler) SetLogger(logger *internal.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Sample returns target unique samples from sp. The discriminator names the
// parameter whose resolved value keys every discriminated table.
func (s *Sampler) Sample(sp *space.Space, target int, discriminator string) ([]*sample.Sample, error) {
	if target < 1 {
		return nil, core.ErrInvalidTargetCount
	}

	capacity := sp.Capacity()
	if target > capacity {
		return nil, core.NewCapacityError(target, capacity, sp.CapacityBreakdown())
	}

	params := sp.Enabled()
	tables := sp.Tables()

	seen := sample.NewSet()
	results := make([]*sample.Sample, 0, target)
	duplicates := 0

	for len(results) < target {
		drawn, err := s.draw(params, tables, discriminator)
		if err != nil {
			return nil, err
		}

		if !seen.Add(drawn) {
			duplicates++
			s.logger.Trace("duplicate draw %s (%d consecutive)", drawn, duplicates)
			if duplicates >= s.maxAttempts {
				return nil, core.NewUnsatisfiableError(duplicates, seen.Len(), target)
			}
			continue
		}

		duplicates = 0
		results = append(results, drawn)
		s.logger.Debug("sample %d/%d: %s", seen.Len(), target, drawn)
	}

	return results, nil
}

func (s *Sampler) draw(params []space.ParameterSpec, tables []space.DiscriminatedTable, discriminator string) (*sample.Sample, error) {
	drawn := sample.New()
	// Resolved values by name, including false booleans that the sample omits
	resolved := make(map[string]space.Value, len(params))

	for _, p := range params {
		if p.IsIndependent() {
			v := s.pick(p.Candidates)
			resolved[p.Name] = space.ScalarValue(v)
			if b, ok := v.AsBool(); ok && !b {
				continue
			}
			drawn.Set(p.Name, space.ScalarValue(v))
			continue
		}

		count, err := resolveCount(p, resolved)
		if err != nil {
			return nil, err
		}

		tuple := make([]space.Scalar, count)
		if p.Repeat {
			v := s.pick(p.Candidates)
			for i := range tuple {
				tuple[i] = v
			}
		} else {
			for i := range tuple {
				tuple[i] = s.pick(p.Candidates)
			}
		}
		value := space.TupleValue(tuple...)
		resolved[p.Name] = value
		drawn.Set(p.Name, value)
	}

	if len(tables) == 0 {
		return drawn, nil
	}

	key, err := discriminatorKey(discriminator, resolved)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		tuple, ok := t.Lookup(key)
		if !ok {
			return nil, core.NewMalformedDependencyError(t.Name, "no entry for "+discriminator+"="+key.String())
		}
		drawn.Set(t.Name, space.TupleValue(tuple...))
	}

	return drawn, nil
}

func (s *Sampler) pick(candidates []space.Scalar) space.Scalar {
	return candidates[s.rng.Intn(len(candidates))]
}

func resolveCount(p space.ParameterSpec, resolved map[string]space.Value) (int, error) {
	ref, ok := resolved[p.DependsOn.Ref]
	if !ok {
		return 0, core.NewMalformedDependencyError(p.Name,
			"references "+p.DependsOn.Ref+", which is unknown, disabled or declared later")
	}
	count, err := p.DependsOn.Count(ref)
	if err != nil {
		return 0, core.NewMalformedDependencyError(p.Name, err.Error())
	}
	return count, nil
}

func discriminatorKey(name string, resolved map[string]space.Value) (space.Scalar, error) {
	v, ok := resolved[name]
	if !ok {
		return space.Scalar{}, core.NewMalformedDependencyError(name, "discriminator is unknown or disabled")
	}
	key, ok := v.Scalar()
	if !ok {
		return space.Scalar{}, core.NewMalformedDependencyError(name, "discriminator resolved to a tuple")
	}
	return key, nil
}
