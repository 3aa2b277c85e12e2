package sample

import "hypersample/domain/core"

// Set records the fingerprints of samples already emitted in one request.
// It is not safe for concurrent use; each request owns its own Set.
type Set struct {
	seen map[core.Hash]struct{}
}

// NewSet creates an empty set
func NewSet() *Set {
	return &Set{seen: make(map[core.Hash]struct{})}
}

// Add records s and reports whether it was new
func (set *Set) Add(s *Sample) bool {
	fp := s.Fingerprint()
	if _, dup := set.seen[fp]; dup {
		return false
	}
	set.seen[fp] = struct{}{}
	return true
}

// Len returns the number of recorded samples
func (set *Set) Len() int { return len(set.seen) }
