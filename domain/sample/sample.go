// Package sample holds resolved hyperparameter assignments and the
// per-request set used to reject duplicates.
package sample

import (
	"strings"

	"hypersample/domain/core"
	"hypersample/domain/space"
)

// Entry is one resolved key/value pair
type Entry struct {
	Key   string
	Value space.Value
}

// Sample is an ordered mapping from parameter name to resolved value.
// A false boolean is never stored; presence of a boolean key means "true".
type Sample struct {
	entries []Entry
	index   map[string]int
}

// New creates an empty sample
func New() *Sample {
	return &Sample{index: make(map[string]int)}
}

// Set stores v under key. An existing key keeps its position.
func (s *Sample) Set(key string, v space.Value) {
	if i, ok := s.index[key]; ok {
		s.entries[i].Value = v
		return
	}
	s.index[key] = len(s.entries)
	s.entries = append(s.entries, Entry{Key: key, Value: v})
}

// Get returns the value stored under key
func (s *Sample) Get(key string) (space.Value, bool) {
	i, ok := s.index[key]
	if !ok {
		return space.Value{}, false
	}
	return s.entries[i].Value, true
}

// Has reports whether key is present
func (s *Sample) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Len returns the number of stored keys
func (s *Sample) Len() int { return len(s.entries) }

// Keys returns the stored keys in insertion order
func (s *Sample) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the stored entries in insertion order
func (s *Sample) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Canonical encodes keys and values in order; equal samples encode equally
func (s *Sample) Canonical() string {
	var b strings.Builder
	for i, e := range s.entries {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(e.Key)
		b.WriteByte('=')
		b.WriteString(e.Value.Canonical())
	}
	return b.String()
}

// Fingerprint hashes the canonical encoding
func (s *Sample) Fingerprint() core.Hash {
	return core.NewHash([]byte(s.Canonical()))
}

// String renders the sample for logs
func (s *Sample) String() string {
	parts := make([]string, len(s.entries))
	for i, e := range s.entries {
		parts[i] = e.Key + "=" + e.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
