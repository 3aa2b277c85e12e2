package space

import (
	"fmt"
	"math"
	"strings"

	"hypersample/domain/core"
)

// ParameterSpec declares one axis of the search space
type ParameterSpec struct {
	Name       string
	Candidates []Scalar
	Enabled    bool
	// DependsOn, when set, makes the parameter resolve to a tuple whose
	// length is the referenced parameter's value plus the offset.
	DependsOn *DependencyExpr
	// Repeat draws one value and repeats it across the tuple.
	Repeat bool
}

// IsIndependent reports whether the parameter is drawn without a dependency
func (p ParameterSpec) IsIndependent() bool {
	return p.DependsOn == nil
}

func (p ParameterSpec) clone() ParameterSpec {
	c := p
	c.Candidates = append([]Scalar(nil), p.Candidates...)
	if p.DependsOn != nil {
		dep := *p.DependsOn
		c.DependsOn = &dep
	}
	return c
}

// DiscriminatedTable maps a discriminator parameter's resolved value to a
// fixed tuple stored under Name.
type DiscriminatedTable struct {
	Name    string
	Entries map[Scalar][]Scalar
}

// Lookup returns a copy of the tuple for key
func (t DiscriminatedTable) Lookup(key Scalar) ([]Scalar, bool) {
	tuple, ok := t.Entries[key]
	if !ok {
		return nil, false
	}
	return append([]Scalar(nil), tuple...), true
}

func (t DiscriminatedTable) clone() DiscriminatedTable {
	entries := make(map[Scalar][]Scalar, len(t.Entries))
	for k, v := range t.Entries {
		entries[k] = append([]Scalar(nil), v...)
	}
	return DiscriminatedTable{Name: t.Name, Entries: entries}
}

// Space is an immutable, ordered parameter-space declaration.
// Accessors return copies; a Space may be shared freely.
type Space struct {
	params []ParameterSpec
	tables []DiscriminatedTable
	index  map[string]int
}

// NewSpace validates and deep-copies the declaration
func NewSpace(params []ParameterSpec, tables ...DiscriminatedTable) (*Space, error) {
	s := &Space{
		params: make([]ParameterSpec, 0, len(params)),
		tables: make([]DiscriminatedTable, 0, len(tables)),
		index:  make(map[string]int, len(params)),
	}

	for _, p := range params {
		if strings.TrimSpace(p.Name) == "" {
			return nil, core.NewDeclarationError("<empty>", core.ErrInvalidDeclaration)
		}
		if _, dup := s.index[p.Name]; dup {
			return nil, core.NewDeclarationError(p.Name, core.ErrDuplicateParameter)
		}
		if p.Enabled && len(p.Candidates) == 0 {
			return nil, core.NewDeclarationError(p.Name, core.ErrNoCandidates)
		}
		for _, c := range p.Candidates {
			if c.Kind() != p.Candidates[0].Kind() {
				return nil, core.NewDeclarationError(p.Name, core.ErrMixedKinds)
			}
		}
		s.index[p.Name] = len(s.params)
		s.params = append(s.params, p.clone())
	}

	seen := make(map[string]bool, len(tables))
	for _, t := range tables {
		if strings.TrimSpace(t.Name) == "" {
			return nil, core.NewDeclarationError("<empty table>", core.ErrInvalidDeclaration)
		}
		if seen[t.Name] {
			return nil, core.NewDeclarationError(t.Name, core.ErrDuplicateParameter)
		}
		seen[t.Name] = true
		s.tables = append(s.tables, t.clone())
	}

	return s, nil
}

// Parameters returns every declared parameter in declaration order
func (s *Space) Parameters() []ParameterSpec {
	out := make([]ParameterSpec, len(s.params))
	for i, p := range s.params {
		out[i] = p.clone()
	}
	return out
}

// Enabled returns the enabled parameters in declaration order
func (s *Space) Enabled() []ParameterSpec {
	out := make([]ParameterSpec, 0, len(s.params))
	for _, p := range s.params {
		if p.Enabled {
			out = append(out, p.clone())
		}
	}
	return out
}

// Parameter looks up a declared parameter by name
func (s *Space) Parameter(name string) (ParameterSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return ParameterSpec{}, false
	}
	return s.params[i].clone(), true
}

// Tables returns the discriminated tables in declaration order
func (s *Space) Tables() []DiscriminatedTable {
	out := make([]DiscriminatedTable, len(s.tables))
	for i, t := range s.tables {
		out[i] = t.clone()
	}
	return out
}

// Capacity is the number of distinct combinations of the enabled,
// dependency-free parameters. It saturates at math.MaxInt.
func (s *Space) Capacity() int {
	capacity := 1
	for _, p := range s.params {
		if !p.Enabled || !p.IsIndependent() {
			continue
		}
		n := len(p.Candidates)
		if n == 0 {
			return 0
		}
		if capacity > math.MaxInt/n {
			return math.MaxInt
		}
		capacity *= n
	}
	return capacity
}

// CapacityBreakdown lists the factors of Capacity, e.g. "conv_layer_n=2 x batch_size=4".
func (s *Space) CapacityBreakdown() string {
	var factors []string
	for _, p := range s.params {
		if !p.Enabled || !p.IsIndependent() {
			continue
		}
		factors = append(factors, fmt.Sprintf("%s=%d", p.Name, len(p.Candidates)))
	}
	return strings.Join(factors, " x ")
}
