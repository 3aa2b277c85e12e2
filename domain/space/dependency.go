package space

import (
	"fmt"
	"strconv"
	"strings"
)

// DependencyExpr ties a parameter's tuple length to another parameter's
// resolved integer value, optionally shifted by Offset.
type DependencyExpr struct {
	Ref    string
	Offset int
}

// DependsOn references another parameter's count directly
func DependsOn(ref string) *DependencyExpr {
	return &DependencyExpr{Ref: ref}
}

// DependsOnPlus references another parameter's count shifted by offset
func DependsOnPlus(ref string, offset int) *DependencyExpr {
	return &DependencyExpr{Ref: ref, Offset: offset}
}

// ParseDependency parses the declaration-file form "name" or "name+k".
func ParseDependency(expr string) (*DependencyExpr, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty dependency expression")
	}

	name, offsetStr, hasOffset := strings.Cut(expr, "+")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("dependency %q has no parameter name", expr)
	}
	if !hasOffset {
		return DependsOn(name), nil
	}

	offset, err := strconv.Atoi(strings.TrimSpace(offsetStr))
	if err != nil {
		return nil, fmt.Errorf("dependency %q has invalid offset: %w", expr, err)
	}
	return DependsOnPlus(name, offset), nil
}

// Count resolves the repeat count against the referenced parameter's value.
// The referenced value must be an integer scalar.
func (d DependencyExpr) Count(ref Value) (int, error) {
	s, ok := ref.Scalar()
	if !ok {
		return 0, fmt.Errorf("%s resolved to a tuple, not a count", d.Ref)
	}
	n, ok := s.AsInt()
	if !ok {
		return 0, fmt.Errorf("%s resolved to %s value %s, not an integer count", d.Ref, s.Kind(), s)
	}
	count := int(n) + d.Offset
	if count <= 0 {
		return 0, fmt.Errorf("count %s resolved to %d", d, count)
	}
	return count, nil
}

func (d DependencyExpr) String() string {
	if d.Offset == 0 {
		return d.Ref
	}
	return fmt.Sprintf("%s+%d", d.Ref, d.Offset)
}
