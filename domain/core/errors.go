package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Sampling errors
	ErrCapacityExceeded    = errors.New("requested samples exceed distinct combinations")
	ErrUnsatisfiable       = errors.New("sampling attempts exhausted")
	ErrMalformedDependency = errors.New("malformed dependency")
	ErrInvalidTargetCount  = errors.New("target count must be positive")

	// Declaration errors
	ErrInvalidDeclaration = errors.New("invalid parameter declaration")
	ErrDuplicateParameter = fmt.Errorf("%w: duplicate parameter", ErrInvalidDeclaration)
	ErrNoCandidates       = fmt.Errorf("%w: no candidate values", ErrInvalidDeclaration)
	ErrMixedKinds         = fmt.Errorf("%w: mixed value kinds", ErrInvalidDeclaration)
)

// Error constructors with context
func NewCapacityError(requested, available int, breakdown string) error {
	if breakdown == "" {
		return fmt.Errorf("%w: requested %d, available %d", ErrCapacityExceeded, requested, available)
	}
	return fmt.Errorf("%w: requested %d, available %d (%s)", ErrCapacityExceeded, requested, available, breakdown)
}

func NewUnsatisfiableError(attempts, collected, target int) error {
	return fmt.Errorf("%w: %d consecutive duplicate draws after collecting %d of %d samples",
		ErrUnsatisfiable, attempts, collected, target)
}

func NewMalformedDependencyError(param string, reason string) error {
	return fmt.Errorf("%w for parameter %s: %s", ErrMalformedDependency, param, reason)
}

func NewDeclarationError(param string, reason error) error {
	return fmt.Errorf("%w: %s", reason, param)
}

// IsDeclarationError reports whether err came from validating a space declaration
func IsDeclarationError(err error) bool {
	return errors.Is(err, ErrInvalidDeclaration)
}
