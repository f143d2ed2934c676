package tech

import (
	"errors"
	"fmt"
)

// DependencyError reports a refused removal: the technology being removed is
// still listed as a prerequisite by another registered technology.
//
// This is a recoverable condition, not a crash. Callers that want to force
// removal must first remove or rewrite the dependent technology; the Registry
// never cascades.
type DependencyError struct {
	// ID is the technology whose removal was refused.
	ID string

	// DependentID is a technology that still lists ID as a prerequisite.
	// When several dependents exist, the lowest id is reported.
	DependentID string
}

// Error implements the error interface.
func (e *DependencyError) Error() string {
	return fmt.Sprintf("technology %s is a prerequisite for %s", e.ID, e.DependentID)
}

// IsDependencyError reports whether err is (or wraps) a DependencyError.
func IsDependencyError(err error) bool {
	var de *DependencyError
	return errors.As(err, &de)
}
