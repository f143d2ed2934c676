package tree

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// Error codes for authoring-load failures.
const (
	ErrCodeNotFound    = "NOT_FOUND"    // directory or file missing
	ErrCodeScanError   = "SCAN_ERROR"   // directory walk failed
	ErrCodeNoFiles     = "NO_FILES"     // no .cue files in directory
	ErrCodeMalformed   = "MALFORMED"    // CUE syntax/schema violation
	ErrCodeDuplicateID = "DUPLICATE_ID" // same id defined twice
	ErrCodeBadKind     = "BAD_KIND"     // unknown requires.kind
	ErrCodeBadCost     = "BAD_COST"     // negative cost
)

// LoadError is a positioned authoring-load failure.
//
// Unlike the wire codec, the authoring path reports problems instead of
// dropping them: every rejected document produces at least one LoadError.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLoadError reports whether err is (or wraps) a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
