package domain

import (
	"errors"
	"fmt"
)

// ErrArtifactNotFound is returned when an artifact key cannot be found in the store.
var ErrArtifactNotFound = errors.New("artifact not found")

// ConfigurationShapeError reports parallel arrays whose lengths do not line up.
// It is raised before any geometry is built.
type ConfigurationShapeError struct {
	Field  string
	Want   int
	Got    int
	Reason string
}

func (e *ConfigurationShapeError) Error() string {
	msg := fmt.Sprintf("configuration shape: %s has %d entries, want %d", e.Field, e.Got, e.Want)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// DegenerateGeometryError reports a dimension that cannot produce a valid body.
// Fatal is false for the documented solid-branch fallback, which is only a warning.
type DegenerateGeometryError struct {
	Body   string
	Reason string
	Fatal  bool
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("degenerate geometry in %s: %s", e.Body, e.Reason)
}

// BooleanOperationError reports a kernel failure on a union or subtraction.
type BooleanOperationError struct {
	Op    string
	Left  string
	Right string
	Err   error
}

func (e *BooleanOperationError) Error() string {
	return fmt.Sprintf("boolean %s of %s and %s failed: %v", e.Op, e.Left, e.Right, e.Err)
}

func (e *BooleanOperationError) Unwrap() error { return e.Err }

// FilletInfeasibleError reports a rounding radius the local geometry cannot carry.
// The edge is left sharp and the build continues.
type FilletInfeasibleError struct {
	Edge   string
	Radius float64
	Limit  float64
}

func (e *FilletInfeasibleError) Error() string {
	return fmt.Sprintf("fillet of radius %.3g on edge %s exceeds supportable %.3g; left unrounded", e.Radius, e.Edge, e.Limit)
}

// IsFatal reports whether err must abort model construction.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var fillet *FilletInfeasibleError
	if errors.As(err, &fillet) {
		return false
	}
	var degenerate *DegenerateGeometryError
	if errors.As(err, &degenerate) {
		return degenerate.Fatal
	}
	return true
}
