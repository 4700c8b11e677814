package orchestrator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/multierr"
)

// Construction errors.
var (
	ErrNoBackends  = errors.New("orchestrator: at least one backend is required")
	ErrNilStrategy = errors.New("orchestrator: a combination strategy is required")
)

// BackendError wraps a single backend-call failure with the backend's index
// in the orchestrator's list, so callers can tell which backend failed.
type BackendError struct {
	Index int
	Op    string
	Err   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %d: %s: %v", e.Index, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// RoundError aggregates every backend failure of one round. It is returned
// only under FailFast and always carries the complete failure set.
type RoundError struct {
	Op       string
	Failures []*BackendError

	combined error
}

// newRoundError bundles the failures of a round into a single error.
func newRoundError(op string, failures []*BackendError) *RoundError {
	errs := lo.Map(failures, func(f *BackendError, _ int) error { return f })
	return &RoundError{
		Op:       op,
		Failures: failures,
		combined: multierr.Combine(errs...),
	}
}

func (e *RoundError) Error() string {
	return fmt.Sprintf("%s round: %d backend(s) failed: %v", e.Op, len(e.Failures), e.combined)
}

// Unwrap exposes the combined failures so errors.Is and errors.As reach
// the underlying backend errors.
func (e *RoundError) Unwrap() error {
	return e.combined
}

// Indices returns the sorted backend indices that failed in this round.
func (e *RoundError) Indices() []int {
	indices := lo.Map(e.Failures, func(f *BackendError, _ int) int { return f.Index })
	sort.Ints(indices)
	return indices
}
