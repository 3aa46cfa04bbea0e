package resolve

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrTooDeep is wrapped into ResolutionImpossible when a run exceeds its
// configured backtrack-round budget (spec §4.4 FULL), grounded on the
// reference PyPI resolver's own maxRounds guard against pathological
// thrashing over a real package index.
var ErrTooDeep = errors.New("resolve: exceeded maximum backtracking rounds")

// ResolutionImpossible is the single terminal error a failed run returns
// (spec §4.4/§7). It carries the residual set of requirements that could
// not be satisfied and the causes considered for the most recent
// backtracks, aggregated with multierr so no individual cause is lost.
type ResolutionImpossible struct {
	Residual []Requirement
	Causes   error
}

// Error implements the error interface.
func (e *ResolutionImpossible) Error() string {
	return fmt.Sprintf("resolve: resolution impossible for %d residual requirement(s): %v", len(e.Residual), e.Causes)
}

// Unwrap exposes the aggregated causes to errors.Is / errors.As.
func (e *ResolutionImpossible) Unwrap() error {
	return e.Causes
}

// newResolutionImpossible builds a ResolutionImpossible from the residual
// requirement set and the backtrack causes gathered so far.
func newResolutionImpossible(residual []Requirement, causes []error) *ResolutionImpossible {
	var combined error
	for _, c := range causes {
		combined = multierr.Append(combined, c)
	}
	return &ResolutionImpossible{Residual: residual, Causes: combined}
}
