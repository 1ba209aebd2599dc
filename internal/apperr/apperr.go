// Package apperr defines the error kinds shared across ALME packages.
//
// Packages wrap one of these sentinels with context using fmt.Errorf("...: %w", ...)
// so callers can classify failures with errors.Is without depending on the package
// that produced them.
package apperr

import "errors"

var (
	// ErrNotFound reports a missing user, skill, quiz or progress record.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput reports malformed input rejected before any state change.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCycle reports a skill-graph mutation that would introduce a prerequisite cycle.
	ErrCycle = errors.New("prerequisite cycle")

	// ErrConflict reports a uniqueness or referential conflict (duplicate email, skill in use).
	ErrConflict = errors.New("conflict")

	// ErrLocked reports a progress transition attempted before prerequisites are completed.
	ErrLocked = errors.New("skill locked")

	// ErrStorage reports a persistence collaborator failure.
	ErrStorage = errors.New("storage failure")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Kind returns the sentinel err wraps, or nil if it wraps none of them.
func Kind(err error) error {
	for _, k := range []error{
		ErrNotFound, ErrInvalidInput, ErrCycle, ErrConflict,
		ErrLocked, ErrStorage, ErrUnauthorized, ErrForbidden,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
