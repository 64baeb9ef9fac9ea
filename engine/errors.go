/*
errors.go - Centralized error types for the compliance engine

PURPOSE:
  All engine error types in one place for consistency and discoverability.
  Callers (API, store, recompute worker) wrap these with transport context.

ERROR CATEGORIES:
  1. Range errors - Malformed or oversized report windows
  2. Lookup errors - Unknown teams/members/organizations
  3. Exemption errors - Illegal status transitions

USAGE:
  if errors.Is(err, engine.ErrRangeTooLarge) {
      http.Error(w, err.Error(), http.StatusBadRequest)
  }

SEE ALSO:
  - period.go: CheckRange and SafePeriod use the range errors
  - exemption.go: status transition checks
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrRangeTooLarge is returned when a report window exceeds the configured
	// maximum. Oversized requests are rejected, never silently truncated.
	ErrRangeTooLarge = errors.New("report range exceeds maximum")

	// ErrTeamNotFound is returned when a referenced team doesn't exist.
	ErrTeamNotFound = errors.New("team not found")

	// ErrMemberNotFound is returned when a referenced member doesn't exist.
	ErrMemberNotFound = errors.New("member not found")

	// ErrExemptionNotFound is returned when a referenced exemption doesn't exist.
	ErrExemptionNotFound = errors.New("exemption not found")

	// ErrOrgNotFound is returned when a referenced organization doesn't exist.
	ErrOrgNotFound = errors.New("organization not found")

	// ErrIllegalTransition is returned for exemption status transitions outside
	// the legal set (Pending->Approved, Pending->Rejected, Approved->EndedEarly).
	ErrIllegalTransition = errors.New("illegal exemption status transition")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RangeTooLargeError reports how far over the limit a request was.
type RangeTooLargeError struct {
	Requested int
	Max       int
}

func (e *RangeTooLargeError) Error() string {
	return fmt.Sprintf("report range of %d days exceeds maximum of %d", e.Requested, e.Max)
}

func (e *RangeTooLargeError) Unwrap() error { return ErrRangeTooLarge }

// TransitionError reports an illegal exemption status transition.
type TransitionError struct {
	From ExemptionStatus
	To   ExemptionStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal exemption transition %s -> %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrIllegalTransition }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrRangeTooLarge) ||
		errors.Is(err, ErrIllegalTransition)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTeamNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrExemptionNotFound) ||
		errors.Is(err, ErrOrgNotFound)
}
