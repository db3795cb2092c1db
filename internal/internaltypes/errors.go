package internaltypes

import "errors"

var (
	// ErrValidation covers malformed dates, times, durations and
	// identities. Wrap with detail: fmt.Errorf("%w: ...", ErrValidation).
	ErrValidation = errors.New("invalid request")

	// ErrUnavailable means no eligible bay exists for the window.
	ErrUnavailable = errors.New("no bays available")

	// ErrNotFound means the cancellation target does not exist, is not
	// booked, or belongs to a different email.
	ErrNotFound = errors.New("not found")

	// ErrConflict is a store-enforced no-overlap constraint rejection.
	ErrConflict = errors.New("booking conflict")

	// ErrLookup is a store access failure, distinct from a legitimate
	// empty result.
	ErrLookup = errors.New("store lookup failed")
)
