package agent

import "errors"

var (
	// ErrAddressNotTracked indicates an operation on an address the agent
	// does not track.
	ErrAddressNotTracked = errors.New("agent: address not tracked")

	// ErrMinConfirmationsTooHigh indicates a confirmation threshold above
	// oracle.MinConfirmationsUpperBound.
	ErrMinConfirmationsTooHigh = errors.New("agent: min confirmations above upper bound")

	// ErrInvalidPercentile indicates a fee percentile outside the table.
	ErrInvalidPercentile = errors.New("agent: invalid fee percentile")

	// ErrInvalidState indicates a state snapshot that cannot be restored.
	ErrInvalidState = errors.New("agent: invalid state snapshot")
)
