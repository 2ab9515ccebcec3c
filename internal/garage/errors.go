package garage

import "errors"

// Failure kinds returned by Garage operations. All are non-fatal: the
// garage keeps serving requests and its invariants hold on every failure
// path. Match with errors.Is.
var (
	// ErrAlreadyParked means Store was called for a machine ID that is
	// currently parked.
	ErrAlreadyParked = errors.New("machine is already parked")

	// ErrNoSpace means no level has a valid placement for the requested
	// number of slots.
	ErrNoSpace = errors.New("no suitable space available")

	// ErrNotFound means the machine ID is not parked in the garage.
	ErrNotFound = errors.New("machine not found")

	// ErrInconsistent means the placement index and the level state
	// disagree. It is surfaced rather than masked because masking it
	// would risk silent corruption.
	ErrInconsistent = errors.New("placement index and level state disagree")
)
