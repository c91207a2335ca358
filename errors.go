package gravity

import "errors"

// Sentinel error kinds per the core's error-handling design: the core
// never recovers from these internally, it returns them (wrapped) and
// lets the caller decide what to do. Nothing in the package panics
// with them.
var (
	// ErrCapacityExceeded is returned by AddBody when the universe's
	// pre-reserved body storage is full.
	ErrCapacityExceeded = errors.New("gravity: universe capacity exceeded")

	// ErrInvalidArgument is returned by constructors given a
	// programmer error: size_scale < 2, zero bodies, non-positive
	// mass, or non-positive radius.
	ErrInvalidArgument = errors.New("gravity: invalid argument")

	// ErrInvariantViolation indicates an internal octree invariant was
	// violated. Reachable only via bugs in this package; surfaced by
	// BarnesHutSolver.Validate(), which callers invoke explicitly
	// (tests, or a host running with consistency checks enabled) since
	// it is not on the hot path.
	ErrInvariantViolation = errors.New("gravity: invariant violation")
)
