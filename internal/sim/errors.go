package sim

import "errors"

var (
	// ErrAlreadyStarted is returned by Start on a Simulator that has
	// already run once; call Reset first.
	ErrAlreadyStarted = errors.New("sim: already started")
	// ErrNoLeader is returned by Submit when no node currently believes
	// itself to be Leader.
	ErrNoLeader = errors.New("sim: no leader available to accept a command")
)

// InvariantViolation wraps a panic recovered at the run boundary, turning
// a programmer-error panic into an ordinary error the caller can inspect
// instead of crashing the process.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return "sim: invariant violation: " + e.Reason
}
