package scheduler

// Time is virtual simulation time, in seconds. It is monotonically
// advanced by the Scheduler only; nothing downstream may consult wall
// clock in its place.
type Time float64

// EventID identifies a scheduled event for later cancellation. IDs are
// assigned by Schedule and are never reused within a Scheduler's lifetime.
type EventID uint64

// Event is an opaque payload the Scheduler carries but never interprets.
// Concrete event kinds (Deliver, ElectionTimeout, HeartbeatTick,
// FaultToggle) are defined by the packages that schedule and handle them;
// the Scheduler only needs to order and dispatch them.
type Event interface{}

// Handler processes a popped event at the time it fires. Handlers run to
// completion before the next event is popped — there are no suspension
// points.
type Handler func(now Time, id EventID, evt Event)

// Stats summarizes a completed or in-progress run: the scheduler itself
// never raises on a normal cancellation, it just counts
// processed/cancelled events.
type Stats struct {
	Processed uint64
	Cancelled uint64
}
