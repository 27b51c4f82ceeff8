// Package scheduler implements the discrete-event core of the simulator:
// a single priority queue keyed by (virtual time, sequence number) that
// owns virtual time and dispatches events to a caller-supplied handler.
//
// The scheduler has no notion of nodes, messages, or Raft; it arena-indexes
// arbitrary Event values by EventID so the network, Raft node, and fault
// injector layers can each schedule their own event kinds without the
// scheduler depending on any of them.
//
// Every decision downstream of the scheduler that touches randomness must
// be driven by a seeded PRNG, never wall-clock time; the scheduler itself
// never reads the system clock.
package scheduler
