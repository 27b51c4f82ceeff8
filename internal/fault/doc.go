// Package fault turns chaos configuration into a concrete timeline of
// crash/recover/partition/heal actions, and offers ambient per-tick
// probabilistic checks for unscripted chaos runs. It never touches a
// raft.Node or network.Network directly — internal/sim applies each
// Action to the components it owns. This mirrors, in the teacher's
// style, the role original_source/backend/failure/failure_injector.py
// played in the system this was distilled from.
package fault
