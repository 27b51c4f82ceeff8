// Package sim wires internal/scheduler, internal/network, internal/raft
// and internal/fault into a single runnable unit. Simulator is the only
// exported control surface: everything else in this package is plumbing
// that translates a raft.Node's Effects into scheduled events, and
// scheduled events back into Node handler calls.
//
// A Simulator never spawns a goroutine and never reads the wall clock;
// every random decision anywhere in a run — network faults, election
// jitter, ambient chaos — draws from the one *rand.Rand built from
// Config.Seed, so two Simulators built from identical Config values
// produce bit-identical event traces.
package sim
