// Package logging provides structured logging for the Raft simulator.
//
// The simulator never logs wall-clock time for anything that affects
// behavior, but diagnostic log lines are still timestamped with wall
// clock (when the event was observed by the host process), separate
// from the virtual time carried in the fields of each entry.
package logging
