// Package network turns a logical send(src, dst, msg) into zero, one, or
// two delivery delays, applying the fault model in order: liveness and
// partition checks, a drop draw, a delay draw, and a duplicate draw, all
// from one seeded PRNG.
//
// Network never talks to the Scheduler directly — it returns the delays
// it decided on and leaves actually scheduling Deliver events to its
// caller (internal/sim.Simulator), so the fault model itself stays
// trivially unit-testable against a fixed seed.
package network
