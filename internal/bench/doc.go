// Package bench runs a batch of independent sim.Simulator runs
// concurrently and collects their outcomes. Each run is fully isolated
// (its own Simulator, its own seed): determinism is per-run, not across
// the batch, so concurrent execution order never affects any individual
// run's result.
package bench
