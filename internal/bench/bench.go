package bench

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Nourayam/Distributed-Systems-Engine/internal/config"
	"github.com/Nourayam/Distributed-Systems-Engine/internal/logging"
	"github.com/Nourayam/Distributed-Systems-Engine/internal/sim"
)

// Result is one seed's outcome from a RunBatch call.
type Result struct {
	Seed   int64
	Status sim.Status
	Err    error
}

// RunBatch runs base once per seed in seeds, each in its own Simulator,
// concurrently up to maxConcurrency at a time (0 means unlimited). A
// per-run failure is captured in that seed's Result rather than aborting
// the rest of the batch; only cancellation of ctx itself stops early.
func RunBatch(ctx context.Context, base config.Config, seeds []int64, logger logging.Logger, maxConcurrency int) ([]Result, error) {
	results := make([]Result, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	if maxConcurrency > 0 {
		g.SetLimit(maxConcurrency)
	}

	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Seed: seed, Err: err}
				return nil
			}

			cfg := base
			cfg.Seed = seed
			s, err := sim.New(cfg, logger)
			if err != nil {
				results[i] = Result{Seed: seed, Err: err}
				return nil
			}

			runErr := s.Start()
			results[i] = Result{Seed: seed, Status: s.Status(), Err: runErr}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// VerifyDeterminism runs cfg twice with recording forced on and reports
// whether both runs produced a bit-identical event trace.
func VerifyDeterminism(cfg config.Config, logger logging.Logger) (bool, error) {
	cfg.Recording = true

	trace := func() ([]sim.RecordedEvent, error) {
		s, err := sim.New(cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := s.Start(); err != nil {
			return nil, err
		}
		return s.Trace(), nil
	}

	a, err := trace()
	if err != nil {
		return false, err
	}
	b, err := trace()
	if err != nil {
		return false, err
	}

	if len(a) != len(b) {
		return false, nil
	}
	for i := range a {
		if a[i] != b[i] {
			return false, nil
		}
	}
	return true, nil
}
