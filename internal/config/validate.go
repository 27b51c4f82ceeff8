package config

import "fmt"

// ValidationError represents a single configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks cfg's declared ranges and returns every violation
// found; a nil/empty result means cfg is safe to run. Configuration
// errors are fatal at start, so callers are expected to refuse to
// construct a Simulator when this returns non-empty.
func Validate(cfg *Config) []error {
	var errs []error

	if cfg.Nodes < 3 {
		errs = append(errs, ValidationError{"nodes", "must be >= 3 for a quorum-bearing cluster"})
	}
	if cfg.MaxTime <= 0 {
		errs = append(errs, ValidationError{"maxTime", "must be > 0"})
	}
	if cfg.MessageDropRate < 0 || cfg.MessageDropRate > 1 {
		errs = append(errs, ValidationError{"messageDropRate", "must be within [0,1]"})
	}
	if cfg.DuplicateRate < 0 || cfg.DuplicateRate > 1 {
		errs = append(errs, ValidationError{"duplicateRate", "must be within [0,1]"})
	}
	if cfg.MessageDelayMin < 0 {
		errs = append(errs, ValidationError{"messageDelayMin", "must be >= 0"})
	}
	if cfg.MessageDelayMax < cfg.MessageDelayMin {
		errs = append(errs, ValidationError{"messageDelayMax", "must be >= messageDelayMin"})
	}
	if cfg.MessageJitter < 0 {
		errs = append(errs, ValidationError{"messageJitter", "must be >= 0"})
	}
	if cfg.ElectionTimeoutMin <= 0 {
		errs = append(errs, ValidationError{"electionTimeoutMin", "must be > 0"})
	}
	if cfg.ElectionTimeoutMax < cfg.ElectionTimeoutMin {
		errs = append(errs, ValidationError{"electionTimeoutMax", "must be >= electionTimeoutMin"})
	}
	if cfg.HeartbeatInterval <= 0 {
		errs = append(errs, ValidationError{"heartbeatInterval", "must be > 0"})
	}
	if cfg.HeartbeatInterval*2 > cfg.ElectionTimeoutMin {
		errs = append(errs, ValidationError{"heartbeatInterval", "should be well below electionTimeoutMin to avoid spurious elections"})
	}
	if cfg.Chaos {
		switch cfg.ChaosScenario {
		case ScenarioNone, ScenarioLeaderFailure, ScenarioRollingFailures, ScenarioSplitBrain, ScenarioNetworkPartition:
			// ScenarioNone means "pure ambient chaos": per-tick probabilistic
			// crash/partition checks with no scripted recipe on top.
		default:
			errs = append(errs, ValidationError{"chaosScenario", "must be one of \"\" (ambient), leader_failure, rolling_failures, split_brain, network_partition"})
		}
	}

	return errs
}
