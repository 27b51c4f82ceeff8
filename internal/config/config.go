package config

import "time"

// ChaosScenario names a preset fault-injection recipe.
type ChaosScenario string

const (
	ScenarioNone             ChaosScenario = ""
	ScenarioLeaderFailure    ChaosScenario = "leader_failure"
	ScenarioRollingFailures  ChaosScenario = "rolling_failures"
	ScenarioSplitBrain       ChaosScenario = "split_brain"
	ScenarioNetworkPartition ChaosScenario = "network_partition"
)

// Config holds every knob the simulator and its control surface expose.
type Config struct {
	// Cluster settings.
	Nodes int `yaml:"nodes"`

	// Virtual time budget; the scheduler stops once now() > MaxTime.
	MaxTime float64 `yaml:"maxTime"`

	// Seed is the single PRNG seed all determinism flows from.
	Seed int64 `yaml:"seed"`

	// Network fault model.
	MessageDropRate  float64       `yaml:"messageDropRate"`
	MessageDelayMin  time.Duration `yaml:"messageDelayMin"`
	MessageDelayMax  time.Duration `yaml:"messageDelayMax"`
	MessageJitter    time.Duration `yaml:"messageJitter"`
	DuplicateRate    float64       `yaml:"duplicateRate"`

	// Raft timing.
	ElectionTimeoutMin time.Duration `yaml:"electionTimeoutMin"`
	ElectionTimeoutMax time.Duration `yaml:"electionTimeoutMax"`
	HeartbeatInterval  time.Duration `yaml:"heartbeatInterval"`

	// Fault injection.
	Chaos         bool          `yaml:"chaos"`
	ChaosScenario ChaosScenario `yaml:"chaosScenario"`

	// Recording controls whether the simulator keeps a replayable event
	// trace alongside the run.
	Recording bool `yaml:"recording"`

	Logging LogConfig `yaml:"logging"`
}

// LogConfig mirrors the logging knobs a deployment would set via the
// excluded config-file loader; internal/logging.Config is built from it.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns a Config with the values used throughout the
// end-to-end scenario tests in internal/sim (N=5, no drops, virtual
// seconds as the time unit).
func Default() Config {
	return Config{
		Nodes:              5,
		MaxTime:            30,
		Seed:               1,
		MessageDropRate:    0,
		MessageDelayMin:    10 * time.Millisecond,
		MessageDelayMax:    50 * time.Millisecond,
		MessageJitter:      0,
		DuplicateRate:      0,
		ElectionTimeoutMin: 150 * time.Millisecond,
		ElectionTimeoutMax: 300 * time.Millisecond,
		HeartbeatInterval:  50 * time.Millisecond,
		Chaos:              false,
		ChaosScenario:      ScenarioNone,
		Recording:          false,
		Logging: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}
