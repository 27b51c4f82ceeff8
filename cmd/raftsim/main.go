// Package main provides the entry point for the raftsim CLI. Argument
// parsing and output formatting live here and nowhere else; everything
// that matters — the scheduler, the network, the Raft state machine —
// lives in internal/sim and is exercised identically whether driven from
// this CLI or from a test.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Nourayam/Distributed-Systems-Engine/internal/config"
	"github.com/Nourayam/Distributed-Systems-Engine/internal/logging"
	"github.com/Nourayam/Distributed-Systems-Engine/internal/sim"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns an exit code. Separated from main so
// it can be exercised without a real process exit.
func run(args []string, stdout, stderr *os.File) int {
	cfg := config.Default()

	fs := flag.NewFlagSet("raftsim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.Nodes, "nodes", cfg.Nodes, "cluster size")
	fs.Float64Var(&cfg.MaxTime, "max-time", cfg.MaxTime, "virtual seconds to run")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "PRNG seed")
	fs.Float64Var(&cfg.MessageDropRate, "drop-rate", cfg.MessageDropRate, "message drop probability [0,1]")
	fs.Float64Var(&cfg.DuplicateRate, "duplicate-rate", cfg.DuplicateRate, "message duplicate probability [0,1]")
	fs.DurationVar(&cfg.MessageDelayMin, "delay-min", cfg.MessageDelayMin, "minimum message delay")
	fs.DurationVar(&cfg.MessageDelayMax, "delay-max", cfg.MessageDelayMax, "maximum message delay")
	fs.DurationVar(&cfg.MessageJitter, "jitter", cfg.MessageJitter, "symmetric delay jitter")
	fs.DurationVar(&cfg.ElectionTimeoutMin, "election-min", cfg.ElectionTimeoutMin, "minimum election timeout")
	fs.DurationVar(&cfg.ElectionTimeoutMax, "election-max", cfg.ElectionTimeoutMax, "maximum election timeout")
	fs.DurationVar(&cfg.HeartbeatInterval, "heartbeat", cfg.HeartbeatInterval, "leader heartbeat interval")
	fs.BoolVar(&cfg.Chaos, "chaos", cfg.Chaos, "enable fault injection")
	chaosScenario := fs.String("chaos-scenario", string(cfg.ChaosScenario), "leader_failure|rolling_failures|split_brain|network_partition|\"\"")
	fs.BoolVar(&cfg.Recording, "record", cfg.Recording, "keep a replayable event trace")
	fs.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "debug|info|warn|error")
	fs.StringVar(&cfg.Logging.Format, "log-format", cfg.Logging.Format, "text|json")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg.ChaosScenario = config.ChaosScenario(*chaosScenario)

	logger := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: cfg.Logging.Output})

	s, err := sim.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "raftsim: invalid configuration: %v\n", err)
		return 1
	}

	start := time.Now()
	if err := s.Start(); err != nil {
		fmt.Fprintf(stderr, "raftsim: run failed: %v\n", err)
		return 1
	}
	logger.Info("run complete", "wall_clock", time.Since(start))

	return printStatus(stdout, s.Status())
}

func printStatus(stdout *os.File, st sim.Status) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		fmt.Fprintf(os.Stderr, "raftsim: failed to encode status: %v\n", err)
		return 1
	}
	return 0
}
