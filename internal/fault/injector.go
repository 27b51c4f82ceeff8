package fault

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Nourayam/Distributed-Systems-Engine/internal/network"
)

// ActionKind names the effect a scheduled Action has on the simulation.
type ActionKind int

const (
	ActionCrash ActionKind = iota
	ActionRecover
	ActionPartition
	ActionHeal
)

func (k ActionKind) String() string {
	switch k {
	case ActionCrash:
		return "crash"
	case ActionRecover:
		return "recover"
	case ActionPartition:
		return "partition"
	case ActionHeal:
		return "heal"
	default:
		return "unknown"
	}
}

// Action is one entry in a fault timeline: at virtual time At, apply Kind.
// Node is meaningful for Crash/Recover; Groups is meaningful for
// Partition.
type Action struct {
	At     time.Duration
	Kind   ActionKind
	Node   network.NodeID
	Groups [][]network.NodeID
}

// Config holds the ambient per-tick chaos probabilities, grounded on
// original_source/backend/failure/failure_injector.py's FailureConfig.
// Message drop/duplicate/delay live in network.Config instead, since the
// Network already owns that part of the fault model.
type Config struct {
	NodeCrashProb        float64
	NetworkPartitionProb float64
}

// DefaultConfig mirrors FailureConfig's defaults in the original
// implementation.
func DefaultConfig() Config {
	return Config{NodeCrashProb: 0.001, NetworkPartitionProb: 0.002}
}

// Injector draws the ambient ShouldCrashNode/ShouldPartitionNetwork
// checks from a shared PRNG, so a chaos run stays reproducible given the
// same seed.
type Injector struct {
	cfg    Config
	rng    *rand.Rand
	active map[string]bool
}

// New returns an Injector drawing from rng, which must be the same
// instance shared across the rest of the run.
func New(cfg Config, rng *rand.Rand) *Injector {
	return &Injector{cfg: cfg, rng: rng, active: make(map[string]bool)}
}

// ShouldCrashNode reports whether node should crash on this tick, and
// records the crash in ActiveFailures if so.
func (inj *Injector) ShouldCrashNode(node network.NodeID) bool {
	if inj.rng.Float64() < inj.cfg.NodeCrashProb {
		inj.active[fmt.Sprintf("crash_%d", node)] = true
		return true
	}
	return false
}

// ShouldPartitionNetwork reports whether a partition should occur on this
// tick.
func (inj *Injector) ShouldPartitionNetwork() bool {
	return inj.rng.Float64() < inj.cfg.NetworkPartitionProb
}

// ActiveFailures returns a copy of the failures recorded so far.
func (inj *Injector) ActiveFailures() map[string]bool {
	out := make(map[string]bool, len(inj.active))
	for k, v := range inj.active {
		out[k] = v
	}
	return out
}

// --- scripted scenario recipes (config.ChaosScenario) -----------------

// LeaderFailure crashes leader at `at`, recovering it recoverAfter later
// if recoverAfter is nonzero (the "leader_failure" scenario).
func LeaderFailure(leader network.NodeID, at, recoverAfter time.Duration) []Action {
	actions := []Action{{At: at, Kind: ActionCrash, Node: leader}}
	if recoverAfter > 0 {
		actions = append(actions, Action{At: at + recoverAfter, Kind: ActionRecover, Node: leader})
	}
	return actions
}

// RollingFailures crashes each node in turn, spaced interval apart,
// recovering each uptime after its own crash (the "rolling_failures"
// scenario).
func RollingFailures(nodes []network.NodeID, start, interval, uptime time.Duration) []Action {
	actions := make([]Action, 0, len(nodes)*2)
	for i, node := range nodes {
		crashAt := start + time.Duration(i)*interval
		actions = append(actions, Action{At: crashAt, Kind: ActionCrash, Node: node})
		if uptime > 0 {
			actions = append(actions, Action{At: crashAt + uptime, Kind: ActionRecover, Node: node})
		}
	}
	return actions
}

// SplitBrain partitions the cluster into groups at `at`, healing it
// duration later (the "split_brain" scenario).
func SplitBrain(groups [][]network.NodeID, at, duration time.Duration) []Action {
	actions := []Action{{At: at, Kind: ActionPartition, Groups: groups}}
	if duration > 0 {
		actions = append(actions, Action{At: at + duration, Kind: ActionHeal})
	}
	return actions
}

// NetworkPartition builds the same partition-then-heal timeline as
// SplitBrain, which it calls; it is the entry point for the
// "network_partition" scenario, which internal/sim runs as a three-way
// split.
func NetworkPartition(groups [][]network.NodeID, at, duration time.Duration) []Action {
	return SplitBrain(groups, at, duration)
}
