package sim

import (
	"time"

	"github.com/Nourayam/Distributed-Systems-Engine/internal/fault"
	"github.com/Nourayam/Distributed-Systems-Engine/internal/network"
	"github.com/Nourayam/Distributed-Systems-Engine/internal/raft"
	"github.com/Nourayam/Distributed-Systems-Engine/internal/scheduler"
)

// The scheduler treats every value below as an opaque scheduler.Event; only
// dispatch (in simulator.go) interprets them.

type deliverEvent struct {
	From raft.NodeID
	To   raft.NodeID
	Msg  raft.Message
}

type electionTimeoutEvent struct {
	Node       raft.NodeID
	Generation uint64
}

type heartbeatTickEvent struct {
	Node       raft.NodeID
	Generation uint64
}

type faultActionEvent struct {
	Action fault.Action
}

// leaderFailureTriggerEvent resolves the current leader at fire time and
// schedules its crash (and optional recovery); unlike the other scripted
// scenarios, "which node" cannot be decided when the scenario is set up,
// only once an election has actually produced a leader.
type leaderFailureTriggerEvent struct {
	RecoverAfter time.Duration
}

// chaosTickEvent drives the ambient (non-scripted) ShouldCrashNode /
// ShouldPartitionNetwork checks once per virtual second, then reschedules
// itself; used only when Config.Chaos is set with ChaosScenario
// config.ScenarioNone (the empty string).
type chaosTickEvent struct{}

func toNetNodeID(id raft.NodeID) network.NodeID { return network.NodeID(id) }
func toRaftNodeID(id network.NodeID) raft.NodeID { return raft.NodeID(id) }

func toNetNodeIDs(ids []raft.NodeID) []network.NodeID {
	out := make([]network.NodeID, len(ids))
	for i, id := range ids {
		out[i] = toNetNodeID(id)
	}
	return out
}

func durationToVirtual(d time.Duration) scheduler.Time {
	return scheduler.Time(d.Seconds())
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

// RecordedEvent is one entry of a run's EventTrace, captured only when
// Config.Recording is set.
type RecordedEvent struct {
	Time scheduler.Time
	From raft.NodeID
	To   raft.NodeID
	Kind string
}

func messageKind(msg raft.Message) string {
	switch msg.(type) {
	case raft.RequestVote:
		return "RequestVote"
	case raft.RequestVoteReply:
		return "RequestVoteReply"
	case raft.AppendEntries:
		return "AppendEntries"
	case raft.AppendEntriesReply:
		return "AppendEntriesReply"
	case raft.InstallSnapshot:
		return "InstallSnapshot"
	case raft.InstallSnapshotReply:
		return "InstallSnapshotReply"
	default:
		return "unknown"
	}
}
