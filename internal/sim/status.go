package sim

import (
	"github.com/google/uuid"

	"github.com/Nourayam/Distributed-Systems-Engine/internal/network"
	"github.com/Nourayam/Distributed-Systems-Engine/internal/raft"
	"github.com/Nourayam/Distributed-Systems-Engine/internal/scheduler"
)

// Status is the read-only snapshot returned by Simulator.Status.
type Status struct {
	RunID          uuid.UUID
	Now            scheduler.Time
	Nodes          []raft.NodeStatus
	Network        network.Stats
	SchedulerStats scheduler.Stats
}

// LeaderID returns the ID of the current Leader, or 0 if none exists
// (an election is in progress, or the cluster just started).
func (s Status) LeaderID() raft.NodeID {
	for _, n := range s.Nodes {
		if n.Role == raft.RoleLeader {
			return n.ID
		}
	}
	return 0
}
