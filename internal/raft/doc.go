// Package raft implements the per-node Raft consensus state machine that
// the simulator (internal/sim) drives: leader election, log replication,
// and commit advancement.
//
// # Overview
//
// Unlike a production Raft node, this package never touches a socket, a
// timer, or a goroutine. A Node is a pure state machine: every handler
// takes the event that occurred and returns the Effects (outbound
// messages, timer resets) the caller should carry out. Messages and
// events are modeled as tagged variants — Message and Effect — rather
// than stringly-typed dictionaries, so the caller never runs a handler
// to completion with a suspended goroutine in the middle of it.
//
// # Usage
//
//	cfg := raft.NodeConfig{
//	    ID:                 1,
//	    Peers:              []raft.NodeID{2, 3, 4, 5},
//	    ElectionTimeoutMin:  150 * time.Millisecond,
//	    ElectionTimeoutMax:  300 * time.Millisecond,
//	    HeartbeatInterval:   50 * time.Millisecond,
//	}
//	node, err := raft.NewNode(cfg, rng) // err is ErrInvalidConfig on bad timing or < 3 nodes
//	effects := node.HandleMessage(from, msg)
//	// the caller (internal/sim.Simulator) carries out each Effect:
//	// sending a message through the network, or scheduling a timer.
//
// # Consistency Guarantees
//
// Raft provides linearizable consistency for committed entries: all
// committed entries are durable (within the simulated log), never lost,
// and observed in the same order by every node.
//
// # Failure Handling
//
// A cluster of N nodes tolerates floor((N-1)/2) crashed nodes and still
// makes progress; beyond that, no new entries commit until enough nodes
// recover.
package raft
