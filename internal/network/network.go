package network

import (
	"math/rand"
	"time"
)

// NodeID identifies a simulated Raft node.
type NodeID uint64

// PartitionID identifies a partition group; two nodes can communicate iff
// they carry the same PartitionID.
type PartitionID uint64

// defaultPartition is the partition every node starts in, and the one
// Heal resets every node to.
const defaultPartition PartitionID = 0

// Config holds the fault-model parameters for message delivery.
type Config struct {
	DropRate      float64
	DuplicateRate float64
	DelayMin      time.Duration
	DelayMax      time.Duration
	Jitter        time.Duration
}

// Delivery is one scheduled delivery attempt: msg should be delivered to
// dst after delay has elapsed from the send.
type Delivery struct {
	Dst   NodeID
	Delay time.Duration
}

// Network owns the partition membership map and the fault model's PRNG.
// It is not FIFO: a later Send can legitimately produce an earlier
// Delivery than one already scheduled, and Raft must tolerate that.
type Network struct {
	cfg        Config
	rng        *rand.Rand
	partitions map[NodeID]PartitionID

	drops      uint64
	duplicates uint64
	delivered  uint64
}

// New creates a Network drawing from rng; every node starts in the same
// (default) partition. rng must be the same instance the rest of the run
// (every raft.Node's election-timeout draws) shares, so that a run's
// entire sequence of random decisions is ordered solely by event dispatch
// order and is therefore reproducible bit-for-bit given the same seed and
// config.
func New(cfg Config, rng *rand.Rand) *Network {
	return &Network{
		cfg:        cfg,
		rng:        rng,
		partitions: make(map[NodeID]PartitionID),
	}
}

// Partition splits groups into separate partitions; nodes sharing a group
// can reach each other, nodes in different groups cannot. Nodes not
// listed in any group retain their previous partition.
func (n *Network) Partition(groups [][]NodeID) {
	for i, group := range groups {
		pid := PartitionID(i + 1)
		for _, node := range group {
			n.partitions[node] = pid
		}
	}
}

// Heal resets every known node to the default partition, restoring full
// connectivity.
func (n *Network) Heal() {
	for node := range n.partitions {
		n.partitions[node] = defaultPartition
	}
}

// PartitionOf returns the partition a node currently belongs to.
func (n *Network) PartitionOf(node NodeID) PartitionID {
	return n.partitions[node]
}

// SamePartition reports whether a and b can currently communicate.
func (n *Network) SamePartition(a, b NodeID) bool {
	return n.partitions[a] == n.partitions[b]
}

// Send applies the delivery policy in order (liveness, partition, drop,
// duplicate) and returns the deliveries (zero, one, or two) that should
// be scheduled. srcAlive and dstAlive are supplied by the caller, since
// liveness is owned by the simulator, not the network.
func (n *Network) Send(src, dst NodeID, srcAlive, dstAlive bool) []Delivery {
	if !srcAlive || !dstAlive {
		n.drops++
		return nil
	}
	if !n.SamePartition(src, dst) {
		n.drops++
		return nil
	}
	if n.rng.Float64() < n.cfg.DropRate {
		n.drops++
		return nil
	}

	deliveries := []Delivery{{Dst: dst, Delay: n.drawDelay()}}
	n.delivered++

	if n.rng.Float64() < n.cfg.DuplicateRate {
		deliveries = append(deliveries, Delivery{Dst: dst, Delay: n.drawDelay()})
		n.duplicates++
	}

	return deliveries
}

// drawDelay draws a uniform delay in [DelayMin, DelayMax] and applies a
// symmetric random jitter in [-Jitter, +Jitter], clamped at zero.
func (n *Network) drawDelay() time.Duration {
	span := n.cfg.DelayMax - n.cfg.DelayMin
	base := n.cfg.DelayMin
	if span > 0 {
		base += time.Duration(n.rng.Float64() * float64(span))
	}

	if n.cfg.Jitter > 0 {
		delta := time.Duration(n.rng.Float64()*2*float64(n.cfg.Jitter)) - n.cfg.Jitter
		base += delta
	}

	if base < 0 {
		return 0
	}
	return base
}

// Stats reports fault-model counters, used by Simulator.Status to surface
// observable drop/duplicate/deliver counts.
type Stats struct {
	Dropped    uint64
	Duplicated uint64
	Delivered  uint64
}

// Stats returns a snapshot of this Network's fault-model counters.
func (n *Network) Stats() Stats {
	return Stats{Dropped: n.drops, Duplicated: n.duplicates, Delivered: n.delivered}
}
