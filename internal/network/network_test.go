package network

import (
	"math/rand"
	"testing"
	"time"
)

func newTestNetwork(cfg Config, seed int64) *Network {
	return New(cfg, rand.New(rand.NewSource(seed)))
}

func TestSendDropsWhenEitherSideDead(t *testing.T) {
	n := newTestNetwork(Config{}, 1)
	if d := n.Send(1, 2, false, true); d != nil {
		t.Fatalf("expected no delivery when src is dead, got %v", d)
	}
	if d := n.Send(1, 2, true, false); d != nil {
		t.Fatalf("expected no delivery when dst is dead, got %v", d)
	}
	if n.Stats().Dropped != 2 {
		t.Fatalf("expected 2 drops counted, got %d", n.Stats().Dropped)
	}
}

func TestSendDropsAcrossPartitions(t *testing.T) {
	n := newTestNetwork(Config{}, 1)
	n.Partition([][]NodeID{{1}, {2}})

	if d := n.Send(1, 2, true, true); d != nil {
		t.Fatalf("expected no delivery across partitions, got %v", d)
	}

	n.Heal()
	if d := n.Send(1, 2, true, true); d == nil {
		t.Fatalf("expected delivery after heal, got none")
	}
}

func TestSendAlwaysDropsAtFullDropRate(t *testing.T) {
	n := newTestNetwork(Config{DropRate: 1.0}, 7)
	for i := 0; i < 100; i++ {
		if d := n.Send(1, 2, true, true); d != nil {
			t.Fatalf("expected drop at drop_rate=1.0, got %v", d)
		}
	}
}

func TestSendDeliversWithinDelayBounds(t *testing.T) {
	cfg := Config{DelayMin: 10 * time.Millisecond, DelayMax: 50 * time.Millisecond}
	n := newTestNetwork(cfg, 3)

	for i := 0; i < 200; i++ {
		deliveries := n.Send(1, 2, true, true)
		if len(deliveries) == 0 {
			continue
		}
		for _, d := range deliveries {
			if d.Delay < cfg.DelayMin || d.Delay > cfg.DelayMax {
				t.Fatalf("delay %v outside [%v, %v]", d.Delay, cfg.DelayMin, cfg.DelayMax)
			}
		}
	}
}

func TestSendDuplicatesAtFullDuplicateRate(t *testing.T) {
	cfg := Config{DelayMin: time.Millisecond, DelayMax: time.Millisecond, DuplicateRate: 1.0}
	n := newTestNetwork(cfg, 9)

	deliveries := n.Send(1, 2, true, true)
	if len(deliveries) != 2 {
		t.Fatalf("expected 2 deliveries at duplicate_rate=1.0, got %d", len(deliveries))
	}
}

func TestDeterministicGivenSameSeed(t *testing.T) {
	cfg := Config{DropRate: 0.3, DuplicateRate: 0.2, DelayMin: time.Millisecond, DelayMax: 20 * time.Millisecond, Jitter: time.Millisecond}

	run := func(seed int64) []Delivery {
		n := newTestNetwork(cfg, seed)
		var all []Delivery
		for i := 0; i < 50; i++ {
			all = append(all, n.Send(NodeID(i%3), NodeID((i+1)%3), true, true)...)
		}
		return all
	}

	a := run(42)
	b := run(42)

	if len(a) != len(b) {
		t.Fatalf("same seed produced different delivery counts: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at delivery %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestHealResetsAllKnownNodesToDefaultPartition(t *testing.T) {
	n := newTestNetwork(Config{}, 1)
	n.Partition([][]NodeID{{1, 2}, {3}})
	n.Heal()

	if n.PartitionOf(1) != defaultPartition || n.PartitionOf(2) != defaultPartition || n.PartitionOf(3) != defaultPartition {
		t.Fatalf("expected all nodes back in default partition after heal")
	}
}
