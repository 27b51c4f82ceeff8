package fault

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Nourayam/Distributed-Systems-Engine/internal/network"
)

func TestShouldCrashNodeNeverAtZeroProb(t *testing.T) {
	inj := New(Config{NodeCrashProb: 0}, rand.New(rand.NewSource(1)))
	for i := 0; i < 100; i++ {
		if inj.ShouldCrashNode(1) {
			t.Fatalf("crash triggered at prob 0")
		}
	}
}

func TestShouldCrashNodeAlwaysAtFullProb(t *testing.T) {
	inj := New(Config{NodeCrashProb: 1}, rand.New(rand.NewSource(1)))
	if !inj.ShouldCrashNode(1) {
		t.Fatalf("crash did not trigger at prob 1")
	}
	if !inj.ActiveFailures()["crash_1"] {
		t.Fatalf("crash not recorded in ActiveFailures")
	}
}

func TestShouldPartitionNetwork(t *testing.T) {
	inj := New(Config{NetworkPartitionProb: 1}, rand.New(rand.NewSource(1)))
	if !inj.ShouldPartitionNetwork() {
		t.Fatalf("partition did not trigger at prob 1")
	}
}

func TestLeaderFailureWithRecovery(t *testing.T) {
	actions := LeaderFailure(network.NodeID(1), 10*time.Second, 5*time.Second)
	if len(actions) != 2 {
		t.Fatalf("len(actions) = %d, want 2", len(actions))
	}
	if actions[0].Kind != ActionCrash || actions[0].At != 10*time.Second {
		t.Fatalf("crash action = %+v", actions[0])
	}
	if actions[1].Kind != ActionRecover || actions[1].At != 15*time.Second {
		t.Fatalf("recover action = %+v", actions[1])
	}
}

func TestLeaderFailureWithoutRecovery(t *testing.T) {
	actions := LeaderFailure(network.NodeID(1), 10*time.Second, 0)
	if len(actions) != 1 {
		t.Fatalf("len(actions) = %d, want 1 (permanent crash)", len(actions))
	}
}

func TestRollingFailuresSpacesCrashesByInterval(t *testing.T) {
	nodes := []network.NodeID{1, 2, 3}
	actions := RollingFailures(nodes, 0, 5*time.Second, 2*time.Second)
	if len(actions) != 6 {
		t.Fatalf("len(actions) = %d, want 6", len(actions))
	}
	if actions[0].At != 0 || actions[2].At != 5*time.Second || actions[4].At != 10*time.Second {
		t.Fatalf("crash times not spaced by interval: %+v", actions)
	}
}

func TestSplitBrainHealsAfterDuration(t *testing.T) {
	groups := [][]network.NodeID{{1, 2}, {3, 4, 5}}
	actions := SplitBrain(groups, 10*time.Second, 20*time.Second)
	if len(actions) != 2 {
		t.Fatalf("len(actions) = %d, want 2", len(actions))
	}
	if actions[0].Kind != ActionPartition || len(actions[0].Groups) != 2 {
		t.Fatalf("partition action = %+v", actions[0])
	}
	if actions[1].Kind != ActionHeal || actions[1].At != 30*time.Second {
		t.Fatalf("heal action = %+v", actions[1])
	}
}
