package raft

import (
	"testing"
	"time"
)

func TestRoleString(t *testing.T) {
	cases := map[Role]string{
		RoleFollower:  "follower",
		RoleCandidate: "candidate",
		RoleLeader:    "leader",
		Role(99):      "unknown",
	}
	for role, want := range cases {
		if got := role.String(); got != want {
			t.Errorf("Role(%d).String() = %q, want %q", role, got, want)
		}
	}
}

func validNodeConfig() NodeConfig {
	return NodeConfig{
		ID:                 1,
		Peers:              []NodeID{2, 3},
		ElectionTimeoutMin: 150 * time.Millisecond,
		ElectionTimeoutMax: 300 * time.Millisecond,
		HeartbeatInterval:  50 * time.Millisecond,
	}
}

func TestNodeConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NodeConfig)
		wantErr bool
	}{
		{"valid", func(c *NodeConfig) {}, false},
		{"zero election min", func(c *NodeConfig) { c.ElectionTimeoutMin = 0 }, true},
		{"zero election max", func(c *NodeConfig) { c.ElectionTimeoutMax = 0 }, true},
		{"zero heartbeat", func(c *NodeConfig) { c.HeartbeatInterval = 0 }, true},
		{"max below min", func(c *NodeConfig) { c.ElectionTimeoutMax = 100 * time.Millisecond }, true},
		{"max equals min is ok", func(c *NodeConfig) { c.ElectionTimeoutMax = c.ElectionTimeoutMin }, false},
		{"too few peers", func(c *NodeConfig) { c.Peers = []NodeID{2} }, true},
		{"no peers", func(c *NodeConfig) { c.Peers = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validNodeConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNodeConfigClusterSize(t *testing.T) {
	cfg := validNodeConfig()
	if got := cfg.ClusterSize(); got != 3 {
		t.Fatalf("ClusterSize() = %d, want 3", got)
	}
}

func TestMajority(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 2, 4: 3, 5: 3, 6: 4, 7: 4}
	for n, want := range cases {
		if got := majority(n); got != want {
			t.Errorf("majority(%d) = %d, want %d", n, got, want)
		}
	}
}
