package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Nodes != 5 {
		t.Errorf("expected 5 nodes, got %d", cfg.Nodes)
	}
	if cfg.MaxTime != 30 {
		t.Errorf("expected maxTime 30, got %v", cfg.MaxTime)
	}
	if cfg.ElectionTimeoutMax < cfg.ElectionTimeoutMin {
		t.Errorf("election timeout max must be >= min")
	}
	if cfg.HeartbeatInterval >= cfg.ElectionTimeoutMin {
		t.Errorf("heartbeat interval should be well below election timeout min")
	}
	if errs := Validate(&cfg); len(errs) != 0 {
		t.Fatalf("default config should validate cleanly, got %v", errs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"too few nodes", func(c *Config) { c.Nodes = 2 }, true},
		{"zero max time", func(c *Config) { c.MaxTime = 0 }, true},
		{"negative drop rate", func(c *Config) { c.MessageDropRate = -0.1 }, true},
		{"drop rate above 1", func(c *Config) { c.MessageDropRate = 1.1 }, true},
		{"delay max below min", func(c *Config) { c.MessageDelayMax = c.MessageDelayMin - time.Millisecond }, true},
		{"zero election min", func(c *Config) { c.ElectionTimeoutMin = 0 }, true},
		{"election max below min", func(c *Config) { c.ElectionTimeoutMax = c.ElectionTimeoutMin - time.Millisecond }, true},
		{"zero heartbeat", func(c *Config) { c.HeartbeatInterval = 0 }, true},
		{"heartbeat too close to election min", func(c *Config) {
			c.HeartbeatInterval = c.ElectionTimeoutMin
		}, true},
		{"chaos with ambient scenario (none) is valid", func(c *Config) { c.Chaos = true; c.ChaosScenario = ScenarioNone }, false},
		{"chaos with scripted scenario", func(c *Config) { c.Chaos = true; c.ChaosScenario = ScenarioSplitBrain }, false},
		{"chaos with unknown scenario", func(c *Config) { c.Chaos = true; c.ChaosScenario = ChaosScenario("bogus") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			errs := Validate(&cfg)
			if tt.wantErr && len(errs) == 0 {
				t.Fatalf("expected validation errors, got none")
			}
			if !tt.wantErr && len(errs) != 0 {
				t.Fatalf("expected no validation errors, got %v", errs)
			}
		})
	}
}
