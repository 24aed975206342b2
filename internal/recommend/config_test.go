// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.MinItemCount != 50 || cfg.MinUserCount != 50 {
		t.Errorf("default thresholds = %d/%d, want 50/50", cfg.MinItemCount, cfg.MinUserCount)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero item threshold", func(c *Config) { c.MinItemCount = 0 }},
		{"zero user threshold", func(c *Config) { c.MinUserCount = 0 }},
		{"zero default k", func(c *Config) { c.DefaultK = 0 }},
		{"max k below default", func(c *Config) { c.MaxK = c.DefaultK - 1 }},
		{"zero search limit", func(c *Config) { c.SearchLimit = 0 }},
		{"max search below default", func(c *Config) { c.MaxSearchLimit = c.SearchLimit - 1 }},
		{"zero train timeout", func(c *Config) { c.TrainTimeout = 0 }},
		{"enabled cache without size", func(c *Config) { c.Cache.Size = 0 }},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}

	t.Run("disabled cache ignores size", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Cache = CacheConfig{Enabled: false}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})
}

func TestConfig_Clone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.DefaultK = 42
	if cfg.DefaultK == 42 {
		t.Error("Clone() shares state with original")
	}
}
