// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// MinItemCount is the minimum number of ratings a title needs to be kept.
	MinItemCount int `json:"min_item_count"`

	// MinUserCount is the minimum number of ratings a user needs to be kept.
	MinUserCount int `json:"min_user_count"`

	// DefaultK is used when a request asks for k <= 0.
	DefaultK int `json:"default_k"`

	// MaxK caps the number of neighbors a request may ask for.
	MaxK int `json:"max_k"`

	// SearchLimit is used when a search asks for limit <= 0.
	SearchLimit int `json:"search_limit"`

	// MaxSearchLimit caps the search limit.
	MaxSearchLimit int `json:"max_search_limit"`

	// TrainTimeout bounds one training pass.
	TrainTimeout time.Duration `json:"train_timeout"`

	// Cache contains result cache parameters.
	Cache CacheConfig `json:"cache"`
}

// CacheConfig controls the recommendation result cache.
type CacheConfig struct {
	Enabled bool `json:"enabled"`

	// Size is the maximum number of cached (title, k) results.
	Size int `json:"size"`

	// TTL is how long an entry lives. Zero means entries only leave the
	// cache by eviction or retrain.
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		MinItemCount:   DefaultMinItemCount,
		MinUserCount:   DefaultMinUserCount,
		DefaultK:       5,
		MaxK:           100,
		SearchLimit:    DefaultSearchLimit,
		MaxSearchLimit: 100,
		TrainTimeout:   30 * time.Minute,
		Cache: CacheConfig{
			Enabled: true,
			Size:    4096,
			TTL:     10 * time.Minute,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.MinItemCount < 1 {
		return fmt.Errorf("min_item_count must be at least 1, got %d", c.MinItemCount)
	}
	if c.MinUserCount < 1 {
		return fmt.Errorf("min_user_count must be at least 1, got %d", c.MinUserCount)
	}
	if c.DefaultK < 1 {
		return fmt.Errorf("default_k must be at least 1, got %d", c.DefaultK)
	}
	if c.MaxK < c.DefaultK {
		return fmt.Errorf("max_k (%d) must be >= default_k (%d)", c.MaxK, c.DefaultK)
	}
	if c.SearchLimit < 1 {
		return fmt.Errorf("search_limit must be at least 1, got %d", c.SearchLimit)
	}
	if c.MaxSearchLimit < c.SearchLimit {
		return fmt.Errorf("max_search_limit (%d) must be >= search_limit (%d)", c.MaxSearchLimit, c.SearchLimit)
	}
	if c.TrainTimeout <= 0 {
		return fmt.Errorf("train_timeout must be positive, got %v", c.TrainTimeout)
	}
	if c.Cache.Enabled && c.Cache.Size < 1 {
		return fmt.Errorf("cache size must be at least 1 when enabled, got %d", c.Cache.Size)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %v", c.Cache.TTL)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
