// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"

	"github.com/tomtom215/marquee/internal/validation"
)

// Validate checks field ranges and cross-field constraints.
// File existence is checked when the data is loaded, not here.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateRecommend()
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQS must be at least 1 when rate limiting is enabled, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.DefaultK > r.MaxK {
		return fmt.Errorf("DEFAULT_K (%d) must not exceed MAX_K (%d)", r.DefaultK, r.MaxK)
	}
	if r.SearchLimit > r.MaxSearchLimit {
		return fmt.Errorf("SEARCH_LIMIT (%d) must not exceed MAX_SEARCH_LIMIT (%d)", r.SearchLimit, r.MaxSearchLimit)
	}
	if r.CacheEnabled && r.CacheSize < 1 {
		return fmt.Errorf("CACHE_SIZE must be at least 1 when the cache is enabled, got %d", r.CacheSize)
	}
	return nil
}
