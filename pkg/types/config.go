// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "myads/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ADSConfig holds settings for the remote query client.
type ADSConfig struct {
	HTTPConfig `yaml:",inline"`

	// Token is the ADS API bearer token. Usually loaded from the
	// credentials table or .secrets/ads-api-token.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// Rows is the maximum number of records requested per query
	// (default 2000).
	Rows int `json:"rows" yaml:"rows"`

	// RequestsPerSecond throttles outgoing API calls. Zero disables
	// client-side rate limiting.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// TrackerConfig holds settings for the reconciliation and metrics core.
type TrackerConfig struct {
	// DatabasePath is the SQLite snapshot store location.
	DatabasePath string `json:"database_path" yaml:"database_path"`

	// RecencyWindowDays is the rolling window for the recent-citation
	// count (default 90).
	RecencyWindowDays int `json:"recency_window_days" yaml:"recency_window_days"`
}

// RecencyWindow returns the rolling window as a duration, falling back to
// 90 days when unset.
func (c TrackerConfig) RecencyWindow() time.Duration {
	days := c.RecencyWindowDays
	if days <= 0 {
		days = 90
	}
	return time.Duration(days) * 24 * time.Hour
}
