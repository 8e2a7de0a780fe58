package config

import "time"

// GitHubConfig holds GitHub-specific configuration
type GitHubConfig struct {
	Token      string
	APIBaseURL string
	RateLimit  RateLimitConfig
}

// RateLimitConfig holds retry and backoff configuration for the
// GitHub API client.
type RateLimitConfig struct {
	// MaxServerRetries bounds retries on 502/503 responses.
	MaxServerRetries int
	// MaxIterations is the hard ceiling on the outer retry loop,
	// regardless of error kind.
	MaxIterations  int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// QuotaResetBuffer is added on top of the reset time when waiting
	// out an exhausted quota.
	QuotaResetBuffer time.Duration
}

// DefaultGitHubConfig returns the default GitHub configuration
func DefaultGitHubConfig() *GitHubConfig {
	return &GitHubConfig{
		APIBaseURL: "https://api.github.com",
		RateLimit: RateLimitConfig{
			MaxServerRetries: 3,
			MaxIterations:    5,
			InitialBackoff:   time.Second,
			MaxBackoff:       30 * time.Second,
			QuotaResetBuffer: time.Second,
		},
	}
}
