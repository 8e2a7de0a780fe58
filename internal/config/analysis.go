package config

import "time"

// AnalysisConfig holds analysis pipeline configuration
type AnalysisConfig struct {
	// MaxStars is the default cap on collected stargazer records.
	MaxStars int
	// MaxUsers is the default cap on enriched user profiles.
	MaxUsers int
	// PageDelay is the fixed pause between stargazer page requests.
	PageDelay time.Duration
	// UserDelay is the fixed pause between user profile lookups.
	UserDelay time.Duration
}

// DefaultAnalysisConfig returns the default analysis configuration
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		MaxStars:  5000,
		MaxUsers:  200,
		PageDelay: 100 * time.Millisecond,
		UserDelay: 150 * time.Millisecond,
	}
}
