package models

import "time"

// AnalysisOptions controls how much data a single analysis run is
// allowed to pull from the GitHub API.
type AnalysisOptions struct {
	// Deep enables profile enrichment and the full pattern analyzer.
	Deep bool `json:"deep"`
	// MaxStars caps how many stargazer records are collected.
	MaxStars int `json:"max_stars"`
	// MaxUsers caps how many stargazers are resolved to full profiles.
	MaxUsers int `json:"max_users"`
}

// DefaultAnalysisOptions returns the default analysis options.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		Deep:     true,
		MaxStars: 5000,
		MaxUsers: 200,
	}
}

// PatternCounters accumulates per-signal counts over one analysis run.
type PatternCounters struct {
	GenericUsernames int `json:"generic_usernames"`
	BotLikeNames     int `json:"bot_like_names"`
	NewAccounts      int `json:"new_accounts"`
	NoRepos          int `json:"no_repos"`
	NoEmail          int `json:"no_email"`
	LowEngagement    int `json:"low_engagement"`
	SameDayPattern   int `json:"same_day_pattern"`
	Coordinated      int `json:"coordinated"`
	RealStars        int `json:"real_stars"`
	FakeStars        int `json:"fake_stars"`

	// CreationDates maps a UTC calendar date to the number of sampled
	// accounts created on that date.
	CreationDates map[string]int `json:"creation_dates,omitempty"`
	// StarMinutes maps a minute bucket to the number of stars that
	// landed inside it.
	StarMinutes map[string]int `json:"star_minutes,omitempty"`

	FlaggedGeneric    []string `json:"flagged_generic,omitempty"`
	FlaggedBotLike    []string `json:"flagged_bot_like,omitempty"`
	SuspiciousWindows []string `json:"suspicious_windows,omitempty"`
}

// NewPatternCounters returns a PatternCounters with its maps initialized.
func NewPatternCounters() PatternCounters {
	return PatternCounters{
		CreationDates: make(map[string]int),
		StarMinutes:   make(map[string]int),
	}
}

// TimelineEntry is the per-profile classification appended in
// processing order during deep analysis.
type TimelineEntry struct {
	Date           string `json:"date"`
	Username       string `json:"username"`
	IsFake         bool   `json:"is_fake"`
	AccountAgeDays int    `json:"account_age_days"`
	Followers      int    `json:"followers"`
	PublicRepos    int    `json:"public_repos"`
}

// AnalysisResult is the final output of one analysis run.
type AnalysisResult struct {
	ID             int64           `json:"id,omitempty"`
	Owner          string          `json:"owner"`
	Repo           string          `json:"repo"`
	Deep           bool            `json:"deep"`
	TotalStars     int             `json:"total_stars"`
	AnalyzedSample int             `json:"analyzed_sample"`
	DetailedSample int             `json:"detailed_sample"`
	// Degraded is set when page or per-user fetch failures shrank the
	// sample below what the request asked for.
	Degraded       bool            `json:"degraded"`
	Counters       PatternCounters `json:"counters"`
	Timeline       []TimelineEntry `json:"timeline,omitempty"`
	Indicators     []string        `json:"indicators"`
	SuspicionScore int             `json:"suspicion_score"`
	AnalyzedAt     time.Time       `json:"analyzed_at"`
}

// StoredAnalysis is a persisted analysis row together with the request
// parameters it was produced under, so a later request can decide
// whether the cached result still satisfies it.
type StoredAnalysis struct {
	ID             int64           `json:"id"`
	Owner          string          `json:"owner"`
	Repo           string          `json:"repo"`
	Deep           bool            `json:"deep"`
	MaxStars       int             `json:"max_stars"`
	MaxUsers       int             `json:"max_users"`
	TotalStars     int             `json:"total_stars"`
	SuspicionScore int             `json:"suspicion_score"`
	Result         *AnalysisResult `json:"result"`
	CreatedAt      time.Time       `json:"created_at"`
	ExpiresAt      time.Time       `json:"expires_at"`
}

// Satisfies reports whether this stored analysis can stand in for a
// fresh run with the given options. The cached entry must be at least
// as deep and cover at least as large a sample as the request asks for.
func (s *StoredAnalysis) Satisfies(opts AnalysisOptions) bool {
	if opts.Deep && !s.Deep {
		return false
	}
	if s.MaxStars < opts.MaxStars {
		return false
	}
	if opts.Deep && s.MaxUsers < opts.MaxUsers {
		return false
	}
	return true
}
