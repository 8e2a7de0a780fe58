package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port               string
	DBConnectionString string
	GitHubToken        string
	CacheTTL           time.Duration
	Analysis           *AnalysisConfig
	GitHub             *GitHubConfig
}

func Load() (*Config, error) {
	port := getEnv("PORT", "8080")
	dbConnStr := getEnv("DB_CONNECTION_STRING", "")
	githubToken := getEnv("GITHUB_TOKEN", "")

	cacheTTLHours, err := strconv.Atoi(getEnv("CACHE_TTL_HOURS", "24"))
	if err != nil {
		return nil, err
	}

	analysis := DefaultAnalysisConfig()
	if maxStars, err := strconv.Atoi(getEnv("MAX_STARS", "")); err == nil && maxStars > 0 {
		analysis.MaxStars = maxStars
	}
	if maxUsers, err := strconv.Atoi(getEnv("MAX_USERS", "")); err == nil && maxUsers > 0 {
		analysis.MaxUsers = maxUsers
	}

	return &Config{
		Port:               port,
		DBConnectionString: dbConnStr,
		GitHubToken:        githubToken,
		CacheTTL:           time.Duration(cacheTTLHours) * time.Hour,
		Analysis:           analysis,
		GitHub:             DefaultGitHubConfig(),
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
