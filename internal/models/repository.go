package models

import "time"

// RepositoryInfo is a point-in-time snapshot of a GitHub repository,
// fetched once per analysis run.
type RepositoryInfo struct {
	Owner           string    `json:"owner"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Language        string    `json:"language"`
	ForksCount      int       `json:"forks_count"`
	StarsCount      int       `json:"stargazers_count"`
	OpenIssuesCount int       `json:"open_issues_count"`
	WatchersCount   int       `json:"watchers_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// FullName returns the owner/name form of the repository.
func (r *RepositoryInfo) FullName() string {
	return r.Owner + "/" + r.Name
}
