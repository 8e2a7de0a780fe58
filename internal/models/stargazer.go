package models

import "time"

// StarRecord is one entry from the paginated stargazer listing: who
// starred and when. Records arrive in API page order.
type StarRecord struct {
	Username  string    `json:"username"`
	StarredAt time.Time `json:"starred_at"`
}

// UserProfile is a resolved stargazer account. StarredAt is carried
// over from the originating StarRecord so timing patterns can be
// analyzed without a second lookup.
type UserProfile struct {
	Login       string    `json:"login"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	PublicRepos int       `json:"public_repos"`
	PublicGists int       `json:"public_gists"`
	Email       string    `json:"email,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Blog        string    `json:"blog,omitempty"`
	// Hireable is tri-state on the GitHub API: true, false, or unset.
	Hireable  *bool     `json:"hireable"`
	StarredAt time.Time `json:"starred_at"`
}
