package github

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/walidcherhane/star-buster-api/internal/models"
)

// GetUser resolves a single account to its full profile.
func (c *Client) GetUser(ctx context.Context, login string) (*models.UserProfile, error) {
	if login == "" {
		return nil, NewValidationError("login", "cannot be empty")
	}

	var user userResponse
	if err := c.fetch(ctx, fmt.Sprintf("/users/%s", login), nil, acceptJSON, &user); err != nil {
		return nil, err
	}

	return &models.UserProfile{
		Login:       user.Login,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		Followers:   user.Followers,
		Following:   user.Following,
		PublicRepos: user.PublicRepos,
		PublicGists: user.PublicGists,
		Email:       user.Email,
		Bio:         user.Bio,
		Blog:        user.Blog,
		Hireable:    user.Hireable,
	}, nil
}

// EnrichProfiles resolves up to maxUsers stargazer records to full
// profiles, in original order, sequentially to respect the shared
// rate-limit budget. Each profile carries the star timestamp of its
// originating record.
//
// A failed lookup is logged and skipped; degraded reports whether any
// record was dropped.
func (c *Client) EnrichProfiles(ctx context.Context, records []models.StarRecord, maxUsers int) ([]models.UserProfile, bool) {
	limit := len(records)
	if maxUsers < limit {
		limit = maxUsers
	}

	logger := c.logger.WithFields(logrus.Fields{
		"records":   len(records),
		"max_users": maxUsers,
	})
	logger.Info("Enriching stargazer profiles")

	profiles := make([]models.UserProfile, 0, limit)
	degraded := false

	for i := 0; i < limit; i++ {
		record := records[i]

		profile, err := c.GetUser(ctx, record.Username)
		if err != nil {
			logger.WithError(err).WithField("login", record.Username).Warn("Profile lookup failed, skipping user")
			degraded = true
			continue
		}

		profile.StarredAt = record.StarredAt
		profiles = append(profiles, *profile)

		if i < limit-1 {
			c.sleep(c.userDelay)
		}
	}

	logger.WithField("enriched", len(profiles)).Info("Profile enrichment finished")
	return profiles, degraded
}
