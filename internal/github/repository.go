package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/walidcherhane/star-buster-api/internal/models"
)

// GetRepository fetches the repository snapshot used as input to the
// pattern analyzer. A missing repository is terminal for the run.
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*models.RepositoryInfo, error) {
	if owner == "" {
		return nil, NewValidationError("owner", "cannot be empty")
	}
	if name == "" {
		return nil, NewValidationError("name", "cannot be empty")
	}

	var repo repoResponse
	err := c.fetch(ctx, fmt.Sprintf("/repos/%s/%s", owner, name), nil, acceptJSON, &repo)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, &RepositoryNotFoundError{Owner: owner, Name: name}
		}
		return nil, err
	}

	info := &models.RepositoryInfo{
		Owner:           repo.Owner.Login,
		Name:            repo.Name,
		Description:     repo.Description,
		Language:        repo.Language,
		ForksCount:      repo.ForksCount,
		StarsCount:      repo.StargazersCount,
		OpenIssuesCount: repo.OpenIssuesCount,
		WatchersCount:   repo.WatchersCount,
		CreatedAt:       repo.CreatedAt,
	}
	if info.Owner == "" {
		info.Owner = owner
	}

	return info, nil
}
