package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/walidcherhane/star-buster-api/internal/models"
)

const stargazersPerPage = 100

// CollectStargazers pages over a repository's stargazer listing until
// the listing is exhausted or maxStars records have been accumulated.
//
// Collection favors availability over completeness: a failed page
// terminates the loop and whatever was accumulated is returned with
// degraded set to true. Records missing a login or a starred_at
// timestamp are dropped.
func (c *Client) CollectStargazers(ctx context.Context, owner, repo string, maxStars int) ([]models.StarRecord, bool) {
	logger := c.logger.WithFields(logrus.Fields{
		"owner":     owner,
		"repo":      repo,
		"max_stars": maxStars,
	})
	logger.Info("Collecting stargazers")

	var records []models.StarRecord
	degraded := false

	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", strconv.Itoa(stargazersPerPage))

		var stargazers []stargazerResponse
		err := c.fetch(ctx, fmt.Sprintf("/repos/%s/%s/stargazers", owner, repo), params, acceptStarJSON, &stargazers)
		if err != nil {
			// A bad page shrinks the sample, it never fails the run.
			logger.WithError(err).WithField("page", page).Error("Stargazer page fetch failed, returning partial sample")
			degraded = true
			break
		}

		if len(stargazers) == 0 {
			break
		}

		for _, sg := range stargazers {
			if sg.User.Login == "" || sg.StarredAt.IsZero() {
				continue
			}
			records = append(records, models.StarRecord{
				Username:  sg.User.Login,
				StarredAt: sg.StarredAt,
			})
			if len(records) >= maxStars {
				break
			}
		}

		if len(records) >= maxStars {
			break
		}

		c.sleep(c.pageDelay)
	}

	logger.WithField("collected", len(records)).Info("Stargazer collection finished")
	return records, degraded
}
