package analyzer

import (
	"fmt"

	"github.com/walidcherhane/star-buster-api/internal/models"
)

// buildIndicators produces the human-readable explanations for the
// score. Cutoffs are independent of the scoring tiers; within one
// signal family only the highest matching tier emits its message.
func buildIndicators(repo *models.RepositoryInfo, c *models.PatternCounters, analyzedSample, detailedSample int, starsPerDay float64) []string {
	indicators := []string{}

	switch {
	case starsPerDay > 500:
		indicators = append(indicators, fmt.Sprintf("Extremely high star velocity: %.0f stars per day on average", starsPerDay))
	case starsPerDay > 100:
		indicators = append(indicators, fmt.Sprintf("High star velocity: %.0f stars per day on average", starsPerDay))
	}

	if detailedSample > 0 {
		ds := float64(detailedSample)

		if ratio := float64(c.SameDayPattern) / ds; ratio > 0.3 {
			indicators = append(indicators, fmt.Sprintf("%.0f%% of profiled accounts were created, updated, and starred on the same day", ratio*100))
		}
		if ratio := float64(c.FakeStars) / ds; ratio > 0.3 {
			indicators = append(indicators, fmt.Sprintf("%d of %d profiled accounts match the fake-star profile", c.FakeStars, detailedSample))
		}
		if ratio := float64(c.LowEngagement) / ds; ratio > 0.5 {
			indicators = append(indicators, fmt.Sprintf("%.0f%% of profiled accounts have almost no followers or following", ratio*100))
		}
		if ratio := float64(c.NewAccounts) / ds; ratio > 0.3 {
			indicators = append(indicators, fmt.Sprintf("%.0f%% of profiled accounts are less than 30 days old", ratio*100))
		}
	}

	indicators = append(indicators, usernameIndicators(c, analyzedSample)...)

	switch {
	case c.Coordinated > 10:
		indicators = append(indicators, fmt.Sprintf("Heavy coordinated starring: %d stars landed inside shared one-minute windows", c.Coordinated))
	case c.Coordinated > 5:
		indicators = append(indicators, fmt.Sprintf("Coordinated starring: %d stars landed inside shared one-minute windows", c.Coordinated))
	}

	if repo.StarsCount > 1000 && forkRatio(repo) < 0.005 {
		indicators = append(indicators, "Very low fork-to-star ratio for a repository of this size")
	}

	switch maxCreation := maxCreationCluster(c); {
	case maxCreation > 10:
		indicators = append(indicators, fmt.Sprintf("Many profiled accounts (%d) were created on the same calendar day", maxCreation))
	case maxCreation > 5:
		indicators = append(indicators, fmt.Sprintf("Several profiled accounts (%d) were created on the same calendar day", maxCreation))
	}

	return indicators
}

// buildBasicIndicators covers only the signals the fallback path can
// observe without enriched profiles.
func buildBasicIndicators(repo *models.RepositoryInfo, c *models.PatternCounters, analyzedSample int, starsPerDay float64) []string {
	indicators := []string{}

	switch {
	case starsPerDay > 500:
		indicators = append(indicators, fmt.Sprintf("Extremely high star velocity: %.0f stars per day on average", starsPerDay))
	case starsPerDay > 100:
		indicators = append(indicators, fmt.Sprintf("High star velocity: %.0f stars per day on average", starsPerDay))
	}

	indicators = append(indicators, usernameIndicators(c, analyzedSample)...)

	if repo.StarsCount > 1000 && forkRatio(repo) < 0.005 {
		indicators = append(indicators, "Very low fork-to-star ratio for a repository of this size")
	}

	return indicators
}

func usernameIndicators(c *models.PatternCounters, analyzedSample int) []string {
	if analyzedSample == 0 {
		return nil
	}
	as := float64(analyzedSample)

	var indicators []string
	if ratio := float64(c.GenericUsernames) / as; ratio > 0.2 {
		indicators = append(indicators, fmt.Sprintf("%.0f%% of sampled usernames look auto-generated", ratio*100))
	}
	if ratio := float64(c.BotLikeNames) / as; ratio > 0.25 {
		indicators = append(indicators, fmt.Sprintf("%.0f%% of sampled usernames match bot-like naming patterns", ratio*100))
	}
	return indicators
}
