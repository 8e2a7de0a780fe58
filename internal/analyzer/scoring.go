package analyzer

import (
	"math"

	"github.com/walidcherhane/star-buster-api/internal/models"
)

// calculateSuspicionScore combines all signals into the 0-100 score.
// Contributions are additive and can jointly exceed 100 before the
// final clamp; the literal formula is kept as-is.
func calculateSuspicionScore(repo *models.RepositoryInfo, c *models.PatternCounters, analyzedSample, detailedSample int, starsPerDay float64) int {
	score := 0.0

	switch {
	case starsPerDay > 1000:
		score += 35
	case starsPerDay > 500:
		score += 30
	case starsPerDay > 100:
		score += 20
	case starsPerDay > 50:
		score += 10
	}

	// Profile-based signals only apply when an enriched sample exists.
	if detailedSample > 0 {
		ds := float64(detailedSample)
		score += float64(c.SameDayPattern) / ds * 40
		score += float64(c.FakeStars) / ds * 35
		score += float64(c.LowEngagement) / ds * 20
		score += float64(c.NewAccounts) / ds * 15
	}

	if analyzedSample > 0 {
		as := float64(analyzedSample)
		score += float64(c.GenericUsernames) / as * 15
		score += float64(c.BotLikeNames) / as * 20
	}

	switch {
	case c.Coordinated > 10:
		score += 25
	case c.Coordinated > 5:
		score += 15
	}

	if repo.StarsCount > 1000 && forkRatio(repo) < 0.005 {
		score += 20
	}

	switch maxCreation := maxCreationCluster(c); {
	case maxCreation > 10:
		score += 15
	case maxCreation > 5:
		score += 10
	}

	return clampScore(score)
}

// calculateBasicScore is the reduced fallback formula used when no
// enriched profiles are available.
func calculateBasicScore(c *models.PatternCounters, analyzedSample int, starsPerDay float64) int {
	score := 0.0

	switch {
	case starsPerDay > 500:
		score += 30
	case starsPerDay > 100:
		score += 20
	case starsPerDay > 50:
		score += 10
	}

	if analyzedSample > 0 {
		as := float64(analyzedSample)
		score += float64(c.GenericUsernames) / as * 20
		score += float64(c.BotLikeNames) / as * 25
	}

	return clampScore(score)
}

func clampScore(score float64) int {
	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func forkRatio(repo *models.RepositoryInfo) float64 {
	return float64(repo.ForksCount) / math.Max(float64(repo.StarsCount), 1)
}

// maxCreationCluster returns the largest number of sampled accounts
// created on a single calendar date.
func maxCreationCluster(c *models.PatternCounters) int {
	max := 0
	for _, count := range c.CreationDates {
		if count > max {
			max = count
		}
	}
	return max
}
