package analyzer

import (
	"time"

	"github.com/walidcherhane/star-buster-api/internal/models"
)

// AnalyzeBasic is the fallback path used when profile enrichment is
// skipped. It runs only the coarse username pass plus repository-level
// velocity and fork signals, trading analytical depth for zero extra
// API calls.
func AnalyzeBasic(repo *models.RepositoryInfo, stargazers []models.StarRecord, now time.Time) *models.AnalysisResult {
	counters := models.NewPatternCounters()

	for _, record := range stargazers {
		if IsGenericUsername(record.Username) {
			counters.GenericUsernames++
			counters.FlaggedGeneric = append(counters.FlaggedGeneric, record.Username)
		}
		if IsBotLikeName(record.Username) {
			counters.BotLikeNames++
			counters.FlaggedBotLike = append(counters.FlaggedBotLike, record.Username)
		}
	}

	analyzedSample := len(stargazers)
	starsPerDay := starVelocity(repo, now)

	return &models.AnalysisResult{
		Owner:          repo.Owner,
		Repo:           repo.Name,
		Deep:           false,
		TotalStars:     repo.StarsCount,
		AnalyzedSample: analyzedSample,
		DetailedSample: 0,
		Counters:       counters,
		Indicators:     buildBasicIndicators(repo, &counters, analyzedSample, starsPerDay),
		SuspicionScore: calculateBasicScore(&counters, analyzedSample, starsPerDay),
		AnalyzedAt:     now,
	}
}
