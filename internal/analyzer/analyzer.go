package analyzer

import (
	"math"
	"sort"
	"time"

	"github.com/walidcherhane/star-buster-api/internal/models"
)

const (
	dateLayout   = "2006-01-02"
	minuteLayout = "2006-01-02T15:04"

	// newAccountAgeDays is the age below which an account counts as new.
	newAccountAgeDays = 30

	// coordinationThreshold is the minute-bucket size above which the
	// whole bucket counts as coordinated starring.
	coordinationThreshold = 3
)

// fakeAccountCutoff: accounts created before this date are never
// classified as fake stars.
var fakeAccountCutoff = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

// Analyze runs the full pattern analysis over a stargazer sample and
// its enriched profile subset. It is a pure function of its inputs and
// the supplied clock time; all I/O happens before it is called.
func Analyze(repo *models.RepositoryInfo, stargazers []models.StarRecord, profiles []models.UserProfile, now time.Time) *models.AnalysisResult {
	counters := models.NewPatternCounters()

	// Coarse pass: username heuristics over every collected record,
	// enriched or not.
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

	// Fine pass: profile-level signals over the enriched subset.
	timeline := make([]models.TimelineEntry, 0, len(profiles))
	for _, profile := range profiles {
		ageDays := now.Sub(profile.CreatedAt).Hours() / 24

		if ageDays < newAccountAgeDays {
			counters.NewAccounts++
		}
		if profile.PublicRepos == 0 {
			counters.NoRepos++
		}
		if profile.Email == "" {
			counters.NoEmail++
		}
		if profile.Followers < 2 && profile.Following < 2 {
			counters.LowEngagement++
		}
		if sameDayPattern(profile) {
			counters.SameDayPattern++
		}

		counters.CreationDates[profile.CreatedAt.UTC().Format(dateLayout)]++
		counters.StarMinutes[profile.StarredAt.UTC().Format(minuteLayout)]++

		isFake := validateStar(profile)
		if isFake {
			counters.FakeStars++
		} else {
			counters.RealStars++
		}

		timeline = append(timeline, models.TimelineEntry{
			Date:           profile.StarredAt.UTC().Format(dateLayout),
			Username:       profile.Login,
			IsFake:         isFake,
			AccountAgeDays: int(math.Round(ageDays)),
			Followers:      profile.Followers,
			PublicRepos:    profile.PublicRepos,
		})
	}

	// Minute buckets above the threshold contribute their entire count,
	// not just the excess.
	buckets := make([]string, 0, len(counters.StarMinutes))
	for bucket := range counters.StarMinutes {
		buckets = append(buckets, bucket)
	}
	sort.Strings(buckets)
	for _, bucket := range buckets {
		if count := counters.StarMinutes[bucket]; count > coordinationThreshold {
			counters.Coordinated += count
			counters.SuspiciousWindows = append(counters.SuspiciousWindows, bucket)
		}
	}

	analyzedSample := len(stargazers)
	detailedSample := len(profiles)
	starsPerDay := starVelocity(repo, now)

	return &models.AnalysisResult{
		Owner:          repo.Owner,
		Repo:           repo.Name,
		Deep:           true,
		TotalStars:     repo.StarsCount,
		AnalyzedSample: analyzedSample,
		DetailedSample: detailedSample,
		Counters:       counters,
		Timeline:       timeline,
		Indicators:     buildIndicators(repo, &counters, analyzedSample, detailedSample, starsPerDay),
		SuspicionScore: calculateSuspicionScore(repo, &counters, analyzedSample, detailedSample, starsPerDay),
		AnalyzedAt:     now,
	}
}

// sameDayPattern reports whether the account was created, last updated,
// and starred this repository all on the same UTC calendar date.
func sameDayPattern(p models.UserProfile) bool {
	created := p.CreatedAt.UTC().Format(dateLayout)
	updated := p.UpdatedAt.UTC().Format(dateLayout)
	starred := p.StarredAt.UTC().Format(dateLayout)
	return created == updated && updated == starred
}

// validateStar classifies a profile as a fake star. Every condition
// must hold; in particular hireable must be unset, not merely false.
func validateStar(p models.UserProfile) bool {
	if p.Hireable != nil {
		return false
	}
	return p.Followers < 2 &&
		p.Following < 2 &&
		p.PublicGists == 0 &&
		p.PublicRepos < 5 &&
		p.CreatedAt.After(fakeAccountCutoff) &&
		p.Email == "" &&
		sameDayPattern(p)
}

// starVelocity returns the average stars per day over the repository's
// lifetime, with the age floored at one day.
func starVelocity(repo *models.RepositoryInfo, now time.Time) float64 {
	ageDays := now.Sub(repo.CreatedAt).Hours() / 24
	return float64(repo.StarsCount) / math.Max(ageDays, 1)
}
