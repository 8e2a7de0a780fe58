package github

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/walidcherhane/star-buster-api/internal/analyzer"
	"github.com/walidcherhane/star-buster-api/internal/db"
	apperrors "github.com/walidcherhane/star-buster-api/internal/errors"
	"github.com/walidcherhane/star-buster-api/internal/models"
	"github.com/walidcherhane/star-buster-api/pkg/utils"
)

// Service orchestrates one analysis run: collection, optional
// enrichment, analysis, and hand-off to the persistence collaborator.
// Steps within one run are strictly sequential so every request shares
// the client's single rate-limit budget fairly.
type Service struct {
	client   *Client
	store    db.Store
	logger   *logrus.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewService creates a new analysis service.
func NewService(client *Client, store db.Store, cacheTTL time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		client:   client,
		store:    store,
		logger:   logger,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// RunAnalysis implements AnalysisService.
func (s *Service) RunAnalysis(ctx context.Context, ownerRepo string, opts models.AnalysisOptions) (*models.AnalysisResult, error) {
	owner, repo, err := utils.ParseOwnerRepo(ownerRepo)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid repository reference", err)
	}

	logger := s.logger.WithFields(logrus.Fields{
		"owner": owner,
		"repo":  repo,
		"deep":  opts.Deep,
	})

	if cached := s.lookupCached(ctx, owner, repo, opts); cached != nil {
		logger.WithField("analysis_id", cached.ID).Info("Serving cached analysis")
		return cached.Result, nil
	}

	repoInfo, err := s.client.GetRepository(ctx, owner, repo)
	if err != nil {
		return nil, s.wrapClientError(owner, repo, err)
	}

	stargazers, degraded := s.client.CollectStargazers(ctx, owner, repo, opts.MaxStars)

	var result *models.AnalysisResult
	if opts.Deep {
		profiles, enrichDegraded := s.client.EnrichProfiles(ctx, stargazers, opts.MaxUsers)
		result = analyzer.Analyze(repoInfo, stargazers, profiles, s.now())
		result.Degraded = degraded || enrichDegraded
	} else {
		result = analyzer.AnalyzeBasic(repoInfo, stargazers, s.now())
		result.Degraded = degraded
	}

	logger.WithFields(logrus.Fields{
		"score":           result.SuspicionScore,
		"analyzed_sample": result.AnalyzedSample,
		"detailed_sample": result.DetailedSample,
		"degraded":        result.Degraded,
	}).Info("Analysis complete")

	s.persist(ctx, opts, result)
	return result, nil
}

// GetAnalysisByID implements AnalysisService.
func (s *Service) GetAnalysisByID(ctx context.Context, id int64) (*models.StoredAnalysis, error) {
	analysis, err := s.store.GetAnalysisByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("analysis %d not found", id), err)
	}
	return analysis, nil
}

// ListRecentAnalyses implements AnalysisService.
func (s *Service) ListRecentAnalyses(ctx context.Context, limit int) ([]*models.StoredAnalysis, error) {
	analyses, err := s.store.ListRecentAnalyses(ctx, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list analyses", err)
	}
	return analyses, nil
}

// lookupCached returns an unexpired stored analysis that satisfies the
// request, or nil. Cache failures fall through to a fresh run.
func (s *Service) lookupCached(ctx context.Context, owner, repo string, opts models.AnalysisOptions) *models.StoredAnalysis {
	cached, err := s.store.GetFreshAnalysis(ctx, owner, repo)
	if err != nil {
		s.logger.WithError(err).Warn("Cache lookup failed, running fresh analysis")
		return nil
	}
	if cached == nil || !cached.Satisfies(opts) {
		return nil
	}
	return cached
}

// persist hands the result to the persistence collaborator. A storage
// failure degrades to an uncached result rather than failing the run.
func (s *Service) persist(ctx context.Context, opts models.AnalysisOptions, result *models.AnalysisResult) {
	now := s.now()
	stored := &models.StoredAnalysis{
		Owner:          result.Owner,
		Repo:           result.Repo,
		Deep:           result.Deep,
		MaxStars:       opts.MaxStars,
		MaxUsers:       opts.MaxUsers,
		TotalStars:     result.TotalStars,
		SuspicionScore: result.SuspicionScore,
		Result:         result,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.cacheTTL),
	}

	id, err := s.store.SaveAnalysis(ctx, stored)
	if err != nil {
		s.logger.WithError(err).Error("Failed to persist analysis result")
		return
	}
	result.ID = id
}

func (s *Service) wrapClientError(owner, repo string, err error) error {
	switch {
	case IsNotFoundError(err):
		return apperrors.NewNotFoundError(fmt.Sprintf("repository %s/%s not found", owner, repo), err)
	case IsExhaustedRetriesError(err):
		return apperrors.New(apperrors.ErrExhaustedRetries, "GitHub API retries exhausted", err)
	default:
		return apperrors.NewInternalError("GitHub API request failed", err)
	}
}
