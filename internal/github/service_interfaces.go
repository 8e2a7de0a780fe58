package github

import (
	"context"

	"github.com/walidcherhane/star-buster-api/internal/models"
)

// AnalysisService is the inbound boundary consumed by the API layer.
type AnalysisService interface {
	// RunAnalysis analyzes a repository's stargazers, returning a cached
	// result when an unexpired one satisfies the request.
	RunAnalysis(ctx context.Context, ownerRepo string, opts models.AnalysisOptions) (*models.AnalysisResult, error)

	// GetAnalysisByID returns a previously stored analysis.
	GetAnalysisByID(ctx context.Context, id int64) (*models.StoredAnalysis, error)

	// ListRecentAnalyses returns the most recently stored analyses.
	ListRecentAnalyses(ctx context.Context, limit int) ([]*models.StoredAnalysis, error)
}
