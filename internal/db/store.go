package db

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/walidcherhane/star-buster-api/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store defines the persistence interface for analysis results.
type Store interface {
	SaveAnalysis(ctx context.Context, analysis *models.StoredAnalysis) (int64, error)
	GetFreshAnalysis(ctx context.Context, owner, repo string) (*models.StoredAnalysis, error)
	GetAnalysisByID(ctx context.Context, id int64) (*models.StoredAnalysis, error)
	ListRecentAnalyses(ctx context.Context, limit int) ([]*models.StoredAnalysis, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Migrate() error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveAnalysis stores an analysis result and returns its new identifier.
func (s *PostgresStore) SaveAnalysis(ctx context.Context, analysis *models.StoredAnalysis) (int64, error) {
	resultJSON, err := json.Marshal(analysis.Result)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO analyses (owner, repo, deep, max_stars, max_users, total_stars, suspicion_score, result, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		analysis.Owner,
		analysis.Repo,
		analysis.Deep,
		analysis.MaxStars,
		analysis.MaxUsers,
		analysis.TotalStars,
		analysis.SuspicionScore,
		resultJSON,
		analysis.CreatedAt,
		analysis.ExpiresAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save analysis: %w", err)
	}

	return id, nil
}

// GetFreshAnalysis returns the newest unexpired analysis for a
// repository, or nil when none exists.
func (s *PostgresStore) GetFreshAnalysis(ctx context.Context, owner, repo string) (*models.StoredAnalysis, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner, repo, deep, max_stars, max_users, total_stars, suspicion_score, result, created_at, expires_at
		FROM analyses
		WHERE owner = $1 AND repo = $2 AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1`,
		owner, repo)

	analysis, err := scanAnalysis(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return analysis, err
}

// GetAnalysisByID returns a stored analysis by its identifier.
func (s *PostgresStore) GetAnalysisByID(ctx context.Context, id int64) (*models.StoredAnalysis, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner, repo, deep, max_stars, max_users, total_stars, suspicion_score, result, created_at, expires_at
		FROM analyses
		WHERE id = $1`,
		id)

	return scanAnalysis(row)
}

// ListRecentAnalyses returns the most recently created analyses.
func (s *PostgresStore) ListRecentAnalyses(ctx context.Context, limit int) ([]*models.StoredAnalysis, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, repo, deep, max_stars, max_users, total_stars, suspicion_score, result, created_at, expires_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var analyses []*models.StoredAnalysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}

	return analyses, nil
}

// DeleteExpired removes analyses past their expiry and reports how
// many rows were deleted.
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM analyses WHERE expires_at <= NOW()")
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired analyses: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalysis(row rowScanner) (*models.StoredAnalysis, error) {
	var (
		analysis   models.StoredAnalysis
		resultJSON []byte
	)

	err := row.Scan(
		&analysis.ID,
		&analysis.Owner,
		&analysis.Repo,
		&analysis.Deep,
		&analysis.MaxStars,
		&analysis.MaxUsers,
		&analysis.TotalStars,
		&analysis.SuspicionScore,
		&resultJSON,
		&analysis.CreatedAt,
		&analysis.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis result: %w", err)
	}
	result.ID = analysis.ID
	analysis.Result = &result

	return &analysis, nil
}
