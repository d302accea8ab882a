package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalysisRepository defines the interface for analysis history persistence
type AnalysisRepository interface {
	Save(ctx context.Context, analysis entity.Analysis) (*entity.Analysis, error)
	Get(ctx context.Context, id string) (*entity.Analysis, error)
	List(ctx context.Context, skip, limit int) ([]*entity.Analysis, error)
}

var _ AnalysisRepository = &AnalysisPostgres{}

const (
	insertAnalysis = `INSERT INTO analyses (id, model, files, response)
VALUES ($1, $2, $3, $4)
RETURNING id, model, files, response, created_at`

	getAnalysis = `SELECT id, model, files, response, created_at
FROM analyses
WHERE id = $1`

	listAnalyses = `SELECT id, model, files, response, created_at
FROM analyses
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`
)

// AnalysisPostgres implements AnalysisRepository using PostgreSQL
type AnalysisPostgres struct {
	db *pgxpool.Pool
}

func NewAnalysisPostgres(db *pgxpool.Pool) *AnalysisPostgres {
	return &AnalysisPostgres{db: db}
}

func scanAnalysis(row pgx.Row) (*analysisRow, error) {
	var r analysisRow
	if err := row.Scan(&r.ID, &r.Model, &r.Files, &r.Response, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *AnalysisPostgres) Save(ctx context.Context, analysis entity.Analysis) (*entity.Analysis, error) {
	analysisID, err := uuid.Parse(analysis.ID)
	if err != nil {
		return nil, fmt.Errorf("parse analysis ID: %w", err)
	}

	files := analysis.Files
	if files == nil {
		files = []string{}
	}

	row, err := scanAnalysis(r.db.QueryRow(ctx, insertAnalysis,
		pgtype.UUID{Bytes: analysisID, Valid: true},
		analysis.Model,
		files,
		analysis.Response,
	))
	if err != nil {
		return nil, fmt.Errorf("insert analysis: %w", err)
	}

	return toEntityAnalysis(row), nil
}

func (r *AnalysisPostgres) Get(ctx context.Context, id string) (*entity.Analysis, error) {
	analysisID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse analysis ID: %w", err)
	}

	row, err := scanAnalysis(r.db.QueryRow(ctx, getAnalysis, pgtype.UUID{Bytes: analysisID, Valid: true}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}

	return toEntityAnalysis(row), nil
}

func (r *AnalysisPostgres) List(ctx context.Context, skip, limit int) ([]*entity.Analysis, error) {
	rows, err := r.db.Query(ctx, listAnalyses, int32(limit), int32(skip))
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	analyses := make([]*entity.Analysis, 0, limit)
	for rows.Next() {
		row, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		analyses = append(analyses, toEntityAnalysis(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}

	return analyses, nil
}
