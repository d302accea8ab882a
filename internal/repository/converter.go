package repository

import (
	"github.com/futig/practice-analyzer/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// analysisRow mirrors a row of the analyses table.
type analysisRow struct {
	ID        pgtype.UUID
	Model     string
	Files     []string
	Response  string
	CreatedAt pgtype.Timestamptz
}

func toEntityAnalysis(row *analysisRow) *entity.Analysis {
	files := row.Files
	if files == nil {
		files = []string{}
	}

	return &entity.Analysis{
		ID:        uuid.UUID(row.ID.Bytes).String(),
		Model:     row.Model,
		Files:     files,
		Response:  row.Response,
		CreatedAt: row.CreatedAt.Time,
	}
}
