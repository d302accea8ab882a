package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestToEntityAnalysis(t *testing.T) {
	id := uuid.New()
	created := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	a := toEntityAnalysis(&analysisRow{
		ID:        pgtype.UUID{Bytes: id, Valid: true},
		Model:     "m",
		Response:  "r",
		CreatedAt: pgtype.Timestamptz{Time: created, Valid: true},
	})

	assert.Equal(t, id.String(), a.ID)
	assert.Equal(t, []string{}, a.Files)
	assert.Equal(t, created, a.CreatedAt)
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_create_analyses.up.sql")
	assert.Contains(t, names, "000001_create_analyses.down.sql")
}
