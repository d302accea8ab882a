package repository

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies the embedded schema migrations
func RunMigrations(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		// Handle dirty database state by forcing to the previous clean version
		var dirtyErr migrate.ErrDirty
		if errors.As(err, &dirtyErr) {
			forceVersion := max(dirtyErr.Version-1, 0)
			if forceVersion == 0 {
				// version 0 is not a migration, reset to nil version
				forceVersion = -1
			}

			if ferr := m.Force(forceVersion); ferr != nil {
				return fmt.Errorf("force clean migration version %d: %w", forceVersion, ferr)
			}

			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("rerun migrations after dirty state: %w", err)
			}

			return nil
		}

		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
