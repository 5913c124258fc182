package db

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/go-pg/pg/v10"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ApplyMigrations applies embedded SQL migrations in filename order. Every
// migration runs in its own transaction and is recorded in
// schema_migrations, so reapplying on startup is a no-op.
func (d DB) ApplyMigrations(ctx context.Context) error {
	_, err := d.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   text PRIMARY KEY,
			applied_at timestamptz NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var exists bool
		_, err = d.QueryOneContext(ctx, pg.Scan(&exists),
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE filename = ?)`, name)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", name, err)
		}
		if exists {
			continue
		}

		sqlText, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		err = d.RunInTransaction(ctx, func(tx *pg.Tx) error {
			if _, err := tx.ExecContext(ctx, string(sqlText)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (filename) VALUES (?)`, name)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", name, err)
		}
	}

	return nil
}
