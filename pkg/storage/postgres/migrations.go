package postgres

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationVersion extracts the numeric version from a migration
// filename such as "001_create_catalog.sql". The second return is false
// for files that don't follow the naming scheme.
func migrationVersion(name string) (int, bool) {
	if !strings.HasSuffix(name, ".sql") {
		return 0, false
	}
	prefix, _, found := strings.Cut(name, "_")
	if !found {
		return 0, false
	}
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false
	}
	return v, true
}

// migrate brings the catalog schema up to date. Applied versions are
// recorded in schema_migrations; each pending file runs once, in
// filename order.
func (s *Store) migrate(ctx context.Context) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		version, ok := migrationVersion(name)
		if !ok {
			continue
		}

		applied, err := s.migrationApplied(ctx, version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := s.applyMigration(ctx, name, version); err != nil {
			return err
		}
	}

	return nil
}

// migrationApplied reports whether the version is already recorded. A
// query failure is treated as "not applied": before the first migration
// runs, schema_migrations itself does not exist yet.
func (s *Store) migrationApplied(ctx context.Context, version int) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
		version,
	).Scan(&exists)
	if err != nil {
		return false, nil
	}
	return exists, nil
}

func (s *Store) applyMigration(ctx context.Context, name string, version int) error {
	sql, err := migrationsFS.ReadFile("migrations/" + name)
	if err != nil {
		return fmt.Errorf("reading migration %s: %w", name, err)
	}

	slog.Info("applying schema migration", "file", name, "version", version)

	if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("applying migration %s: %w", name, err)
	}

	if _, err := s.pool.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT DO NOTHING",
		version,
	); err != nil {
		return fmt.Errorf("recording migration %s: %w", name, err)
	}

	return nil
}
