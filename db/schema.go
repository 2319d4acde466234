// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
)

//go:embed migrations
var migrationsFS embed.FS

var migrationFileRe = regexp.MustCompile(`^([0-9]{4})_(.+)\.(up|down)\.sql$`)

type migration struct {
	version  int
	name     string
	upFile   string
	downFile string
}

// Migrate applies every pending up migration in version order.
// Safe to call multiple times - applied versions are recorded in schema_migrations.
func Migrate(ctx context.Context, d *DB) error {
	migs, err := loadMigrations(d.Dialect)
	if err != nil {
		return err
	}

	applied, err := AppliedVersions(ctx, d)
	if err != nil {
		return err
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, m := range migs {
		if done[m.version] {
			continue
		}
		if m.upFile == "" {
			return fmt.Errorf("missing up migration for version %04d", m.version)
		}

		script, err := migrationsFS.ReadFile(m.upFile)
		if err != nil {
			return fmt.Errorf("failed to read migration %04d: %w", m.version, err)
		}

		err = inTx(ctx, d, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(script)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, d.Rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), m.version)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %04d_%s failed: %w", m.version, m.name, err)
		}
	}

	return nil
}

// RollbackLast reverts the most recently applied migration.
// Returns nil when nothing has been applied.
func RollbackLast(ctx context.Context, d *DB) error {
	applied, err := AppliedVersions(ctx, d)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return nil
	}
	version := applied[len(applied)-1]

	migs, err := loadMigrations(d.Dialect)
	if err != nil {
		return err
	}

	var downFile string
	for _, m := range migs {
		if m.version == version {
			downFile = m.downFile
		}
	}
	if downFile == "" {
		return fmt.Errorf("no down migration found for version %04d", version)
	}

	script, err := migrationsFS.ReadFile(downFile)
	if err != nil {
		return fmt.Errorf("failed to read down migration %04d: %w", version, err)
	}

	err = inTx(ctx, d, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, string(script)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, d.Rebind(`DELETE FROM schema_migrations WHERE version = ?`), version)
		return err
	})
	if err != nil {
		return fmt.Errorf("rollback of %04d failed: %w", version, err)
	}

	return nil
}

// AppliedVersions lists applied migration versions in ascending order
func AppliedVersions(ctx context.Context, d *DB) ([]int, error) {
	if err := ensureMigrationsTable(ctx, d); err != nil {
		return nil, err
	}

	rows, err := d.QueryContext(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer rows.Close()

	versions := []int{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func ensureMigrationsTable(ctx context.Context, d *DB) error {
	_, err := d.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	return nil
}

// loadMigrations reads the embedded scripts for a dialect, sorted by version
func loadMigrations(dialect Dialect) ([]migration, error) {
	dir := path.Join("migrations", string(dialect))
	entries, err := fs.ReadDir(migrationsFS, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}
	if err != nil {
		return nil, err
	}

	byVersion := map[int]migration{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := migrationFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		version, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		item := byVersion[version]
		item.version = version
		item.name = m[2]
		if m[3] == "up" {
			item.upFile = path.Join(dir, e.Name())
		} else {
			item.downFile = path.Join(dir, e.Name())
		}
		byVersion[version] = item
	}

	migs := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		migs = append(migs, m)
	}
	sort.Slice(migs, func(i, j int) bool { return migs[i].version < migs[j].version })
	return migs, nil
}

func inTx(ctx context.Context, d *DB, fn func(tx *sql.Tx) error) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
