// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	d, err := Open(SQLite, filepath.Join(t.TempDir(), "schema_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func tableExists(t *testing.T, d *DB, name string) bool {
	t.Helper()

	var n int
	err := d.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestParseDialect(t *testing.T) {
	testCases := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"sqlite", SQLite, false},
		{"SQLite", SQLite, false},
		{"postgres", Postgres, false},
		{"postgresql", Postgres, false},
		{"mysql", "", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDialect(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRebind(t *testing.T) {
	query := `INSERT INTO roll (value, "timestamp", user_id) VALUES (?, ?, ?)`

	lite := &DB{Dialect: SQLite}
	assert.Equal(t, query, lite.Rebind(query))

	pg := &DB{Dialect: Postgres}
	assert.Equal(t, `INSERT INTO roll (value, "timestamp", user_id) VALUES ($1, $2, $3)`, pg.Rebind(query))
	assert.Equal(t, `SELECT 1`, pg.Rebind(`SELECT 1`))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t,
		"rolls.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite",
		sqliteDSN("rolls.db"))
	assert.Equal(t,
		"file:rolls.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite",
		sqliteDSN("file:rolls.db?mode=rwc"))
	assert.Equal(t, "rolls.db?_pragma=journal_mode(WAL)", sqliteDSN("rolls.db?_pragma=journal_mode(WAL)"))
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)

	require.NoError(t, Migrate(ctx, d))

	assert.True(t, tableExists(t, d, "user"))
	assert.True(t, tableExists(t, d, "roll"))

	versions, err := AppliedVersions(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, versions)

	// Second run is a no-op
	require.NoError(t, Migrate(ctx, d))
	versions, err = AppliedVersions(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, versions)
}

func TestMigrate_EnforcesSchema(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	require.NoError(t, Migrate(ctx, d))

	_, err := d.Exec(`INSERT INTO "user" (pixel_id, username) VALUES ('abc123', 'wizardroller')`)
	require.NoError(t, err)

	t.Run("pixel_id is unique", func(t *testing.T) {
		_, err := d.Exec(`INSERT INTO "user" (pixel_id, username) VALUES ('abc123', 'copycat')`)
		assert.Error(t, err)
	})

	t.Run("roll needs an existing user", func(t *testing.T) {
		_, err := d.Exec(`INSERT INTO roll (value, user_id) VALUES (3, 999)`)
		assert.Error(t, err)
	})

	t.Run("roll value is required", func(t *testing.T) {
		_, err := d.Exec(`INSERT INTO roll (user_id) VALUES (1)`)
		assert.Error(t, err)
	})
}

func TestRollbackLast(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)

	// Nothing applied yet
	require.NoError(t, RollbackLast(ctx, d))

	require.NoError(t, Migrate(ctx, d))

	// Reverting 0002 drops pixel_id uniqueness
	require.NoError(t, RollbackLast(ctx, d))
	versions, err := AppliedVersions(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, versions)

	_, err = d.Exec(`INSERT INTO "user" (pixel_id, username) VALUES ('dup', 'a'), ('dup', 'b')`)
	require.NoError(t, err)

	// Reverting 0001 drops the tables
	require.NoError(t, RollbackLast(ctx, d))
	assert.False(t, tableExists(t, d, "user"))
	assert.False(t, tableExists(t, d, "roll"))

	versions, err = AppliedVersions(ctx, d)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestLoadMigrations(t *testing.T) {
	for _, dialect := range []Dialect{SQLite, Postgres} {
		t.Run(string(dialect), func(t *testing.T) {
			migs, err := loadMigrations(dialect)
			require.NoError(t, err)
			require.Len(t, migs, 2)

			assert.Equal(t, 1, migs[0].version)
			assert.Equal(t, "initial_schema", migs[0].name)
			assert.Equal(t, 2, migs[1].version)
			assert.Equal(t, "unique_pixel_id", migs[1].name)
			for _, m := range migs {
				assert.NotEmpty(t, m.upFile)
				assert.NotEmpty(t, m.downFile)
			}
		})
	}

	_, err := loadMigrations("oracle")
	assert.Error(t, err)
}
