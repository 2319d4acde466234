// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

//go:build integration

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/danielhkuo/pixel-rolls/db"
)

// startPostgres runs a throwaway postgres:15 container and returns a migrated pool
func startPostgres(t *testing.T) *db.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "rolls",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	url := fmt.Sprintf("postgres://testuser:testpass@%s:%s/rolls?sslmode=disable", host, port.Port())
	conn, err := db.Open(db.Postgres, url)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.Migrate(ctx, conn))
	return conn
}

func TestPostgresStore(t *testing.T) {
	conn := startPostgres(t)
	s := New(conn)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "abc123", "wizardroller")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	_, err = s.CreateUser(ctx, "abc123", "impostor")
	assert.ErrorIs(t, err, ErrDuplicatePixelID)

	found, err := s.GetUserByPixelID(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = s.GetUserByPixelID(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	base := time.Now().UTC()
	for i, v := range []int{4, 0, 19} {
		_, err := s.CreateRoll(ctx, u.ID, v, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}

	rolls, err := s.ListRecentRolls(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rolls, 2)
	assert.Equal(t, 19, rolls[0].Roll.Value)
	assert.Equal(t, 0, rolls[1].Roll.Value)
	assert.Equal(t, "wizardroller", rolls[0].User.Username)
	assert.True(t, rolls[0].Roll.Timestamp.Equal(base.Add(2*time.Second).Truncate(time.Microsecond)))

	n, err := s.CountRolls(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestPostgresRollback(t *testing.T) {
	conn := startPostgres(t)
	ctx := context.Background()

	require.NoError(t, db.RollbackLast(ctx, conn))
	require.NoError(t, db.RollbackLast(ctx, conn))

	versions, err := db.AppliedVersions(ctx, conn)
	require.NoError(t, err)
	assert.Empty(t, versions)

	require.NoError(t, db.Migrate(ctx, conn))
	versions, err = db.AppliedVersions(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, versions)
}
