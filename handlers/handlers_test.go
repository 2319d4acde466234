// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/pixel-rolls/db"
	"github.com/danielhkuo/pixel-rolls/models"
	"github.com/danielhkuo/pixel-rolls/store"
	"github.com/danielhkuo/pixel-rolls/testutil"
	"github.com/danielhkuo/pixel-rolls/validate"
)

// testEnv bundles a migrated database with handlers built on it
type testEnv struct {
	db    *db.DB
	store *store.Store
	users *UserHandler
	rolls *RollHandler
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	st := store.New(conn)

	v, err := validate.New()
	if err != nil {
		t.Fatalf("Failed to build validator: %v", err)
	}

	return &testEnv{
		db:    conn,
		store: st,
		users: NewUserHandler(st, v),
		rolls: NewRollHandler(st, v, models.DefaultRollLimit),
	}
}

func mustValidator(t *testing.T) *validate.Validator {
	t.Helper()
	v, err := validate.New()
	if err != nil {
		t.Fatalf("Failed to build validator: %v", err)
	}
	return v
}

var errStorageDown = errors.New("storage down")

// brokenStore fails every call, standing in for a lost database connection
type brokenStore struct{}

func (brokenStore) CreateUser(ctx context.Context, pixelID, username string) (*models.User, error) {
	return nil, errStorageDown
}

func (brokenStore) GetUserByPixelID(ctx context.Context, pixelID string) (*models.User, error) {
	return nil, errStorageDown
}

func (brokenStore) CreateRoll(ctx context.Context, userID int64, value int, at time.Time) (*models.Roll, error) {
	return nil, errStorageDown
}

func (brokenStore) ListRecentRolls(ctx context.Context, limit int) ([]models.RollWithUser, error) {
	return nil, errStorageDown
}

// failingInsertStore finds users but cannot record rolls
type failingInsertStore struct {
	brokenStore
}

func (failingInsertStore) GetUserByPixelID(ctx context.Context, pixelID string) (*models.User, error) {
	return &models.User{ID: 1, PixelID: pixelID, Username: "someone"}, nil
}
