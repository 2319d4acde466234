// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/pixel-rolls/db"
	"github.com/danielhkuo/pixel-rolls/models"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicatePixelID = errors.New("pixelId already registered")
)

const (
	pointTimeout = 3 * time.Second
	listTimeout  = 5 * time.Second
)

// Store maps users and rolls to rows.
type Store struct {
	db *db.DB
}

func New(d *db.DB) *Store {
	return &Store{db: d}
}

// CreateUser inserts a user and returns it with its assigned ID
func (s *Store) CreateUser(ctx context.Context, pixelID, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, pointTimeout)
	defer cancel()

	u := models.User{PixelID: pixelID, Username: username}
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		INSERT INTO "user" (pixel_id, username)
		VALUES (?, ?)
		RETURNING id
	`), pixelID, username).Scan(&u.ID)
	if isUniqueViolation(err) {
		return nil, ErrDuplicatePixelID
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

// GetUserByPixelID returns ErrNotFound when no user owns the pixel.
func (s *Store) GetUserByPixelID(ctx context.Context, pixelID string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, pointTimeout)
	defer cancel()

	var u models.User
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT id, pixel_id, username
		FROM "user"
		WHERE pixel_id = ?
		ORDER BY id
		LIMIT 1
	`), pixelID).Scan(&u.ID, &u.PixelID, &u.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user by pixel_id: %w", err)
	}
	return &u, nil
}

// CreateRoll records a roll for userID at the given instant
func (s *Store) CreateRoll(ctx context.Context, userID int64, value int, at time.Time) (*models.Roll, error) {
	ctx, cancel := context.WithTimeout(ctx, pointTimeout)
	defer cancel()

	// Postgres keeps microseconds; truncate so the echoed value matches what is stored
	at = at.UTC().Truncate(time.Microsecond)

	r := models.Roll{Value: value, Timestamp: at, UserID: userID}
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		INSERT INTO roll (value, "timestamp", user_id)
		VALUES (?, ?, ?)
		RETURNING id
	`), value, at, userID).Scan(&r.ID)
	if err != nil {
		return nil, fmt.Errorf("insert roll: %w", err)
	}
	return &r, nil
}

// ListRecentRolls joins rolls with their users, newest first.
// Rolls whose user cannot be joined are dropped by the inner join.
func (s *Store) ListRecentRolls(ctx context.Context, limit int) ([]models.RollWithUser, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT r.id, r.value, r."timestamp", r.user_id,
		       u.id, u.pixel_id, u.username
		FROM roll r
		JOIN "user" u ON r.user_id = u.id
		ORDER BY r."timestamp" DESC, r.id DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("query recent rolls: %w", err)
	}
	defer rows.Close()

	out := []models.RollWithUser{}
	for rows.Next() {
		var rw models.RollWithUser
		if err := rows.Scan(
			&rw.Roll.ID, &rw.Roll.Value, &rw.Roll.Timestamp, &rw.Roll.UserID,
			&rw.User.ID, &rw.User.PixelID, &rw.User.Username,
		); err != nil {
			return nil, fmt.Errorf("scan recent roll: %w", err)
		}
		rw.Roll.Timestamp = rw.Roll.Timestamp.UTC()
		out = append(out, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent rolls: %w", err)
	}
	return out, nil
}

// CountRolls returns the number of recorded rolls
func (s *Store) CountRolls(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, pointTimeout)
	defer cancel()

	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM roll`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rolls: %w", err)
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}

	return false
}
