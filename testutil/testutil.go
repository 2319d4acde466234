// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/pixel-rolls/cliparse"
	"github.com/danielhkuo/pixel-rolls/db"
)

// SetupTestDB creates a fresh SQLite database in a temp dir with all migrations applied
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rolls_test.db")
	conn, err := db.Open(db.SQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             5000,
		DatabaseURL:      "rolls_test.db",
		DatabaseType:     string(db.SQLite),
		LogLevel:         "info",
		DefaultRollLimit: 10,
	}
}

// CreateTestUser inserts a user row and returns its ID
func CreateTestUser(t *testing.T, d *db.DB, pixelID, username string) int64 {
	t.Helper()

	var id int64
	err := d.QueryRow(d.Rebind(`
		INSERT INTO "user" (pixel_id, username)
		VALUES (?, ?)
		RETURNING id
	`), pixelID, username).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// CreateTestRoll inserts a roll row for a user at the given time and returns its ID
func CreateTestRoll(t *testing.T, d *db.DB, userID int64, value int, at time.Time) int64 {
	t.Helper()

	var id int64
	err := d.QueryRow(d.Rebind(`
		INSERT INTO roll (value, "timestamp", user_id)
		VALUES (?, ?, ?)
		RETURNING id
	`), value, at.UTC(), userID).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test roll: %v", err)
	}

	return id
}

// CountRows returns the number of rows in a table
func CountRows(t *testing.T, d *db.DB, table string) int {
	t.Helper()

	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case string:
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(b)))
		req.Header.Set("Content-Type", "application/json")
	default:
		jsonBody, _ := json.Marshal(b)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
