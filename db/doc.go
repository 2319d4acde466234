// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and manages its schema.

# Connecting

Two dialects are supported, SQLite (default, pure Go driver) and PostgreSQL:

	conn, err := db.Open(db.SQLite, "rolls.db")
	conn, err := db.Open(db.Postgres, "postgres://...")

Queries are written with ? placeholders and passed through DB.Rebind.

# Migrations

Versioned scripts are embedded from migrations/<dialect>/:

	0001_initial_schema.up.sql / 0001_initial_schema.down.sql
	0002_unique_pixel_id.up.sql / 0002_unique_pixel_id.down.sql

Migrate applies pending versions in order, each in its own transaction,
and records them in schema_migrations. RollbackLast reverts the newest one.

# Tables

  - user: pixel device owners (pixel_id unique since 0002)
  - roll: recorded die results, append-only

# Relationships

	user 1──* roll (roll.user_id)

# Indexes

  - user.pixel_id (unique)
  - roll.timestamp
  - roll.user_id
*/
package db
