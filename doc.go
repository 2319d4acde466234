// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the pixel rolls API server.

Pixel rolls records dice throws reported by pixel devices. Each device
belongs to a user; every roll is stored against that user and the most
recent rolls can be read back joined with the user who threw them.

# Starting the Server

With no configuration the server uses a local SQLite file:

	go run .

Or against PostgreSQL:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run .

Pending schema migrations are applied at startup. To revert the latest one:

	go run . -rollback

# Configuration

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): file path or connection string (default: rolls.db)
  - LOG_LEVEL (-log-level): debug, info, warn, error
  - ROLL_LIMIT_DEFAULT (-roll-limit): rolls listed without a count (default: 10)

A .env file in the working directory is read first.

# Architecture

  - handlers: HTTP request handlers (users, rolls)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - validate: JSON schema validation of request bodies
  - store: Persistence of users and rolls
  - models: Request/response and domain types
  - db: Connection and migrations
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
