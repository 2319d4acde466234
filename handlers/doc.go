// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the pixel rolls API.

# Handler Types

Each handler is a struct holding the persistence it needs, passed in as
an interface, plus the request validator:

  - UserHandler: user registration for a pixel device
  - RollHandler: recording rolls and listing recent ones

	users := handlers.NewUserHandler(st, validator)
	rolls := handlers.NewRollHandler(st, validator, cfg.DefaultRollLimit)

# Endpoints

	POST /api/users  → CreateUser      (201 user, 400, 409)
	POST /roll       → RecordRoll      (201 roll, 400, 404)
	GET  /rolls/     → ListRecentRolls (200, default count)
	GET  /rolls/{n}  → ListRecentRolls (200, at most n rolls, 400 on a bad n)

# Validation

Bodies are checked against the JSON schemas in package validate before
they are decoded, so a missing key is reported as 400 and never reaches
the store. faceValue 0 is a valid roll.

# Errors

Store errors map to statuses: store.ErrNotFound → 404,
store.ErrDuplicatePixelID → 409, anything else → 500 "Database error".
*/
package handlers
