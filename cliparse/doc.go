// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags, environment
variables and an optional .env file.

# Usage

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

# Configuration Sources

Precedence, lowest to highest:

 1. .env file in the working directory (never overrides the real environment)
 2. Environment variables
 3. CLI flags

# Settings

	Flag          Env var              Default
	-p            PORT                 5000
	-d            DATABASE_URL         rolls.db (sqlite only)
	-t            DATABASE_TYPE        sqlite
	-log-level    LOG_LEVEL            info
	-roll-limit   ROLL_LIMIT_DEFAULT   10
	-rollback     -                    false

DATABASE_URL is required when DATABASE_TYPE is postgres.

# Example

	DATABASE_TYPE=postgres DATABASE_URL="postgres://..." go run .
	go run . -p 8080 -d ./data/rolls.db
	go run . -rollback
*/
package cliparse
