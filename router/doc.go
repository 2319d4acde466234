// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires handlers to routes using Go 1.22+ pattern routing.

# Usage

	handler := router.NewRouter(st, validator, cfg)
	server := http.Server{Handler: handler}

NewRouter wraps the mux in CORS and panic recovery. NewMux builds the bare
mux from store interfaces, which lets tests substitute their own store.

# Routes

	GET  /health       → "OK"
	GET  /             → API banner
	POST /api/users    → UserHandler.CreateUser
	POST /roll         → RollHandler.RecordRoll
	GET  /rolls        → RollHandler.ListRecentRolls
	GET  /rolls/       → RollHandler.ListRecentRolls
	GET  /rolls/{n}    → RollHandler.ListRecentRolls

All API routes are wrapped with middleware.WithLogging.
*/
package router
