// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"fmt"
	"log/slog"
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"

	"github.com/danielhkuo/pixel-rolls/apidocs"
	"github.com/danielhkuo/pixel-rolls/cliparse"
	"github.com/danielhkuo/pixel-rolls/handlers"
	"github.com/danielhkuo/pixel-rolls/middleware"
	"github.com/danielhkuo/pixel-rolls/store"
	"github.com/danielhkuo/pixel-rolls/validate"
)

// Banner is served at the API root
const Banner = "pixel-rolls API v1"

// recoveryLogger routes recovered panics into slog
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	slog.Error("recovered from panic", "detail", fmt.Sprint(v...))
}

func NewRouter(st *store.Store, validator *validate.Validator, cfg cliparse.Config) http.Handler {
	return Wrap(NewMux(st, st, validator, cfg))
}

// Wrap adds CORS and panic recovery around a mux
func Wrap(mux http.Handler) http.Handler {
	recovery := gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(recoveryLogger{}),
		gorillahandlers.PrintRecoveryStack(true),
	)
	return recovery(middleware.CORS(mux))
}

// NewMux registers every route on a fresh ServeMux
func NewMux(users handlers.UserStore, rolls handlers.RollStore, validator *validate.Validator, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(users, validator)
	rollHandler := handlers.NewRollHandler(rolls, validator, cfg.DefaultRollLimit)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Users
	mux.HandleFunc("POST /api/users", middleware.WithLogging(userHandler.CreateUser))

	// Rolls
	mux.HandleFunc("POST /roll", middleware.WithLogging(rollHandler.RecordRoll))
	listRolls := gorillahandlers.CompressHandler(middleware.WithLogging(rollHandler.ListRecentRolls))
	mux.Handle("GET /rolls", listRolls)
	mux.Handle("GET /rolls/{$}", listRolls)
	mux.Handle("GET /rolls/{n}", listRolls)

	// API docs
	mux.HandleFunc("GET /apidocs", apidocs.Handler())

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(Banner))
	})

	return mux
}
