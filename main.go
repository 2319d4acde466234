package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/pixel-rolls/cliparse"
	"github.com/danielhkuo/pixel-rolls/db"
	"github.com/danielhkuo/pixel-rolls/router"
	"github.com/danielhkuo/pixel-rolls/store"
	"github.com/danielhkuo/pixel-rolls/validate"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Connect to the database
	dbConn, err := db.Open(cfg.Dialect(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	ctx := context.Background()

	if cfg.Rollback {
		if err := db.RollbackLast(ctx, dbConn); err != nil {
			slog.Error("rollback failed", "error", err)
			os.Exit(1)
		}
		versions, _ := db.AppliedVersions(ctx, dbConn)
		slog.Info("Rolled back latest migration", "remaining", versions)
		return
	}

	// Apply pending migrations
	if err := db.Migrate(ctx, dbConn); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	st := store.New(dbConn)
	if n, err := st.CountRolls(ctx); err == nil {
		slog.Info("Rolls on record", "count", humanize.Comma(n))
	}

	validator, err := validate.New()
	if err != nil {
		slog.Error("schema compilation failed", "error", err)
		os.Exit(1)
	}

	// Create server
	server := http.Server{
		Handler:           router.NewRouter(st, validator, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}
