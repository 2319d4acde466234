package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/pixel-rolls/db"
)

// EnvFile is loaded before the environment is read, when it exists
var EnvFile = ".env"

// DefaultSQLitePath is used when no DATABASE_URL is given for SQLite
const DefaultSQLitePath = "rolls.db"

type Config struct {
	Port             int    `env:"PORT,default=5000"`
	DatabaseURL      string `env:"DATABASE_URL"`
	DatabaseType     string `env:"DATABASE_TYPE,default=sqlite"`
	LogLevel         string `env:"LOG_LEVEL,default=info"`
	DefaultRollLimit int    `env:"ROLL_LIMIT_DEFAULT,default=10"`

	// Rollback reverts the latest migration and exits instead of serving
	Rollback bool
}

// ParseFlags reads .env and the environment, then lets CLI flags override them
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	if _, err := os.Stat(EnvFile); err == nil {
		if err := godotenv.Load(EnvFile); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", EnvFile, err)
		}
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	fs := flag.NewFlagSet("pixel-rolls", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL (file path for sqlite)")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.IntVar(&cfg.DefaultRollLimit, "roll-limit", cfg.DefaultRollLimit, "Rolls returned by GET /rolls/ without a count")
	fs.BoolVar(&cfg.Rollback, "rollback", false, "Roll back the latest migration and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return Config{}, err
	}
	cfg.DatabaseType = string(dialect)

	if cfg.DatabaseURL == "" {
		if dialect != db.SQLite {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultSQLitePath
	}

	if _, err := cfg.SlogLevel(); err != nil {
		return Config{}, err
	}

	if cfg.DefaultRollLimit < 0 {
		return Config{}, errors.New("roll limit must not be negative")
	}

	return cfg, nil
}

// Dialect returns the validated database dialect
func (c Config) Dialect() db.Dialect {
	return db.Dialect(c.DatabaseType)
}

// SlogLevel parses LogLevel
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}
