// Package config loads the cashbook settings from an optional TOML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Store kinds.
const (
	StoreJSONL  = "jsonl"
	StoreSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	Store      string `toml:"store"`       // Store is "jsonl" or "sqlite".
	LedgerFile string `toml:"ledger_file"` // LedgerFile is the JSONL ledger path.
	SQLitePath string `toml:"sqlite_path"` // SQLitePath is the SQLite database path.
	Currency   string `toml:"currency"`    // Currency of new books, "" adopts the first record's.
	LogLevel   string `toml:"log_level"`
	LogFormat  string `toml:"log_format"` // LogFormat is "text" or "json".

	Watch Watch `toml:"watch"`
}

// Watch configures the periodic due scan.
type Watch struct {
	Schedule  string `toml:"schedule"`   // Schedule is a standard 5-field cron expression.
	AutoClaim bool   `toml:"auto_claim"` // AutoClaim commits due periods instead of only reporting them.
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Store:      StoreJSONL,
		LedgerFile: "cashbook.jsonl",
		SQLitePath: "cashbook.db",
		Currency:   "USD",
		LogLevel:   "info",
		LogFormat:  "text",
		Watch: Watch{
			Schedule: "0 8 * * *",
		},
	}
}

// Load reads path over the defaults, then applies the CASHBOOK_* environment
// variables. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		_, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config %q: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	c.Store = getEnv("CASHBOOK_STORE", c.Store)
	c.LedgerFile = getEnv("CASHBOOK_LEDGER_FILE", c.LedgerFile)
	c.SQLitePath = getEnv("CASHBOOK_SQLITE_PATH", c.SQLitePath)
	c.Currency = getEnv("CASHBOOK_CURRENCY", c.Currency)
	c.LogLevel = getEnv("CASHBOOK_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("CASHBOOK_LOG_FORMAT", c.LogFormat)
	c.Watch.Schedule = getEnv("CASHBOOK_WATCH_SCHEDULE", c.Watch.Schedule)
	if v, ok := os.LookupEnv("CASHBOOK_WATCH_AUTO_CLAIM"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CASHBOOK_WATCH_AUTO_CLAIM: %w", err)
		}
		c.Watch.AutoClaim = b
	}
	return nil
}

// Validate checks the values that can be checked without opening anything.
func (c Config) Validate() error {
	var errs error
	switch c.Store {
	case StoreJSONL, StoreSQLite:
	default:
		errs = errors.Join(errs, fmt.Errorf("unknown store %q, want %q or %q", c.Store, StoreJSONL, StoreSQLite))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = errors.Join(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = errors.Join(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if _, err := cron.ParseStandard(c.Watch.Schedule); err != nil {
		errs = errors.Join(errs, fmt.Errorf("invalid watch schedule %q: %w", c.Watch.Schedule, err))
	}
	return errs
}

// Logger builds the logger described by the configuration.
func (c Config) Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if strings.EqualFold(c.LogFormat, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
