// Package config reads server settings from the environment, an optional
// .env file and command-line flags, in increasing order of precedence.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	Port         int
	CORSOrigins  []string
	MaxBodyBytes int64

	// Data
	DBPath      string // empty = in-memory store
	DataFile    string // seed for the default dataset; empty = bundled sample
	ColumnsFile string

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadDotEnv loads variables from the given .env files (default ".env").
// A missing file is not an error; existing variables are never overridden.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv builds a Config from environment variables with defaults.
func FromEnv() *Config {
	return &Config{
		Port:         getEnvInt("PORT", 8080),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080")),
		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		DBPath:       getEnv("DB_PATH", ""),
		DataFile:     getEnv("DATA_FILE", ""),
		ColumnsFile:  getEnv("COLUMNS_FILE", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
	}
}

// Load reads the environment and then applies command-line flags.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := FromEnv()

	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (empty for in-memory store, \":memory:\" for in-memory SQLite)")
	fs.StringVar(&cfg.DataFile, "data", cfg.DataFile, "JSON document seeding the default dataset")
	fs.StringVar(&cfg.ColumnsFile, "columns", cfg.ColumnsFile, "YAML file overriding column headers")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (json, console)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.Port < 1 || c.Port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Port))
	}
	if c.MaxBodyBytes <= 0 {
		errors = append(errors, fmt.Sprintf("invalid max body size %d: must be positive", c.MaxBodyBytes))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be json or console", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
