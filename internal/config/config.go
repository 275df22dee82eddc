// Package config loads runtime settings from the environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
)

// Config holds every setting the CLI reads from the environment. Flags
// override these where both exist.
type Config struct {
	// DBPath is the SQLite file; empty means ~/.pair-assessment/assessment.db.
	DBPath       string `env:"PAIR_ASSESSMENT_DB"`
	DatabaseURL  string `env:"DATABASE_URL"`
	AssessmentID string `env:"PAIR_ASSESSMENT_ID"`
	LogLevel     string `env:"PAIR_ASSESSMENT_LOG_LEVEL" envDefault:"warn"`
	QueueSize    int    `env:"PAIR_ASSESSMENT_QUEUE_SIZE" envDefault:"256"`
}

// Load parses the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SQLitePath resolves the database file, falling back to the home directory.
func (c *Config) SQLitePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pair-assessment", "assessment.db")
}

// UsePostgres reports whether a PostgreSQL URL is configured.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}
