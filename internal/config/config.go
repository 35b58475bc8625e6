package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port               string `env:"PORT" envDefault:"8080"`
	DBURL              string `env:"DB_URL"`
	DBAutoMigrate      bool   `env:"DB_AUTO_MIGRATE" envDefault:"false"`
	DBMigrationsDir    string `env:"DB_MIGRATIONS_DIR" envDefault:"db/migrations"`
	CatalogURL         string `env:"CATALOG_URL" envDefault:"https://api.igdb.com/v4"`
	CatalogClientID    string `env:"CATALOG_CLIENT_ID"`
	CatalogAccessToken string `env:"CATALOG_ACCESS_TOKEN"`
	CatalogTimeoutSecs int    `env:"CATALOG_TIMEOUT_SECS" envDefault:"10"`
	ReadTimeoutSecs    int    `env:"SERVER_READ_TIMEOUT" envDefault:"15"`
	WriteTimeoutSecs   int    `env:"SERVER_WRITE_TIMEOUT" envDefault:"15"`
	IdleTimeoutSecs    int    `env:"SERVER_IDLE_TIMEOUT" envDefault:"60"`
	DBMaxConns         int    `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns         int    `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxIdleSecs      int    `env:"DB_MAX_CONN_IDLE_SECS" envDefault:"300"`
	DBMaxLifeSecs      int    `env:"DB_MAX_CONN_LIFETIME_SECS" envDefault:"3600"`
	DBConnTimeoutSecs  int    `env:"DB_CONN_TIMEOUT_SECS" envDefault:"10"`
	DBStatementCache   int    `env:"DB_STATEMENT_CACHE_CAPACITY" envDefault:"256"`
	SessionSecret      string `env:"SESSION_SECRET"`
	SessionMaxAgeSecs  int    `env:"SESSION_MAX_AGE_SECS" envDefault:"86400"`
	PasswordHashCost   int    `env:"PASSWORD_HASH_COST" envDefault:"10"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat          string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads configuration from environment variables, applying defaults and validation.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment win.
func Load() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required values and numeric ranges.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBURL) == "" {
		return fmt.Errorf("DB_URL is required")
	}
	if strings.TrimSpace(c.CatalogURL) == "" {
		return fmt.Errorf("CATALOG_URL is required")
	}
	if c.CatalogClientID == "" {
		return fmt.Errorf("CATALOG_CLIENT_ID is required")
	}
	if c.CatalogAccessToken == "" {
		return fmt.Errorf("CATALOG_ACCESS_TOKEN is required")
	}
	if c.CatalogTimeoutSecs <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT_SECS must be positive")
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if c.DBStatementCache < 0 {
		return fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	if c.SessionMaxAgeSecs <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE_SECS must be positive")
	}
	// bcrypt accepts costs in [4, 31].
	if c.PasswordHashCost < 4 || c.PasswordHashCost > 31 {
		return fmt.Errorf("PASSWORD_HASH_COST must be between 4 and 31")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}
	return nil
}
