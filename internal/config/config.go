package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string `env:"PORT, default=3000"`

	// Database configuration
	DBType            string `env:"DB_TYPE, default=sqlite"` // sqlite, sqlite-pure, mysql, mariadb, postgres, sqlserver
	DBHost            string `env:"DB_HOST, default=localhost"`
	DBPort            string `env:"DB_PORT, default=3306"`
	DBDatabase        string `env:"DB_DATABASE, default=chemicals.db"`
	DBUser            string `env:"DB_USER"`
	DBPassword        string `env:"DB_PASSWORD"`
	DBConnectionLimit int    `env:"DB_CONNECTION_LIMIT, default=5"`
	DBLogLevel        string `env:"DB_LOG_LEVEL, default=warn"`

	// Logging configuration
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogFormat string `env:"LOG_FORMAT, default=json"`
	LogPath   string `env:"LOG_PATH"`

	// Token configuration
	AuthSecret   string        `env:"AUTH_SECRET"`
	AuthTokenTTL time.Duration `env:"AUTH_TOKEN_TTL, default=12h"`

	// PubChem compound lookup
	PubChemURL     string        `env:"PUBCHEM_URL, default=https://pubchem.ncbi.nlm.nih.gov"`
	PubChemTimeout time.Duration `env:"PUBCHEM_TIMEOUT, default=10s"`
}

// Load loads configuration from environment variables. When ENV_FILE is set
// (or a .env file exists in the working directory) it is loaded first without
// overriding variables already present in the environment.
func Load() (*Config, error) {
	if err := loadEnvFile(os.Getenv("ENV_FILE")); err != nil {
		return nil, err
	}
	return LoadWithLookuper(envconfig.OsLookuper())
}

// LoadWithLookuper resolves configuration from an arbitrary variable source.
func LoadWithLookuper(lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}

	cfg.DBType = strings.ToLower(cfg.DBType)

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if !isEmbedded(cfg.DBType) && cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required for %s", cfg.DBType)
	}
	if cfg.AuthSecret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required")
	}
	if len(cfg.AuthSecret) < 16 {
		return nil, fmt.Errorf("AUTH_SECRET must be at least 16 characters")
	}
	if cfg.AuthTokenTTL <= 0 {
		return nil, fmt.Errorf("AUTH_TOKEN_TTL must be positive")
	}
	if cfg.DBConnectionLimit < 1 {
		cfg.DBConnectionLimit = 1
	}

	return &cfg, nil
}

func isEmbedded(dbType string) bool {
	return dbType == "sqlite" || dbType == "sqlite-pure"
}

func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}
	return nil
}
