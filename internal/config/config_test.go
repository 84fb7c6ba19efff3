package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadWithLookuper(envconfig.MapLookuper(map[string]string{
		"AUTH_SECRET": "0123456789abcdef",
	}))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "chemicals.db", cfg.DBDatabase)
	assert.Equal(t, 5, cfg.DBConnectionLimit)
	assert.Equal(t, 12*time.Hour, cfg.AuthTokenTTL)
	assert.Equal(t, "https://pubchem.ncbi.nlm.nih.gov", cfg.PubChemURL)
}

func TestLoadRequiresSecret(t *testing.T) {
	_, err := LoadWithLookuper(envconfig.MapLookuper(map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_SECRET")

	_, err = LoadWithLookuper(envconfig.MapLookuper(map[string]string{"AUTH_SECRET": "short"}))
	require.Error(t, err)
}

func TestLoadServerDatabaseRequiresUser(t *testing.T) {
	_, err := LoadWithLookuper(envconfig.MapLookuper(map[string]string{
		"AUTH_SECRET": "0123456789abcdef",
		"DB_TYPE":     "Postgres",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER")

	cfg, err := LoadWithLookuper(envconfig.MapLookuper(map[string]string{
		"AUTH_SECRET":         "0123456789abcdef",
		"DB_TYPE":             "Postgres",
		"DB_USER":             "chem",
		"DB_CONNECTION_LIMIT": "0",
	}))
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, 1, cfg.DBConnectionLimit)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CHEMTRACK_TEST_VALUE=from-file\n"), 0o600))

	require.NoError(t, loadEnvFile(path))
	t.Cleanup(func() { os.Unsetenv("CHEMTRACK_TEST_VALUE") })
	assert.Equal(t, "from-file", os.Getenv("CHEMTRACK_TEST_VALUE"))

	require.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
