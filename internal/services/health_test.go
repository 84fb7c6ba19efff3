package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/uscann/chemtrack/internal/config"
	"github.com/uscann/chemtrack/internal/testutil"
)

func TestHealthCheck(t *testing.T) {
	db := testutil.NewTestDB(t)
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	cfg := &config.Config{DBType: "sqlite-pure", DBDatabase: ":memory:", PubChemURL: srv.URL}
	result := HealthCheck(context.Background(), cfg, db, zap.NewNop())

	assert.Equal(t, "healthy", result.Status)
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, "ok", result.PubChem)
	assert.Equal(t, "sqlite-pure", result.Details["database_type"])
	assert.Empty(t, result.ErrorMessage)
}

func TestHealthCheckPubChemDown(t *testing.T) {
	db := testutil.NewTestDB(t)
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	cfg := &config.Config{DBType: "sqlite-pure", DBDatabase: ":memory:", PubChemURL: url}
	result := HealthCheck(context.Background(), cfg, db, zap.NewNop())

	assert.Equal(t, "healthy", result.Status)
	assert.Equal(t, "unreachable", result.PubChem)
	assert.NotEmpty(t, result.Details["pubchem_error"])
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	db := testutil.NewTestDB(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	_ = sqlDB.Close()

	cfg := &config.Config{DBType: "sqlite-pure", PubChemURL: "http://127.0.0.1:1"}
	result := HealthCheck(context.Background(), cfg, db, zap.NewNop())

	assert.Equal(t, "unhealthy", result.Status)
	assert.Equal(t, "unreachable", result.Database)
	assert.Contains(t, result.ErrorMessage, "Database ping failed")
}
