package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/uscann/chemtrack/internal/config"
	"github.com/uscann/chemtrack/internal/utils"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	PubChem      string            `json:"pubchem"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck reports database and PubChem reachability. Only the database
// decides the overall status; an unreachable PubChem degrades compound lookup
// alone.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Warn("health check failed", zap.String("check", "database"), zap.Error(err))
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
		log.Warn("health check failed", zap.String("check", "database_ping"), zap.Error(err))
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	}

	if err := utils.PingService(ctx, cfg.PubChemURL, utils.PubChemPingTimeout); err != nil {
		result.PubChem = "unreachable"
		result.Details["pubchem_error"] = err.Error()
		log.Info("pubchem unreachable", zap.Error(err))
	} else {
		result.PubChem = "ok"
		result.Details["pubchem_url"] = cfg.PubChemURL
	}

	return result
}
