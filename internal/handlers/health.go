package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/uscann/chemtrack/internal/config"
	"github.com/uscann/chemtrack/internal/services"
)

// HealthHandler reports service health
type HealthHandler struct {
	DB     *gorm.DB
	Config *config.Config
	Log    *zap.Logger
}

// Health handles GET /health
// @Summary Service health
// @Description 503 when the database is unreachable; PubChem reachability is reported but does not fail the check
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(c.UserContext(), h.Config, h.DB, h.Log)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
