package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/employer-api/internal/database"
	"github.com/deppfellow/employer-api/internal/middleware"
	"github.com/deppfellow/employer-api/internal/server"
	"github.com/labstack/echo/v4"
)

// healthCheckTimeout bounds the database ping of one /status request.
const healthCheckTimeout = 5 * time.Second

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type HealthResponse struct {
	Status      string                         `json:"status"`
	Timestamp   time.Time                      `json:"timestamp"`
	Environment string                         `json:"environment"`
	Database    string                         `json:"database"`
	Checks      map[string]database.PoolHealth `json:"checks"`
}

// CheckHealth pings the database pool and reports its statistics: 200 when
// the ping succeeds, 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	dbHealth := database.CheckPool(ctx, h.server.DB.Pool)

	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Database:    h.server.Config.Primary.Database,
		Checks:      map[string]database.PoolHealth{"database": dbHealth},
	}

	if !dbHealth.Healthy {
		response.Status = "unhealthy"

		logger.Error().
			Str("error", dbHealth.Error).
			Dur("response_time", dbHealth.ResponseTime).
			Msg("database health check failed")

		if app := h.server.LoggerService.GetApplication(); app != nil {
			app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
				"check_type":       "database",
				"operation":        "health_check",
				"error_type":       "database_unhealthy",
				"response_time_ms": dbHealth.ResponseTime.Milliseconds(),
				"error_message":    dbHealth.Error,
			})
		}

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Int32("acquired_conns", dbHealth.Acquired).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}
