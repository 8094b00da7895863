package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pedidos-mostrador/logger"
)

// Pinger is satisfied by the database handle
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthController reports whether the service and its database are reachable
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Ping handles GET /ping
func (hc *HealthController) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Health handles GET /health
// Example response:
// {"status": "ok", "db_status": "ok", "time": "2026-10-14T12:00:00-05:00"}
func (hc *HealthController) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	response := map[string]string{
		"status":    "ok",
		"db_status": "ok",
		"time":      time.Now().Format(time.RFC3339),
	}
	if err := hc.db.PingContext(ctx); err != nil {
		logger.FromContext(ctx).Error("❌ Health: Database ping failed", zap.Error(err))
		response["status"] = "error"
		response["db_status"] = "error"
		return c.JSON(http.StatusServiceUnavailable, response)
	}
	return c.JSON(http.StatusOK, response)
}
