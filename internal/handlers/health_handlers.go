package handlers

import (
	"net/http"

	"warehouse/internal/caching"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthHandlers reports process and dependency health
type HealthHandlers struct {
	pool     *pgxpool.Pool
	cacheSvc caching.CacheService
}

func NewHealthHandlers(pool *pgxpool.Pool, cacheSvc caching.CacheService) *HealthHandlers {
	return &HealthHandlers{pool: pool, cacheSvc: cacheSvc}
}

// Liveness handles GET /health/live
func (h *HealthHandlers) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /health/ready and verifies database and cache
// connectivity.
func (h *HealthHandlers) Readiness(c echo.Context) error {
	ctx := c.Request().Context()
	checks := map[string]string{
		"database": "ok",
		"cache":    "ok",
	}
	status := http.StatusOK

	if err := h.pool.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if h.cacheSvc != nil {
		if err := h.cacheSvc.Ping(ctx); err != nil {
			checks["cache"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	return c.JSON(status, checks)
}
