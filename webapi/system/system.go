package system

import (
	"github.com/amirasaad/quickcurrency/pkg/metrics"
	"github.com/amirasaad/quickcurrency/pkg/service/conversion"
	"github.com/amirasaad/quickcurrency/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// HealthResponse reports liveness and cache size.
type HealthResponse struct {
	Status       string `json:"status"`
	CacheEntries int    `json:"cache_entries"`
	TTLMinutes   int    `json:"ttl_minutes"`
}

// Routes registers health, metrics and cache maintenance endpoints.
func Routes(app *fiber.App, svc *conversion.Service, m *metrics.Metrics) {
	app.Get("/health", Health(svc))
	app.Get("/cache/clear", ClearCache(svc))
	app.Get("/cache/stats", CacheStats(svc))
	app.Delete("/api/cache", ClearCache(svc))
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}
}

// Health returns a Fiber handler for the health check.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func Health(svc *conversion.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.CacheStats(c.UserContext())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Cache unavailable", err, fiber.StatusServiceUnavailable)
		}
		return c.JSON(HealthResponse{
			Status:       "ok",
			CacheEntries: stats.Entries,
			TTLMinutes:   svc.Settings().Current().CacheTTLMinutes,
		})
	}
}

// ClearCache returns a Fiber handler that drops every cached rate.
// @Summary Clear the rate cache
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} common.ProblemDetails
// @Router /api/cache [delete]
func ClearCache(svc *conversion.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.ClearCache(c.UserContext()); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to clear cache", err, fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"status": "cache cleared"})
	}
}

// CacheStats returns a Fiber handler listing the cached pairs.
// @Summary Cache statistics
// @Tags system
// @Produce json
// @Success 200 {object} cache.Stats
// @Router /cache/stats [get]
func CacheStats(svc *conversion.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.CacheStats(c.UserContext())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Cache unavailable", err, fiber.StatusServiceUnavailable)
		}
		return c.JSON(stats)
	}
}
