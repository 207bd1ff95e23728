package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/go-todo/internal/middleware"
	"github.com/deppfellow/go-todo/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const defaultHealthCheckTimeout = 5 * time.Second

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type dependencyCheck struct {
	name string
	ping func(ctx context.Context) error
}

// checks lists the pings for the store that is actually open. The memory
// store has nothing to ping.
func (h *HealthHandler) checks() []dependencyCheck {
	var checks []dependencyCheck

	if h.server.DB != nil {
		checks = append(checks, dependencyCheck{name: "database", ping: h.server.DB.Pool.Ping})
	}
	if h.server.SQLite != nil {
		checks = append(checks, dependencyCheck{name: "sqlite", ping: h.server.SQLite.Ping})
	}
	if h.server.Redis != nil {
		checks = append(checks, dependencyCheck{name: "redis", ping: func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		}})
	}

	observability := h.server.Config.Observability
	if observability == nil {
		return checks
	}

	enabled := checks[:0]
	for _, check := range checks {
		if observability.HealthCheckEnabled(check.name) {
			enabled = append(enabled, check)
		}
	}
	return enabled
}

// CheckHealth pings the backing store and reports 200 when every enabled
// check passes, 503 otherwise.
//
//	{"status":"healthy","timestamp":"...","environment":"production","store":"postgres",
//	 "checks":{"database":{"status":"healthy","response_time":"1.2ms"}}}
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	timeout := defaultHealthCheckTimeout
	if h.server.Config.Observability != nil && h.server.Config.Observability.HealthChecks.Timeout > 0 {
		timeout = h.server.Config.Observability.HealthChecks.Timeout
	}

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"store":       h.server.Config.Store.Driver,
		"checks":      checks,
	}

	isHealthy := true
	for _, check := range h.checks() {
		result, ok := h.runCheck(c.Request().Context(), &logger, check, timeout)
		checks[check.name] = result
		isHealthy = isHealthy && ok
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthEvent(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) runCheck(
	ctx context.Context,
	logger *zerolog.Logger,
	check dependencyCheck,
	timeout time.Duration,
) (map[string]interface{}, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	checkStart := time.Now()
	err := check.ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", check.name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		h.recordHealthEvent(map[string]interface{}{
			"check_type":       check.name,
			"operation":        "health_check",
			"error_type":       check.name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return map[string]interface{}{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}, false
	}

	return map[string]interface{}{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}, true
}

func (h *HealthHandler) recordHealthEvent(attributes map[string]interface{}) {
	if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
		h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attributes)
	}
}
