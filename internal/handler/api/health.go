package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

// TableInfo describes the loaded rate table.
type TableInfo interface {
	Source() string
	Len() int
}

// HealthCheck probes one dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler serves liveness.
type HealthHandler struct {
	table  TableInfo
	checks []HealthCheck
}

func NewHealthHandler(table TableInfo, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{table: table, checks: checks}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
}

// Health reports the rate table and any dependency probes. A failed probe
// turns the response into 503.
func (h *HealthHandler) Health(c echo.Context) error {
	body := map[string]interface{}{
		"status":      "ok",
		"rate_source": h.table.Source(),
		"products":    h.table.Len(),
	}
	if len(h.checks) == 0 {
		return c.JSON(http.StatusOK, body)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	code := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, hc := range h.checks {
		if err := hc.Check(ctx); err != nil {
			results[hc.Name] = err.Error()
			code = http.StatusServiceUnavailable
			body["status"] = "degraded"
			continue
		}
		results[hc.Name] = "ok"
	}
	body["checks"] = results
	return c.JSON(code, body)
}
