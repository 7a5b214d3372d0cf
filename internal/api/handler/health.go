package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is a dependency the readiness check can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves GET /health (liveness) and GET /health/ready (readiness).
type HealthHandler struct {
	deps    map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler builds the health checks. Nil dependencies are skipped, so a
// disabled Redis does not make the service unready.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	active := make(map[string]Pinger, len(deps))
	for name, p := range deps {
		if p != nil {
			active[name] = p
		}
	}
	return &HealthHandler{deps: active, timeout: 3 * time.Second}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness godoc
//
// @Summary  Liveness check
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness godoc
//
// @Summary  Readiness check
// @Tags     health
// @Produce  json
// @Success  200  {object}  readinessResponse
// @Failure  503  {object}  readinessResponse
// @Router   /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.deps))
	healthy := true
	for name, p := range h.deps {
		if err := p.Ping(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	return c.JSON(code, readinessResponse{Status: status, Dependencies: deps})
}
