package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"contactuse/internal/logger"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// HealthHandler serves liveness and readiness.
type HealthHandler struct {
	log       *logger.Logger
	checks    map[string]Check
	startTime time.Time
}

// NewHealthHandler creates a handler; checks may be empty when the service
// runs without optional dependencies.
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	if checks == nil {
		checks = map[string]Check{}
	}
	return &HealthHandler{
		log:       logger.New("HealthCheck"),
		checks:    checks,
		startTime: time.Now(),
	}
}

// ComponentStatus holds the status of a dependent component
type ComponentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Readiness is the response of the readiness probe.
type Readiness struct {
	OverallStatus string                     `json:"overall_status"`
	Timestamp     string                     `json:"timestamp"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Components    map[string]ComponentStatus `json:"components"`
}

// HandleHealth is the liveness probe; it always answers while the process
// can serve HTTP.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "healthy"})
}

// HandleReady checks every registered component concurrently.
func (h *HealthHandler) HandleReady(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	statuses := make(map[string]ComponentStatus, len(h.checks))
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		allOk = true
	)
	for name, check := range h.checks {
		wg.Add(1)
		go func(name string, check Check) {
			defer wg.Done()
			status := ComponentStatus{Status: "ok"}
			if err := check(ctx); err != nil {
				status = ComponentStatus{Status: "error", Error: err.Error()}
				h.log.LogErrorf("Health check failed for %s: %v", name, err)
			}
			mu.Lock()
			defer mu.Unlock()
			statuses[name] = status
			if status.Status != "ok" {
				allOk = false
			}
		}(name, check)
	}
	wg.Wait()

	resp := Readiness{
		OverallStatus: "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Components:    statuses,
	}
	if !allOk {
		resp.OverallStatus = "error"
		return c.Status(http.StatusServiceUnavailable).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(resp)
}
