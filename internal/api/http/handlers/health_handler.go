package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readinessProbeTimeout = 2 * time.Second

// DependencyChecker is anything whose availability gates readiness.
type DependencyChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes. Readiness walks the
// registered dependency checkers; liveness only reports process identity and
// uptime.
type HealthHandler struct {
	serviceName string
	version     string
	startedAt   time.Time
	checks      map[string]DependencyChecker
}

// NewHealthHandler builds a handler over the staff store and the OTP store.
func NewHealthHandler(serviceName, version string, staffStore, otpStore DependencyChecker) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		startedAt:   time.Now(),
		checks: map[string]DependencyChecker{
			"staff_store": staffStore,
			"otp_store":   otpStore,
		},
	}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Ready reports service readiness by pinging every registered dependency.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessProbeTimeout)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			depStatus[name] = err.Error()
			ready = false
			continue
		}
		depStatus[name] = "ok"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}
