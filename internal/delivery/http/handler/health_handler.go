package handler

import (
	"context"
	"time"

	"career-crafter/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks   map[string]Pinger
	optional map[string]bool
}

// NewHealthHandler registers checks; names listed in optional are reported but never fail
// readiness.
func NewHealthHandler(checks map[string]Pinger, optional ...string) *HealthHandler {
	opt := make(map[string]bool, len(optional))
	for _, name := range optional {
		opt[name] = true
	}
	return &HealthHandler{checks: checks, optional: opt}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/healthz", h.Live)
	r.Get("/readyz", h.Ready)
}

func (h *HealthHandler) Live(c fiber.Ctx) error {
	return response.OK(c, fiber.Map{"status": "ok"})
}

// Ready pings every dependency. A failed required check answers 503.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			results[name] = err.Error()
			if !h.optional[name] {
				status = fiber.StatusServiceUnavailable
			}
			continue
		}
		results[name] = "ok"
	}
	return response.Write(c, status, "", results)
}
