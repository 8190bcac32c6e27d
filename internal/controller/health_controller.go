package controller

import (
	"context"
	"time"

	"ai-twin-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck is one named dependency check. A nil error means healthy.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	checks []HealthCheck
}

func NewHealthController(checks ...HealthCheck) IHealthController {
	return &healthController{checks: checks}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/healthz", c.Health)
}

// Health reports each dependency. Degraded dependencies do not fail the check,
// the chat path tolerates them.
func (c *healthController) Health(ctx *fiber.Ctx) error {
	checkCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(c.checks))
	for _, hc := range c.checks {
		if err := hc.Check(checkCtx); err != nil {
			status[hc.Name] = "degraded: " + err.Error()
			continue
		}
		status[hc.Name] = "ok"
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", status))
}
