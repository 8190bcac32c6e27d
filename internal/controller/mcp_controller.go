package controller

import (
	"ai-twin-be/internal/mcpserver"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type IMcpController interface {
	RegisterRoutes(r fiber.Router)
}

type mcpController struct {
	handler fiber.Handler
}

func NewMcpController(s *mcpserver.Server) IMcpController {
	return &mcpController{handler: adaptor.HTTPHandler(s.HTTPHandler())}
}

// RegisterRoutes mounts the streamable HTTP transport at /mcp.
func (c *mcpController) RegisterRoutes(r fiber.Router) {
	r.All("/mcp", c.handler)
}
