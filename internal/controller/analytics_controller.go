package controller

import (
	"ai-twin-be/internal/dto"
	"ai-twin-be/internal/pkg/serverutils"
	"ai-twin-be/internal/service"
	"ai-twin-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type IAnalyticsController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	GetAnalytics(ctx *fiber.Ctx) error
}

type analyticsController struct {
	service service.IAnalyticsService
}

func NewAnalyticsController(service service.IAnalyticsService) IAnalyticsController {
	return &analyticsController{service: service}
}

func (c *analyticsController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/analytics")
	h.Use(authMiddleware)
	h.Get("", c.GetAnalytics)
}

func (c *analyticsController) GetAnalytics(ctx *fiber.Ctx) error {
	var q dto.AnalyticsQuery
	if err := ctx.QueryParser(&q); err != nil {
		return apperror.Wrap(apperror.KindBadRequest, "Invalid query", err)
	}
	if err := serverutils.ValidateRequest(q); err != nil {
		return err
	}

	res, err := c.service.Summary(ctx.UserContext(), q.Limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Analytics", res))
}
