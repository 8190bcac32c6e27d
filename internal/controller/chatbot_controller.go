package controller

import (
	"bufio"

	"ai-twin-be/internal/dto"
	"ai-twin-be/internal/pkg/logger"
	"ai-twin-be/internal/pkg/serverutils"
	"ai-twin-be/internal/service"
	"ai-twin-be/pkg/apperror"
	"ai-twin-be/pkg/rag/orchestrator"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
	GetMoods(ctx *fiber.Ctx) error
}

type chatbotController struct {
	service service.IChatbotService
	logger  logger.ILogger
}

func NewChatbotController(service service.IChatbotService, log logger.ILogger) IChatbotController {
	return &chatbotController{service: service, logger: log}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("", c.Chat)
	h.Post("/clear", c.ClearSession)
	h.Get("/moods", c.GetMoods)
}

// Chat answers with a streamed text/plain body. Every outcome decided before
// the first token (rejection, decline, upstream failure) is answered as JSON.
func (c *chatbotController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindBadRequest, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	turn, res, err := c.service.PrepareChat(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	switch res.Status {
	case orchestrator.StatusRejected:
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.NewChatError(res.Kind, res.Message))
	case orchestrator.StatusDeclined:
		return ctx.Status(fiber.StatusOK).JSON(serverutils.NewChatError(res.Kind, res.Message))
	}

	stream, err := turn.Start(ctx.UserContext())
	if err != nil {
		return err
	}

	sessionId := req.SessionId
	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set("X-Twin-Mood", turn.Mood().ID)
	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		result, err := stream.WriteTo(func(s string) error {
			if _, err := w.WriteString(s); err != nil {
				return err
			}
			return w.Flush()
		})
		if err != nil {
			c.logger.Warn("CHATBOT", "Stream ended early", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
			return
		}
		c.logger.Info("CHATBOT", "Reply streamed", map[string]interface{}{
			"session_id":  sessionId,
			"mood":        result.Mood,
			"chunks_used": result.ChunksUsed,
			"truncated":   result.Truncated,
		})
	})
	return nil
}

func (c *chatbotController) ClearSession(ctx *fiber.Ctx) error {
	var req dto.ClearSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Wrap(apperror.KindBadRequest, "Invalid request body", err)
	}
	if req.SessionId == "" {
		return apperror.New(apperror.KindBadRequest, "Session ID is required")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.ClearSession(ctx.UserContext(), req.SessionId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Chat history cleared successfully", nil))
}

func (c *chatbotController) GetMoods(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Available moods", c.service.GetMoods(ctx.UserContext())))
}
